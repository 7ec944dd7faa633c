package scene

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

func TestRunner_SerialisesMutations(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewRunner(s)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- r.Run(ctx) }()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.Do(context.Background(), func(s *Store) { s.IncreasePanX(1) }); err != nil {
				t.Errorf("Do() error = %v", err)
			}
		}()
	}
	wg.Wait()

	var panX float64
	if err := r.Do(context.Background(), func(s *Store) { panX = s.View().PanX }); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if panX != 100 {
		t.Errorf("PanX = %v, want 100", panX)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRunner_DoAfterStop(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewRunner(s)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = r.Run(ctx)
		close(done)
	}()
	cancel()
	<-done

	err := r.Do(context.Background(), func(*Store) { t.Error("mutation ran after stop") })
	if !errors.Is(err, ErrRunnerStopped) {
		t.Errorf("Do() error = %v, want ErrRunnerStopped", err)
	}
}

func TestRunner_DoRespectsContext(t *testing.T) {
	s, _ := newTestStore(t)
	r := NewRunner(s) // never started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	if err := r.Do(ctx, func(*Store) {}); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Do() error = %v, want DeadlineExceeded", err)
	}
}
