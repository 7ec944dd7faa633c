package dispatch

// Emitter sends a named event to the remote session.
//
// Emit must not block on network delivery and has no failure mode visible to
// the caller; transport problems are handled behind it.
type Emitter interface {
	Emit(event string, payload any)
}

// EmitterFunc adapts a plain function to the Emitter interface.
type EmitterFunc func(event string, payload any)

// Emit calls f(event, payload).
func (f EmitterFunc) Emit(event string, payload any) {
	f(event, payload)
}

// Bind returns a typed sender for one event name.
func Bind[T any](e Emitter, event string) func(T) {
	return func(payload T) {
		e.Emit(event, payload)
	}
}
