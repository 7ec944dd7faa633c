package dispatch

import (
	"encoding/json"
	"fmt"
)

// Commit distinguishes live previews from the authoritative end of an edit.
type Commit int

const (
	// Final marks the message that peers persist.
	Final Commit = iota
	// Temporary marks an in-progress echo that peers only render.
	Temporary
)

// IsTemporary reports whether c is a preview.
func (c Commit) IsTemporary() bool {
	return c == Temporary
}

// String returns the commit level name.
func (c Commit) String() string {
	switch c {
	case Final:
		return "final"
	case Temporary:
		return "temporary"
	default:
		return fmt.Sprintf("Commit(%d)", int(c))
	}
}

// MarshalJSON encodes the commit level as the wire's temporary flag.
func (c Commit) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.IsTemporary())
}

// UnmarshalJSON decodes the wire's temporary flag.
func (c *Commit) UnmarshalJSON(data []byte) error {
	var temporary bool
	if err := json.Unmarshal(data, &temporary); err != nil {
		return fmt.Errorf("dispatch: decoding temporary flag: %w", err)
	}
	*c = CommitFromTemporary(temporary)
	return nil
}

// CommitFromTemporary converts a wire flag into a Commit.
func CommitFromTemporary(temporary bool) Commit {
	if temporary {
		return Temporary
	}
	return Final
}
