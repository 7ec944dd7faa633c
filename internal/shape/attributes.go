package shape

// Label is a user-defined tag that can be attached to any number of shapes.
type Label struct {
	UUID     string `json:"uuid"`
	User     string `json:"user"`
	Category string `json:"category"`
	Name     string `json:"name"`
	Visible  bool   `json:"visible"`
}

// Tracker is a numeric counter shown on a shape (hit points, charges).
type Tracker struct {
	UUID     string  `json:"uuid"`
	Name     string  `json:"name"`
	Value    float64 `json:"value"`
	MaxValue float64 `json:"maxvalue"`
	Visible  bool    `json:"visible"`
}

// Aura is a radius around a shape, optionally acting as a light source.
type Aura struct {
	UUID        string  `json:"uuid"`
	Name        string  `json:"name"`
	Value       float64 `json:"value"`
	Dim         float64 `json:"dim"`
	LightSource bool    `json:"light_source"`
	Visible     bool    `json:"visible"`
	Colour      string  `json:"colour"`
}

// AttributeKind distinguishes trackers from auras in tracker updates.
type AttributeKind string

const (
	AttributeTracker AttributeKind = "tracker"
	AttributeAura    AttributeKind = "aura"
)

// SetAttributeValue updates the tracker or aura identified by uuid and
// reports whether one was found.
func (s *Shape) SetAttributeValue(kind AttributeKind, uuid string, value float64) bool {
	switch kind {
	case AttributeTracker:
		for i := range s.Trackers {
			if s.Trackers[i].UUID == uuid {
				s.Trackers[i].Value = value
				return true
			}
		}
	case AttributeAura:
		for i := range s.Auras {
			if s.Auras[i].UUID == uuid {
				s.Auras[i].Value = value
				return true
			}
		}
	}
	return false
}
