package scene

// Role is a player's permission level in a room.
type Role int

const (
	// RolePlayer is an ordinary participant.
	RolePlayer Role = iota
	// RoleDM is the privileged game master.
	RoleDM
)

// Player is a participant of the room.
type Player struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Location int    `json:"location"`
	Role     Role   `json:"role"`
}

// Location is a map of the room. The order of locations is shared.
type Location struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Note is a user-authored annotation.
type Note struct {
	UUID  string `json:"uuid"`
	Title string `json:"title"`
	Text  string `json:"text"`
}

// Default client option values.
const (
	DefaultGridColour  = "rgba(0, 0, 0, 1)"
	DefaultFOWColour   = "rgba(0, 0, 0, 1)"
	DefaultRulerColour = "rgba(255, 0, 0, 1)"
)

// ClientOptions is the display configuration of the current user.
type ClientOptions struct {
	GridColour  string  `json:"grid_colour"`
	FOWColour   string  `json:"fow_colour"`
	RulerColour string  `json:"ruler_colour"`
	InvertAlt   bool    `json:"invert_alt"`
	GridSize    float64 `json:"grid_size"`
}

// LocationOptions is the user's view of one location.
type LocationOptions struct {
	PanX        float64 `json:"pan_x"`
	PanY        float64 `json:"pan_y"`
	ZoomDisplay float64 `json:"zoom_display"`
}
