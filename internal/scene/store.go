package scene

import (
	"github.com/hktrpg/PlanarAlly/internal/dispatch"
	"github.com/hktrpg/PlanarAlly/internal/geom"
	"github.com/hktrpg/PlanarAlly/internal/group"
	"github.com/hktrpg/PlanarAlly/internal/layers"
	"github.com/hktrpg/PlanarAlly/internal/shape"
	"github.com/hktrpg/PlanarAlly/internal/units"
)

// Logger defines the logging interface used by the Store.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// noopLogger is a logger that does nothing.
type noopLogger struct{}

func (noopLogger) Debug(string, ...any) {}
func (noopLogger) Info(string, ...any)  {}
func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Store is the scene state of one client.
//
// Not safe for concurrent use. See the package documentation.
type Store struct {
	layers   *layers.Manager
	dispatch *dispatch.Dispatcher
	groups   *group.Groups
	logger   Logger

	// session
	isDM             bool
	fakePlayer       bool
	isLocked         bool
	username         string
	roomName         string
	roomCreator      string
	invitationCode   string
	locationID       int
	boardInitialized bool
	showUI           bool

	view units.View

	gridColour  string
	fowColour   string
	rulerColour string
	invertAlt   bool

	locations []Location
	players   []Player
	assets    map[string]any

	notes       []Note
	markers     []string
	annotations []string

	ownedTokens  []string
	activeTokens []string

	clipboard         []shape.Descriptor
	clipboardPosition geom.GlobalPoint

	labels        map[string]*shape.Label
	labelFilters  []string
	filterNoLabel bool
}

// New creates a store over the given layers manager. Outgoing changes are
// sent through e.
func New(manager *layers.Manager, e dispatch.Emitter) *Store {
	d := dispatch.NewDispatcher(e)
	return &Store{
		layers:      manager,
		dispatch:    d,
		groups:      group.New(d),
		logger:      noopLogger{},
		showUI:      true,
		view:        units.NewView(),
		gridColour:  DefaultGridColour,
		fowColour:   DefaultFOWColour,
		rulerColour: DefaultRulerColour,
		assets:      make(map[string]any),
		labels:      make(map[string]*shape.Label),
	}
}

// SetLogger sets the logger for the store.
func (s *Store) SetLogger(logger Logger) {
	s.logger = logger
}

// Layers returns the floors and shapes of the active location.
func (s *Store) Layers() *layers.Manager { return s.layers }

// Dispatcher returns the outgoing message builder.
func (s *Store) Dispatcher() *dispatch.Dispatcher { return s.dispatch }

// Groups returns the shape grouping relation.
func (s *Store) Groups() *group.Groups { return s.groups }

// IsDM reports whether the local user holds the privileged role.
func (s *Store) IsDM() bool { return s.isDM }

// SetDM sets the privileged role. Visibility depends on it, so every floor
// is redrawn.
func (s *Store) SetDM(isDM bool) {
	s.isDM = isDM
	s.layers.InvalidateAllFloors()
}

// FakePlayer reports whether a DM is previewing the board as a player.
func (s *Store) FakePlayer() bool { return s.fakePlayer }

// SetFakePlayer toggles the player preview. It flips the DM role accordingly.
func (s *Store) SetFakePlayer(fake bool) {
	s.fakePlayer = fake
	s.isDM = !fake
	s.layers.InvalidateAllFloors()
}

// Username returns the local user's name.
func (s *Store) Username() string { return s.username }

// SetUsername sets the local user's name.
func (s *Store) SetUsername(name string) { s.username = name }

// RoomName returns the room name.
func (s *Store) RoomName() string { return s.roomName }

// SetRoomName sets the room name.
func (s *Store) SetRoomName(name string) { s.roomName = name }

// RoomCreator returns the name of the room's creator.
func (s *Store) RoomCreator() string { return s.roomCreator }

// SetRoomCreator sets the name of the room's creator.
func (s *Store) SetRoomCreator(name string) { s.roomCreator = name }

// InvitationCode returns the room invitation code.
func (s *Store) InvitationCode() string { return s.invitationCode }

// SetInvitationCode sets the room invitation code.
func (s *Store) SetInvitationCode(code string) { s.invitationCode = code }

// LocationID returns the id of the active location.
func (s *Store) LocationID() int { return s.locationID }

// SetLocationID sets the id of the active location.
func (s *Store) SetLocationID(id int) { s.locationID = id }

// BoardInitialized reports whether the initial board has been received.
func (s *Store) BoardInitialized() bool { return s.boardInitialized }

// SetBoardInitialized marks the initial board as received.
func (s *Store) SetBoardInitialized(initialized bool) { s.boardInitialized = initialized }

// ShowUI reports whether the UI chrome is visible.
func (s *Store) ShowUI() bool { return s.showUI }

// ToggleUI flips UI chrome visibility.
func (s *Store) ToggleUI() { s.showUI = !s.showUI }

// SetAssets replaces the asset listing. The store does not interpret it.
func (s *Store) SetAssets(assets map[string]any) { s.assets = assets }

// Assets returns the asset listing.
func (s *Store) Assets() map[string]any { return s.assets }
