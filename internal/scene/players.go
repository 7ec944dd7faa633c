package scene

import "slices"

// OwnedTokens returns the uuids of shapes the user owns.
func (s *Store) OwnedTokens() []string { return slices.Clone(s.ownedTokens) }

// SetOwnedTokens replaces the owned token list.
func (s *Store) SetOwnedTokens(tokens []string) {
	s.ownedTokens = slices.Clone(tokens)
	s.layers.InvalidateLightAllFloors()
}

// ActiveTokens returns the tokens whose vision is shown. An empty override
// means every owned token is active.
func (s *Store) ActiveTokens() []string {
	if len(s.activeTokens) == 0 {
		return slices.Clone(s.ownedTokens)
	}
	return slices.Clone(s.activeTokens)
}

// SetActiveTokens replaces the active token override.
func (s *Store) SetActiveTokens(tokens []string) {
	s.activeTokens = slices.Clone(tokens)
	s.layers.InvalidateLightAllFloors()
}

// AddActiveToken appends to the active token override.
func (s *Store) AddActiveToken(token string) {
	s.activeTokens = append(s.activeTokens, token)
	s.layers.InvalidateLightAllFloors()
}

// RemoveActiveToken drops one token from the active set. With an empty
// override the owned tokens are copied in first, so the other owned tokens
// stay active.
func (s *Store) RemoveActiveToken(token string) {
	if len(s.activeTokens) == 0 {
		s.activeTokens = slices.Clone(s.ownedTokens)
	}
	if i := slices.Index(s.activeTokens, token); i >= 0 {
		s.activeTokens = slices.Delete(s.activeTokens, i, i+1)
	}
	s.layers.InvalidateLightAllFloors()
}

// Players returns the room's players.
func (s *Store) Players() []Player { return slices.Clone(s.players) }

// SetPlayers replaces the player list.
func (s *Store) SetPlayers(players []Player) { s.players = slices.Clone(players) }

// AddPlayer appends a player.
func (s *Store) AddPlayer(p Player) { s.players = append(s.players, p) }

// UpdatePlayer moves every player called name to location. Players are
// matched by name, so duplicate names all move.
func (s *Store) UpdatePlayer(name string, location int) {
	for i := range s.players {
		if s.players[i].Name == name {
			s.players[i].Location = location
		}
	}
}

// KickPlayer asks the server to remove a player and drops it locally.
func (s *Store) KickPlayer(id int) {
	s.dispatch.KickPlayer(id)
	s.RemovePlayer(id)
}

// RemovePlayer drops a player without notifying the server.
func (s *Store) RemovePlayer(id int) {
	s.players = slices.DeleteFunc(s.players, func(p Player) bool { return p.ID == id })
}

// IsLocked reports whether the room is locked.
func (s *Store) IsLocked() bool { return s.isLocked }

// SetIsLocked locks or unlocks the room.
func (s *Store) SetIsLocked(locked, sync bool) {
	s.isLocked = locked
	if sync {
		s.dispatch.RoomLock(locked)
	}
}

// Clear resets the per-session state on teardown.
func (s *Store) Clear() {
	s.ownedTokens = nil
	s.annotations = nil
	s.notes = nil
	s.markers = nil
	s.boardInitialized = false
}
