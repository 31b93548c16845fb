// internal/models/team.go
package models

// Team is one of the two sides of a match. Players take turns describing in the
// order they were registered.
type Team struct {
	Name               string   `json:"name"`
	Color              string   `json:"color"`
	Players            []string `json:"players"`
	Position           int      `json:"position"`
	CurrentPlayerIndex int      `json:"currentPlayerIndex"`
}

// CurrentPlayer returns the name of the player whose turn it is for this team,
// or "" if the team has no players.
func (t *Team) CurrentPlayer() string {
	if len(t.Players) == 0 {
		return ""
	}
	return t.Players[t.CurrentPlayerIndex%len(t.Players)]
}

// NextPlayer rotates to the next player of the team.
func (t *Team) NextPlayer() {
	if len(t.Players) == 0 {
		return
	}
	t.CurrentPlayerIndex = (t.CurrentPlayerIndex + 1) % len(t.Players)
}

// Move shifts the team along the track by moves, clamped to [0, trackLength].
// Returns the new position.
func (t *Team) Move(moves, trackLength int) int {
	pos := t.Position + moves
	if pos < 0 {
		pos = 0
	}
	if pos > trackLength {
		pos = trackLength
	}
	t.Position = pos
	return pos
}
