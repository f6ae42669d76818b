package model

// Roster is an ordered, immutable list of players. Insertion order is display
// order. Every mutating method returns a new Roster and leaves the receiver
// untouched, so a Roster can be shared freely between readers.
type Roster struct {
	players []Player
}

// NewRoster builds a roster from the given players, in order
func NewRoster(players ...Player) (Roster, error) {
	seen := make(map[PlayerID]bool, len(players))
	for _, p := range players {
		if seen[p.ID] {
			return Roster{}, ErrDuplicatePlayer
		}
		seen[p.ID] = true
	}
	cp := make([]Player, len(players))
	copy(cp, players)
	return Roster{players: cp}, nil
}

// Len returns the number of players
func (r Roster) Len() int {
	return len(r.players)
}

// Players returns a copy of the players in display order
func (r Roster) Players() []Player {
	cp := make([]Player, len(r.players))
	copy(cp, r.players)
	return cp
}

// At returns the player at the given position
func (r Roster) At(index int) (Player, error) {
	if !r.validIndex(index) {
		return Player{}, ErrIndexOutOfRange
	}
	return r.players[index], nil
}

// IndexOf returns the current position of the player, or -1
func (r Roster) IndexOf(id PlayerID) int {
	for i, p := range r.players {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the player with the given ID
func (r Roster) Get(id PlayerID) (Player, error) {
	idx := r.IndexOf(id)
	if idx < 0 {
		return Player{}, ErrPlayerNotFound
	}
	return r.players[idx], nil
}

// Append returns a roster with p added at the end
func (r Roster) Append(p Player) (Roster, error) {
	if r.IndexOf(p.ID) >= 0 {
		return r, ErrDuplicatePlayer
	}
	next := make([]Player, len(r.players), len(r.players)+1)
	copy(next, r.players)
	return Roster{players: append(next, p)}, nil
}

// ChangeScoreAt returns a roster where the player at index has delta added
// to their score
func (r Roster) ChangeScoreAt(index, delta int) (Roster, error) {
	if !r.validIndex(index) {
		return r, ErrIndexOutOfRange
	}
	next := r.Players()
	next[index].Score += delta
	return Roster{players: next}, nil
}

// ChangeScore is ChangeScoreAt addressed by player ID
func (r Roster) ChangeScore(id PlayerID, delta int) (Roster, error) {
	idx := r.IndexOf(id)
	if idx < 0 {
		return r, ErrPlayerNotFound
	}
	return r.ChangeScoreAt(idx, delta)
}

// RemoveAt returns a roster without the player at index. Later players move
// down one position.
func (r Roster) RemoveAt(index int) (Roster, error) {
	if !r.validIndex(index) {
		return r, ErrIndexOutOfRange
	}
	next := make([]Player, 0, len(r.players)-1)
	next = append(next, r.players[:index]...)
	next = append(next, r.players[index+1:]...)
	return Roster{players: next}, nil
}

// Remove is RemoveAt addressed by player ID
func (r Roster) Remove(id PlayerID) (Roster, Player, error) {
	idx := r.IndexOf(id)
	if idx < 0 {
		return r, Player{}, ErrPlayerNotFound
	}
	removed := r.players[idx]
	next, err := r.RemoveAt(idx)
	return next, removed, err
}

// Stats derives the summary statistics for this roster
func (r Roster) Stats() Stats {
	return ComputeStats(r.players)
}

func (r Roster) validIndex(index int) bool {
	return index >= 0 && index < len(r.players)
}
