package model

// Stats summarises a roster
type Stats struct {
	PlayerCount int
	TotalPoints int
}

// ComputeStats recomputes the statistics from scratch
func ComputeStats(players []Player) Stats {
	total := 0
	for _, p := range players {
		total += p.Score
	}
	return Stats{
		PlayerCount: len(players),
		TotalPoints: total,
	}
}
