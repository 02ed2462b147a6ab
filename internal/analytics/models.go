package analytics

// PlayerGameStats describes one player's finished game.
type PlayerGameStats struct {
	Name         string
	Score        int
	Rank         int
	Players      int
	Questions    int
	Correct      int
	Fastest      int // questions where this player was the fastest correct answer
	BestAnswerMs int64
}

type PlayerLifetimeStats struct {
	Name        string
	GamesPlayed int
	TotalScore  int
	BestGame    int
	WinCount    int
	WinStreak   int
	Badges      []Badge
}

type LeaderboardEntry struct {
	Name  string `json:"name"`
	Value int    `json:"value"`
	Rank  int    `json:"rank"`
}
