package analytics

type BadgeID string

const (
	BadgeFlawless    BadgeID = "flawless"
	BadgeQuickDraw   BadgeID = "quick_draw"
	BadgeLightning   BadgeID = "lightning"
	BadgeCenturion   BadgeID = "centurion"
	BadgeChampion    BadgeID = "champion"
	BadgeUnstoppable BadgeID = "unstoppable"
	BadgeVeteran     BadgeID = "veteran"
)

type Badge struct {
	ID          BadgeID `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
}

var AllBadges = map[BadgeID]Badge{
	BadgeFlawless:    {ID: BadgeFlawless, Name: "Flawless", Description: "Every question answered correctly"},
	BadgeQuickDraw:   {ID: BadgeQuickDraw, Name: "Quick Draw", Description: "Fastest correct answer on 3+ questions"},
	BadgeLightning:   {ID: BadgeLightning, Name: "Lightning", Description: "A correct answer in under a second"},
	BadgeCenturion:   {ID: BadgeCenturion, Name: "Centurion", Description: "100+ points in a single game"},
	BadgeChampion:    {ID: BadgeChampion, Name: "Champion", Description: "Won a game against at least one opponent"},
	BadgeUnstoppable: {ID: BadgeUnstoppable, Name: "Unstoppable", Description: "3-game win streak"},
	BadgeVeteran:     {ID: BadgeVeteran, Name: "Veteran", Description: "Played 10+ games"},
}

// EvaluateGameBadges checks which badges a player earned in a single game.
func EvaluateGameBadges(stats PlayerGameStats) []Badge {
	var earned []Badge

	if stats.Questions > 0 && stats.Correct == stats.Questions {
		earned = append(earned, AllBadges[BadgeFlawless])
	}

	if stats.Fastest >= 3 {
		earned = append(earned, AllBadges[BadgeQuickDraw])
	}

	if stats.Correct > 0 && stats.BestAnswerMs < 1000 {
		earned = append(earned, AllBadges[BadgeLightning])
	}

	if stats.Score >= 100 {
		earned = append(earned, AllBadges[BadgeCenturion])
	}

	if stats.Rank == 1 && stats.Players > 1 && stats.Score > 0 {
		earned = append(earned, AllBadges[BadgeChampion])
	}

	return earned
}

// EvaluateLifetimeBadges checks badges earned across games.
func EvaluateLifetimeBadges(stats PlayerLifetimeStats) []Badge {
	var earned []Badge

	if stats.WinStreak >= 3 {
		earned = append(earned, AllBadges[BadgeUnstoppable])
	}

	if stats.GamesPlayed >= 10 {
		earned = append(earned, AllBadges[BadgeVeteran])
	}

	return earned
}

func BadgeIDs(badges []Badge) []string {
	ids := make([]string, 0, len(badges))
	for _, b := range badges {
		ids = append(ids, string(b.ID))
	}
	return ids
}
