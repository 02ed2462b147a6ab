package quiz

import "sort"

const (
	BasePoints = 10
	// LateBonus is the bonus for every correct answer after the podium.
	LateBonus = 3
)

// SpeedBonus holds the bonus for the first, second and third fastest
// correct answers.
var SpeedBonus = [...]int{10, 7, 5}

type Answer struct {
	PlayerID  string
	Correct   bool
	ElapsedMs int64
}

// Award is what a single correct answer earned.
type Award struct {
	Rank  int // 1-based among correct answers
	Bonus int
	Total int
}

// Score ranks the correct answers by response time and returns what each
// player earned. Players with wrong answers are absent from the map.
// Equal times keep submission order.
func Score(answers []Answer) map[string]Award {
	correct := make([]Answer, 0, len(answers))
	for _, a := range answers {
		if a.Correct {
			correct = append(correct, a)
		}
	}
	sort.SliceStable(correct, func(i, j int) bool {
		return correct[i].ElapsedMs < correct[j].ElapsedMs
	})

	awards := make(map[string]Award, len(correct))
	for i, a := range correct {
		bonus := LateBonus
		if i < len(SpeedBonus) {
			bonus = SpeedBonus[i]
		}
		awards[a.PlayerID] = Award{Rank: i + 1, Bonus: bonus, Total: BasePoints + bonus}
	}
	return awards
}
