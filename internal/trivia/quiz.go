package trivia

import (
	"fmt"
	"math/rand/v2"
)

// DefaultWarnThreshold is the eligible pool size below which a quiz cannot be finished.
const DefaultWarnThreshold = 5

// Picker returns a uniformly distributed index in [0, n).
type Picker func(n int) int

// Selection is the outcome of a quiz draw.
type Selection struct {
	Question  Question
	Available int
	Warning   string
}

// SelectQuizQuestion draws one question from pool that is not in previous.
// It fails with ErrNoQuestionsAvailable when nothing is left to draw.
func SelectQuizQuestion(pool []Question, previous []int64, threshold int, pick Picker) (Selection, error) {
	seen := make(map[int64]struct{}, len(previous))
	for _, id := range previous {
		seen[id] = struct{}{}
	}

	available := make([]Question, 0, len(pool))
	for _, q := range pool {
		if _, ok := seen[q.ID]; !ok {
			available = append(available, q)
		}
	}

	if len(available) == 0 {
		return Selection{}, ErrNoQuestionsAvailable
	}
	if pick == nil {
		pick = rand.IntN
	}

	sel := Selection{
		Question:  available[pick(len(available))],
		Available: len(available),
	}
	if len(available) < threshold {
		sel.Warning = lowPoolWarning(threshold)
	}
	return sel, nil
}

func lowPoolWarning(threshold int) string {
	return fmt.Sprintf("Warning: Available questions are not up to %d. You cannot finish the quiz!", threshold)
}
