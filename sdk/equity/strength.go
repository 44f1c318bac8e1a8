package equity

import (
	"fmt"

	"github.com/lox/pushfold/poker"
)

// HandStrength is the made hand for hole cards on a board.
type HandStrength struct {
	Score Score  `json:"score"`
	Class string `json:"class"`
}

// Strength scores hole on a board of three to five cards.
func Strength(eval HandEvaluator, hole [2]poker.Card, board []poker.Card) (HandStrength, error) {
	if len(board) < 3 || len(board) > 5 {
		return HandStrength{}, fmt.Errorf("%w: need 3-5 board cards, got %d", ErrInvalidInput, len(board))
	}
	all := append([]poker.Card{hole[0], hole[1]}, board...)
	if c, ok := poker.Distinct(all...); !ok {
		return HandStrength{}, fmt.Errorf("%w: duplicate or invalid card %s", ErrInvalidInput, c)
	}
	score, err := eval.Evaluate(hole, board)
	if err != nil {
		return HandStrength{}, err
	}
	return HandStrength{Score: score, Class: eval.RankClassName(score)}, nil
}
