package searcher

import "errors"

var (
	ErrInvalidBudget   = errors.New("simulation budget must be positive")
	ErrGameOver        = errors.New("no decision possible: game is over")
	ErrRandomRoot      = errors.New("no decision possible: root is a random step")
	ErrAlreadyExpanded = errors.New("node already expanded")
	ErrNoActions       = errors.New("non-terminal state has no legal actions")
	ErrNoOutcomes      = errors.New("random step has no possible outcomes")
	ErrMissingScores   = errors.New("terminal state has no scores")
	ErrScoreCount      = errors.New("score count does not match player count")
)
