package engine

import (
	"errors"
	"fmt"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/meta"
	"mcts/searcher/agent"
	"mcts/utils"
	"time"

	"github.com/rs/zerolog/log"
)

var ErrMaxMoves = errors.New("game abandoned after max moves")

var _ Runner = (*Engine)(nil)

// Engine plays one game locally, one agent per player.
type Engine struct {
	State    game.State
	Agents   []agent.Agent
	MaxMoves int
	rng      game.Rand
}

// LocalEngine returns an engine for state. Chance events are resolved with rng.
func LocalEngine(state game.State, agents []agent.Agent, rng game.Rand) (*Engine, error) {
	if len(agents) != state.PlayerCount() {
		return nil, fmt.Errorf("number of agents %d does not match number of players %d", len(agents), state.PlayerCount())
	}
	return &Engine{
		State:    state,
		Agents:   agents,
		MaxMoves: meta.MAX_MOVES,
		rng:      rng,
	}, nil
}

// Run executes the entire game loop until the game is over.
func (e *Engine) Run() ([]float64, metrics.GameMetric, []metrics.MoveMetric, error) {
	gameMetric := metrics.GameMetric{StartTime: time.Now(), Winner: -1}
	gameMetric.StartingPlayer, _ = e.State.ActivePlayer()
	var moveMetrics []metrics.MoveMetric

	log.Info().Msgf("player %d is starting", gameMetric.StartingPlayer)

	step := 0
	for !e.State.IsOver() {
		if step >= e.MaxMoves {
			return nil, e.complete(gameMetric, step), moveMetrics, ErrMaxMoves
		}

		if e.State.IsRandomStep() {
			e.State.MakeRandomStep(e.rng)
			continue
		}

		player, _ := e.State.ActivePlayer()
		action, searchMetric, err := e.Agents[player].FindMove(e.State)
		if err != nil {
			return nil, e.complete(gameMetric, step), moveMetrics, fmt.Errorf("player %d at step %d: %w", player, step+1, err)
		}

		e.State.CacheActions()
		moves := e.State.Actions()
		if action < 0 || action >= len(moves) {
			return nil, e.complete(gameMetric, step), moveMetrics, fmt.Errorf("player %d chose action %d: %w", player, action, game.ErrActionOutOfRange)
		}
		move := moves[action]
		if err := e.State.MakeAction(action); err != nil {
			return nil, e.complete(gameMetric, step), moveMetrics, fmt.Errorf("player %d playing %s: %w", player, move, err)
		}
		step++

		log.Info().Msgf("player %d played %s", player, move)
		moveMetrics = append(moveMetrics, metrics.MoveMetric{
			Step:         step,
			Player:       player,
			Action:       move.String(),
			SearchMetric: searchMetric,
		})
	}

	scores, _ := e.State.Scores()
	gameMetric = e.complete(gameMetric, step)
	gameMetric.Scores = scores
	gameMetric.Winner = winner(scores)

	if gameMetric.Winner >= 0 {
		log.Info().Msgf("game over after %d moves, player %d won", step, gameMetric.Winner)
	} else {
		log.Info().Msgf("game over after %d moves, draw", step)
	}
	return scores, gameMetric, moveMetrics, nil
}

func (e *Engine) complete(gameMetric metrics.GameMetric, moves int) metrics.GameMetric {
	gameMetric.EndTime = time.Now()
	gameMetric.Duration = gameMetric.EndTime.Sub(gameMetric.StartTime)
	gameMetric.TotalMoves = moves
	return gameMetric
}

// winner returns the single best scoring player, or -1 when the best score is shared.
func winner(scores []float64) int {
	best := utils.ArgMax(scores)
	if best < 0 {
		return -1
	}
	for i, score := range scores {
		if i != best && score == scores[best] {
			return -1
		}
	}
	return best
}
