package experiments

import (
	"errors"
	"fmt"
	"mcts/engine"
	"mcts/experiments/metrics"
	"mcts/game"
	"mcts/searcher"
	"mcts/searcher/agent"

	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
	"golang.org/x/sync/errgroup"
)

// Setup describes one experiment: every matchup plays NumGames games. Games are
// independent, up to Parallel of them run at once, each with single-threaded
// searches.
type Setup struct {
	Name     string
	Dir      string
	Configs  []metrics.AgentConfig
	Matchups [][2]metrics.AgentConfig
	NumGames int
	Parallel int
	NewState func() game.State
}

type Results struct {
	Games   []metrics.GameRecord
	Moves   []metrics.MoveRecord
	Summary []metrics.MatchupResult
	Dir     string
}

// RunBudgetExperiment pits searches of growing budgets against a random baseline.
func RunBudgetExperiment(dir string, budgets []int, numGames, parallel int, newState func() game.State) (Results, error) {
	baseline := metrics.AgentConfig{ID: 0, Kind: "random", Seed: 1}
	configs := []metrics.AgentConfig{baseline}
	matchups := [][2]metrics.AgentConfig{}
	for i, budget := range budgets {
		config := metrics.AgentConfig{ID: i + 1, Kind: "mcts", Simulations: budget, Exploration: searcher.CSquared, Seed: uint64(i + 1)}
		configs = append(configs, config)
		matchups = append(matchups, [2]metrics.AgentConfig{config, baseline})
	}

	return Run(Setup{
		Name:     "budget",
		Dir:      dir,
		Configs:  configs,
		Matchups: matchups,
		NumGames: numGames,
		Parallel: parallel,
		NewState: newState,
	})
}

func Run(setup Setup) (Results, error) {
	if setup.NumGames <= 0 || len(setup.Matchups) == 0 {
		return Results{}, errors.New("experiment needs at least one matchup and one game")
	}
	if setup.Parallel <= 0 {
		setup.Parallel = 1
	}

	log.Info().Msgf("starting %s experiment...", setup.Name)

	// One slot per game so workers never share a record
	total := len(setup.Matchups) * setup.NumGames
	games := make([]metrics.GameRecord, total)
	moves := make([][]metrics.MoveRecord, total)

	var g errgroup.Group
	g.SetLimit(setup.Parallel)
	for mi, matchup := range setup.Matchups {
		log.Info().Msgf("starting matchup %d of %d between agent1=%+v and agent2=%+v...", mi+1, len(setup.Matchups), matchup[0], matchup[1])

		for i := 0; i < setup.NumGames; i++ {
			id := mi*setup.NumGames + i + 1
			seed := uint64(id)
			g.Go(func() error {
				_, gameMetric, moveMetrics, err := runGame(matchup, setup.NewState(), seed)
				if err != nil {
					return fmt.Errorf("game %d of matchup %d: %w", i+1, mi+1, err)
				}
				games[id-1] = metrics.GameRecord{
					ID:         id,
					Agent1:     matchup[0].ID,
					Agent2:     matchup[1].ID,
					GameMetric: gameMetric,
				}
				for _, mm := range moveMetrics {
					moves[id-1] = append(moves[id-1], metrics.MoveRecord{Game: id, MoveMetric: mm})
				}
				log.Info().Msgf("completed matchup %d game %d with winner: %d", mi+1, i+1, gameMetric.Winner)
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return Results{}, err
	}

	log.Info().Msgf("completed %s experiment", setup.Name)

	results := Results{Games: games, Summary: metrics.Tally(games)}
	for _, gameMoves := range moves {
		results.Moves = append(results.Moves, gameMoves...)
	}

	if setup.Dir == "" {
		return results, nil
	}
	dir, err := store(setup, results)
	if err != nil {
		return results, err
	}
	results.Dir = dir
	return results, nil
}

func store(setup Setup, results Results) (string, error) {
	writer, err := metrics.NewWriter(setup.Dir, setup.Name)
	if err != nil {
		return "", fmt.Errorf("failed to create experiment writer: %w", err)
	}

	if err := writer.WriteAgentConfigs(setup.Configs); err != nil {
		return "", fmt.Errorf("failed to store agent configs: %w", err)
	}
	log.Info().Msg("stored agent configs")

	if err := writer.WriteGameRecords(results.Games); err != nil {
		return "", fmt.Errorf("failed to write game records: %w", err)
	}
	log.Info().Msg("stored game records")

	if err := writer.WriteMoveRecords(results.Moves); err != nil {
		return "", fmt.Errorf("failed to write move records: %w", err)
	}
	log.Info().Msg("stored move records")

	if err := writer.WriteChart(setup.Name, results.Summary); err != nil {
		return "", fmt.Errorf("failed to write chart: %w", err)
	}
	log.Info().Msg("stored results chart")

	return writer.Dir(), nil
}

// runGame executes a single game between two agents
func runGame(matchup [2]metrics.AgentConfig, state game.State, seed uint64) ([]float64, metrics.GameMetric, []metrics.MoveMetric, error) {
	rng := rand.New(rand.NewSource(seed))
	agents := []agent.Agent{
		createAgent(matchup[0], seed, rng),
		createAgent(matchup[1], seed, rng),
	}
	e, err := engine.LocalEngine(state, agents, rng)
	if err != nil {
		return nil, metrics.GameMetric{}, nil, err
	}
	return e.Run()
}

func createAgent(config metrics.AgentConfig, seed uint64, rng game.Rand) agent.Agent {
	if config.Kind == "random" {
		return agent.NewRandomAgent(rng)
	}

	options := []searcher.Option{searcher.WithMetrics()}
	if config.Seed != 0 {
		// Distinct per game, reproducible per experiment
		options = append(options, searcher.WithRand(rand.New(rand.NewSource(config.Seed*1_000_003+seed))))
	}
	if config.Exploration > 0 {
		options = append(options, searcher.WithExploration(config.Exploration))
	}
	return agent.NewEvaluationAgent(config.Simulations, options...)
}
