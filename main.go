package main

import (
	"flag"
	"fmt"
	"mcts/engine"
	"mcts/experiments"
	"mcts/game"
	"mcts/game/pig"
	"mcts/game/tictactoe"
	"mcts/meta"
	"mcts/searcher"
	"mcts/searcher/agent"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/exp/rand"
)

func main() {
	gameName := flag.String("game", "tictactoe", "Game to play: tictactoe or pig")
	simulations := flag.Int("simulations", meta.SIMULATIONS, "Number of simulations per move")
	seed := flag.Uint64("seed", meta.SEED, "Seed for reproducible play, 0 for unseeded")
	experiment := flag.String("experiment", "", "Run an experiment instead of a single game: budget")
	budgets := flag.String("budgets", "10,50,200", "Comma separated budgets for the budget experiment")
	numGames := flag.Int("games", meta.NUM_GAMES, "Number of games per experiment matchup")
	parallel := flag.Int("parallel", meta.PARALLEL_GAMES, "Number of experiment games played at the same time")
	out := flag.String("out", "experiments", "Directory for experiment results")
	debug := flag.Bool("debug", false, "Log every search")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if *debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	newState, err := stateFactory(*gameName)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid game")
	}

	if *experiment != "" {
		runExperiment(*experiment, *budgets, *numGames, *parallel, *out, newState)
		return
	}
	playSelf(newState(), *simulations, *seed)
}

func stateFactory(name string) (func() game.State, error) {
	switch name {
	case "tictactoe":
		return func() game.State { return tictactoe.New() }, nil
	case "pig":
		return func() game.State { return pig.New(meta.PIG_TARGET) }, nil
	default:
		return nil, fmt.Errorf("unknown game %q", name)
	}
}

// playSelf lets the searcher play every side of one game.
func playSelf(state game.State, simulations int, seed uint64) {
	source := seed
	if source == 0 {
		source = uint64(time.Now().UnixNano())
	}
	var rng game.Rand = rand.New(rand.NewSource(source))
	options := []searcher.Option{searcher.WithMetrics()}
	if seed != 0 {
		options = append(options, searcher.WithRand(rng))
	}

	agents := make([]agent.Agent, state.PlayerCount())
	for i := range agents {
		agents[i] = agent.NewEvaluationAgent(simulations, options...)
	}
	e, err := engine.LocalEngine(state, agents, rng)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create engine")
	}

	log.Info().Msgf("MCTS playing for both sides, %d simulations per move", simulations)
	scores, _, _, err := e.Run()
	if err != nil {
		log.Fatal().Err(err).Msg("game failed")
	}

	if board, ok := e.State.(*tictactoe.State); ok {
		fmt.Println(board.Pretty())
	} else {
		fmt.Println(e.State)
	}
	fmt.Printf("final scores: %v\n", scores)
}

func runExperiment(name, budgets string, numGames, parallel int, out string, newState func() game.State) {
	if name != "budget" {
		log.Fatal().Msgf("unknown experiment %q", name)
	}

	var parsed []int
	for _, field := range strings.Split(budgets, ",") {
		budget, err := strconv.Atoi(strings.TrimSpace(field))
		if err != nil {
			log.Fatal().Err(err).Msgf("invalid budget %q", field)
		}
		parsed = append(parsed, budget)
	}

	results, err := experiments.RunBudgetExperiment(out, parsed, numGames, parallel, newState)
	if err != nil {
		log.Fatal().Err(err).Msg("experiment failed")
	}
	for _, summary := range results.Summary {
		log.Info().Msgf("agent %d vs agent %d: %d wins, %d losses, %d draws",
			summary.Agent1, summary.Agent2, summary.Wins1, summary.Wins2, summary.Draws)
	}
	log.Info().Msgf("results stored in %s", results.Dir)
}
