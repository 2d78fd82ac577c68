// meta/meta.go
package meta

// SIMULATIONS defines the default simulation budget per move.
const SIMULATIONS = 500

// SEED defines the default seed, 0 means an unseeded search.
const SEED = 0

// NUM_GAMES defines the number of games per experiment matchup.
const NUM_GAMES = 20

// PARALLEL_GAMES defines how many experiment games run at the same time.
const PARALLEL_GAMES = 8

// MAX_MOVES defines the number of moves after which a game is abandoned.
const MAX_MOVES = 1000

// PIG_TARGET defines the score a Pig player must bank to win.
const PIG_TARGET = 20
