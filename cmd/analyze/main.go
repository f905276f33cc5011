// Command analyze runs batches of bot-vs-bot matches on the game engine
// and prints quick, human-readable heuristics: win rates, score
// distributions, match lengths, and how often each combination gets
// claimed. It is a balance-tuning aid, not part of the server.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"sort"

	"github.com/jmorel/yam-master-server/game/bot"
	"github.com/jmorel/yam-master-server/game/combo"
	"github.com/jmorel/yam-master-server/game/config"
	"github.com/jmorel/yam-master-server/game/engine"
	"github.com/jmorel/yam-master-server/game/grid"
)

var (
	games = flag.Int("games", 1000, "Number of matches to simulate")
	seed  = flag.Int64("seed", 1, "Base RNG seed")
)

// matchResult summarizes one simulated match.
type matchResult struct {
	Winner       string
	Player1Score int
	Player2Score int
	Turns        int
	Claims       map[combo.ID]int
}

// turnCap bounds a simulated match; both policies forfeiting forever
// would otherwise spin. A full board takes at most 25 placements.
const turnCap = 500

// simulate plays one full match with the bot policy on both seats.
func simulate(seed int64) matchResult {
	rng := rand.New(rand.NewSource(seed))
	g := engine.New(false, config.Default(), rng)
	g.Start()

	result := matchResult{Claims: make(map[combo.ID]int)}
	for turn := 0; !g.Over() && turn < turnCap; turn++ {
		role := g.State().CurrentTurn
		outcome := bot.PlayTurnAs(g, role, rng)
		result.Turns++
		if outcome == nil {
			g.ExpireTurn()
			continue
		}
		result.Claims[outcome.Combination]++
	}

	st := g.State()
	result.Winner = st.Winner
	result.Player1Score = st.Player1Score
	result.Player2Score = st.Player2Score
	return result
}

func main() {
	flag.Parse()

	var (
		p1Wins, p2Wins, draws int
		unfinished            int
		totalTurns            int
		scores                []int
		claims                = make(map[combo.ID]int)
	)

	for i := 0; i < *games; i++ {
		r := simulate(*seed + int64(i))

		switch r.Winner {
		case string(engine.RolePlayer1):
			p1Wins++
		case string(engine.RolePlayer2):
			p2Wins++
		case grid.Draw:
			draws++
		default:
			unfinished++
		}

		totalTurns += r.Turns
		scores = append(scores, r.Player1Score, r.Player2Score)
		for id, n := range r.Claims {
			claims[id] += n
		}
	}

	fmt.Printf("=== %d matches (seed %d) ===\n\n", *games, *seed)
	fmt.Printf("player:1 wins: %d (%.1f%%)\n", p1Wins, pct(p1Wins, *games))
	fmt.Printf("player:2 wins: %d (%.1f%%)\n", p2Wins, pct(p2Wins, *games))
	fmt.Printf("draws:         %d (%.1f%%)\n", draws, pct(draws, *games))
	if unfinished > 0 {
		fmt.Printf("unfinished:    %d\n", unfinished)
	}

	fmt.Printf("\nAverage turns per match: %.1f\n", float64(totalTurns)/float64(*games))
	fmt.Printf("Score distribution: min %d, median %d, max %d\n",
		minOf(scores), median(scores), maxOf(scores))

	fmt.Println("\nCombination claims:")
	type claimRow struct {
		ID    combo.ID
		Count int
	}
	rows := make([]claimRow, 0, len(claims))
	for id, n := range claims {
		rows = append(rows, claimRow{ID: id, Count: n})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Count > rows[j].Count })
	for _, row := range rows {
		fmt.Printf("  %-10s %6d (worth %d)\n", row.ID, row.Count, grid.CellValue(row.ID))
	}
}

func pct(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return 100 * float64(n) / float64(total)
}

func minOf(values []int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []int) int {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func median(values []int) int {
	if len(values) == 0 {
		return 0
	}
	sorted := append([]int(nil), values...)
	sort.Ints(sorted)
	return sorted[len(sorted)/2]
}
