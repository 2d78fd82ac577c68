package metrics

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/components"
	"github.com/go-echarts/go-echarts/v2/opts"
)

// MatchupResult counts the outcomes of all games between two agent configs.
type MatchupResult struct {
	Agent1 int
	Agent2 int
	Wins1  int
	Wins2  int
	Draws  int
}

// Tally groups game records by matchup, in order of first appearance.
func Tally(records []GameRecord) []MatchupResult {
	var results []MatchupResult
	index := map[[2]int]int{}
	for _, record := range records {
		key := [2]int{record.Agent1, record.Agent2}
		i, ok := index[key]
		if !ok {
			i = len(results)
			index[key] = i
			results = append(results, MatchupResult{Agent1: record.Agent1, Agent2: record.Agent2})
		}
		switch record.Winner {
		case 0:
			results[i].Wins1++
		case 1:
			results[i].Wins2++
		default:
			results[i].Draws++
		}
	}
	return results
}

// WriteChart renders a stacked bar chart of matchup outcomes to results.html.
func (w *Writer) WriteChart(title string, results []MatchupResult) error {
	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{
			Title: title,
		}),
		charts.WithInitializationOpts(opts.Initialization{
			Theme: "shine",
		}),
	)

	labels := make([]string, 0, len(results))
	wins1 := make([]opts.BarData, 0, len(results))
	wins2 := make([]opts.BarData, 0, len(results))
	draws := make([]opts.BarData, 0, len(results))
	for _, result := range results {
		labels = append(labels, fmt.Sprintf("%d vs %d", result.Agent1, result.Agent2))
		wins1 = append(wins1, opts.BarData{Value: result.Wins1})
		wins2 = append(wins2, opts.BarData{Value: result.Wins2})
		draws = append(draws, opts.BarData{Value: result.Draws})
	}
	bar.SetXAxis(labels).
		AddSeries("agent1 wins", wins1).
		AddSeries("agent2 wins", wins2).
		AddSeries("draws", draws)

	page := components.NewPage()
	page.AddCharts(bar)

	f, err := os.Create(filepath.Join(w.baseDir, "results.html"))
	if err != nil {
		return fmt.Errorf("failed to create chart file: %w", err)
	}
	defer f.Close()

	if err := page.Render(f); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	return nil
}
