package managerrating

import (
	"context"
	"math"
	"sort"

	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

// winRate blends career win percentage, recent win percentage, and the
// fraction of seasons scoring above the user's own points-for average.
func (e *Engine) winRate(ctx context.Context, userID string) (model.ComponentScore, error) {
	seasons, err := e.store.SeasonsByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	if len(seasons) == 0 {
		return model.ComponentScore{}, nil
	}
	c := e.cfg.WinRate

	career := aggregateWinPct(seasons)

	recent := seasons
	if len(recent) > c.RecentSeasons {
		recent = recent[len(recent)-c.RecentSeasons:]
	}
	recentPct := aggregateWinPct(recent)

	var pfTotal float64
	for _, s := range seasons {
		pfTotal += s.PointsFor
	}
	pfAvg := pfTotal / float64(len(seasons))
	var above int
	for _, s := range seasons {
		if s.PointsFor > pfAvg {
			above++
		}
	}
	fracAbove := float64(above) / float64(len(seasons))

	score := 100 * (c.CareerWeight*career + c.RecentWeight*recentPct + c.AboveAvgWeight*fracAbove)
	score = stats.Clamp(score, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(float64(len(seasons)), e.cfg.Curves.WinRate),
	}, nil
}

// nativeSeasons filters out imported historical seasons.
func nativeSeasons(seasons []model.Season) []model.Season {
	out := seasons[:0:0]
	for _, s := range seasons {
		if s.Source == model.SeasonNative {
			out = append(out, s)
		}
	}
	return out
}

// aggregateWinPct pools wins, ties, and games across seasons.
func aggregateWinPct(seasons []model.Season) float64 {
	var wins, ties, games int
	for _, s := range seasons {
		wins += s.Wins
		ties += s.Ties
		games += s.Games()
	}
	if games == 0 {
		return 0
	}
	return (float64(wins) + 0.5*float64(ties)) / float64(games)
}

// championships blends title rate, playoff appearance rate, playoff win
// percentage, and runner-up finishes. Only natively tracked seasons count:
// imported history carries aggregate win-loss records without trustworthy
// playoff detail.
func (e *Engine) championships(ctx context.Context, userID string) (model.ComponentScore, error) {
	all, err := e.store.SeasonsByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	seasons := nativeSeasons(all)
	if len(seasons) == 0 {
		return model.ComponentScore{}, nil
	}
	c := e.cfg.Championships
	n := float64(len(seasons))

	var titles, runnerUps, appearances, playoffWins, playoffLosses int
	for _, s := range seasons {
		if s.Champion {
			titles++
		}
		if s.RunnerUp {
			runnerUps++
		}
		if s.MadePlayoffs {
			appearances++
		}
		playoffWins += s.PlayoffWins
		playoffLosses += s.PlayoffLosses
	}

	titleScore := math.Min(float64(titles)/n*c.TitleRateScale, 1) * 100
	apptScore := float64(appearances) / n * 100
	var playoffWinScore float64
	if playoffWins+playoffLosses > 0 {
		playoffWinScore = float64(playoffWins) / float64(playoffWins+playoffLosses) * 100
	}
	runnerUpScore := math.Min(float64(runnerUps)/n*c.RunnerUpRateScale, 1) * 100

	score := c.TitleWeight*titleScore + c.PlayoffWeight*apptScore +
		c.PlayoffWinWeight*playoffWinScore + c.RunnerUpWeight*runnerUpScore
	score = stats.Clamp(score, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(n, e.cfg.Curves.Championships),
	}, nil
}

// consistency blends win-percentage variance, the longest streak of seasons
// above the floor, the improvement trend, and the worst-season floor.
// A season qualifies when it was natively tracked and has enough games.
func (e *Engine) consistency(ctx context.Context, userID string) (model.ComponentScore, error) {
	seasons, err := e.store.SeasonsByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	c := e.cfg.Consistency

	var qualifying []model.Season
	for _, s := range nativeSeasons(seasons) {
		if s.Games() >= c.MinGames {
			qualifying = append(qualifying, s)
		}
	}
	if len(qualifying) == 0 {
		return model.ComponentScore{}, nil
	}
	sort.SliceStable(qualifying, func(i, j int) bool { return qualifying[i].Year < qualifying[j].Year })

	pcts := make([]float64, len(qualifying))
	for i, s := range qualifying {
		pcts[i] = s.WinPct()
	}
	n := float64(len(qualifying))

	varianceScore := (1 - math.Min(stats.StdDev(pcts)/c.VarianceCeiling, 1)) * 100

	var streak, best int
	for _, p := range pcts {
		if p >= c.StreakFloorPct {
			streak++
			if streak > best {
				best = streak
			}
		} else {
			streak = 0
		}
	}
	streakScore := float64(best) / n * 100

	trendScore := stats.Clamp(50+stats.RegressionSlope(pcts)*c.TrendScale, 0, 100)

	worst := pcts[0]
	for _, p := range pcts[1:] {
		if p < worst {
			worst = p
		}
	}
	floorScore := math.Min(worst/c.FloorTarget, 1) * 100

	score := c.VarianceWeight*varianceScore + c.StreakWeight*streakScore +
		c.TrendWeight*trendScore + c.FloorWeight*floorScore
	score = stats.Clamp(score, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(n, e.cfg.Curves.Consistency),
	}, nil
}
