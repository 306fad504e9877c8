package managerrating

import (
	"context"
	"math"

	"github.com/clutchgolf/engine/internal/domain/model"
	"github.com/clutchgolf/engine/internal/domain/stats"
)

const hoursPerDay = 24

// draftIQ blends the average draft grade with early-round hit rate and
// late-round steal rate when per-pick detail exists; with overall grades
// only, the average grade stands alone.
func (e *Engine) draftIQ(ctx context.Context, userID string) (model.ComponentScore, error) {
	drafts, err := e.store.DraftGradesByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	if len(drafts) == 0 {
		return model.ComponentScore{}, nil
	}
	c := e.cfg.DraftIQ

	var gradeSum float64
	var earlyTotal, earlyHits, lateTotal, lateSteals int
	for _, d := range drafts {
		gradeSum += d.Score
		for _, pick := range d.Picks {
			if pick.Round <= c.EarlyMaxRound {
				earlyTotal++
				if pick.Score >= c.EarlyHitScore {
					earlyHits++
				}
			}
			if pick.Round >= c.LateMinRound {
				lateTotal++
				if pick.Score >= c.LateStealScore {
					lateSteals++
				}
			}
		}
	}
	avgGrade := gradeSum / float64(len(drafts))

	score := avgGrade
	if earlyTotal > 0 || lateTotal > 0 {
		var earlyRate, lateRate float64
		if earlyTotal > 0 {
			earlyRate = float64(earlyHits) / float64(earlyTotal)
		}
		if lateTotal > 0 {
			lateRate = float64(lateSteals) / float64(lateTotal)
		}
		score = c.GradeWeight*avgGrade + c.EarlyWeight*earlyRate*100 + c.LateWeight*lateRate*100
	}
	score = stats.Clamp(score, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(float64(len(drafts)), e.cfg.Curves.DraftIQ),
	}, nil
}

// rosterMgmt blends near-optimal lineup weeks, bench efficiency, and
// engagement over every recorded week.
func (e *Engine) rosterMgmt(ctx context.Context, userID string) (model.ComponentScore, error) {
	weeks, err := e.store.WeeklyResultsByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	if len(weeks) == 0 {
		return model.ComponentScore{}, nil
	}
	c := e.cfg.Roster

	var scoredWeeks, nearOptimal int
	var efficiencySum float64
	for _, w := range weeks {
		if w.OptimalPoints <= 0 {
			continue
		}
		scoredWeeks++
		ratio := math.Min(w.ActivePoints/w.OptimalPoints, 1)
		efficiencySum += ratio
		if ratio >= c.NearOptimalRatio {
			nearOptimal++
		}
	}

	var nearScore, benchScore float64
	if scoredWeeks > 0 {
		nearScore = float64(nearOptimal) / float64(scoredWeeks) * 100
		benchScore = efficiencySum / float64(scoredWeeks) * 100
	}
	engagement := math.Min(float64(len(weeks))/float64(c.SeasonWeeks), 1) * 100

	score := c.NearOptimalWeight*nearScore + c.BenchWeight*benchScore + c.EngagementWeight*engagement
	score = stats.Clamp(score, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(float64(len(weeks)), e.cfg.Curves.RosterMgmt),
	}, nil
}

// predictions computes exponentially time-decayed accuracy over resolved
// predictions: recent calls count for more than old ones.
func (e *Engine) predictions(ctx context.Context, userID string) (model.ComponentScore, error) {
	preds, err := e.store.ResolvedPredictionsByUser(ctx, userID)
	if err != nil {
		return model.ComponentScore{}, err
	}
	if len(preds) == 0 {
		return model.ComponentScore{}, nil
	}
	c := e.cfg.Predictions

	now := e.now()
	var num, den float64
	for _, p := range preds {
		ageDays := now.Sub(p.ResolvedAt).Hours() / hoursPerDay
		if ageDays < 0 {
			ageDays = 0
		}
		w := math.Exp(-ageDays / c.DecayDays)
		den += w
		if p.Correct {
			num += w
		}
	}
	if den == 0 {
		return model.ComponentScore{}, nil
	}

	score := stats.Clamp(num/den*100, 0, 100)
	return model.ComponentScore{
		Score:      &score,
		Confidence: stats.InterpolateConfidence(float64(len(preds)), e.cfg.Curves.Predictions),
	}, nil
}

// tradeAcumen is permanently inactive in this formula version; its weight
// redistributes across the active components.
func (e *Engine) tradeAcumen(_ context.Context, _ string) (model.ComponentScore, error) {
	return model.ComponentScore{}, nil
}
