package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/clutchgolf/engine/internal/domain/model"
)

// MemStore is an in-memory Store used by tests, fixtures, and local runs.
// All reads return copies; seeding and reading are safe to interleave.
type MemStore struct {
	mu            sync.RWMutex
	players       map[string]model.Player
	tournaments   map[string]model.Tournament
	performances  []model.PerformanceRecord
	rounds        []model.RoundScore
	courses       map[string]model.Course
	courseHistory map[string]model.PlayerCourseHistory
	seasons       []model.Season
	drafts        []model.DraftGrade
	weekly        []model.WeeklyTeamResult
	predictions   []model.Prediction

	scores    map[string]model.ClutchScore
	ratings   map[string]model.ClutchManagerRating
	snapshots map[string]model.RatingSnapshot
}

// NewMemStore creates an empty in-memory store.
func NewMemStore() *MemStore {
	return &MemStore{
		players:       make(map[string]model.Player),
		tournaments:   make(map[string]model.Tournament),
		courses:       make(map[string]model.Course),
		courseHistory: make(map[string]model.PlayerCourseHistory),
		scores:        make(map[string]model.ClutchScore),
		ratings:       make(map[string]model.ClutchManagerRating),
		snapshots:     make(map[string]model.RatingSnapshot),
	}
}

func pairKey(a, b string) string { return a + "|" + b }

func scoreKey(playerID, tournamentID, version string) string {
	return playerID + "|" + tournamentID + "|" + version
}

// Seeding helpers.

func (m *MemStore) AddPlayer(p model.Player) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.players[p.ID] = p
}

func (m *MemStore) AddTournament(t model.Tournament) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tournaments[t.ID] = t
}

func (m *MemStore) AddPerformance(p model.PerformanceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.performances = append(m.performances, p)
}

func (m *MemStore) AddRoundScore(r model.RoundScore) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rounds = append(m.rounds, r)
}

func (m *MemStore) AddCourse(c model.Course) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courses[c.ID] = c
}

func (m *MemStore) AddCourseHistory(h model.PlayerCourseHistory) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.courseHistory[pairKey(h.PlayerID, h.CourseID)] = h
}

func (m *MemStore) AddSeason(s model.Season) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seasons = append(m.seasons, s)
}

func (m *MemStore) AddDraftGrade(d model.DraftGrade) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drafts = append(m.drafts, d)
}

func (m *MemStore) AddWeeklyResult(w model.WeeklyTeamResult) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.weekly = append(m.weekly, w)
}

func (m *MemStore) AddPrediction(p model.Prediction) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.predictions = append(m.predictions, p)
}

// PlayerReader.

func (m *MemStore) Player(_ context.Context, playerID string) (*model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.players[playerID]
	if !ok {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	return &p, nil
}

func (m *MemStore) RecentPerformances(_ context.Context, playerID string, limit int, requireFullSG bool) ([]model.PerformanceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.PerformanceRecord
	for _, p := range m.performances {
		if p.PlayerID != playerID {
			continue
		}
		if requireFullSG && !p.HasAllComponents() {
			continue
		}
		out = append(out, p)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.After(out[j].StartDate)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (m *MemStore) Tournament(_ context.Context, tournamentID string) (*model.Tournament, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.tournaments[tournamentID]
	if !ok {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, ErrNotFound)
	}
	return &t, nil
}

func (m *MemStore) TournamentField(_ context.Context, tournamentID string) ([]model.FieldEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.FieldEntry
	for _, p := range m.performances {
		if p.TournamentID != tournamentID {
			continue
		}
		entry := model.FieldEntry{
			PlayerID:    p.PlayerID,
			SGTotal:     p.SGTotal,
			RoundScores: p.RoundScores,
			Status:      p.Status,
		}
		if pl, ok := m.players[p.PlayerID]; ok && pl.WorldRanking != nil {
			rank := *pl.WorldRanking
			entry.WorldRanking = &rank
		}
		out = append(out, entry)
	}
	return out, nil
}

func (m *MemStore) RoundScores(_ context.Context, playerID string, since time.Time) ([]model.RoundScore, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.RoundScore
	for _, r := range m.rounds {
		if r.PlayerID != playerID || r.Date.Before(since) {
			continue
		}
		out = append(out, r)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date) })
	return out, nil
}

func (m *MemStore) ActivePlayers(_ context.Context, minEvents int) ([]model.Player, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Player
	for _, p := range m.players {
		if !p.Active || p.EventCount < minEvents {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemStore) Course(_ context.Context, courseID string) (*model.Course, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.courses[courseID]
	if !ok {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	return &c, nil
}

func (m *MemStore) CourseHistory(_ context.Context, playerID, courseID string) (*model.PlayerCourseHistory, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.courseHistory[pairKey(playerID, courseID)]
	if !ok {
		return nil, nil
	}
	return &h, nil
}

// ManagerReader.

func (m *MemStore) SeasonsByUser(_ context.Context, userID string) ([]model.Season, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Season
	for _, s := range m.seasons {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (m *MemStore) DraftGradesByUser(_ context.Context, userID string) ([]model.DraftGrade, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.DraftGrade
	for _, d := range m.drafts {
		if d.UserID == userID {
			out = append(out, d)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Year < out[j].Year })
	return out, nil
}

func (m *MemStore) WeeklyResultsByUser(_ context.Context, userID string) ([]model.WeeklyTeamResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.WeeklyTeamResult
	for _, w := range m.weekly {
		if w.UserID == userID {
			out = append(out, w)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out, nil
}

func (m *MemStore) ResolvedPredictionsByUser(_ context.Context, userID string) ([]model.Prediction, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var out []model.Prediction
	for _, p := range m.predictions {
		if p.UserID == userID {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ResolvedAt.Before(out[j].ResolvedAt) })
	return out, nil
}

func (m *MemStore) SnapshotAtOrBefore(_ context.Context, userID string, cutoff time.Time) (*model.RatingSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var best *model.RatingSnapshot
	for _, s := range m.snapshots {
		if s.UserID != userID || s.Day.After(cutoff) {
			continue
		}
		if best == nil || s.Day.After(best.Day) {
			snap := s
			best = &snap
		}
	}
	return best, nil
}

func (m *MemStore) RatableUserIDs(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	seen := make(map[string]struct{})
	for _, s := range m.seasons {
		seen[s.UserID] = struct{}{}
	}
	for _, d := range m.drafts {
		seen[d.UserID] = struct{}{}
	}
	for _, w := range m.weekly {
		seen[w.UserID] = struct{}{}
	}
	for _, p := range m.predictions {
		seen[p.UserID] = struct{}{}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}

// RatingWriter.

func (m *MemStore) UpsertClutchScore(_ context.Context, score model.ClutchScore) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scores[scoreKey(score.PlayerID, score.TournamentID, score.FormulaVersion)] = score
	return nil
}

func (m *MemStore) UpsertManagerRating(_ context.Context, rating model.ClutchManagerRating) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ratings[rating.UserID] = rating
	return nil
}

func (m *MemStore) UpsertRatingSnapshot(_ context.Context, snap model.RatingSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snapshots[pairKey(snap.UserID, snap.Day.Format("2006-01-02"))] = snap
	return nil
}

// Inspection helpers for tests and fixtures.

// ClutchScoreByKey returns a persisted score by natural key.
func (m *MemStore) ClutchScoreByKey(playerID, tournamentID, version string) (model.ClutchScore, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.scores[scoreKey(playerID, tournamentID, version)]
	return s, ok
}

// ManagerRatingByUser returns a persisted rating by user id.
func (m *MemStore) ManagerRatingByUser(userID string) (model.ClutchManagerRating, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.ratings[userID]
	return r, ok
}

// SnapshotCount returns how many snapshots exist for a user.
func (m *MemStore) SnapshotCount(userID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	n := 0
	for _, s := range m.snapshots {
		if s.UserID == userID {
			n++
		}
	}
	return n
}
