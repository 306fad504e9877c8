package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/clutchgolf/engine/internal/domain/model"
)

// Connection pool defaults for the SQLite store.
const (
	sqliteMaxOpenConns    = 4
	sqliteMaxIdleConns    = 2
	sqliteConnMaxLifetime = 5 * time.Minute
	sqliteBusyTimeout     = 5 * time.Second
)

// schemaDDL covers only the shape this engine round-trips. Ingest of source
// tables (players, performances, seasons, ...) belongs to the external data
// layer; the output tables are owned here.
const schemaDDL = `
CREATE TABLE IF NOT EXISTS players (
	id            TEXT PRIMARY KEY,
	name          TEXT NOT NULL DEFAULT '',
	avg_sg_off_tee REAL NOT NULL DEFAULT 0,
	avg_sg_approach REAL NOT NULL DEFAULT 0,
	avg_sg_around REAL NOT NULL DEFAULT 0,
	avg_sg_putting REAL NOT NULL DEFAULT 0,
	avg_sg_total  REAL NOT NULL DEFAULT 0,
	event_count   INTEGER NOT NULL DEFAULT 0,
	world_ranking INTEGER,
	active        INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE IF NOT EXISTS tournaments (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL DEFAULT '',
	course_id  TEXT NOT NULL DEFAULT '',
	event_type TEXT NOT NULL DEFAULT 'standard',
	start_date TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS performances (
	player_id     TEXT NOT NULL,
	tournament_id TEXT NOT NULL,
	sg_off_tee    REAL,
	sg_approach   REAL,
	sg_around     REAL,
	sg_putting    REAL,
	sg_total      REAL,
	round_scores  TEXT NOT NULL DEFAULT '[]',
	finish_position INTEGER NOT NULL DEFAULT 0,
	status        TEXT NOT NULL DEFAULT 'active',
	PRIMARY KEY (player_id, tournament_id)
);

CREATE INDEX IF NOT EXISTS idx_performances_tournament ON performances (tournament_id);

CREATE TABLE IF NOT EXISTS round_scores (
	player_id     TEXT NOT NULL,
	tournament_id TEXT NOT NULL,
	round         INTEGER NOT NULL,
	sg_total      REAL NOT NULL,
	date          TEXT NOT NULL,
	PRIMARY KEY (player_id, tournament_id, round)
);

CREATE INDEX IF NOT EXISTS idx_round_scores_player_date ON round_scores (player_id, date);

CREATE TABLE IF NOT EXISTS courses (
	id                TEXT PRIMARY KEY,
	name              TEXT NOT NULL DEFAULT '',
	weight_driving    REAL,
	weight_approach   REAL,
	weight_around     REAL,
	weight_putting    REAL
);

CREATE TABLE IF NOT EXISTS player_course_history (
	player_id TEXT NOT NULL,
	course_id TEXT NOT NULL,
	rounds    INTEGER NOT NULL DEFAULT 0,
	avg_sg    REAL,
	PRIMARY KEY (player_id, course_id)
);

CREATE TABLE IF NOT EXISTS seasons (
	user_id        TEXT NOT NULL,
	year           INTEGER NOT NULL,
	source         TEXT NOT NULL,
	platform       TEXT NOT NULL DEFAULT '',
	espn_team_id   TEXT NOT NULL DEFAULT '',
	yahoo_team_id  TEXT NOT NULL DEFAULT '',
	sleeper_team_id TEXT NOT NULL DEFAULT '',
	wins           INTEGER NOT NULL DEFAULT 0,
	losses         INTEGER NOT NULL DEFAULT 0,
	ties           INTEGER NOT NULL DEFAULT 0,
	points_for     REAL NOT NULL DEFAULT 0,
	points_against REAL NOT NULL DEFAULT 0,
	made_playoffs  INTEGER NOT NULL DEFAULT 0,
	playoff_wins   INTEGER NOT NULL DEFAULT 0,
	playoff_losses INTEGER NOT NULL DEFAULT 0,
	champion       INTEGER NOT NULL DEFAULT 0,
	runner_up      INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, year, source)
);

CREATE TABLE IF NOT EXISTS draft_grades (
	user_id TEXT NOT NULL,
	year    INTEGER NOT NULL,
	score   REAL NOT NULL,
	picks   TEXT NOT NULL DEFAULT '[]',
	PRIMARY KEY (user_id, year)
);

CREATE TABLE IF NOT EXISTS weekly_results (
	user_id        TEXT NOT NULL,
	year           INTEGER NOT NULL,
	week           INTEGER NOT NULL,
	active_points  REAL NOT NULL DEFAULT 0,
	bench_points   REAL NOT NULL DEFAULT 0,
	optimal_points REAL NOT NULL DEFAULT 0,
	PRIMARY KEY (user_id, year, week)
);

CREATE TABLE IF NOT EXISTS predictions (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id     TEXT NOT NULL,
	correct     INTEGER NOT NULL,
	resolved_at TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_predictions_user ON predictions (user_id, resolved_at);

CREATE TABLE IF NOT EXISTS clutch_scores (
	player_id       TEXT NOT NULL,
	tournament_id   TEXT NOT NULL DEFAULT '',
	formula_version TEXT NOT NULL,
	cpi             REAL,
	form_score      REAL,
	pressure_score  REAL,
	course_fit_score REAL,
	components      TEXT NOT NULL DEFAULT '{}',
	computed_at     TEXT NOT NULL,
	PRIMARY KEY (player_id, tournament_id, formula_version)
);

CREATE TABLE IF NOT EXISTS manager_ratings (
	user_id         TEXT PRIMARY KEY,
	formula_version TEXT NOT NULL,
	overall         INTEGER,
	confidence      REAL NOT NULL DEFAULT 0,
	tier            TEXT NOT NULL,
	trend           TEXT NOT NULL,
	components      TEXT NOT NULL DEFAULT '{}',
	computed_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS rating_snapshots (
	user_id    TEXT NOT NULL,
	day        TEXT NOT NULL,
	rating     INTEGER NOT NULL,
	created_at TEXT NOT NULL,
	PRIMARY KEY (user_id, day)
);
`

// SQLiteStore implements Store on a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	closed atomic.Bool
}

// OpenSQLite opens (and if needed creates) the database at path and ensures
// the schema exists. Use ":memory:" for an ephemeral store.
func OpenSQLite(ctx context.Context, path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf("%s?_busy_timeout=%d&_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=on",
		path, sqliteBusyTimeout.Milliseconds())
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(sqliteMaxOpenConns)
	db.SetMaxIdleConns(sqliteMaxIdleConns)
	db.SetConnMaxLifetime(sqliteConnMaxLifetime)
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	if _, err := db.ExecContext(ctx, schemaDDL); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Close releases the underlying connection pool. Calling Close again
// returns ErrClosed.
func (s *SQLiteStore) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	return s.db.Close()
}

func parseTime(v string) time.Time {
	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}
	}
	return t
}

func nullFloat(p *float64) sql.NullFloat64 {
	if p == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *p, Valid: true}
}

func floatPtr(n sql.NullFloat64) *float64 {
	if !n.Valid {
		return nil
	}
	v := n.Float64
	return &v
}

func intPtr(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// PlayerReader.

func (s *SQLiteStore) Player(ctx context.Context, playerID string) (*model.Player, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, avg_sg_off_tee, avg_sg_approach, avg_sg_around,
		       avg_sg_putting, avg_sg_total, event_count, world_ranking, active
		FROM players WHERE id = ?`, playerID)
	var p model.Player
	var ranking sql.NullInt64
	var active int
	err := row.Scan(&p.ID, &p.Name, &p.AvgSGOffTee, &p.AvgSGApproach, &p.AvgSGAround,
		&p.AvgSGPutting, &p.AvgSGTotal, &p.EventCount, &ranking, &active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("player %s: %w", playerID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query player: %w", err)
	}
	p.WorldRanking = intPtr(ranking)
	p.Active = active != 0
	return &p, nil
}

func (s *SQLiteStore) RecentPerformances(ctx context.Context, playerID string, limit int, requireFullSG bool) ([]model.PerformanceRecord, error) {
	query := `
		SELECT p.player_id, p.tournament_id, t.course_id, t.event_type, t.start_date,
		       p.sg_off_tee, p.sg_approach, p.sg_around, p.sg_putting, p.sg_total,
		       p.round_scores, p.finish_position, p.status
		FROM performances p
		JOIN tournaments t ON t.id = p.tournament_id
		WHERE p.player_id = ?`
	if requireFullSG {
		query += ` AND p.sg_off_tee IS NOT NULL AND p.sg_approach IS NOT NULL
		           AND p.sg_around IS NOT NULL AND p.sg_putting IS NOT NULL
		           AND p.sg_total IS NOT NULL`
	}
	query += ` ORDER BY t.start_date DESC`
	args := []any{playerID}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query performances: %w", err)
	}
	defer rows.Close()

	var out []model.PerformanceRecord
	for rows.Next() {
		var p model.PerformanceRecord
		var offTee, approach, around, putting, total sql.NullFloat64
		var roundsJSON, startDate string
		if err := rows.Scan(&p.PlayerID, &p.TournamentID, &p.CourseID, &p.EventType, &startDate,
			&offTee, &approach, &around, &putting, &total,
			&roundsJSON, &p.FinishPosition, &p.Status); err != nil {
			return nil, fmt.Errorf("scan performance: %w", err)
		}
		p.StartDate = parseTime(startDate)
		p.SGOffTee = floatPtr(offTee)
		p.SGApproach = floatPtr(approach)
		p.SGAroundGreen = floatPtr(around)
		p.SGPutting = floatPtr(putting)
		p.SGTotal = floatPtr(total)
		if err := json.Unmarshal([]byte(roundsJSON), &p.RoundScores); err != nil {
			return nil, fmt.Errorf("decode round scores: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Tournament(ctx context.Context, tournamentID string) (*model.Tournament, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, course_id, event_type, start_date FROM tournaments WHERE id = ?`,
		tournamentID)
	var t model.Tournament
	var startDate string
	err := row.Scan(&t.ID, &t.Name, &t.CourseID, &t.EventType, &startDate)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("tournament %s: %w", tournamentID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query tournament: %w", err)
	}
	t.StartDate = parseTime(startDate)
	return &t, nil
}

func (s *SQLiteStore) TournamentField(ctx context.Context, tournamentID string) ([]model.FieldEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT p.player_id, p.sg_total, pl.world_ranking, p.round_scores, p.status
		FROM performances p
		LEFT JOIN players pl ON pl.id = p.player_id
		WHERE p.tournament_id = ?`, tournamentID)
	if err != nil {
		return nil, fmt.Errorf("query field: %w", err)
	}
	defer rows.Close()

	var out []model.FieldEntry
	for rows.Next() {
		var e model.FieldEntry
		var total sql.NullFloat64
		var ranking sql.NullInt64
		var roundsJSON string
		if err := rows.Scan(&e.PlayerID, &total, &ranking, &roundsJSON, &e.Status); err != nil {
			return nil, fmt.Errorf("scan field entry: %w", err)
		}
		e.SGTotal = floatPtr(total)
		e.WorldRanking = intPtr(ranking)
		if err := json.Unmarshal([]byte(roundsJSON), &e.RoundScores); err != nil {
			return nil, fmt.Errorf("decode round scores: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) RoundScores(ctx context.Context, playerID string, since time.Time) ([]model.RoundScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT r.player_id, r.tournament_id, r.round, r.sg_total, r.date, t.event_type
		FROM round_scores r
		JOIN tournaments t ON t.id = r.tournament_id
		WHERE r.player_id = ? AND r.date >= ?
		ORDER BY r.date ASC`, playerID, since.UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("query round scores: %w", err)
	}
	defer rows.Close()

	var out []model.RoundScore
	for rows.Next() {
		var r model.RoundScore
		var date string
		if err := rows.Scan(&r.PlayerID, &r.TournamentID, &r.Round, &r.SGTotal, &date, &r.EventType); err != nil {
			return nil, fmt.Errorf("scan round score: %w", err)
		}
		r.Date = parseTime(date)
		out = append(out, r)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ActivePlayers(ctx context.Context, minEvents int) ([]model.Player, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, avg_sg_off_tee, avg_sg_approach, avg_sg_around,
		       avg_sg_putting, avg_sg_total, event_count, world_ranking, active
		FROM players
		WHERE active = 1 AND event_count >= ?
		ORDER BY id`, minEvents)
	if err != nil {
		return nil, fmt.Errorf("query active players: %w", err)
	}
	defer rows.Close()

	var out []model.Player
	for rows.Next() {
		var p model.Player
		var ranking sql.NullInt64
		var active int
		if err := rows.Scan(&p.ID, &p.Name, &p.AvgSGOffTee, &p.AvgSGApproach, &p.AvgSGAround,
			&p.AvgSGPutting, &p.AvgSGTotal, &p.EventCount, &ranking, &active); err != nil {
			return nil, fmt.Errorf("scan player: %w", err)
		}
		p.WorldRanking = intPtr(ranking)
		p.Active = active != 0
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Course(ctx context.Context, courseID string) (*model.Course, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, weight_driving, weight_approach, weight_around, weight_putting
		FROM courses WHERE id = ?`, courseID)
	var c model.Course
	var driving, approach, around, putting sql.NullFloat64
	err := row.Scan(&c.ID, &c.Name, &driving, &approach, &around, &putting)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("course %s: %w", courseID, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("query course: %w", err)
	}
	c.WeightDriving = floatPtr(driving)
	c.WeightApproach = floatPtr(approach)
	c.WeightAroundGreen = floatPtr(around)
	c.WeightPutting = floatPtr(putting)
	return &c, nil
}

func (s *SQLiteStore) CourseHistory(ctx context.Context, playerID, courseID string) (*model.PlayerCourseHistory, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT player_id, course_id, rounds, avg_sg
		FROM player_course_history WHERE player_id = ? AND course_id = ?`,
		playerID, courseID)
	var h model.PlayerCourseHistory
	var avg sql.NullFloat64
	err := row.Scan(&h.PlayerID, &h.CourseID, &h.Rounds, &avg)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query course history: %w", err)
	}
	h.AvgSG = floatPtr(avg)
	return &h, nil
}

// ManagerReader.

func (s *SQLiteStore) SeasonsByUser(ctx context.Context, userID string) ([]model.Season, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, year, source, platform, espn_team_id, yahoo_team_id, sleeper_team_id,
		       wins, losses, ties, points_for, points_against,
		       made_playoffs, playoff_wins, playoff_losses, champion, runner_up
		FROM seasons WHERE user_id = ? ORDER BY year ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	var out []model.Season
	for rows.Next() {
		var se model.Season
		var madePlayoffs, champion, runnerUp int
		if err := rows.Scan(&se.UserID, &se.Year, &se.Source, &se.Platform,
			&se.TeamIDs.ESPN, &se.TeamIDs.Yahoo, &se.TeamIDs.Sleeper,
			&se.Wins, &se.Losses, &se.Ties, &se.PointsFor, &se.PointsAgainst,
			&madePlayoffs, &se.PlayoffWins, &se.PlayoffLosses, &champion, &runnerUp); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		se.MadePlayoffs = madePlayoffs != 0
		se.Champion = champion != 0
		se.RunnerUp = runnerUp != 0
		out = append(out, se)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) DraftGradesByUser(ctx context.Context, userID string) ([]model.DraftGrade, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, year, score, picks FROM draft_grades
		WHERE user_id = ? ORDER BY year ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query draft grades: %w", err)
	}
	defer rows.Close()

	var out []model.DraftGrade
	for rows.Next() {
		var d model.DraftGrade
		var picksJSON string
		if err := rows.Scan(&d.UserID, &d.Year, &d.Score, &picksJSON); err != nil {
			return nil, fmt.Errorf("scan draft grade: %w", err)
		}
		if err := json.Unmarshal([]byte(picksJSON), &d.Picks); err != nil {
			return nil, fmt.Errorf("decode picks: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) WeeklyResultsByUser(ctx context.Context, userID string) ([]model.WeeklyTeamResult, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, year, week, active_points, bench_points, optimal_points
		FROM weekly_results WHERE user_id = ? ORDER BY year ASC, week ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query weekly results: %w", err)
	}
	defer rows.Close()

	var out []model.WeeklyTeamResult
	for rows.Next() {
		var w model.WeeklyTeamResult
		if err := rows.Scan(&w.UserID, &w.Year, &w.Week, &w.ActivePoints, &w.BenchPoints, &w.OptimalPoints); err != nil {
			return nil, fmt.Errorf("scan weekly result: %w", err)
		}
		out = append(out, w)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) ResolvedPredictionsByUser(ctx context.Context, userID string) ([]model.Prediction, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id, correct, resolved_at FROM predictions
		WHERE user_id = ? ORDER BY resolved_at ASC`, userID)
	if err != nil {
		return nil, fmt.Errorf("query predictions: %w", err)
	}
	defer rows.Close()

	var out []model.Prediction
	for rows.Next() {
		var p model.Prediction
		var correct int
		var resolvedAt string
		if err := rows.Scan(&p.UserID, &correct, &resolvedAt); err != nil {
			return nil, fmt.Errorf("scan prediction: %w", err)
		}
		p.Correct = correct != 0
		p.ResolvedAt = parseTime(resolvedAt)
		out = append(out, p)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) SnapshotAtOrBefore(ctx context.Context, userID string, cutoff time.Time) (*model.RatingSnapshot, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT user_id, day, rating, created_at FROM rating_snapshots
		WHERE user_id = ? AND day <= ?
		ORDER BY day DESC LIMIT 1`,
		userID, model.SnapshotDay(cutoff).Format("2006-01-02"))
	var snap model.RatingSnapshot
	var day, createdAt string
	err := row.Scan(&snap.UserID, &day, &snap.Rating, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("query snapshot: %w", err)
	}
	if d, perr := time.Parse("2006-01-02", day); perr == nil {
		snap.Day = d
	}
	snap.CreatedAt = parseTime(createdAt)
	return &snap, nil
}

func (s *SQLiteStore) RatableUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT user_id FROM seasons
		UNION SELECT user_id FROM draft_grades
		UNION SELECT user_id FROM weekly_results
		UNION SELECT user_id FROM predictions
		ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("query ratable users: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan user id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// RatingWriter.

func (s *SQLiteStore) UpsertClutchScore(ctx context.Context, score model.ClutchScore) error {
	components, err := json.Marshal(score.Components)
	if err != nil {
		return fmt.Errorf("encode components: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO clutch_scores
			(player_id, tournament_id, formula_version, cpi, form_score,
			 pressure_score, course_fit_score, components, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (player_id, tournament_id, formula_version) DO UPDATE SET
			cpi = excluded.cpi,
			form_score = excluded.form_score,
			pressure_score = excluded.pressure_score,
			course_fit_score = excluded.course_fit_score,
			components = excluded.components,
			computed_at = excluded.computed_at`,
		score.PlayerID, score.TournamentID, score.FormulaVersion,
		nullFloat(score.CPI), nullFloat(score.FormScore),
		nullFloat(score.PressureScore), nullFloat(score.CourseFitScore),
		string(components), score.ComputedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert clutch score: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertManagerRating(ctx context.Context, rating model.ClutchManagerRating) error {
	components, err := json.Marshal(rating.Components)
	if err != nil {
		return fmt.Errorf("encode components: %w", err)
	}
	var overall sql.NullInt64
	if rating.Overall != nil {
		overall = sql.NullInt64{Int64: int64(*rating.Overall), Valid: true}
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO manager_ratings
			(user_id, formula_version, overall, confidence, tier, trend, components, computed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			formula_version = excluded.formula_version,
			overall = excluded.overall,
			confidence = excluded.confidence,
			tier = excluded.tier,
			trend = excluded.trend,
			components = excluded.components,
			computed_at = excluded.computed_at`,
		rating.UserID, rating.FormulaVersion, overall, rating.Confidence,
		string(rating.Tier), string(rating.Trend), string(components),
		rating.ComputedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert manager rating: %w", err)
	}
	return nil
}

func (s *SQLiteStore) UpsertRatingSnapshot(ctx context.Context, snap model.RatingSnapshot) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rating_snapshots (user_id, day, rating, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (user_id, day) DO UPDATE SET
			rating = excluded.rating,
			created_at = excluded.created_at`,
		snap.UserID, snap.Day.Format("2006-01-02"), snap.Rating,
		snap.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert rating snapshot: %w", err)
	}
	return nil
}
