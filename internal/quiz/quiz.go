// Package quiz runs lifestyle brackets as server-side sessions.
package quiz

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/blueye/globalsite/internal/lifestyle"
	"github.com/blueye/globalsite/internal/metrics"
)

var (
	// ErrBusy is returned for a pick that arrives while the previous round
	// is still settling. The pick is dropped, not queued.
	ErrBusy        = errors.New("round transition in progress")
	ErrNotFinished = errors.New("quiz is not finished")
)

type Config struct {
	RoundHold  time.Duration
	SessionTTL time.Duration
}

// Snapshot is the client view of a session.
type Snapshot struct {
	ID             string                  `json:"id"`
	Round          int                     `json:"round"`
	Match          *lifestyle.Match        `json:"match,omitempty"`
	MatchNumber    int                     `json:"matchNumber"`
	MatchesInRound int                     `json:"matchesInRound"`
	Participants   []lifestyle.CategoryKey `json:"participants"`
	Winners        []lifestyle.CategoryKey `json:"winners"`
	History        []lifestyle.CategoryKey `json:"history"`
	Finished       bool                    `json:"finished"`
	Winner         lifestyle.CategoryKey   `json:"winner,omitempty"`
	HoldUntil      *time.Time              `json:"holdUntil,omitempty"`
}

type SelectResult struct {
	Outcome lifestyle.RoundOutcome `json:"outcome"`
	Session Snapshot               `json:"session"`
}

type Result struct {
	Winner          lifestyle.CategoryKey      `json:"winner"`
	Title           string                     `json:"title"`
	Description     string                     `json:"description"`
	History         []lifestyle.CategoryKey    `json:"history"`
	Recommendations []lifestyle.Recommendation `json:"recommendations"`
}

type Service struct {
	catalog     *lifestyle.Catalog
	recommender *lifestyle.Recommender
	store       SessionStore
	cfg         Config
	logger      *slog.Logger

	now   func() time.Time
	newID func() string

	// mu serializes read-modify-write of sessions.
	mu sync.Mutex
}

func NewService(catalog *lifestyle.Catalog, recommender *lifestyle.Recommender, store SessionStore, cfg Config, logger *slog.Logger) *Service {
	return &Service{
		catalog:     catalog,
		recommender: recommender,
		store:       store,
		cfg:         cfg,
		logger:      logger,
		now:         time.Now,
		newID:       uuid.NewString,
	}
}

// Start begins a new bracket over every catalog category.
func (s *Service) Start(ctx context.Context) (Snapshot, error) {
	t, err := lifestyle.NewTournament(s.catalog.CategoryKeys())
	if err != nil {
		return Snapshot{}, fmt.Errorf("creating tournament: %w", err)
	}

	sess := Session{
		ID:         s.newID(),
		Tournament: t.State(),
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return Snapshot{}, fmt.Errorf("saving session: %w", err)
	}

	metrics.QuizSessionsStarted.Inc()
	s.logger.Debug("quiz session started", "session_id", sess.ID)
	return s.snapshot(sess, t), nil
}

func (s *Service) Get(ctx context.Context, id string) (Snapshot, error) {
	sess, t, err := s.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	return s.snapshot(sess, t), nil
}

// Select records a pick for the current match of session id.
func (s *Service) Select(ctx context.Context, id string, selected lifestyle.CategoryKey) (SelectResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, t, err := s.load(ctx, id)
	if err != nil {
		return SelectResult{}, err
	}

	now := s.now()
	if now.Before(sess.HoldUntil) {
		metrics.QuizSelections.WithLabelValues("busy").Inc()
		return SelectResult{}, ErrBusy
	}

	out, err := t.SelectWinner(selected)
	if err != nil {
		metrics.QuizSelections.WithLabelValues("rejected").Inc()
		return SelectResult{}, err
	}
	metrics.QuizSelections.WithLabelValues("accepted").Inc()

	sess.Tournament = t.State()
	sess.HoldUntil = time.Time{}
	if out.RoundComplete && !out.Finished && s.cfg.RoundHold > 0 {
		sess.HoldUntil = now.Add(s.cfg.RoundHold).UTC()
	}
	if err := s.store.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return SelectResult{}, fmt.Errorf("saving session: %w", err)
	}

	if out.Finished {
		metrics.QuizCompleted.WithLabelValues(string(out.Winner)).Inc()
		s.logger.Info("quiz completed", "session_id", id, "winner", out.Winner)
	}
	return SelectResult{Outcome: out, Session: s.snapshot(sess, t)}, nil
}

// Restart resets session id to the first match of round one.
func (s *Service) Restart(ctx context.Context, id string) (Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, t, err := s.load(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	t.Restart()
	sess.Tournament = t.State()
	sess.HoldUntil = time.Time{}
	if err := s.store.Save(ctx, sess, s.cfg.SessionTTL); err != nil {
		return Snapshot{}, fmt.Errorf("saving session: %w", err)
	}
	return s.snapshot(sess, t), nil
}

// Result returns the winning category and its recommendations.
func (s *Service) Result(ctx context.Context, id, locale string) (Result, error) {
	_, t, err := s.load(ctx, id)
	if err != nil {
		return Result{}, err
	}
	winner, ok := t.Winner()
	if !ok {
		return Result{}, ErrNotFinished
	}

	res := Result{
		Winner:          winner,
		History:         t.History(),
		Recommendations: s.recommender.Recommend(winner, t.Picks(), locale),
	}
	if cat, ok := s.catalog.Category(winner); ok {
		res.Title = cat.Title.In(locale)
		res.Description = cat.Description.In(locale)
	}
	return res, nil
}

func (s *Service) load(ctx context.Context, id string) (Session, *lifestyle.Tournament, error) {
	sess, err := s.store.Load(ctx, id)
	if err != nil {
		return Session{}, nil, err
	}
	t, err := lifestyle.RestoreTournament(sess.Tournament)
	if err != nil {
		return Session{}, nil, fmt.Errorf("restoring session %s: %w", id, err)
	}
	return sess, t, nil
}

func (s *Service) snapshot(sess Session, t *lifestyle.Tournament) Snapshot {
	snap := Snapshot{
		ID:             sess.ID,
		Round:          t.Round(),
		MatchesInRound: len(t.Matches()),
		Participants:   t.Participants(),
		Winners:        t.Winners(),
		History:        t.History(),
		Finished:       t.Finished(),
	}
	if m, ok := t.CurrentMatch(); ok {
		snap.Match = &m
		snap.MatchNumber = t.MatchIndex() + 1
	}
	if w, ok := t.Winner(); ok {
		snap.Winner = w
	}
	if s.now().Before(sess.HoldUntil) {
		hold := sess.HoldUntil
		snap.HoldUntil = &hold
	}
	return snap
}
