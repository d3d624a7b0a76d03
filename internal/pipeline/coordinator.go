// Package pipeline drives a recommendation session from onboarding
// through presentation. Stages run strictly in order; a stage failure
// moves the session to Failed and no later stage runs.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/avdeev/ideaforge/internal/catalog"
	"github.com/avdeev/ideaforge/internal/onboarding"
	"github.com/avdeev/ideaforge/internal/present"
	"github.com/avdeev/ideaforge/internal/profile"
	"github.com/avdeev/ideaforge/internal/storage"
)

// Stage identifies where a session currently is.
type Stage int

const (
	StageIdle Stage = iota
	StageOnboarding
	StageProfileAnalysis
	StageGeneration
	StageRanking
	StagePresentation
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageOnboarding:
		return "onboarding"
	case StageProfileAnalysis:
		return "profile_analysis"
	case StageGeneration:
		return "generation"
	case StageRanking:
		return "ranking"
	case StagePresentation:
		return "presentation"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Onboarder collects raw answers from the user.
type Onboarder interface {
	Run() (map[string]string, error)
	Transcript() []onboarding.LogEntry
	AskFeedback() map[string]string
}

// Generator produces candidate projects for a profile.
type Generator interface {
	Generate(ctx context.Context, p profile.Profile, domainFilter string) []catalog.Candidate
}

// Ranker scores and orders candidates.
type Ranker interface {
	Rank(candidates []catalog.Candidate, p profile.Profile) []catalog.Candidate
}

// Presenter renders ranked candidates into text, JSON and CSV shapes.
type Presenter interface {
	Present(ranked []catalog.Candidate, prof profile.Profile) present.Presentation
}

// Store persists session artifacts. Nil-safe via the coordinator:
// persistence failures never fail a session.
type Store interface {
	CreateSession(s storage.Session) error
	UpdateSessionProfile(id, profileJSON string) error
	UpdateSessionStatus(id, status, errMsg string) error
	AppendConversation(e storage.ConversationEntry) error
	SaveRecommendations(sessionID string, recs []storage.Recommendation) error
	SaveFeedback(f storage.Feedback) error
}

// Result is what a completed (or failed) run hands back to the caller.
type Result struct {
	SessionID    string
	Stage        Stage
	Profile      profile.Profile
	Ranked       []catalog.Candidate
	Presentation present.Presentation
	Feedback     map[string]string
	Err          error
}

// Coordinator wires the stages together and owns artifact persistence.
type Coordinator struct {
	onboarder Onboarder
	generator Generator
	ranker    Ranker
	presenter Presenter
	store     Store
	artifacts *ArtifactWriter
	logger    *slog.Logger

	domainFilter string
	collectNotes bool
}

// Option tweaks coordinator behavior.
type Option func(*Coordinator)

// WithDomainFilter restricts generation to a single catalog domain.
func WithDomainFilter(domain string) Option {
	return func(c *Coordinator) { c.domainFilter = domain }
}

// WithFeedback enables the post-presentation feedback questions.
func WithFeedback() Option {
	return func(c *Coordinator) { c.collectNotes = true }
}

// WithArtifacts writes JSON/CSV result files into dir after presentation.
func WithArtifacts(dir string) Option {
	return func(c *Coordinator) { c.artifacts = NewArtifactWriter(dir) }
}

func New(onboarder Onboarder, generator Generator, ranker Ranker, presenter Presenter, store Store, logger *slog.Logger, opts ...Option) *Coordinator {
	if logger == nil {
		logger = slog.Default()
	}
	c := &Coordinator{
		onboarder: onboarder,
		generator: generator,
		ranker:    ranker,
		presenter: presenter,
		store:     store,
		logger:    logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run executes the full interactive session. A user quit during
// onboarding aborts the session without an error result beyond
// onboarding.ErrQuit; any other stage error marks the session failed.
func (c *Coordinator) Run(ctx context.Context) Result {
	res := Result{Stage: StageOnboarding}

	answers, err := c.onboarder.Run()
	if err != nil {
		if errors.Is(err, onboarding.ErrQuit) {
			c.logger.Info("session ended by user during onboarding")
			res.Err = err
			return res
		}
		return c.fail(res, fmt.Errorf("onboarding: %w", err))
	}

	res.Stage = StageProfileAnalysis
	res.Profile = profile.Build(answers)
	res.SessionID = res.Profile.ID
	c.persistSession(res.Profile)
	c.persistConversation(res.SessionID, c.onboarder.Transcript())

	return c.finish(ctx, res)
}

// RunWithProfile runs the non-interactive half of the pipeline: the
// profile is taken as given and onboarding is skipped. Used by the HTTP
// API and the recommend command.
func (c *Coordinator) RunWithProfile(ctx context.Context, p profile.Profile) Result {
	res := Result{Stage: StageProfileAnalysis, Profile: p, SessionID: p.ID}
	c.persistSession(p)
	return c.finish(ctx, res)
}

func (c *Coordinator) finish(ctx context.Context, res Result) Result {
	res.Stage = StageGeneration
	candidates := c.generator.Generate(ctx, res.Profile, c.domainFilter)
	if len(candidates) == 0 {
		return c.fail(res, errors.New("generation: no candidate projects produced"))
	}

	res.Stage = StageRanking
	res.Ranked = c.ranker.Rank(candidates, res.Profile)
	if len(res.Ranked) == 0 {
		return c.fail(res, errors.New("ranking: no projects survived scoring"))
	}
	c.persistRecommendations(res.SessionID, res.Ranked)

	res.Stage = StagePresentation
	res.Presentation = c.presenter.Present(res.Ranked, res.Profile)
	if c.artifacts != nil {
		if err := c.artifacts.Write(res.SessionID, res.Presentation); err != nil {
			// Files are a convenience; the on-screen result stands.
			c.logger.Warn("could not write result files", "error", err)
		}
	}

	if c.collectNotes && c.onboarder != nil {
		res.Feedback = c.onboarder.AskFeedback()
		c.persistFeedback(res.SessionID, res.Feedback)
	}

	res.Stage = StageDone
	c.setStatus(res.SessionID, storage.StatusCompleted, "")
	return res
}

func (c *Coordinator) fail(res Result, err error) Result {
	c.logger.Error("pipeline stage failed", "stage", res.Stage.String(), "error", err)
	c.setStatus(res.SessionID, storage.StatusFailed, err.Error())
	res.Err = err
	res.Stage = StageFailed
	return res
}

func (c *Coordinator) persistSession(p profile.Profile) {
	if c.store == nil {
		return
	}
	profileJSON, err := json.Marshal(p)
	if err != nil {
		c.logger.Warn("could not encode profile for storage", "error", err)
		return
	}
	sess := storage.Session{
		ID:        p.ID,
		CreatedAt: p.CreatedAt,
		Status:    storage.StatusRunning,
	}
	if err := c.store.CreateSession(sess); err != nil {
		c.logger.Warn("could not persist session", "error", err)
		return
	}
	if err := c.store.UpdateSessionProfile(p.ID, string(profileJSON)); err != nil {
		c.logger.Warn("could not persist profile", "error", err)
	}
}

func (c *Coordinator) persistConversation(sessionID string, entries []onboarding.LogEntry) {
	if c.store == nil || sessionID == "" || len(entries) == 0 {
		return
	}
	for _, e := range entries {
		row := storage.ConversationEntry{
			SessionID: sessionID,
			Agent:     e.Agent,
			Question:  e.Question,
			Answer:    e.Answer,
			CreatedAt: e.Timestamp,
		}
		if err := c.store.AppendConversation(row); err != nil {
			c.logger.Warn("could not persist conversation log", "error", err)
			return
		}
	}
}

func (c *Coordinator) persistRecommendations(sessionID string, ranked []catalog.Candidate) {
	if c.store == nil || sessionID == "" {
		return
	}
	recs := make([]storage.Recommendation, 0, len(ranked))
	for i, cand := range ranked {
		raw, err := json.Marshal(cand)
		if err != nil {
			c.logger.Warn("could not encode recommendation", "title", cand.Title, "error", err)
			continue
		}
		recs = append(recs, storage.Recommendation{
			SessionID:     sessionID,
			Rank:          i + 1,
			CandidateJSON: string(raw),
		})
	}
	if err := c.store.SaveRecommendations(sessionID, recs); err != nil {
		c.logger.Warn("could not persist recommendations", "error", err)
	}
}

func (c *Coordinator) persistFeedback(sessionID string, fb map[string]string) {
	if c.store == nil || sessionID == "" || len(fb) == 0 {
		return
	}
	now := time.Now().UTC()
	for q, a := range fb {
		row := storage.Feedback{SessionID: sessionID, Question: q, Answer: a, CreatedAt: now}
		if err := c.store.SaveFeedback(row); err != nil {
			c.logger.Warn("could not persist feedback", "error", err)
			return
		}
	}
}

func (c *Coordinator) setStatus(sessionID, status, errMsg string) {
	if c.store == nil || sessionID == "" {
		return
	}
	if err := c.store.UpdateSessionStatus(sessionID, status, errMsg); err != nil {
		c.logger.Warn("could not update session status", "error", err)
	}
}
