package engine

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/colesegura/HorizonFrame2-sub000/internal/calendar"
	"github.com/colesegura/HorizonFrame2-sub000/internal/consistency"
	"github.com/colesegura/HorizonFrame2-sub000/internal/eventlog"
	"github.com/colesegura/HorizonFrame2-sub000/internal/level"
	"github.com/colesegura/HorizonFrame2-sub000/internal/milestone"
	"github.com/colesegura/HorizonFrame2-sub000/internal/progress"
	"github.com/colesegura/HorizonFrame2-sub000/internal/record"
	"github.com/colesegura/HorizonFrame2-sub000/internal/streak"
)

// DefaultHeatmapWeeks is the number of weeks Heatmap covers by default.
const DefaultHeatmapWeeks = 12

// ClockPolicy selects how a "now" earlier than the log is handled.
type ClockPolicy int

const (
	// ClockReject fails the evaluation with CLOCK_SKEW.
	ClockReject ClockPolicy = iota
	// ClockClamp ignores rows dated after today.
	ClockClamp
)

func (p ClockPolicy) String() string {
	switch p {
	case ClockReject:
		return "reject"
	case ClockClamp:
		return "clamp"
	default:
		return fmt.Sprintf("ClockPolicy(%d)", int(p))
	}
}

// ParseClockPolicy parses "reject" or "clamp".
func ParseClockPolicy(s string) (ClockPolicy, error) {
	switch s {
	case "reject", "":
		return ClockReject, nil
	case "clamp":
		return ClockClamp, nil
	default:
		return 0, fmt.Errorf("unknown clock policy %q (want reject or clamp)", s)
	}
}

// Config is the engine's immutable configuration.
type Config struct {
	Location       *time.Location
	Catalog        []milestone.Rule
	ConsistencyCap int
	LevelPolicy    level.Policy
	ClockPolicy    ClockPolicy
	HeatmapWeeks   int
}

// Engine evaluates snapshots against a fixed Config.
type Engine struct {
	cfg Config
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Config)

// WithCatalog replaces the built-in milestone catalog.
func WithCatalog(rules []milestone.Rule) EngineOption {
	return func(c *Config) {
		c.Catalog = slices.Clone(rules)
	}
}

// WithConsistencyCap bounds the consistency window.
//
// Default: 30 days (consistency.DefaultCap)
func WithConsistencyCap(days int) EngineOption {
	return func(c *Config) {
		c.ConsistencyCap = days
	}
}

// WithLevelPolicy sets the level advancement policy.
// Without it interests never advance.
func WithLevelPolicy(p level.Policy) EngineOption {
	return func(c *Config) {
		c.LevelPolicy = p
	}
}

// WithClockPolicy selects the clock skew behaviour.
func WithClockPolicy(p ClockPolicy) EngineOption {
	return func(c *Config) {
		c.ClockPolicy = p
	}
}

// WithHeatmapWeeks sets how many weeks Heatmap covers.
func WithHeatmapWeeks(weeks int) EngineOption {
	return func(c *Config) {
		c.HeatmapWeeks = weeks
	}
}

// New creates an Engine for loc. A nil loc means UTC.
//
// The catalog is validated here so that a bad catalog fails once at
// startup instead of on every evaluation.
func New(loc *time.Location, opts ...EngineOption) (*Engine, error) {
	if loc == nil {
		loc = time.UTC
	}
	cfg := Config{
		Location:       loc,
		ConsistencyCap: consistency.DefaultCap,
		LevelPolicy:    level.Never,
		ClockPolicy:    ClockReject,
		HeatmapWeeks:   DefaultHeatmapWeeks,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Catalog == nil {
		cfg.Catalog = milestone.DefaultCatalog()
	}
	if cfg.ConsistencyCap < 1 {
		cfg.ConsistencyCap = consistency.DefaultCap
	}
	if cfg.HeatmapWeeks < 1 {
		cfg.HeatmapWeeks = DefaultHeatmapWeeks
	}
	if cfg.LevelPolicy == nil {
		cfg.LevelPolicy = level.Never
	}
	if errs := milestone.ValidateRules(cfg.Catalog); len(errs) > 0 {
		return nil, &RuntimeError{
			Code:    ErrCodeInvalidCatalog,
			Message: errs.Error(),
			Details: map[string]string{"first_code": errs[0].Code},
		}
	}
	return &Engine{cfg: cfg}, nil
}

// NewForZone resolves an IANA zone name and creates an Engine for it.
func NewForZone(zone string, opts ...EngineOption) (*Engine, error) {
	loc, err := calendar.LoadLocation(zone)
	if err != nil {
		return nil, NewInvalidTimezoneError(zone, err)
	}
	return New(loc, opts...)
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	cfg := e.cfg
	cfg.Catalog = slices.Clone(e.cfg.Catalog)
	return cfg
}

// Catalog returns the milestone rules in declaration order.
func (e *Engine) Catalog() []milestone.Rule {
	return slices.Clone(e.cfg.Catalog)
}

// Input is one snapshot of the host's records.
type Input struct {
	Events    []record.AlignmentEvent    `json:"events" yaml:"events"`
	Goals     []record.Goal              `json:"goals" yaml:"goals"`
	Journal   []record.JournalSession    `json:"journal" yaml:"journal"`
	Interests []record.TrackedInterest   `json:"interests" yaml:"interests"`
	Unlocked  []record.UnlockedMilestone `json:"unlocked" yaml:"unlocked"`
}

// Snapshot holds every derived metric for one evaluation.
type Snapshot struct {
	Today                 calendar.Day              `json:"today"`
	CurrentStreak         int                       `json:"current_streak"`
	GraceStreak           int                       `json:"grace_streak"`
	LongestStreak         int                       `json:"longest_streak"`
	TotalEvents           int                       `json:"total_events"`
	ActiveGoals           int                       `json:"active_goals"`
	Consistency           float64                   `json:"consistency"`
	JournalConsistency    float64                   `json:"journal_consistency"`
	PerGoalProgress       map[string]float64        `json:"per_goal_progress"`
	AggregateTimeProgress float64                   `json:"aggregate_time_progress"`
	GoalStreaks           map[string]streak.Summary `json:"goal_streaks"`
}

// LevelUp is an interest whose level should be incremented.
type LevelUp struct {
	InterestID string `json:"interest_id"`
	From       int    `json:"from"`
	To         int    `json:"to"`
}

// Result is the output of Evaluate.
type Result struct {
	Metrics       Snapshot                   `json:"metrics"`
	NewlyUnlocked []string                   `json:"newly_unlocked"`
	Unlocks       []record.UnlockedMilestone `json:"unlocks"`
	LevelUps      []LevelUp                  `json:"level_ups"`
	InputHash     string                     `json:"input_hash"`
}

// Evaluate runs the full pipeline for now.
func (e *Engine) Evaluate(now time.Time, in Input) (*Result, error) {
	v, err := e.resolve(now, in)
	if err != nil {
		return nil, err
	}

	hash, err := e.inputHash(now, in)
	if err != nil {
		return nil, fmt.Errorf("hash input: %w", err)
	}

	snap := e.snapshot(now, v, in)

	newly := milestone.Evaluate(e.cfg.Catalog, milestone.Metrics{
		CurrentStreak: snap.CurrentStreak,
		LongestStreak: snap.LongestStreak,
		TotalEvents:   snap.TotalEvents,
		ActiveGoals:   snap.ActiveGoals,
	}, milestone.UnlockedSet(in.Unlocked))
	if newly == nil {
		newly = []string{}
	}

	return &Result{
		Metrics:       snap,
		NewlyUnlocked: newly,
		Unlocks:       milestone.Unlocks(newly, now),
		LevelUps:      e.levelUps(in.Interests),
		InputHash:     hash,
	}, nil
}

// Metrics evaluates only the metric snapshot.
func (e *Engine) Metrics(now time.Time, in Input) (Snapshot, error) {
	v, err := e.resolve(now, in)
	if err != nil {
		return Snapshot{}, err
	}
	return e.snapshot(now, v, in), nil
}

// dayViews are the day-bucketed logs restricted to days up to today.
type dayViews struct {
	today   calendar.Day
	events  *eventlog.View
	journal *eventlog.JournalView
}

// resolve buckets the logs, applies the clock policy and drops rows dated
// after today.
func (e *Engine) resolve(now time.Time, in Input) (dayViews, error) {
	loc := e.cfg.Location
	today := calendar.DayKey(now, loc)

	ev := eventlog.Build(in.Events, loc)
	earliest, logged := ev.FirstLogged()

	var sessions []record.JournalSession
	for _, s := range in.Journal {
		day := calendar.DayKey(s.Date, loc)
		if !logged || day.Before(earliest) {
			earliest, logged = day, true
		}
		if day.After(today) {
			continue
		}
		sessions = append(sessions, s)
	}

	if e.cfg.ClockPolicy == ClockReject && logged && today.Before(earliest) {
		return dayViews{}, NewClockSkewError(today, earliest)
	}

	return dayViews{
		today:   today,
		events:  ev.Until(today),
		journal: eventlog.BuildJournal(sessions, loc),
	}, nil
}

func (e *Engine) snapshot(now time.Time, v dayViews, in Input) Snapshot {
	active := v.events.ActiveSet()
	perGoal := progress.PerGoal(in.Goals, now)

	snap := Snapshot{
		Today:                 v.today,
		CurrentStreak:         streak.Current(active, v.today),
		GraceStreak:           streak.Grace(active, v.today),
		LongestStreak:         streak.Longest(active),
		TotalEvents:           v.events.Len(),
		Consistency:           consistency.Since(active, v.today, e.cfg.ConsistencyCap),
		JournalConsistency:    consistency.Since(v.journal.ActiveSet(), v.today, e.cfg.ConsistencyCap),
		PerGoalProgress:       perGoal,
		AggregateTimeProgress: progress.Aggregate(perGoal),
		GoalStreaks:           make(map[string]streak.Summary),
	}
	for _, g := range in.Goals {
		if g.CountsAsActive() {
			snap.ActiveGoals++
		}
		snap.GoalStreaks[g.ID] = streak.Summarize(v.events.GoalSet(g.ID), v.today)
	}
	// Events may reference goals the host no longer sends.
	for _, id := range v.events.GoalIDs() {
		if _, ok := snap.GoalStreaks[id]; !ok {
			snap.GoalStreaks[id] = streak.Summarize(v.events.GoalSet(id), v.today)
		}
	}
	return snap
}

func (e *Engine) levelUps(interests []record.TrackedInterest) []LevelUp {
	var ups []LevelUp
	for _, ti := range interests {
		if level.ShouldAdvance(e.cfg.LevelPolicy, ti.WeeklyScores, ti.CurrentLevel) {
			ups = append(ups, LevelUp{
				InterestID: ti.ID,
				From:       ti.CurrentLevel,
				To:         level.Next(ti.CurrentLevel),
			})
		}
	}
	slices.SortFunc(ups, func(a, b LevelUp) int {
		return cmp.Compare(a.InterestID, b.InterestID)
	})
	return ups
}
