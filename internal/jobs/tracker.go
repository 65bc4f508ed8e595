// Package jobs serializes dataset runs per project and remembers how the
// latest run of each project ended.
package jobs

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Liyulingyue/PaddleLabel/internal/apperr"
	"github.com/Liyulingyue/PaddleLabel/internal/cache"
	"github.com/Liyulingyue/PaddleLabel/internal/dataset"
	"github.com/Liyulingyue/PaddleLabel/internal/logger"
	"github.com/Liyulingyue/PaddleLabel/internal/metrics"

	"go.uber.org/zap"
)

type State string

const (
	StateRunning   State = "running"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
)

// Status describes a run in progress or the last finished run of a project.
type Status struct {
	ProjectID  uint               `json:"project_id"`
	Kind       string             `json:"kind"`
	Format     string             `json:"format"`
	State      State              `json:"state"`
	Error      string             `json:"error,omitempty"`
	Code       apperr.Code        `json:"code,omitempty"`
	Report     *dataset.RunReport `json:"report,omitempty"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt *time.Time         `json:"finished_at,omitempty"`
}

// RunFunc performs the actual import or export.
type RunFunc func(ctx context.Context) (dataset.RunReport, error)

// Tracker admits one run per project at a time.
type Tracker struct {
	active  cache.Cache[uint, Status]
	latest  cache.Cache[uint, Status]
	ttl     time.Duration
	metrics *metrics.Metrics
	log     *zap.Logger
}

// NewTracker keeps finished statuses for ttl. m may be nil.
func NewTracker(ttl time.Duration, m *metrics.Metrics) *Tracker {
	return &Tracker{
		active:  cache.NewSimpleCache[uint, Status](),
		latest:  cache.NewSimpleCache[uint, Status](),
		ttl:     ttl,
		metrics: m,
		log:     logger.Named("jobs"),
	}
}

var (
	defaultTracker *Tracker
	defaultMu      sync.Mutex
)

// Default returns the process-wide tracker, creating one with a one hour TTL on first use.
func Default() *Tracker {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultTracker == nil {
		defaultTracker = NewTracker(time.Hour, metrics.Default())
	}
	return defaultTracker
}

// SetDefault replaces the process-wide tracker.
func SetDefault(t *Tracker) {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	defaultTracker = t
}

// Begin marks a run as active. It fails with busy when the project already has one.
func (t *Tracker) Begin(projectID uint, kind, format string) (Status, error) {
	st := Status{ProjectID: projectID, Kind: kind, Format: format, State: StateRunning, StartedAt: time.Now()}
	if !t.active.SetIfAbsent(projectID, st, 0) {
		cur, _ := t.active.Get(projectID)
		return Status{}, apperr.Newf(apperr.CodeBusy, "project %d already has a running %s", projectID, cur.Kind).
			WithMeta("project_id", projectID)
	}
	t.latest.Set(projectID, st, 0)
	return st, nil
}

// Finish records the outcome of a run started with Begin and releases the project.
func (t *Tracker) Finish(st Status, rep dataset.RunReport, err error) Status {
	finished := time.Now()
	st.FinishedAt = &finished
	if rep.Format != "" {
		st.Format = rep.Format
	}
	if err != nil {
		st.State = StateFailed
		st.Error = err.Error()
		st.Code = apperr.CodeOf(err)
	} else {
		st.State = StateSucceeded
		st.Report = &rep
	}

	t.latest.Set(st.ProjectID, st, t.ttl)
	t.active.Delete(st.ProjectID)
	t.latest.PurgeExpired()

	t.metrics.ObserveRun(st.Kind, st.Format, string(st.State), finished.Sub(st.StartedAt), rep.Tasks)
	t.log.Info("run finished",
		zap.Uint("project_id", st.ProjectID),
		zap.String("kind", st.Kind),
		zap.String("format", st.Format),
		zap.String("state", string(st.State)),
		zap.Duration("duration", finished.Sub(st.StartedAt)))
	return st
}

// Run wraps fn with Begin and Finish. fn's error is returned unchanged.
func (t *Tracker) Run(ctx context.Context, projectID uint, kind, format string, fn RunFunc) (st Status, err error) {
	st, err = t.Begin(projectID, kind, format)
	if err != nil {
		return Status{}, err
	}
	defer func() {
		if r := recover(); r != nil {
			t.Finish(st, dataset.RunReport{}, apperr.New(apperr.CodeInternal, fmt.Sprint("run panicked: ", r)))
			panic(r)
		}
	}()

	rep, err := fn(ctx)
	return t.Finish(st, rep, err), err
}

// Latest returns the active run of a project, or its last finished run if
// that is still within the TTL.
func (t *Tracker) Latest(projectID uint) (Status, bool) {
	if st, ok := t.active.Get(projectID); ok {
		return st, true
	}
	return t.latest.Get(projectID)
}
