package producer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/service"
)

// Advisor coalesces bursts of ledger mutations into single analysis calls.
// All state transitions happen inside one select loop, one event at a time:
// a mutation re-arms the quiet-period timer, timer expiry issues the call,
// and the result is reconciled back in. Every issued call carries a
// generation number; a result is applied only while its generation is still
// the latest, so a superseded call can never overwrite a fresher outcome.
type Advisor struct {
	analyzer  service.Analyzer
	mutations <-chan []model.Transaction
	refreshes chan struct{}
	results   chan analysisResult
	notify    chan<- *model.Insight
	quiet     time.Duration

	// loop-owned, never touched outside run
	timer    *time.Timer
	snapshot []model.Transaction
	gen      uint64
	inFlight bool
	rerun    bool

	mu      sync.RWMutex
	status  model.AnalysisStatus
	insight *model.Insight
	lastErr string
}

type analysisResult struct {
	gen     uint64
	insight *model.Insight
	err     error
}

// NewAdvisor wires the advisor to a mutations channel fed by the store.
// notify may be nil; when set, every freshly settled insight is pushed to it.
func NewAdvisor(analyzer service.Analyzer, mutations <-chan []model.Transaction, quiet time.Duration, notify chan<- *model.Insight) *Advisor {
	return &Advisor{
		analyzer:  analyzer,
		mutations: mutations,
		refreshes: make(chan struct{}, 1),
		results:   make(chan analysisResult),
		notify:    notify,
		quiet:     quiet,
		status:    model.StatusIdle,
	}
}

func (a *Advisor) Produce(ctx context.Context) {
	go a.run(ctx)
}

// Refresh requests an immediate analysis, equivalent to instant timer expiry.
// It is ignored while a call is already in flight or the ledger is empty.
func (a *Advisor) Refresh() {
	select {
	case a.refreshes <- struct{}{}:
	default:
	}
}

// State returns the externally visible snapshot of the trigger.
func (a *Advisor) State() model.AnalysisState {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return model.AnalysisState{
		Status:  a.status,
		Insight: a.insight,
		Error:   a.lastErr,
	}
}

func (a *Advisor) run(ctx context.Context) {
	logrus.Info("advisor producer started")
	for {
		var expiry <-chan time.Time
		if a.timer != nil {
			expiry = a.timer.C
		}

		select {
		case <-ctx.Done():
			a.stopTimer()
			logrus.Infof("advisor producer stopped: %v", ctx.Err())
			return

		case snapshot := <-a.mutations:
			a.snapshot = snapshot
			a.stopTimer()
			if len(snapshot) == 0 {
				// invalidate any in-flight call and drop everything shown
				a.gen++
				a.rerun = false
				a.set(model.StatusIdle, nil, "")
				continue
			}
			a.timer = time.NewTimer(a.quiet)
			// a new cycle starts: drop the old error, keep the last insight
			a.mu.Lock()
			a.status = model.StatusPending
			a.lastErr = ""
			a.mu.Unlock()

		case <-a.refreshes:
			if a.inFlight || len(a.snapshot) == 0 {
				continue
			}
			a.stopTimer()
			a.issue(ctx)

		case <-expiry:
			a.timer = nil
			if a.inFlight {
				a.rerun = true
				continue
			}
			a.issue(ctx)

		case result := <-a.results:
			a.inFlight = false
			if result.gen == a.gen {
				a.apply(result)
			} else {
				logrus.Infof("advisor discarded stale analysis result (generation %d, latest %d)", result.gen, a.gen)
			}
			if a.rerun {
				a.rerun = false
				if len(a.snapshot) > 0 {
					a.issue(ctx)
				}
			}
		}
	}
}

// issue starts exactly one analysis call for the current snapshot.
func (a *Advisor) issue(ctx context.Context) {
	a.gen++
	gen := a.gen
	snapshot := make([]model.Transaction, len(a.snapshot))
	copy(snapshot, a.snapshot)

	a.inFlight = true
	// loading clears a previous error but keeps the last insight visible
	a.mu.Lock()
	a.status = model.StatusLoading
	a.lastErr = ""
	a.mu.Unlock()
	logrus.Infof("advisor issued analysis call for %d records (generation %d)", len(snapshot), gen)

	go func() {
		insight, err := a.analyzer.Analyze(ctx, snapshot)
		select {
		case a.results <- analysisResult{gen: gen, insight: insight, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (a *Advisor) apply(result analysisResult) {
	if result.err != nil {
		logrus.Errorf("advisor analysis failed: %v", result.err)
		a.set(model.StatusError, nil, result.err.Error())
		return
	}

	a.set(model.StatusIdle, result.insight, "")
	logrus.Info("advisor settled fresh insight")
	if a.notify != nil {
		select {
		case a.notify <- result.insight:
		default:
			logrus.Warn("advisor dropped insight notification, notifier is behind")
		}
	}
}

func (a *Advisor) stopTimer() {
	if a.timer == nil {
		return
	}
	if !a.timer.Stop() {
		select {
		case <-a.timer.C:
		default:
		}
	}
	a.timer = nil
}

func (a *Advisor) set(status model.AnalysisStatus, insight *model.Insight, errMsg string) {
	a.mu.Lock()
	a.status = status
	a.insight = insight
	a.lastErr = errMsg
	a.mu.Unlock()
}
