// Package rollover re-runs day reconciliation on a cron schedule so a
// long-running session notices midnight.
package rollover

import (
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/robfig/cron/v3"
)

// Reconciler is satisfied by *session.Session.
type Reconciler interface {
	Reconcile() (bool, error)
}

type Scheduler struct {
	cron     *cron.Cron
	target   Reconciler
	onChange func()
	log      *log.Logger
}

// New validates spec and registers the reconciliation job. onChange, if not
// nil, runs after a reconciliation that changed the snapshot.
func New(spec string, target Reconciler, onChange func(), logger *log.Logger) (*Scheduler, error) {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	s := &Scheduler{
		cron:     cron.New(),
		target:   target,
		onChange: onChange,
		log:      logger,
	}
	if _, err := s.cron.AddFunc(spec, s.Run); err != nil {
		return nil, fmt.Errorf("rollover schedule %q: %w", spec, err)
	}
	return s, nil
}

// Run performs one reconciliation.
func (s *Scheduler) Run() {
	changed, err := s.target.Reconcile()
	if err != nil {
		s.log.Error("rollover failed", "err", err)
		return
	}
	if changed && s.onChange != nil {
		s.onChange()
	}
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop halts the schedule and waits for a running job to finish.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
}
