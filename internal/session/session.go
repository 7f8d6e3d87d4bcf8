// Package session owns the live snapshot and writes every change through to
// a persistent slot.
package session

import (
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sadopc/leap/internal/calendar"
	"github.com/sadopc/leap/internal/state"
	"github.com/sadopc/leap/internal/store"
)

// Slot is the persistence the session needs. LoadSlot returns
// store.ErrSlotNotFound when nothing has been saved yet.
type Slot interface {
	LoadSlot(key string) ([]byte, error)
	SaveSlot(key string, data []byte) error
}

// backupSlot is implemented by slots that can keep a copy of a payload that
// failed to decode.
type backupSlot interface {
	BackupSlot(key string, data []byte, reason string) (int64, error)
}

type Option func(*Session)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// WithIDFunc overrides record id generation.
func WithIDFunc(fn state.IDFunc) Option {
	return func(s *Session) { s.newID = fn }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Session) { s.log = l }
}

type Session struct {
	mu    sync.Mutex
	slot  Slot
	key   string
	snap  *state.Snapshot
	now   func() time.Time
	newID state.IDFunc
	log   *log.Logger
}

// Open loads the snapshot stored under key. An absent or undecodable payload
// yields the default snapshot; only a failing slot read is an error. The day
// is reconciled and the result persisted when reconciliation changed it.
func Open(slot Slot, key string, opts ...Option) (*Session, error) {
	s := &Session{
		slot: slot,
		key:  key,
		now:  time.Now,
		log:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(s)
	}

	now := s.now()
	data, err := slot.LoadSlot(key)
	switch {
	case errors.Is(err, store.ErrSlotNotFound):
		s.log.Info("no saved data, starting fresh", "slot", key)
		s.snap = state.Default(now)
	case err != nil:
		return nil, fmt.Errorf("load slot %q: %w", key, err)
	default:
		snap, derr := state.Decode(data)
		if derr != nil {
			s.log.Warn("saved data unreadable, starting fresh", "slot", key, "err", derr)
			s.backup(data, derr)
			snap = state.Default(now)
		}
		s.snap = snap
	}
	s.snap.NewID = s.newID

	if s.snap.Reconcile(calendar.DateKey(now)) {
		s.log.Info("new day, day fields reset", "today", s.snap.TodayDate)
		s.snap.RefreshSprintProgress(now)
		if err := s.save(s.snap); err != nil {
			return nil, err
		}
	}
	return s, nil
}

func (s *Session) backup(data []byte, cause error) {
	b, ok := s.slot.(backupSlot)
	if !ok {
		return
	}
	if _, err := b.BackupSlot(s.key, data, cause.Error()); err != nil {
		s.log.Error("backup of unreadable data failed", "err", err)
	}
}

// Snapshot returns a copy of the current snapshot.
func (s *Session) Snapshot() *state.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap.Clone()
}

// Now returns the session clock's current time.
func (s *Session) Now() time.Time {
	return s.now()
}

// Update applies fn to a working copy and persists it. If fn or the save
// fails the held snapshot is unchanged.
func (s *Session) Update(fn func(snap *state.Snapshot, now time.Time) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	next := s.snap.Clone()
	if err := fn(next, now); err != nil {
		return err
	}
	next.RefreshSprintProgress(now)
	if err := s.save(next); err != nil {
		return err
	}
	s.snap = next
	return nil
}

// Reconcile re-runs the day check against the clock and reports whether the
// snapshot changed. Nothing is written when the day is unchanged.
func (s *Session) Reconcile() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	today := calendar.DateKey(now)
	if s.snap.TodayDate == today {
		return false, nil
	}
	next := s.snap.Clone()
	next.Reconcile(today)
	next.RefreshSprintProgress(now)
	if err := s.save(next); err != nil {
		return false, err
	}
	s.snap = next
	s.log.Info("day rolled over", "today", today)
	return true, nil
}

// Replace swaps in a whole snapshot, as when importing an export. The
// imported day is reconciled against the clock before it is saved.
func (s *Session) Replace(snap *state.Snapshot) error {
	return s.Update(func(next *state.Snapshot, now time.Time) error {
		*next = *snap.Clone()
		next.NewID = s.newID
		next.Reconcile(calendar.DateKey(now))
		return nil
	})
}

func (s *Session) save(snap *state.Snapshot) error {
	data, err := snap.Encode()
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	if err := s.slot.SaveSlot(s.key, data); err != nil {
		s.log.Error("persist failed", "slot", s.key, "err", err)
		return fmt.Errorf("save snapshot: %w", err)
	}
	return nil
}
