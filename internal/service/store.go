package service

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/xixi-finance/tracker/internal/model"
	"github.com/xixi-finance/tracker/internal/repository"
)

// Store owns the authoritative in-memory ledger and is its only writer.
// Every successful mutation synchronously re-serializes the whole ledger to
// the repository and publishes a full snapshot to the events channel, which
// the analysis advisor consumes.
type Store struct {
	repo   repository.Ledger
	events chan<- []model.Transaction

	mu      sync.Mutex
	records []model.Transaction
}

func NewStore(repo repository.Ledger, events chan<- []model.Transaction) *Store {
	return &Store{
		repo:   repo,
		events: events,
	}
}

// Load reads the persisted ledger once at startup. A read failure degrades to
// an empty ledger: logged, never surfaced. The restored ledger is published
// like any mutation, so the advisor sees it and a manual refresh works right
// after a restart.
func (s *Store) Load(ctx context.Context) {
	records, err := s.repo.Load(ctx)
	if err != nil {
		logrus.Warnf("store couldn't load ledger, starting empty: %v", err)
		records = []model.Transaction{}
	}

	s.mu.Lock()
	s.records = records
	s.publish()
	s.mu.Unlock()
	logrus.Infof("store loaded ledger with %d records", len(records))
}

// Create assigns a fresh identifier to the draft, prepends it to the ledger
// and persists. The draft amount is pre-validated by the caller boundary.
func (s *Store) Create(ctx context.Context, draft model.Transaction) (model.Transaction, error) {
	draft.ID = uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Transaction, 0, len(s.records)+1)
	next = append(next, draft)
	next = append(next, s.records...)
	if err := s.repo.Save(ctx, next); err != nil {
		return model.Transaction{}, err
	}
	s.records = next
	s.publish()
	return draft, nil
}

// Update replaces the record matching id by full value. It reports false and
// leaves the ledger untouched when the id is unknown.
func (s *Store) Update(ctx context.Context, id string, record model.Transaction) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	at := -1
	for i := range s.records {
		if s.records[i].ID == id {
			at = i
			break
		}
	}
	if at == -1 {
		return false, nil
	}

	record.ID = id
	next := make([]model.Transaction, len(s.records))
	copy(next, s.records)
	next[at] = record
	if err := s.repo.Save(ctx, next); err != nil {
		return false, err
	}
	s.records = next
	s.publish()
	return true, nil
}

// Delete removes the record matching id. It reports false when the id is
// unknown. The destructive-action confirmation lives at the boundary, not here.
func (s *Store) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.Transaction, 0, len(s.records))
	found := false
	for _, record := range s.records {
		if record.ID == id {
			found = true
			continue
		}
		next = append(next, record)
	}
	if !found {
		return false, nil
	}

	if err := s.repo.Save(ctx, next); err != nil {
		return false, err
	}
	s.records = next
	s.publish()
	return true, nil
}

// List returns a copy of the ledger sorted by date descending, ties kept in
// insertion order.
func (s *Store) List() []model.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := make([]model.Transaction, len(s.records))
	copy(records, s.records)
	sort.SliceStable(records, func(i, j int) bool {
		return records[i].Date > records[j].Date
	})
	return records
}

// publish hands the advisor a snapshot of the ledger after a mutation.
// Caller must hold s.mu.
func (s *Store) publish() {
	if s.events == nil {
		return
	}
	snapshot := make([]model.Transaction, len(s.records))
	copy(snapshot, s.records)
	s.events <- snapshot
}
