package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// ErrRunNotFound indicates that no run has the requested id.
var ErrRunNotFound = errors.New("run not found")

// itemBatchSize bounds rows per INSERT when recording items.
const itemBatchSize = 200

// Store reads and writes runs.
type Store struct {
	db      *gorm.DB
	timeout time.Duration
}

// NewStore creates a store. Every call is bounded by timeout.
func NewStore(db *gorm.DB, timeout time.Duration) *Store {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Store{db: db, timeout: timeout}
}

// Migrate creates or updates the ledger tables.
func (s *Store) Migrate(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	if err := s.db.WithContext(ctx).AutoMigrate(&Run{}, &RunItem{}); err != nil {
		return fmt.Errorf("migrate ledger: %w", err)
	}
	return nil
}

// Record stores a run and its items in one transaction.
func (s *Store) Record(ctx context.Context, run *Run) error {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	items := run.Entries
	for i := range items {
		items[i].RunID = run.ID
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Entries").Create(run).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.CreateInBatches(items, itemBatchSize).Error
	})
	if err != nil {
		return fmt.Errorf("record run %s: %w", run.ID, err)
	}
	return nil
}

// Recent returns the latest runs without their items, newest first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var runs []Run
	if err := s.db.WithContext(ctx).Order("started_at DESC").Limit(limit).Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	return runs, nil
}

// Get returns one run with its items.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var run Run
	err := s.db.WithContext(ctx).Preload("Entries").Where("id = ?", id).First(&run).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get run %s: %w", id, err)
	}
	return &run, nil
}
