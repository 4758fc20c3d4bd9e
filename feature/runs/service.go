package runs

import (
	"context"
	"errors"

	"catalog-sync/core/ledger"

	"go.uber.org/zap"
)

// ErrLedgerDisabled indicates that no ledger database is configured.
var ErrLedgerDisabled = errors.New("run ledger disabled")

// Store is the ledger read API.
type Store interface {
	Recent(ctx context.Context, limit int) ([]ledger.Run, error)
	Get(ctx context.Context, id string) (*ledger.Run, error)
}

// SchemaChecker compares the ledger tables with the models.
type SchemaChecker func() (*ledger.SchemaReport, error)

// Service reads run history.
type Service struct {
	store  Store
	schema SchemaChecker
	logger *zap.Logger
}

// NewService creates a service. store and schema may be nil when the ledger
// is disabled.
func NewService(store Store, schema SchemaChecker, logger *zap.Logger) *Service {
	return &Service{store: store, schema: schema, logger: logger}
}

// Recent returns the latest runs.
func (s *Service) Recent(ctx context.Context, limit int) ([]ledger.Run, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	return s.store.Recent(ctx, limit)
}

// Get returns one run.
func (s *Service) Get(ctx context.Context, id string) (*ledger.Run, error) {
	if s.store == nil {
		return nil, ErrLedgerDisabled
	}
	return s.store.Get(ctx, id)
}

// Schema checks the ledger tables.
func (s *Service) Schema() (*ledger.SchemaReport, error) {
	if s.schema == nil {
		return nil, ErrLedgerDisabled
	}
	return s.schema()
}
