package services

import (
	"context"

	"github.com/avigneau/helloasso-bridge/internal/application"
	"github.com/avigneau/helloasso-bridge/internal/domain"
)

// HistoryService is the read side of the notification ledger.
type HistoryService struct {
	history application.HistoryStore
}

func NewHistoryService(history application.HistoryStore) *HistoryService {
	return &HistoryService{history: history}
}

// List returns one page of entries plus the total ledger size.
func (s *HistoryService) List(ctx context.Context, filter domain.HistoryFilter) ([]domain.HistoryEntry, int64, error) {
	entries, err := s.history.List(ctx, filter)
	if err != nil {
		return nil, 0, domain.NewPersistenceFailureError("listing history", err)
	}
	total, err := s.history.Count(ctx)
	if err != nil {
		return nil, 0, domain.NewPersistenceFailureError("counting history", err)
	}
	return entries, total, nil
}
