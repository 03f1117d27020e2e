package service

import (
	"context"
	"errors"
	"fmt"
	"iter"

	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ChainService interface {
	Walk(ctx context.Context, id uuid.UUID) iter.Seq2[*model.PartRecord, error]
	History(ctx context.Context, id string) ([]model.PartRecord, error)
	CurrentRecords(ctx context.Context, filter model.RecordFilter) ([]model.PartRecord, error)
	Distinct(ctx context.Context, key string, filter model.RecordFilter) ([]interface{}, error)
	Repair(ctx context.Context) (int, error)
}

type chainService struct {
	recordRepo repository.PartRecordRepository
	tx         repository.Transactor
}

func NewChainService(recordRepo repository.PartRecordRepository, tx repository.Transactor) ChainService {
	return &chainService{
		recordRepo: recordRepo,
		tx:         tx,
	}
}

// Walk yields the node with the given id and then each predecessor, newest
// first. It stops with ErrChainCycle if a node repeats and with ErrChainBroken
// if a predecessor is missing.
func (s *chainService) Walk(ctx context.Context, id uuid.UUID) iter.Seq2[*model.PartRecord, error] {
	return func(yield func(*model.PartRecord, error) bool) {
		seen := make(map[uuid.UUID]struct{})
		cursor := &id
		for cursor != nil {
			if _, ok := seen[*cursor]; ok {
				yield(nil, fmt.Errorf("%w at %s", ErrChainCycle, *cursor))
				return
			}
			seen[*cursor] = struct{}{}

			rec, err := s.recordRepo.FindByID(ctx, *cursor)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					if len(seen) == 1 {
						err = ErrRecordNotFound
					} else {
						err = fmt.Errorf("%w: %s", ErrChainBroken, *cursor)
					}
				}
				yield(nil, err)
				return
			}
			if !yield(rec, nil) {
				return
			}
			cursor = rec.PrevID
		}
	}
}

// History returns the full chain ending at id, newest first.
func (s *chainService) History(ctx context.Context, id string) ([]model.PartRecord, error) {
	recordID, err := uuid.Parse(id)
	if err != nil {
		return nil, ErrRecordNotFound
	}

	history := []model.PartRecord{}
	for rec, err := range s.Walk(ctx, recordID) {
		if err != nil {
			return nil, err
		}
		history = append(history, *rec)
	}
	return history, nil
}

func (s *chainService) CurrentRecords(ctx context.Context, filter model.RecordFilter) ([]model.PartRecord, error) {
	if filter.NXID == "" {
		return nil, fmt.Errorf("%w: nxid is required", ErrInvalidRequest)
	}
	records, err := s.recordRepo.FindCurrent(ctx, filter)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []model.PartRecord{}
	}
	return records, nil
}

func (s *chainService) Distinct(ctx context.Context, key string, filter model.RecordFilter) ([]interface{}, error) {
	values, err := s.recordRepo.Distinct(ctx, key, filter)
	if errors.Is(err, repository.ErrUnknownColumn) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return values, err
}

// Repair stamps next_id on predecessors whose successor exists but was never
// linked back. It returns how many links were restored.
func (s *chainService) Repair(ctx context.Context) (int, error) {
	unlinked, err := s.recordRepo.FindUnlinked(ctx)
	if err != nil {
		return 0, err
	}

	repaired := 0
	for _, rec := range unlinked {
		if rec.PrevID == nil {
			continue
		}
		prevID, nextID := *rec.PrevID, rec.ID
		err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
			return s.recordRepo.StampNext(ctx, tx, prevID, nextID)
		})
		if errors.Is(err, repository.ErrChainConflict) {
			logger.WarnCtx(ctx, "chain link already repaired",
				zap.String("prev_id", prevID.String()),
				zap.String("next_id", nextID.String()))
			continue
		}
		if err != nil {
			return repaired, err
		}
		repaired++
	}
	logger.InfoCtx(ctx, "chain repair finished", zap.Int("scanned", len(unlinked)), zap.Int("repaired", repaired))
	return repaired, nil
}
