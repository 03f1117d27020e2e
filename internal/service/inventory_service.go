package service

import (
	"context"
	"errors"
	"fmt"

	"go-parts-inventory/internal/logger"
	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// InventoryService moves units between locations by appending to their
// history chains. Every call is all or nothing.
type InventoryService interface {
	Checkout(ctx context.Context, actor model.Actor, req *CheckoutRequest) error
	Checkin(ctx context.Context, actor model.Actor, req *CheckinRequest) error
	AddToInventory(ctx context.Context, actor model.Actor, req *AddToInventoryRequest) ([]model.PartRecord, error)
	MoveRecords(ctx context.Context, actor model.Actor, req *MoveRequest) (int, error)
}

type CartItem struct {
	NXID     string `json:"nxid" validate:"required,nxid"`
	Building int    `json:"building" validate:"required"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CheckoutRequest struct {
	UserID string     `json:"user_id" validate:"required"`
	Cart   []CartItem `json:"cart" validate:"required,min=1,dive"`
}

type CheckinItem struct {
	NXID     string `json:"nxid" validate:"required,nxid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type CheckinRequest struct {
	UserID    string        `json:"user_id" validate:"required"`
	Inventory []CheckinItem `json:"inventory" validate:"required,min=1,dive"`
}

// AddToInventoryRequest creates Quantity new units. Owner is a user id for
// Tech Inventory and an asset tag for Asset; other locations ignore it.
type AddToInventoryRequest struct {
	NXID     string `json:"nxid" validate:"required,nxid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
	Location string `json:"location" validate:"required"`
	Building int    `json:"building" validate:"required"`
	Owner    string `json:"owner"`
}

type MoveRequest struct {
	From     model.RecordFilter `json:"from"`
	To       model.RecordState  `json:"to"`
	Quantity int                `json:"quantity" validate:"required,gt=0"`
}

// transition moves Quantity current units matching From into state To.
type transition struct {
	From     model.RecordFilter
	To       model.RecordState
	Quantity int
}

type inventoryService struct {
	partRepo   repository.PartRepository
	recordRepo repository.PartRecordRepository
	userRepo   repository.UserRepository
	assetRepo  repository.AssetRepository
	tx         repository.Transactor
	events     EventPublisher
}

func NewInventoryService(
	partRepo repository.PartRepository,
	recordRepo repository.PartRecordRepository,
	userRepo repository.UserRepository,
	assetRepo repository.AssetRepository,
	tx repository.Transactor,
	events EventPublisher,
) InventoryService {
	if events == nil {
		events = NopPublisher
	}
	return &inventoryService{
		partRepo:   partRepo,
		recordRepo: recordRepo,
		userRepo:   userRepo,
		assetRepo:  assetRepo,
		tx:         tx,
		events:     events,
	}
}

func (s *inventoryService) Checkout(ctx context.Context, actor model.Actor, req *CheckoutRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if _, err := s.resolveOwner(ctx, req.UserID); err != nil {
		return err
	}

	moves := make([]transition, 0, len(req.Cart))
	for _, item := range req.Cart {
		moves = append(moves, transition{
			From: model.RecordFilter{
				NXID:     item.NXID,
				Location: model.LocationPartsRoom,
				Building: item.Building,
			},
			To: model.RecordState{
				Location: model.LocationTechInventory,
				Building: item.Building,
				Owner:    req.UserID,
			},
			Quantity: item.Quantity,
		})
	}

	moved, err := s.apply(ctx, actor, moves)
	if err != nil {
		return err
	}
	s.publish(actor, "checkout", moves, moved)
	return nil
}

// Checkin returns units from the owner's inventory to the Parts Room of the
// actor's building.
func (s *inventoryService) Checkin(ctx context.Context, actor model.Actor, req *CheckinRequest) error {
	if err := validate(req); err != nil {
		return err
	}
	if _, err := s.resolveOwner(ctx, req.UserID); err != nil {
		return err
	}

	moves := make([]transition, 0, len(req.Inventory))
	for _, item := range req.Inventory {
		moves = append(moves, transition{
			From: model.RecordFilter{
				NXID:  item.NXID,
				Owner: req.UserID,
			},
			To: model.RecordState{
				Location: model.LocationPartsRoom,
				Building: actor.Building,
			},
			Quantity: item.Quantity,
		})
	}

	moved, err := s.apply(ctx, actor, moves)
	if err != nil {
		return err
	}
	s.publish(actor, "checkin", moves, moved)
	return nil
}

func (s *inventoryService) AddToInventory(ctx context.Context, actor model.Actor, req *AddToInventoryRequest) ([]model.PartRecord, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if _, err := s.partRepo.FindByNXID(ctx, req.NXID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}

	state := model.RecordState{
		NXID:     req.NXID,
		Location: req.Location,
		Building: req.Building,
	}
	switch req.Location {
	case model.LocationAsset:
		if req.Owner == "" {
			return nil, ErrOwnerRequired
		}
		asset, err := s.assetRepo.FindByTag(ctx, req.Owner)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrAssetNotFound
			}
			return nil, err
		}
		state.AssetTag = asset.AssetTag
		state.Building = asset.Building
	case model.LocationTechInventory:
		if req.Owner == "" {
			return nil, ErrOwnerRequired
		}
		user, err := s.resolveOwner(ctx, req.Owner)
		if err != nil {
			return nil, err
		}
		state.Owner = req.Owner
		if user != nil {
			state.Building = user.Building
		}
	case model.LocationAllTechs:
		state.Owner = model.OwnerAll
	}

	records := make([]*model.PartRecord, req.Quantity)
	for i := range records {
		records[i] = &model.PartRecord{
			NXID:     state.NXID,
			Location: state.Location,
			Building: state.Building,
			Owner:    state.Owner,
			AssetTag: state.AssetTag,
			By:       actor.UserID,
		}
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		return s.recordRepo.CreateRoots(ctx, tx, records)
	})
	if err != nil {
		return nil, err
	}

	created := make([]model.PartRecord, len(records))
	for i, rec := range records {
		created[i] = *rec
	}

	s.events.Publish(EventPartRecordsUpdate, map[string]interface{}{
		"action":   "add",
		"by":       actor.UserID,
		"nxid":     req.NXID,
		"location": state.Location,
		"building": state.Building,
		"quantity": len(created),
	})
	return created, nil
}

// MoveRecords moves units between arbitrary states. From and To must name the
// same part.
func (s *inventoryService) MoveRecords(ctx context.Context, actor model.Actor, req *MoveRequest) (int, error) {
	if err := validate(req); err != nil {
		return 0, err
	}
	if req.From.NXID == "" {
		return 0, fmt.Errorf("%w: from.nxid is required", ErrInvalidRequest)
	}
	if req.To.NXID != req.From.NXID {
		return 0, ErrMismatchedNXID
	}
	if req.To.Location == model.LocationTechInventory {
		if req.To.Owner == "" {
			return 0, ErrOwnerRequired
		}
		if _, err := s.resolveOwner(ctx, req.To.Owner); err != nil {
			return 0, err
		}
	}

	moves := []transition{{From: req.From, To: req.To, Quantity: req.Quantity}}
	moved, err := s.apply(ctx, actor, moves)
	if err != nil {
		return 0, err
	}
	s.publish(actor, "move", moves, moved)
	return moved, nil
}

// apply runs every transition in one transaction. Availability is checked for
// all lines before anything is written; the selected nodes stay locked until
// commit so concurrent callers cannot spend the same units.
func (s *inventoryService) apply(ctx context.Context, actor model.Actor, moves []transition) (int, error) {
	moves = mergeTransitions(moves)
	moved := 0

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		locked := make([][]model.PartRecord, len(moves))
		for i, m := range moves {
			records, err := s.recordRepo.LockCurrent(ctx, tx, m.From, m.Quantity)
			if err != nil {
				return err
			}
			if len(records) < m.Quantity {
				return fmt.Errorf("%w: %s has %d of %d requested", ErrInsufficientStock, m.From.NXID, len(records), m.Quantity)
			}
			locked[i] = records
		}

		for i, m := range moves {
			for j := range locked[i] {
				prev := &locked[i][j]
				if err := s.recordRepo.Append(ctx, tx, prev, prev.Successor(m.To, actor.UserID)); err != nil {
					return err
				}
				moved++
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, repository.ErrChainConflict) {
			logger.WarnCtx(ctx, "chain conflict, transition rolled back", zap.String("by", actor.UserID))
		}
		return 0, err
	}
	return moved, nil
}

// mergeTransitions folds lines with the same source and destination so
// duplicated cart entries are checked against stock together.
func mergeTransitions(moves []transition) []transition {
	type key struct {
		from model.RecordFilter
		to   model.RecordState
	}
	index := make(map[key]int, len(moves))
	merged := make([]transition, 0, len(moves))
	for _, m := range moves {
		k := key{m.From, m.To}
		if i, ok := index[k]; ok {
			merged[i].Quantity += m.Quantity
			continue
		}
		index[k] = len(merged)
		merged = append(merged, m)
	}
	return merged
}

// resolveOwner checks that owner names an existing user. The shared "all"
// owner resolves to nil.
func (s *inventoryService) resolveOwner(ctx context.Context, owner string) (*model.User, error) {
	if owner == model.OwnerAll {
		return nil, nil
	}
	id, err := uuid.Parse(owner)
	if err != nil {
		return nil, ErrUserNotFound
	}
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *inventoryService) publish(actor model.Actor, action string, moves []transition, moved int) {
	nxids := make([]string, 0, len(moves))
	for _, m := range moves {
		nxids = append(nxids, m.From.NXID)
	}
	s.events.Publish(EventPartRecordsUpdate, map[string]interface{}{
		"action":   action,
		"by":       actor.UserID,
		"nxids":    nxids,
		"quantity": moved,
	})
}
