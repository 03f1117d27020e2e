package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"
	"go-parts-inventory/pkg/nxid"

	"github.com/alitto/pond/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const defaultPageSize = 25

// PartService manages the catalog and answers availability queries.
type PartService interface {
	CreatePart(ctx context.Context, actor model.Actor, req *CreatePartRequest) (*model.PartView, error)
	UpdatePart(ctx context.Context, actor model.Actor, id string, req *model.Part) (*model.Part, error)
	DeletePart(ctx context.Context, actor model.Actor, nxid string) (int64, error)
	GetParts(ctx context.Context, actor model.Actor, filter model.PartFilter, at Availability) ([]model.PartView, error)
	GetPartByID(ctx context.Context, actor model.Actor, id string, at Availability) (*model.PartView, error)
	Search(ctx context.Context, actor model.Actor, req *SearchRequest) (*SearchResult, error)
	Distinct(ctx context.Context, key string) ([]interface{}, error)
	UserInventory(ctx context.Context, actor model.Actor, userID string) ([]model.InventoryItem, error)
}

// Availability selects where quantities are counted. Zero values fall back to
// the configured default location and the actor's building.
type Availability struct {
	Location string `query:"location"`
	Building int    `query:"building"`
}

// CreatePartRequest adds a catalog entry and, when Quantity > 0, that many
// units at Location/Building.
type CreatePartRequest struct {
	Part     model.Part `json:"part"`
	Quantity int        `json:"quantity" validate:"gte=0,lte=10000"`
	Location string     `json:"location"`
	Building int        `json:"building"`
}

type SearchRequest struct {
	Query    string `query:"q"`
	PageSize int    `query:"page_size"`
	PageNum  int    `query:"page_num"`
	Availability
}

type SearchResult struct {
	Parts    []model.PartView `json:"parts"`
	PageNum  int              `json:"page_num"`
	PageSize int              `json:"page_size"`
	HasMore  bool             `json:"has_more"`
}

type PartServiceConfig struct {
	DefaultLocation string
	MaxPageSize     int
}

type partService struct {
	partRepo   repository.PartRepository
	recordRepo repository.PartRecordRepository
	tx         repository.Transactor
	pool       pond.ResultPool[model.PartView]
	events     EventPublisher
	cfg        PartServiceConfig
}

func NewPartService(
	partRepo repository.PartRepository,
	recordRepo repository.PartRecordRepository,
	tx repository.Transactor,
	pool pond.ResultPool[model.PartView],
	events EventPublisher,
	cfg PartServiceConfig,
) PartService {
	if cfg.DefaultLocation == "" {
		cfg.DefaultLocation = model.LocationPartsRoom
	}
	if cfg.MaxPageSize <= 0 {
		cfg.MaxPageSize = 100
	}
	if events == nil {
		events = NopPublisher
	}
	return &partService{
		partRepo:   partRepo,
		recordRepo: recordRepo,
		tx:         tx,
		pool:       pool,
		events:     events,
		cfg:        cfg,
	}
}

func (s *partService) CreatePart(ctx context.Context, actor model.Actor, req *CreatePartRequest) (*model.PartView, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	if req.Quantity > 0 && req.Location == "" {
		req.Location = s.cfg.DefaultLocation
	}
	if req.Building == 0 {
		req.Building = actor.Building
	}

	part := req.Part
	part.ID = uuid.Nil
	part.CreatedBy = actor.UserID
	part.UpdatedBy = actor.UserID

	records := make([]*model.PartRecord, req.Quantity)
	for i := range records {
		records[i] = &model.PartRecord{
			NXID:     part.NXID,
			Location: req.Location,
			Building: req.Building,
			By:       actor.UserID,
		}
	}

	err := s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.partRepo.Create(ctx, tx, &part); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateNXID
			}
			return err
		}
		return s.recordRepo.CreateRoots(ctx, tx, records)
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(EventPartUpdate, map[string]interface{}{
		"action":   "part_created",
		"by":       actor.UserID,
		"nxid":     part.NXID,
		"quantity": req.Quantity,
	})
	return &model.PartView{Part: part, Quantity: int64(req.Quantity), TotalQuantity: int64(req.Quantity)}, nil
}

// UpdatePart replaces the catalog fields of the part identified by id. A
// changed NXID is carried over to every record of the part.
func (s *partService) UpdatePart(ctx context.Context, actor model.Actor, id string, req *model.Part) (*model.Part, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	existing, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	oldNXID := existing.NXID

	updated := *req
	updated.BaseModel = existing.BaseModel
	updated.UpdatedBy = actor.UserID

	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		if err := s.partRepo.Update(ctx, tx, &updated); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrDuplicateNXID
			}
			return err
		}
		if updated.NXID != oldNXID {
			return s.recordRepo.RenameNXID(ctx, tx, oldNXID, updated.NXID)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.events.Publish(EventPartUpdate, map[string]interface{}{
		"action":   "part_updated",
		"by":       actor.UserID,
		"nxid":     updated.NXID,
		"old_nxid": oldNXID,
	})
	return &updated, nil
}

// DeletePart removes the part and every record of it. It returns the number
// of records removed.
func (s *partService) DeletePart(ctx context.Context, actor model.Actor, partID string) (int64, error) {
	if !nxid.Valid(partID) {
		return 0, ErrInvalidNXID
	}
	part, err := s.partRepo.FindByNXID(ctx, partID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, ErrPartNotFound
		}
		return 0, err
	}

	var removed int64
	err = s.tx.Transaction(ctx, func(tx *gorm.DB) error {
		n, err := s.recordRepo.DeleteByNXID(ctx, tx, part.NXID)
		if err != nil {
			return err
		}
		removed = n
		return s.partRepo.Delete(ctx, tx, part.ID)
	})
	if err != nil {
		return 0, err
	}

	s.events.Publish(EventPartUpdate, map[string]interface{}{
		"action":  "part_deleted",
		"by":      actor.UserID,
		"nxid":    part.NXID,
		"records": removed,
	})
	return removed, nil
}

func (s *partService) GetParts(ctx context.Context, actor model.Actor, filter model.PartFilter, at Availability) ([]model.PartView, error) {
	parts, err := s.partRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	return s.withAvailability(ctx, parts, s.resolveAvailability(actor, at))
}

// GetPartByID accepts either an NXID or the part's surrogate id.
func (s *partService) GetPartByID(ctx context.Context, actor model.Actor, id string, at Availability) (*model.PartView, error) {
	part, err := s.lookup(ctx, id)
	if err != nil {
		return nil, err
	}
	views, err := s.withAvailability(ctx, []model.Part{*part}, s.resolveAvailability(actor, at))
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// Search pages through parts matching any whitespace separated keyword. An
// empty query lists every part.
func (s *partService) Search(ctx context.Context, actor model.Actor, req *SearchRequest) (*SearchResult, error) {
	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	if pageSize > s.cfg.MaxPageSize {
		pageSize = s.cfg.MaxPageSize
	}
	pageNum := req.PageNum
	if pageNum <= 0 {
		pageNum = 1
	}

	keywords := strings.Fields(req.Query)
	// one extra row tells whether another page exists
	parts, err := s.partRepo.Search(ctx, keywords, pageSize+1, (pageNum-1)*pageSize)
	if err != nil {
		return nil, err
	}
	hasMore := len(parts) > pageSize
	if hasMore {
		parts = parts[:pageSize]
	}

	views, err := s.withAvailability(ctx, parts, s.resolveAvailability(actor, req.Availability))
	if err != nil {
		return nil, err
	}
	return &SearchResult{
		Parts:    views,
		PageNum:  pageNum,
		PageSize: pageSize,
		HasMore:  hasMore,
	}, nil
}

func (s *partService) Distinct(ctx context.Context, key string) ([]interface{}, error) {
	values, err := s.partRepo.Distinct(ctx, key)
	if errors.Is(err, repository.ErrUnknownColumn) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidKey, key)
	}
	return values, err
}

// UserInventory lists what userID currently holds, grouped by part. An empty
// userID means the actor. Techs may only look at their own inventory.
func (s *partService) UserInventory(ctx context.Context, actor model.Actor, userID string) ([]model.InventoryItem, error) {
	if userID == "" {
		userID = actor.UserID
	}
	if !actor.CanViewInventoryOf(userID) {
		return nil, ErrForbidden
	}

	counts, err := s.recordRepo.CountByNXID(ctx, model.RecordFilter{Owner: userID})
	if err != nil {
		return nil, err
	}
	if len(counts) == 0 {
		return []model.InventoryItem{}, nil
	}

	nxids := make([]string, len(counts))
	for i, c := range counts {
		nxids[i] = c.NXID
	}
	parts, err := s.partRepo.FindByNXIDs(ctx, nxids)
	if err != nil {
		return nil, err
	}
	byNXID := make(map[string]*model.Part, len(parts))
	for i := range parts {
		byNXID[parts[i].NXID] = &parts[i]
	}

	items := make([]model.InventoryItem, 0, len(counts))
	for _, c := range counts {
		part, ok := byNXID[c.NXID]
		if !ok {
			// records whose part was removed from the catalog
			part = &model.Part{NXID: c.NXID}
		}
		items = append(items, model.InventoryItem{Part: part, Quantity: c.Quantity})
	}
	return items, nil
}

func (s *partService) lookup(ctx context.Context, id string) (*model.Part, error) {
	var (
		part *model.Part
		err  error
	)
	if nxid.Valid(id) {
		part, err = s.partRepo.FindByNXID(ctx, id)
	} else {
		partID, parseErr := uuid.Parse(id)
		if parseErr != nil {
			return nil, ErrPartNotFound
		}
		part, err = s.partRepo.FindByID(ctx, partID)
	}
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPartNotFound
		}
		return nil, err
	}
	return part, nil
}

func (s *partService) resolveAvailability(actor model.Actor, at Availability) model.RecordFilter {
	filter := model.RecordFilter{Location: at.Location, Building: at.Building}
	if filter.Location == "" {
		filter.Location = s.cfg.DefaultLocation
	}
	if filter.Building == 0 {
		filter.Building = actor.Building
	}
	return filter
}

// withAvailability counts units per part on the worker pool. Quantity is the
// count at the requested location and building; TotalQuantity counts every
// current unit.
func (s *partService) withAvailability(ctx context.Context, parts []model.Part, at model.RecordFilter) ([]model.PartView, error) {
	if len(parts) == 0 {
		return []model.PartView{}, nil
	}

	group := s.pool.NewGroup()
	for i := range parts {
		part := parts[i]
		group.SubmitErr(func() (model.PartView, error) {
			filter := at
			filter.NXID = part.NXID
			quantity, err := s.recordRepo.CountCurrent(ctx, filter)
			if err != nil {
				return model.PartView{}, err
			}
			total, err := s.recordRepo.CountCurrent(ctx, model.RecordFilter{NXID: part.NXID})
			if err != nil {
				return model.PartView{}, err
			}
			return model.PartView{Part: part, Quantity: quantity, TotalQuantity: total}, nil
		})
	}
	return group.Wait()
}
