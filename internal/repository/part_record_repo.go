package repository

import (
	"context"
	"errors"
	"fmt"

	"go-parts-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PartRecordRepository stores the unit history chains.
type PartRecordRepository interface {
	CreateRoots(ctx context.Context, tx *gorm.DB, records []*model.PartRecord) error
	Append(ctx context.Context, tx *gorm.DB, prev *model.PartRecord, next *model.PartRecord) error
	LockCurrent(ctx context.Context, tx *gorm.DB, filter model.RecordFilter, limit int) ([]model.PartRecord, error)
	CountCurrent(ctx context.Context, filter model.RecordFilter) (int64, error)
	FindCurrent(ctx context.Context, filter model.RecordFilter) ([]model.PartRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.PartRecord, error)
	Distinct(ctx context.Context, key string, filter model.RecordFilter) ([]interface{}, error)
	CountByNXID(ctx context.Context, filter model.RecordFilter) ([]model.PartQuantity, error)
	CountByLocation(ctx context.Context) ([]model.LocationQuantity, error)
	RenameNXID(ctx context.Context, tx *gorm.DB, from, to string) error
	DeleteByNXID(ctx context.Context, tx *gorm.DB, nxid string) (int64, error)
	FindUnlinked(ctx context.Context) ([]model.PartRecord, error)
	StampNext(ctx context.Context, tx *gorm.DB, prevID, nextID uuid.UUID) error
}

type partRecordRepo struct {
	db *gorm.DB
}

func NewPartRecordRepo(db *gorm.DB) PartRecordRepository {
	return &partRecordRepo{db}
}

// current narrows q to unsuperseded nodes matching filter
func current(q *gorm.DB, filter model.RecordFilter) *gorm.DB {
	return matching(q.Model(&model.PartRecord{}).Where("next_id IS NULL"), filter)
}

// matching applies the field filters without regard to chain position
func matching(q *gorm.DB, filter model.RecordFilter) *gorm.DB {
	if filter.NXID != "" {
		q = q.Where("nxid = ?", filter.NXID)
	}
	if filter.Location != "" {
		q = q.Where("location = ?", filter.Location)
	}
	if filter.Building != 0 {
		q = q.Where("building = ?", filter.Building)
	}
	if filter.Owner != "" {
		q = q.Where("owner = ?", filter.Owner)
	}
	if filter.AssetTag != "" {
		q = q.Where("asset_tag = ?", filter.AssetTag)
	}
	return q
}

func (r *partRecordRepo) CreateRoots(ctx context.Context, tx *gorm.DB, records []*model.PartRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		rec.PrevID = nil
		rec.NextID = nil
	}
	return conn(ctx, r.db, tx).CreateInBatches(records, 100).Error
}

// Append inserts next as the successor of prev and stamps prev.next_id. Both
// writes must share tx so a failure leaves neither behind.
func (r *partRecordRepo) Append(ctx context.Context, tx *gorm.DB, prev *model.PartRecord, next *model.PartRecord) error {
	db := conn(ctx, r.db, tx)

	prevID := prev.ID
	next.PrevID = &prevID
	next.NextID = nil
	if err := db.Create(next).Error; err != nil {
		// prev_id is unique: somebody else already appended to prev
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrChainConflict
		}
		return err
	}

	if err := r.StampNext(ctx, tx, prev.ID, next.ID); err != nil {
		return err
	}
	prev.NextID = &next.ID
	return nil
}

// StampNext sets prev.next_id only if it is still unset.
func (r *partRecordRepo) StampNext(ctx context.Context, tx *gorm.DB, prevID, nextID uuid.UUID) error {
	res := conn(ctx, r.db, tx).Model(&model.PartRecord{}).
		Where("id = ? AND next_id IS NULL", prevID).
		Update("next_id", nextID)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrChainConflict
	}
	return nil
}

// LockCurrent returns up to limit current nodes, oldest first, locked until tx
// ends. Rows locked by concurrent transactions are skipped, not waited on.
func (r *partRecordRepo) LockCurrent(ctx context.Context, tx *gorm.DB, filter model.RecordFilter, limit int) ([]model.PartRecord, error) {
	var records []model.PartRecord
	err := current(conn(ctx, r.db, tx), filter).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Order("created_at ASC").
		Order("id ASC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

func (r *partRecordRepo) CountCurrent(ctx context.Context, filter model.RecordFilter) (int64, error) {
	var count int64
	err := current(r.db.WithContext(ctx), filter).Count(&count).Error
	return count, err
}

func (r *partRecordRepo) FindCurrent(ctx context.Context, filter model.RecordFilter) ([]model.PartRecord, error) {
	var records []model.PartRecord
	err := current(r.db.WithContext(ctx), filter).Order("created_at ASC").Find(&records).Error
	return records, err
}

func (r *partRecordRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.PartRecord, error) {
	var record model.PartRecord
	if err := r.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &record, nil
}

// Distinct lists the values of key across every node matching filter, history
// included unless filter.Current is set.
func (r *partRecordRepo) Distinct(ctx context.Context, key string, filter model.RecordFilter) ([]interface{}, error) {
	column, ok := model.RecordDistinctColumns[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	q := matching(r.db.WithContext(ctx).Model(&model.PartRecord{}), filter)
	if filter.Current {
		q = q.Where("next_id IS NULL")
	}
	q = q.Distinct(column).
		Where(column + " IS NOT NULL").
		Order(column)
	return scanColumn(q)
}

// CountByNXID groups the matching current nodes per part.
func (r *partRecordRepo) CountByNXID(ctx context.Context, filter model.RecordFilter) ([]model.PartQuantity, error) {
	var results []model.PartQuantity
	err := current(r.db.WithContext(ctx), filter).
		Select("nxid, COUNT(*) AS quantity").
		Group("nxid").
		Order("nxid ASC").
		Scan(&results).Error
	return results, err
}

func (r *partRecordRepo) CountByLocation(ctx context.Context) ([]model.LocationQuantity, error) {
	var results []model.LocationQuantity
	err := current(r.db.WithContext(ctx), model.RecordFilter{}).
		Select("location, COUNT(*) AS quantity").
		Group("location").
		Order("location ASC").
		Scan(&results).Error
	return results, err
}

func (r *partRecordRepo) RenameNXID(ctx context.Context, tx *gorm.DB, from, to string) error {
	return conn(ctx, r.db, tx).Model(&model.PartRecord{}).
		Where("nxid = ?", from).
		Update("nxid", to).Error
}

func (r *partRecordRepo) DeleteByNXID(ctx context.Context, tx *gorm.DB, nxid string) (int64, error) {
	res := conn(ctx, r.db, tx).Where("nxid = ?", nxid).Delete(&model.PartRecord{})
	return res.RowsAffected, res.Error
}

// FindUnlinked returns successors whose predecessor still looks current.
// Rows written before appends became transactional can be in this state.
func (r *partRecordRepo) FindUnlinked(ctx context.Context) ([]model.PartRecord, error) {
	var records []model.PartRecord
	err := r.db.WithContext(ctx).
		Table("part_records AS n").
		Select("n.*").
		Joins("JOIN part_records AS p ON p.id = n.prev_id").
		Where("p.next_id IS NULL").
		Order("n.created_at ASC").
		Find(&records).Error
	return records, err
}
