package repository

import (
	"context"
	"fmt"
	"strings"

	"go-parts-inventory/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type PartRepository interface {
	Create(ctx context.Context, tx *gorm.DB, part *model.Part) error
	FindAll(ctx context.Context, filter model.PartFilter) ([]model.Part, error)
	FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error)
	FindByNXID(ctx context.Context, nxid string) (*model.Part, error)
	FindByNXIDs(ctx context.Context, nxids []string) ([]model.Part, error)
	Search(ctx context.Context, keywords []string, limit, offset int) ([]model.Part, error)
	Update(ctx context.Context, tx *gorm.DB, part *model.Part) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Distinct(ctx context.Context, key string) ([]interface{}, error)
	Count(ctx context.Context) (int64, error)
}

type partRepo struct {
	db *gorm.DB
}

func NewPartRepo(db *gorm.DB) PartRepository {
	return &partRepo{db}
}

func (r *partRepo) Create(ctx context.Context, tx *gorm.DB, part *model.Part) error {
	return conn(ctx, r.db, tx).Create(part).Error
}

func (r *partRepo) FindAll(ctx context.Context, filter model.PartFilter) ([]model.Part, error) {
	var parts []model.Part
	// struct conditions skip zero values
	err := r.db.WithContext(ctx).
		Where(&model.Part{
			NXID:         filter.NXID,
			Manufacturer: filter.Manufacturer,
			Name:         filter.Name,
			Type:         filter.Type,
			MemoryType:   filter.MemoryType,
			PortType:     filter.PortType,
			Chipset:      filter.Chipset,
		}).
		Order("nxid ASC").
		Find(&parts).Error
	return parts, err
}

func (r *partRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Part, error) {
	var part model.Part
	if err := r.db.WithContext(ctx).First(&part, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepo) FindByNXID(ctx context.Context, nxid string) (*model.Part, error) {
	var part model.Part
	if err := r.db.WithContext(ctx).First(&part, "nxid = ?", nxid).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *partRepo) FindByNXIDs(ctx context.Context, nxids []string) ([]model.Part, error) {
	var parts []model.Part
	if len(nxids) == 0 {
		return parts, nil
	}
	err := r.db.WithContext(ctx).Where("nxid IN ?", nxids).Find(&parts).Error
	return parts, err
}

// Search matches any keyword against any searchable column, case
// insensitively. No keywords matches every part. limit < 1 means no limit.
func (r *partRepo) Search(ctx context.Context, keywords []string, limit, offset int) ([]model.Part, error) {
	var parts []model.Part

	clauses := make([]string, 0, len(keywords)*len(model.SearchableColumns))
	args := make([]interface{}, 0, cap(clauses))
	for _, kw := range keywords {
		pattern := "%" + EscapeLike(kw) + "%"
		for _, column := range model.SearchableColumns {
			clauses = append(clauses, column+" ILIKE ?")
			args = append(args, pattern)
		}
	}

	q := r.db.WithContext(ctx).Order("nxid ASC").Offset(offset)
	if len(clauses) > 0 {
		q = q.Where(strings.Join(clauses, " OR "), args...)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&parts).Error
	return parts, err
}

func (r *partRepo) Update(ctx context.Context, tx *gorm.DB, part *model.Part) error {
	return conn(ctx, r.db, tx).Save(part).Error
}

func (r *partRepo) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return conn(ctx, r.db, tx).Delete(&model.Part{}, "id = ?", id).Error
}

func (r *partRepo) Distinct(ctx context.Context, key string) ([]interface{}, error) {
	column, ok := model.PartDistinctColumns[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, key)
	}
	q := r.db.WithContext(ctx).Model(&model.Part{}).
		Distinct(column).
		Where(column + " IS NOT NULL AND " + column + " <> ''").
		Order(column)
	return scanColumn(q)
}

func (r *partRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Part{}).Count(&count).Error
	return count, err
}

// EscapeLike escapes LIKE metacharacters so user input matches literally.
func EscapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
