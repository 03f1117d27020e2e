package repository

import (
	"context"

	"go-parts-inventory/internal/model"

	"gorm.io/gorm"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *model.Asset) error
	FindByTag(ctx context.Context, tag string) (*model.Asset, error)
	FindAll(ctx context.Context) ([]model.Asset, error)
}

type assetRepo struct {
	db *gorm.DB
}

func NewAssetRepo(db *gorm.DB) AssetRepository {
	return &assetRepo{db}
}

func (r *assetRepo) Create(ctx context.Context, asset *model.Asset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}

func (r *assetRepo) FindByTag(ctx context.Context, tag string) (*model.Asset, error) {
	var asset model.Asset
	if err := r.db.WithContext(ctx).First(&asset, "asset_tag = ?", tag).Error; err != nil {
		return nil, err
	}
	return &asset, nil
}

func (r *assetRepo) FindAll(ctx context.Context) ([]model.Asset, error) {
	var assets []model.Asset
	err := r.db.WithContext(ctx).Order("asset_tag ASC").Find(&assets).Error
	return assets, err
}
