package service

import (
	"context"
	"errors"
	"fmt"

	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"

	"gorm.io/gorm"
)

type AssetService interface {
	CreateAsset(ctx context.Context, actor model.Actor, req *CreateAssetRequest) (*model.Asset, error)
	GetAsset(ctx context.Context, tag string) (*model.Asset, error)
	GetAllAssets(ctx context.Context) ([]model.Asset, error)
}

type CreateAssetRequest struct {
	AssetTag     string `json:"asset_tag" validate:"required,max=64"`
	Building     int    `json:"building" validate:"required"`
	AssetType    string `json:"asset_type"`
	Manufacturer string `json:"manufacturer"`
	Model        string `json:"model"`
}

type assetService struct {
	assetRepo repository.AssetRepository
}

func NewAssetService(assetRepo repository.AssetRepository) AssetService {
	return &assetService{assetRepo: assetRepo}
}

func (s *assetService) CreateAsset(ctx context.Context, actor model.Actor, req *CreateAssetRequest) (*model.Asset, error) {
	if err := validate(req); err != nil {
		return nil, err
	}
	asset := &model.Asset{
		AssetTag:     req.AssetTag,
		Building:     req.Building,
		AssetType:    req.AssetType,
		Manufacturer: req.Manufacturer,
		Model:        req.Model,
	}
	asset.CreatedBy = actor.UserID
	asset.UpdatedBy = actor.UserID

	if err := s.assetRepo.Create(ctx, asset); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: asset tag %s already exists", ErrInvalidRequest, req.AssetTag)
		}
		return nil, err
	}
	return asset, nil
}

func (s *assetService) GetAsset(ctx context.Context, tag string) (*model.Asset, error) {
	asset, err := s.assetRepo.FindByTag(ctx, tag)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return asset, nil
}

func (s *assetService) GetAllAssets(ctx context.Context) ([]model.Asset, error) {
	return s.assetRepo.FindAll(ctx)
}
