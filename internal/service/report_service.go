package service

import (
	"context"

	"go-parts-inventory/internal/model"
	"go-parts-inventory/internal/repository"
)

type DashboardStats struct {
	TotalParts      int64                    `json:"total_parts"`
	TotalUnits      int64                    `json:"total_units"`
	UnitsByLocation []model.LocationQuantity `json:"units_by_location"`
}

type ReportService interface {
	GetDashboardStats(ctx context.Context) (*DashboardStats, error)
}

type reportService struct {
	partRepo   repository.PartRepository
	recordRepo repository.PartRecordRepository
}

func NewReportService(partRepo repository.PartRepository, recordRepo repository.PartRecordRepository) ReportService {
	return &reportService{partRepo: partRepo, recordRepo: recordRepo}
}

func (s *reportService) GetDashboardStats(ctx context.Context) (*DashboardStats, error) {
	parts, err := s.partRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	byLocation, err := s.recordRepo.CountByLocation(ctx)
	if err != nil {
		return nil, err
	}
	if byLocation == nil {
		byLocation = []model.LocationQuantity{}
	}

	stats := &DashboardStats{TotalParts: parts, UnitsByLocation: byLocation}
	for _, l := range byLocation {
		stats.TotalUnits += l.Quantity
	}
	return stats, nil
}
