package service

import (
	"context"
	"fmt"
	"math"

	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/repository"
)

// RunService lists ingest runs
type RunService struct {
	runRepo *repository.RunRepository
}

// NewRunService creates a new run service
func NewRunService(runRepo *repository.RunRepository) *RunService {
	return &RunService{runRepo: runRepo}
}

// List returns a page of runs, newest first
func (s *RunService) List(ctx context.Context, filter models.RunFilter) (*models.RunsResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 {
		filter.PageSize = 20
	}
	if filter.PageSize > 200 {
		filter.PageSize = 200
	}

	runs, total, err := s.runRepo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingest runs: %w", err)
	}
	if runs == nil {
		runs = []models.IngestRun{}
	}

	return &models.RunsResponse{
		Data:       runs,
		Total:      total,
		Page:       filter.Page,
		PageSize:   filter.PageSize,
		TotalPages: int(math.Ceil(float64(total) / float64(filter.PageSize))),
	}, nil
}
