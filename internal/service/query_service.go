package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/jengzang/locstore-backend-go/internal/identity"
	"github.com/jengzang/locstore-backend-go/internal/models"
	"github.com/jengzang/locstore-backend-go/internal/query"
	"github.com/jengzang/locstore-backend-go/internal/repository"
	"github.com/jengzang/locstore-backend-go/internal/rowkey"
	"github.com/jengzang/locstore-backend-go/internal/spatial"
)

// ErrInvalidQuery marks errors caused by the caller's parameters
var ErrInvalidQuery = errors.New("invalid query")

// Scan page size bounds
const (
	DefaultScanLimit = 100
	MaxScanLimit     = 5000
)

// QueryService plans and runs range scans
type QueryService struct {
	planner    *spatial.Planner
	index      *repository.IndexRepository
	normalizer *identity.Normalizer
}

// NewQueryService creates a new query service
func NewQueryService(planner *spatial.Planner, index *repository.IndexRepository, normalizer *identity.Normalizer) *QueryService {
	return &QueryService{
		planner:    planner,
		index:      index,
		normalizer: normalizer,
	}
}

func invalid(err error) error {
	return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
}

// Plan returns the key ranges covering a box and time window
func (s *QueryService) Plan(filter models.BoxFilter) (*models.PlanResponse, error) {
	ranges, err := s.planner.Plan(filter.StartTime, filter.EndTime,
		filter.Lat0, filter.Lat1, filter.Lon0, filter.Lon1)
	if err != nil {
		if errors.Is(err, spatial.ErrInvalidBox) || errors.Is(err, spatial.ErrTooManyRanges) {
			return nil, invalid(err)
		}
		return nil, fmt.Errorf("failed to plan ranges: %w", err)
	}
	ext := spatial.BoxExtent(filter.Lat0, filter.Lat1, filter.Lon0, filter.Lon1)
	return &models.PlanResponse{
		Ranges:  ranges,
		Count:   len(ranges),
		WidthM:  ext.WidthMeters,
		HeightM: ext.HeightMeters,
		AreaKm2: ext.AreaKm2,
	}, nil
}

// ranges resolves the layout and key ranges a scan filter selects
func (s *QueryService) ranges(filter models.ScanFilter) (models.Layout, []models.KeyRange, error) {
	layout := models.Layout(filter.Layout)
	if layout == "" {
		layout = models.LayoutGeo
		if filter.Entity != "" {
			layout = models.LayoutEntity
		}
	}

	switch layout {
	case models.LayoutEntity:
		if filter.Entity == "" {
			return "", nil, invalid(errors.New("entity layout requires an entity"))
		}
		if filter.StartTime < 0 || filter.EndTime < filter.StartTime {
			return "", nil, invalid(errors.New("time window is empty or negative"))
		}
		ranges, err := s.entityRanges(filter.Entity, filter.StartTime, filter.EndTime)
		if err != nil {
			return "", nil, err
		}
		return layout, ranges, nil
	case models.LayoutGeo:
		plan, err := s.Plan(filter.BoxFilter)
		if err != nil {
			return "", nil, err
		}
		return layout, plan.Ranges, nil
	}
	return "", nil, invalid(fmt.Errorf("unknown layout %q", filter.Layout))
}

// entityRanges covers the normalized id and, when it differs, the id as
// given. Proximity fixes store their entity verbatim.
func (s *QueryService) entityRanges(entity string, t0, t1 int64) ([]models.KeyRange, error) {
	ids := []string{s.normalizer.Normalize(entity)}
	if ids[0] != entity {
		ids = append(ids, entity)
	}

	ranges := make([]models.KeyRange, 0, len(ids))
	for _, id := range ids {
		if err := rowkey.CheckEntity(id); err != nil {
			return nil, invalid(err)
		}
		ranges = append(ranges, rowkey.EntityRange(id, t0, t1))
	}
	return ranges, nil
}

// Scan returns one page of decoded cells and a token for the next page
func (s *QueryService) Scan(ctx context.Context, filter models.ScanFilter) (*models.ScanPage, error) {
	layout, ranges, err := s.ranges(filter)
	if err != nil {
		return nil, err
	}

	pos, err := query.ParseToken(filter.Cursor)
	if err != nil {
		return nil, invalid(err)
	}

	limit := filter.Limit
	if limit < 1 {
		limit = DefaultScanLimit
	}
	if limit > MaxScanLimit {
		limit = MaxScanLimit
	}

	scanner, err := s.index.Scanner(layout)
	if err != nil {
		return nil, err
	}
	d := query.NewDecoder(scanner, ranges, query.NewCodec(layout, rowkey.EntityWidth))
	defer d.Close()
	if err := d.Seek(pos); err != nil {
		return nil, invalid(err)
	}

	page := &models.ScanPage{Layout: layout, Ranges: len(ranges)}
	if filter.Compact {
		page.Lines, err = d.FetchCompact(ctx, limit)
	} else {
		page.Rows, err = d.FetchRows(ctx, limit)
	}
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to scan: %w", err)
	}

	if !d.Done() {
		page.Next = d.Position().Token()
	}
	return page, nil
}
