package directory

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"github.com/UnknownOlympus/hera/internal/models"
)

// fetchAllLimit is the oversized limit used by the reslice strategy to
// pull the whole filtered set in one call.
const fetchAllLimit = 10000

// pager produces one trustworthy page window for a listing path.
// Both implementations satisfy the same contract: ascending
// businessEntityID order, stable across calls, page 1 holding the lowest
// identities of the filtered set.
type pager interface {
	window(ctx context.Context, d *Directory, path string, filter Filter) (models.PaginatedResponse, error)
}

// reslicePager retrieves the entire filtered collection, sorts it
// client-side and slices out the requested window. Totals are computed
// from the full collection, after the exclusion predicate has been
// applied, so pagination always matches the returned data.
type reslicePager struct{}

func (reslicePager) window(ctx context.Context, d *Directory, path string, filter Filter) (models.PaginatedResponse, error) {
	query := filter.query()
	query.Set("limit", strconv.Itoa(fetchAllLimit))

	resp, err := d.fetchPage(ctx, "list_all", path, query)
	if err != nil {
		return models.PaginatedResponse{}, err
	}

	employees := resp.Data
	if filter.Exclude != nil {
		kept := make([]models.Employee, 0, len(employees))
		for _, employee := range employees {
			if !filter.Exclude(employee) {
				kept = append(kept, employee)
			}
		}
		employees = kept
	}

	// Missing identities carry the zero value and sort first.
	sort.SliceStable(employees, func(i, j int) bool {
		return employees[i].BusinessEntityID < employees[j].BusinessEntityID
	})

	total := len(employees)
	totalPages := (total + filter.Limit - 1) / filter.Limit

	start := (filter.Page - 1) * filter.Limit
	end := start + filter.Limit
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return models.PaginatedResponse{
		Message:    resp.Message,
		StatusCode: resp.StatusCode,
		Data:       employees[start:end],
		Pagination: models.Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

// invertPager works around a backend whose page numbering is inverted:
// it probes the total page count, requests the mirrored page number and
// reverses the returned rows. The exclusion predicate can only trim the
// returned page here, not the windowed set; callers needing exact totals
// with an exclusion filter should use the reslice strategy.
type invertPager struct{}

func (invertPager) window(ctx context.Context, d *Directory, path string, filter Filter) (models.PaginatedResponse, error) {
	probe, err := d.fetchPage(ctx, "probe", path, pageQuery(filter, 1))
	if err != nil {
		return models.PaginatedResponse{}, err
	}

	totalPages := probe.Pagination.TotalPages
	invertedPage := totalPages - filter.Page + 1

	if invertedPage < 1 {
		// Requested page is beyond the collection; an empty window with
		// honest pagination mirrors what reslicing would produce.
		return models.PaginatedResponse{
			Message:    probe.Message,
			StatusCode: probe.StatusCode,
			Data:       []models.Employee{},
			Pagination: models.Pagination{
				Total:      probe.Pagination.Total,
				Page:       filter.Page,
				Limit:      filter.Limit,
				TotalPages: totalPages,
			},
		}, nil
	}

	resp, err := d.fetchPage(ctx, "page", path, pageQuery(filter, invertedPage))
	if err != nil {
		return models.PaginatedResponse{}, err
	}

	employees := resp.Data
	for i, j := 0, len(employees)-1; i < j; i, j = i+1, j-1 {
		employees[i], employees[j] = employees[j], employees[i]
	}

	if filter.Exclude != nil {
		kept := make([]models.Employee, 0, len(employees))
		for _, employee := range employees {
			if !filter.Exclude(employee) {
				kept = append(kept, employee)
			}
		}
		employees = kept
	}

	return models.PaginatedResponse{
		Message:    resp.Message,
		StatusCode: resp.StatusCode,
		Data:       employees,
		Pagination: models.Pagination{
			Total:      resp.Pagination.Total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

func pageQuery(filter Filter, page int) url.Values {
	query := filter.query()
	query.Set("page", strconv.Itoa(page))
	query.Set("limit", strconv.Itoa(filter.Limit))

	return query
}
