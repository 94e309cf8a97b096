// Package directory mediates all reads and writes of employee records
// against the remote HR resource. It hides the backend's unreliable
// pagination and ordering behind one contract: pages are always sorted
// ascending by businessEntityID and page 1 holds the lowest identities
// of the filtered set. Nothing is cached; every call re-fetches.
package directory

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/UnknownOlympus/hera/internal/client"
	"github.com/UnknownOlympus/hera/internal/metrics"
	"github.com/UnknownOlympus/hera/internal/models"
)

// Paging workaround strategies. Reslice fetches the whole filtered set
// and windows it client-side; invert requests the mirrored page number
// from the backend and reverses it.
const (
	StrategyReslice = "reslice"
	StrategyInvert  = "invert"
)

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Filter scopes a List or Search call. Zero Page/Limit fall back to the
// defaults. IncludeInactive false restricts the backend to active
// records. Exclude drops matching records from the filtered set before
// the page window is computed, so Total stays consistent with the data.
type Filter struct {
	Q               string
	Page            int
	Limit           int
	IncludeInactive bool
	Exclude         func(models.Employee) bool
}

func (f Filter) withDefaults() Filter {
	if f.Page < 1 {
		f.Page = defaultPage
	}
	if f.Limit < 1 {
		f.Limit = defaultLimit
	}

	return f
}

func (f Filter) query() url.Values {
	values := url.Values{}
	values.Set("includeInactive", strconv.FormatBool(f.IncludeInactive))
	if f.Q != "" {
		values.Set("q", f.Q)
	}

	return values
}

// Directory is the employee directory access layer.
type Directory struct {
	log     *slog.Logger
	client  *http.Client
	baseURL string
	pager   pager
	metrics *metrics.Metrics
}

// New creates a Directory against the employee resource root URL.
// Unknown strategy names fall back to reslice.
func New(log *slog.Logger, httpClient *http.Client, baseURL, strategy string, mtr *metrics.Metrics) *Directory {
	dir := &Directory{
		log:     log,
		client:  httpClient,
		baseURL: baseURL,
		metrics: mtr,
	}

	switch strategy {
	case StrategyInvert:
		dir.pager = invertPager{}
	default:
		dir.pager = reslicePager{}
	}

	return dir
}

// List returns one trustworthy page of the directory.
func (d *Directory) List(ctx context.Context, filter Filter) (models.PaginatedResponse, error) {
	return d.pager.window(ctx, d, "", filter.withDefaults())
}

// Search returns one trustworthy page of the records matching the
// server-side free-text query in filter.Q.
func (d *Directory) Search(ctx context.Context, filter Filter) (models.PaginatedResponse, error) {
	return d.pager.window(ctx, d, "/search", filter.withDefaults())
}

// GetByID looks an employee up by its server-assigned identity.
func (d *Directory) GetByID(ctx context.Context, identifier int) (models.Employee, error) {
	var resp models.SingleResponse
	err := d.do(ctx, "get_by_id", http.MethodGet, d.baseURL+"/"+strconv.Itoa(identifier), nil, &resp)
	if err != nil {
		return models.Employee{}, err
	}

	return resp.Data, nil
}

// GetByNationalID looks an employee up by the alternate national identifier.
func (d *Directory) GetByNationalID(ctx context.Context, nationalID string) (models.Employee, error) {
	var resp models.SingleResponse
	err := d.do(ctx, "get_by_national_id", http.MethodGet,
		d.baseURL+"/national-id/"+url.PathEscape(nationalID), nil, &resp)
	if err != nil {
		return models.Employee{}, err
	}

	return resp.Data, nil
}

// Create posts a new record and returns the server-assigned copy.
func (d *Directory) Create(ctx context.Context, employee models.Employee) (models.Employee, error) {
	var resp models.SingleResponse
	if err := d.do(ctx, "create", http.MethodPost, d.baseURL, employee, &resp); err != nil {
		return models.Employee{}, err
	}

	return resp.Data, nil
}

// Update sends a partial change; only the fields set on update reach the
// backend.
func (d *Directory) Update(ctx context.Context, identifier int, update models.EmployeeUpdate) (models.Employee, error) {
	var resp models.SingleResponse
	err := d.do(ctx, "update", http.MethodPatch, d.baseURL+"/"+strconv.Itoa(identifier), update, &resp)
	if err != nil {
		return models.Employee{}, err
	}

	return resp.Data, nil
}

// Deactivate soft-deletes a record; the backend flips isActive to false.
func (d *Directory) Deactivate(ctx context.Context, identifier int) (models.APIResponse, error) {
	var resp models.APIResponse
	err := d.do(ctx, "deactivate", http.MethodDelete, d.baseURL+"/"+strconv.Itoa(identifier), nil, &resp)
	if err != nil {
		return models.APIResponse{}, err
	}

	return resp, nil
}

// Reactivate flips a soft-deleted record back to active.
func (d *Directory) Reactivate(ctx context.Context, identifier int) (models.APIResponse, error) {
	var resp models.APIResponse
	err := d.do(ctx, "reactivate", http.MethodPatch,
		d.baseURL+"/"+strconv.Itoa(identifier)+"/reactivate", nil, &resp)
	if err != nil {
		return models.APIResponse{}, err
	}

	return resp, nil
}

// fetchPage issues one raw GET for a backend page. The returned envelope
// is the backend's own view and is not trusted for ordering.
func (d *Directory) fetchPage(ctx context.Context, operation, path string, query url.Values) (models.PaginatedResponse, error) {
	endpoint := d.baseURL + path
	if encoded := query.Encode(); encoded != "" {
		endpoint += "?" + encoded
	}

	var resp models.PaginatedResponse
	if err := d.do(ctx, operation, http.MethodGet, endpoint, nil, &resp); err != nil {
		return models.PaginatedResponse{}, err
	}

	return resp, nil
}

// do executes one request against the backend. Network and decode
// failures become *client.TransportError; non-success statuses become
// *APIError built from the backend envelope.
func (d *Directory) do(ctx context.Context, operation, method, endpoint string, payload, out any) error {
	startTime := time.Now()
	status := "ok"
	defer func() {
		d.metrics.ObserveRequest(operation, status, time.Since(startTime).Seconds())
	}()

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			status = "error"
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		status = "error"
		return fmt.Errorf("failed to create new request %s: %w", endpoint, err)
	}

	req.Header.Set("User-Agent", models.UserAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := d.client.Do(req)
	if err != nil {
		status = "error"
		return &client.TransportError{URL: endpoint, Err: err}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		status = "error"
		return &client.TransportError{URL: endpoint, Err: err}
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		status = "error"
		d.log.DebugContext(ctx, "Backend rejected request",
			"operation", operation, "status_code", resp.StatusCode)

		return apiErrorFromBody(resp.StatusCode, raw)
	}

	if err = json.Unmarshal(raw, out); err != nil {
		status = "error"
		return &client.TransportError{URL: endpoint, Err: err}
	}

	return nil
}

func apiErrorFromBody(statusCode int, body []byte) *APIError {
	var envelope struct {
		Message string `json:"message"`
	}
	_ = json.Unmarshal(body, &envelope)

	return &APIError{StatusCode: statusCode, Message: envelope.Message}
}
