// Package client talks to a running officespace server over its JSON API.
package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/ziadkadry99/officespace/internal/config"
	"github.com/ziadkadry99/officespace/internal/floorplan"
	"github.com/ziadkadry99/officespace/internal/occupancy"
)

// ErrNoBaseURL is returned when no server address is configured.
var ErrNoBaseURL = errors.New("remote base URL is not set")

// APIError is a non-2xx reply from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Unwrap maps a 404 to occupancy.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return occupancy.ErrNotFound
	}
	return nil
}

type errorBody struct {
	Error string `json:"error"`
}

type writeResult struct {
	Message  string                 `json:"message"`
	Occupant occupancy.OccupantJSON `json:"occupant"`
}

// Client is a remote data source and write-through persister for the
// application state.
type Client struct {
	http   *resty.Client
	logger *zap.Logger
}

// New creates a client for the server at cfg.BaseURL.
func New(cfg config.RemoteConfig, logger *zap.Logger) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, ErrNoBaseURL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.Timeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rc := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(timeout).
		SetRetryCount(cfg.Retries).
		SetRetryWaitTime(200 * time.Millisecond).
		SetRetryMaxWaitTime(2 * time.Second).
		AddRetryCondition(retryReads).
		SetHeader("Accept", "application/json")

	return &Client{http: rc, logger: logger.Named("client")}, nil
}

// SetActor names the user recorded in the server's audit trail.
func (c *Client) SetActor(actor string) *Client {
	c.http.SetHeader(occupancy.ActorHeader, actor)
	return c
}

// FetchOffices downloads every office's occupants.
func (c *Client) FetchOffices(ctx context.Context) (floorplan.Dataset, error) {
	var out map[string]occupancy.Office
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/offices")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("fetching offices: %w", err)
	}

	grouped := make(map[string][]occupancy.Record, len(out))
	for id, office := range out {
		records := make([]occupancy.Record, len(office.Occupants))
		for i, r := range office.Occupants {
			r.OfficeID = id
			records[i] = r
		}
		grouped[id] = records
	}
	c.logger.Debug("offices fetched", zap.Int("offices", len(grouped)))
	return occupancy.Dataset(grouped), nil
}

// AddOccupant creates an occupant in officeID.
func (c *Client) AddOccupant(ctx context.Context, officeID string, in occupancy.Input) (occupancy.Record, error) {
	var out writeResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&out).
		SetError(&errorBody{}).
		SetPathParam("officeID", officeID).
		Post("/api/offices/{officeID}/occupants")
	if err := check(resp, err); err != nil {
		return occupancy.Record{}, fmt.Errorf("adding occupant to %s: %w", officeID, err)
	}
	return record(out.Occupant), nil
}

// EditOccupant replaces the fields of occupant id.
func (c *Client) EditOccupant(ctx context.Context, id int64, in occupancy.Input) (occupancy.Record, error) {
	var out writeResult
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(in).
		SetResult(&out).
		SetError(&errorBody{}).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Put("/api/occupants/{id}")
	if err := check(resp, err); err != nil {
		return occupancy.Record{}, fmt.Errorf("updating occupant %d: %w", id, err)
	}
	return record(out.Occupant), nil
}

// DeleteOccupant removes occupant id.
func (c *Client) DeleteOccupant(ctx context.Context, id int64) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetError(&errorBody{}).
		SetPathParam("id", strconv.FormatInt(id, 10)).
		Delete("/api/occupants/{id}")
	if err := check(resp, err); err != nil {
		return fmt.Errorf("deleting occupant %d: %w", id, err)
	}
	return nil
}

// SearchOccupants finds occupants whose name contains q.
func (c *Client) SearchOccupants(ctx context.Context, q string) ([]occupancy.Record, error) {
	var out []occupancy.OccupantJSON
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("q", q).
		SetResult(&out).
		SetError(&errorBody{}).
		Get("/api/occupants")
	if err := check(resp, err); err != nil {
		return nil, fmt.Errorf("searching occupants: %w", err)
	}
	records := make([]occupancy.Record, len(out))
	for i, o := range out {
		records[i] = record(o)
	}
	return records, nil
}

// CreateOccupant implements the state's persister.
func (c *Client) CreateOccupant(ctx context.Context, officeID string, o floorplan.Occupant) (floorplan.Occupant, error) {
	r, err := c.AddOccupant(ctx, officeID, occupancy.InputFrom(o))
	if err != nil {
		return floorplan.Occupant{}, err
	}
	return r.Occupant(), nil
}

// UpdateOccupant implements the state's persister.
func (c *Client) UpdateOccupant(ctx context.Context, o floorplan.Occupant) (floorplan.Occupant, error) {
	r, err := c.EditOccupant(ctx, o.ID, occupancy.InputFrom(o))
	if err != nil {
		return floorplan.Occupant{}, err
	}
	return r.Occupant(), nil
}

func record(o occupancy.OccupantJSON) occupancy.Record {
	r := o.Record
	r.OfficeID = o.OfficeID
	return r
}

func check(resp *resty.Response, err error) error {
	if err != nil {
		return err
	}
	if !resp.IsError() {
		return nil
	}
	msg := resp.Status()
	if body, ok := resp.Error().(*errorBody); ok && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode(), Message: msg}
}

func retryReads(resp *resty.Response, err error) bool {
	if resp == nil || resp.Request == nil || resp.Request.Method != http.MethodGet {
		return false
	}
	return err != nil || resp.StatusCode() >= http.StatusInternalServerError
}
