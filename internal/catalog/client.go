package catalog

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rfarias/vehicle-sales-backend/pkg/config"
	pkgerrors "github.com/rfarias/vehicle-sales-backend/pkg/errors"
)

// Snapshot holds the vehicle descriptive fields captured at sale-creation
// time. It is embedded into the sale record so later catalog mutations do not
// rewrite sold history.
type Snapshot struct {
	Brand         string          `json:"brand"`
	Model         string          `json:"model"`
	Year          int             `json:"year"`
	Color         string          `json:"color"`
	OriginalPrice decimal.Decimal `json:"originalPrice"`
}

type vehiclePayload struct {
	ID     uuid.UUID       `json:"id"`
	Brand  string          `json:"brand"`
	Model  string          `json:"model"`
	Year   int             `json:"year"`
	Color  string          `json:"color"`
	Price  decimal.Decimal `json:"price"`
	IsSold bool            `json:"isSold"`
}

type successEnvelope[T any] struct {
	Data T `json:"data"`
}

// Client calls the catalog API over HTTP.
type Client struct {
	baseURL string
	httpc   *http.Client
}

// NewClient builds a catalog client from config.
func NewClient(cfg config.CatalogConfig) *Client {
	return &Client{
		baseURL: cfg.BaseURL,
		httpc:   &http.Client{Timeout: cfg.Timeout},
	}
}

// GetVehicle fetches the purchase snapshot for an available vehicle. A
// vehicle that is already sold cannot be purchased and reads as not found.
func (c *Client) GetVehicle(ctx context.Context, vehicleID uuid.UUID) (*Snapshot, error) {
	url := fmt.Sprintf("%s/vehicles/%s", c.baseURL, vehicleID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build catalog request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unreachable")
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle not found")
	case resp.StatusCode != http.StatusOK:
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "catalog lookup failed").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}

	var envelope successEnvelope[vehiclePayload]
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode catalog response")
	}

	vehicle := envelope.Data
	if vehicle.IsSold {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "vehicle is not available")
	}

	return &Snapshot{
		Brand:         vehicle.Brand,
		Model:         vehicle.Model,
		Year:          vehicle.Year,
		Color:         vehicle.Color,
		OriginalPrice: vehicle.Price,
	}, nil
}

// Ping checks the catalog health endpoint.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build health request")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog unhealthy").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return nil
}

// NotifyVehicleSold relays a payment-status change to the catalog webhook.
func (c *Client) NotifyVehicleSold(ctx context.Context, vehicleID uuid.UUID, paymentCode, status string) error {
	payload, err := json.Marshal(map[string]any{
		"vehicleId":   vehicleID,
		"paymentCode": paymentCode,
		"status":      status,
	})
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encode webhook payload")
	}

	url := c.baseURL + "/vehicles/payment-webhook"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build webhook request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "catalog webhook unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return pkgerrors.New(pkgerrors.CodeDependency, "catalog webhook rejected").
			WithDetails(map[string]any{"status": resp.StatusCode})
	}
	return nil
}
