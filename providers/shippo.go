package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"checkout-service/models"
)

const (
	ShippoBaseURL = "https://api.goshippo.com"
	shippoName    = "Shippo"

	minParcelSideCm = 10
	minParcelKg     = 0.1
)

// ShippoProvider implements RateProvider using the Shippo API.
type ShippoProvider struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewShippoProvider creates a new ShippoProvider. An empty baseURL uses the
// public API.
func NewShippoProvider(apiKey, baseURL string, timeout time.Duration) *ShippoProvider {
	if baseURL == "" {
		baseURL = ShippoBaseURL
	}
	return &ShippoProvider{
		apiKey:  apiKey,
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

func (s *ShippoProvider) Name() string { return shippoName }

// ---- Shippo API request/response structs ----

type shippoAddress struct {
	Name    string `json:"name,omitempty"`
	Street1 string `json:"street1,omitempty"`
	Street2 string `json:"street2,omitempty"`
	City    string `json:"city"`
	State   string `json:"state,omitempty"`
	Zip     string `json:"zip,omitempty"`
	Country string `json:"country"`
	Phone   string `json:"phone,omitempty"`
	Email   string `json:"email,omitempty"`
}

type shippoParcel struct {
	Length       string `json:"length"`
	Width        string `json:"width"`
	Height       string `json:"height"`
	DistanceUnit string `json:"distance_unit"`
	Weight       string `json:"weight"`
	MassUnit     string `json:"mass_unit"`
}

type shippoShipmentRequest struct {
	AddressFrom shippoAddress  `json:"address_from"`
	AddressTo   shippoAddress  `json:"address_to"`
	Parcels     []shippoParcel `json:"parcels"`
	Async       bool           `json:"async"`
}

type shippoRate struct {
	ObjectID     string `json:"object_id"`
	Provider     string `json:"provider"`
	ServiceLevel struct {
		Name  string `json:"name"`
		Token string `json:"token"`
	} `json:"servicelevel"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	EstimatedDays int    `json:"estimated_days"`
}

type shippoShipmentResponse struct {
	Status   string       `json:"status"`
	Rates    []shippoRate `json:"rates"`
	Messages []struct {
		Text string `json:"text"`
	} `json:"messages"`
}

// ---- RateProvider implementation ----

// GetRates creates a Shippo shipment for a single parcel sized from the
// aggregate volume and weight, and returns its rates.
func (s *ShippoProvider) GetRates(ctx context.Context, parcel models.Parcel, origin models.Address, destination models.Destination) ([]models.CarrierQuote, error) {
	side := strconv.FormatFloat(cubeSideCm(parcel.VolumeCBM, minParcelSideCm), 'f', 0, 64)
	weight := parcel.WeightKg
	if weight < minParcelKg {
		weight = minParcelKg
	}

	reqBody := shippoShipmentRequest{
		AddressFrom: toShippoAddress(origin),
		AddressTo: shippoAddress{
			City:    destination.City,
			State:   destination.State,
			Zip:     destination.PostalCode,
			Country: NormalizeCountry(destination.Country),
		},
		Parcels: []shippoParcel{
			{
				Length:       side,
				Width:        side,
				Height:       side,
				DistanceUnit: "cm",
				Weight:       fmt.Sprintf("%.3f", weight),
				MassUnit:     "kg",
			},
		},
		Async: false,
	}

	var resp shippoShipmentResponse
	if err := s.doRequest(ctx, http.MethodPost, "/shipments/", reqBody, &resp); err != nil {
		return nil, fmt.Errorf("shippo GetRates: %w", err)
	}
	if resp.Status == "ERROR" {
		msg := "shipment rejected"
		if len(resp.Messages) > 0 {
			msg = resp.Messages[0].Text
		}
		return nil, fmt.Errorf("shippo GetRates: %s", msg)
	}

	quotes := make([]models.CarrierQuote, 0, len(resp.Rates))
	for _, r := range resp.Rates {
		amount, err := strconv.ParseFloat(strings.TrimSpace(r.Amount), 64)
		if err != nil || amount <= 0 {
			continue
		}
		level := r.ServiceLevel.Name
		quotes = append(quotes, models.CarrierQuote{
			Provider:     shippoName,
			CarrierName:  r.Provider,
			ServiceLevel: level,
			ServiceType:  ClassifyServiceLevel(level + " " + r.ServiceLevel.Token),
			Amount:       amount,
			Currency:     models.CurrencyCode(strings.ToUpper(r.Currency)),
			TransitDays:  r.EstimatedDays,
			RateID:       r.ObjectID,
		})
	}

	return quotes, nil
}

// ---- HTTP helper ----

func (s *ShippoProvider) doRequest(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "ShippoToken "+s.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http do: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("shippo API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if out != nil {
		if err := json.Unmarshal(respBytes, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// ---- Conversion helper ----

func toShippoAddress(a models.Address) shippoAddress {
	return shippoAddress{
		Name:    a.Name,
		Street1: a.Street1,
		Street2: a.Street2,
		City:    a.City,
		State:   a.State,
		Zip:     a.PostalCode,
		Country: a.Country,
		Phone:   a.Phone,
		Email:   a.Email,
	}
}
