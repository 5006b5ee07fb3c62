package services_test

import (
	"context"
	"sync"

	"checkout-service/models"
	"checkout-service/repository"

	"github.com/google/uuid"
)

// ---- mock provider ----

type mockProvider struct {
	quotes []models.CarrierQuote
	err    error
	calls  int
	mu     sync.Mutex
}

func (m *mockProvider) Name() string { return "Shippo" }

func (m *mockProvider) GetRates(_ context.Context, _ models.Parcel, _ models.Address, _ models.Destination) ([]models.CarrierQuote, error) {
	m.mu.Lock()
	m.calls++
	m.mu.Unlock()
	return m.quotes, m.err
}

// ---- mock cache ----

type mockCache struct {
	mu      sync.Mutex
	entries map[string]*models.ShippingEstimate
	getErr  error
	setErr  error
}

func newMockCache() *mockCache {
	return &mockCache{entries: make(map[string]*models.ShippingEstimate)}
}

func (m *mockCache) Get(_ context.Context, key string) (*models.ShippingEstimate, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	est, ok := m.entries[key]
	if !ok {
		return nil, repository.ErrCacheMiss
	}
	return est, nil
}

func (m *mockCache) Set(_ context.Context, key string, est *models.ShippingEstimate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.setErr != nil {
		return m.setErr
	}
	m.entries[key] = est
	return nil
}

// ---- mock metrics ----

type mockMetrics struct {
	mu     sync.Mutex
	counts map[string]int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{counts: make(map[string]int)}
}

func (m *mockMetrics) RecordCount(_ context.Context, name string, _ map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counts[name]++
	return nil
}

func (m *mockMetrics) count(name string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.counts[name]
}

// ---- mock lead repository ----

type mockLeadRepo struct {
	created   *models.Lead
	createErr error
	leads     []models.Lead
	total     int64
	findErr   error
	updateErr error

	gotStatus string
	gotPage   int
	gotLimit  int
}

func (m *mockLeadRepo) Create(_ context.Context, l *models.Lead) error {
	m.created = l
	return m.createErr
}
func (m *mockLeadRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.Lead, error) {
	return m.created, nil
}
func (m *mockLeadRepo) FindAll(_ context.Context, status string, page, limit int) ([]models.Lead, int64, error) {
	m.gotStatus, m.gotPage, m.gotLimit = status, page, limit
	return m.leads, m.total, m.findErr
}
func (m *mockLeadRepo) UpdateStatus(_ context.Context, _ uuid.UUID, _ string) error {
	return m.updateErr
}

// ---- mock SNS publisher ----

type mockSNS struct {
	publishErr error
	topic      string
	messages   [][]byte
}

func (m *mockSNS) Publish(_ context.Context, topic string, msg []byte) error {
	m.topic = topic
	m.messages = append(m.messages, msg)
	return m.publishErr
}

// ---- static rates ----

type staticRates models.RateTable

func (s staticRates) Rates() models.RateTable { return models.RateTable(s) }
