package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"checkout-service/models"

	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

const quoteKeyPrefix = "shipping:quote:"

// QuoteCache stores computed estimates per (items, destination, service
// type) triple.
type QuoteCache interface {
	Get(ctx context.Context, key string) (*models.ShippingEstimate, error)
	Set(ctx context.Context, key string, est *models.ShippingEstimate) error
}

type RedisQuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisQuoteCache(client *redis.Client, ttl time.Duration) *RedisQuoteCache {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &RedisQuoteCache{client: client, ttl: ttl}
}

func (r *RedisQuoteCache) Get(ctx context.Context, key string) (*models.ShippingEstimate, error) {
	data, err := r.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var est models.ShippingEstimate
	if err := json.Unmarshal(data, &est); err != nil {
		return nil, fmt.Errorf("unmarshal estimate failed: %w", err)
	}
	return &est, nil
}

func (r *RedisQuoteCache) Set(ctx context.Context, key string, est *models.ShippingEstimate) error {
	data, err := json.Marshal(est)
	if err != nil {
		return fmt.Errorf("marshal estimate failed: %w", err)
	}
	if err := r.client.Set(ctx, key, data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

type quoteKeyItem struct {
	ProductID string   `json:"p"`
	Price     string   `json:"pr"`
	Quantity  int      `json:"q"`
	WeightKg  *float64 `json:"w,omitempty"`
	VolumeCBM *float64 `json:"v,omitempty"`
}

type quoteKeyInput struct {
	Items       []quoteKeyItem     `json:"i"`
	Destination models.Destination `json:"d"`
	ServiceType models.ServiceType `json:"s"`
}

// QuoteKey derives the cache key of req. Line order, letter case and
// surrounding whitespace in the destination do not change the key; any other
// difference does.
func QuoteKey(req *models.EstimateRequest) string {
	in := quoteKeyInput{
		Items: make([]quoteKeyItem, 0, len(req.Items)),
		Destination: models.Destination{
			Country:    strings.ToUpper(strings.TrimSpace(req.Destination.Country)),
			City:       strings.ToLower(strings.TrimSpace(req.Destination.City)),
			State:      strings.ToLower(strings.TrimSpace(req.Destination.State)),
			PostalCode: strings.ToUpper(strings.ReplaceAll(req.Destination.PostalCode, " ", "")),
		},
		ServiceType: req.ServiceType,
	}
	for _, it := range req.Items {
		in.Items = append(in.Items, quoteKeyItem{
			ProductID: it.ProductID,
			Price:     it.Price,
			Quantity:  it.Quantity,
			WeightKg:  it.WeightKg,
			VolumeCBM: it.VolumeCBM,
		})
	}
	sort.SliceStable(in.Items, func(i, j int) bool {
		return in.Items[i].ProductID < in.Items[j].ProductID
	})

	b, _ := json.Marshal(in)
	sum := sha256.Sum256(b)
	return quoteKeyPrefix + hex.EncodeToString(sum[:])
}
