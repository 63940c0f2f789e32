// Package redis persists order book level images so a restarted process
// can warm-start a book before its feed resynchronizes.
package redis

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/erain9/tickbook/pkg/core"
)

// RedisOptions represents configuration options for Redis connection
type RedisOptions struct {
	Addr     string
	Password string
	DB       int
}

var defaultOptions = &RedisOptions{
	Addr:     "localhost:6379",
	Password: "",
	DB:       0,
}

// SetDefaultRedisOptions sets the default options for Redis connections
func SetDefaultRedisOptions(options *RedisOptions) {
	defaultOptions = options
}

// GetRedisClient creates a new Redis client using the default options
func GetRedisClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     defaultOptions.Addr,
		Password: defaultOptions.Password,
		DB:       defaultOptions.DB,
	})
}

// bookMeta is the metadata hash stored alongside the level hashes.
type bookMeta struct {
	InstrumentID   string `json:"instrument_id"`
	PricePrecision uint8  `json:"price_precision"`
	Sequence       uint64 `json:"sequence"`
	TsEvent        int64  `json:"ts_event"`
}

// SnapshotStore saves and restores book level images in Redis. Per
// instrument it keeps two hashes of price -> volume plus a metadata key.
type SnapshotStore struct {
	client    *redis.Client
	keyPrefix string
	logger    *zap.Logger
}

// NewSnapshotStore creates a store under the given key prefix.
func NewSnapshotStore(client *redis.Client, keyPrefix string, logger *zap.Logger) *SnapshotStore {
	return &SnapshotStore{
		client:    client,
		keyPrefix: keyPrefix,
		logger:    logger,
	}
}

func (s *SnapshotStore) bidsKey(instrumentID string) string {
	return fmt.Sprintf("%s:%s:bids", s.keyPrefix, instrumentID)
}

func (s *SnapshotStore) asksKey(instrumentID string) string {
	return fmt.Sprintf("%s:%s:asks", s.keyPrefix, instrumentID)
}

func (s *SnapshotStore) metaKey(instrumentID string) string {
	return fmt.Sprintf("%s:%s:meta", s.keyPrefix, instrumentID)
}

// Save writes the book's current level image in one pipeline, replacing
// any previous image for the instrument.
func (s *SnapshotStore) Save(ctx context.Context, book *core.OrderBook) error {
	instrumentID := book.InstrumentID()

	bids := make(map[string]string)
	book.Levels(core.Buy, func(view core.LevelView) bool {
		bids[view.Price.String()] = view.Volume.String()
		return true
	})
	asks := make(map[string]string)
	book.Levels(core.Sell, func(view core.LevelView) bool {
		asks[view.Price.String()] = view.Volume.String()
		return true
	})

	meta, err := json.Marshal(bookMeta{
		InstrumentID:   instrumentID,
		PricePrecision: book.Precision(),
		Sequence:       book.Sequence(),
		TsEvent:        book.TsLast(),
	})
	if err != nil {
		return fmt.Errorf("failed to marshal book meta: %w", err)
	}

	pipe := s.client.Pipeline()
	pipe.Del(ctx, s.bidsKey(instrumentID), s.asksKey(instrumentID))
	if len(bids) > 0 {
		pipe.HSet(ctx, s.bidsKey(instrumentID), bids)
	}
	if len(asks) > 0 {
		pipe.HSet(ctx, s.asksKey(instrumentID), asks)
	}
	pipe.Set(ctx, s.metaKey(instrumentID), meta, 0)
	if _, err := pipe.Exec(ctx); err != nil {
		s.logger.Error("failed to save book image",
			zap.String("instrumentID", instrumentID),
			zap.Error(err))
		return fmt.Errorf("failed to save book image: %w", err)
	}

	s.logger.Debug("saved book image",
		zap.String("instrumentID", instrumentID),
		zap.Int("bidLevels", len(bids)),
		zap.Int("askLevels", len(asks)),
		zap.Uint64("sequence", book.Sequence()))
	return nil
}

// Load reads a stored level image back as a depth-only snapshot. A
// missing instrument returns redis.Nil.
func (s *SnapshotStore) Load(ctx context.Context, instrumentID string) (*core.BookSnapshot, error) {
	data, err := s.client.Get(ctx, s.metaKey(instrumentID)).Bytes()
	if err != nil {
		return nil, err
	}
	var meta bookMeta
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("failed to unmarshal book meta: %w", err)
	}

	bids, err := s.loadSide(ctx, s.bidsKey(instrumentID), meta.PricePrecision)
	if err != nil {
		return nil, err
	}
	asks, err := s.loadSide(ctx, s.asksKey(instrumentID), meta.PricePrecision)
	if err != nil {
		return nil, err
	}

	return &core.BookSnapshot{
		InstrumentID: meta.InstrumentID,
		Bids:         bids,
		Asks:         asks,
		Sequence:     meta.Sequence,
		TsEvent:      meta.TsEvent,
	}, nil
}

func (s *SnapshotStore) loadSide(ctx context.Context, key string, precision uint8) ([]core.SnapshotLevel, error) {
	rows, err := s.client.HGetAll(ctx, key).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to load levels from %s: %w", key, err)
	}
	out := make([]core.SnapshotLevel, 0, len(rows))
	for priceStr, volumeStr := range rows {
		price, perr := core.ParsePrice(priceStr, precision)
		if perr != nil {
			return nil, fmt.Errorf("corrupt price %q in %s: %w", priceStr, key, perr)
		}
		volume, verr := core.QuantityFromString(volumeStr)
		if verr != nil {
			return nil, fmt.Errorf("corrupt volume %q in %s: %w", volumeStr, key, verr)
		}
		out = append(out, core.SnapshotLevel{Price: price, Quantity: volume})
	}
	return out, nil
}

// Delete removes an instrument's stored image.
func (s *SnapshotStore) Delete(ctx context.Context, instrumentID string) error {
	if err := s.client.Del(ctx,
		s.bidsKey(instrumentID),
		s.asksKey(instrumentID),
		s.metaKey(instrumentID)).Err(); err != nil {
		return fmt.Errorf("failed to delete book image: %w", err)
	}
	return nil
}
