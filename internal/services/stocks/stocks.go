// Package stocks содержит бизнес-логику портфеля: добавление и список акций пользователя.
package stocks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/stonks/internal/lib/sl"
	"github.com/magabrotheeeer/stonks/internal/models"
)

// StockRepository определяет методы для работы с акциями в хранилище.
type StockRepository interface {
	// CreateStock добавляет акцию и возвращает её ID.
	CreateStock(ctx context.Context, stock models.Stock) (int64, error)
	// ListStocks возвращает акции пользователя в порядке добавления.
	ListStocks(ctx context.Context, userID int64) ([]models.Stock, error)
}

// Cache описывает методы для кеширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// StockService реализует работу с портфелем и кеширует списки акций.
// cache может быть nil, тогда все чтения идут в репозиторий.
type StockService struct {
	repo  StockRepository
	cache Cache
	ttl   time.Duration
	log   *slog.Logger
}

// NewStockService создает новый экземпляр StockService.
func NewStockService(repo StockRepository, cache Cache, ttl time.Duration, log *slog.Logger) *StockService {
	return &StockService{
		repo:  repo,
		cache: cache,
		ttl:   ttl,
		log:   log,
	}
}

func cacheKey(userID int64) string {
	return fmt.Sprintf("stocks:%d", userID)
}

// Add сохраняет акцию пользователя и сбрасывает кеш его списка.
func (s *StockService) Add(ctx context.Context, userID int64, stock models.Stock) (int64, error) {
	const op = "stocks.Add"
	stock.UserID = userID
	id, err := s.repo.CreateStock(ctx, stock)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("added new stock", slog.String("op", op), slog.String("stock", stock.String()), slog.Int64("user_id", userID))

	if s.cache != nil {
		key := cacheKey(userID)
		if err := s.cache.Invalidate(ctx, key); err != nil {
			s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
		}
	}
	return id, nil
}

// List возвращает акции пользователя, используя кеш или репозиторий.
func (s *StockService) List(ctx context.Context, userID int64) ([]models.Stock, error) {
	const op = "stocks.List"
	key := cacheKey(userID)

	if s.cache != nil {
		var cached []models.Stock
		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
		}
		if found {
			return cached, nil
		}
	}

	result, err := s.repo.ListStocks(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, result, s.ttl); err != nil {
			s.log.Warn("failed to add to cache", slog.String("key", key), sl.Err(err))
		}
	}
	return result, nil
}
