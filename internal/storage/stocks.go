package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/stonks/internal/models"
)

// CreateStock сохраняет акцию пользователя и возвращает её ID.
func (s *Storage) CreateStock(ctx context.Context, stock models.Stock) (int64, error) {
	const op = "storage.CreateStock"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO stocks (user_id, stock_symbol, number_of_shares, purchase_price)
			  VALUES ($1, $2, $3, $4)
			  RETURNING id`
	var newID int64
	err := s.DB.QueryRowContext(ctx, query,
		stock.UserID, stock.Symbol, stock.NumberOfShares, stock.PurchasePrice).Scan(&newID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// ListStocks возвращает акции пользователя в порядке добавления.
func (s *Storage) ListStocks(ctx context.Context, userID int64) ([]models.Stock, error) {
	const op = "storage.ListStocks"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT id, user_id, stock_symbol, number_of_shares, purchase_price
			  FROM stocks
			  WHERE user_id = $1
			  ORDER BY id`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	result := make([]models.Stock, 0)
	for rows.Next() {
		var item models.Stock
		if err := rows.Scan(&item.ID, &item.UserID, &item.Symbol,
			&item.NumberOfShares, &item.PurchasePrice); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
