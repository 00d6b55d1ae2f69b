package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"matchd/internal/domain"
	"matchd/internal/port"
)

var _ port.Repository = (*PgRepo)(nil)

type PgRepo struct {
	pool *pgxpool.Pool
}

// NewPgRepo opens a connection pool; call Close when done.
func NewPgRepo(ctx context.Context, dsn string) (*PgRepo, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: create pool: %w", err)
	}
	return &PgRepo{pool: pool}, nil
}

func (p *PgRepo) Close() {
	if p.pool != nil {
		p.pool.Close()
	}
}

func (p *PgRepo) SaveOrder(ctx context.Context, o *domain.Order) error {
	if o == nil {
		return errors.New("nil order")
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO orders(id, client_id, client_order_id, side, price, quantity, remaining, sequence, status, created_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)
ON CONFLICT (id) DO UPDATE SET
  remaining = EXCLUDED.remaining,
  sequence = EXCLUDED.sequence,
  status = EXCLUDED.status
`, o.ID, o.ClientID, o.ClientOrderID, string(o.Side),
		o.Price, o.Quantity, o.Remaining, o.Sequence, string(o.Status), o.CreatedAt)
	return err
}

func (p *PgRepo) SaveTrade(ctx context.Context, t *domain.Trade) error {
	if t == nil {
		return errors.New("nil trade")
	}
	_, err := p.pool.Exec(ctx, `
INSERT INTO trades(id, maker_order, taker_order, taker_side, price, quantity, sequence, executed_at)
VALUES($1,$2,$3,$4,$5,$6,$7,$8)
ON CONFLICT (id) DO NOTHING
`, t.ID, t.MakerID, t.TakerID, string(t.TakerSide), t.Price, t.Quantity, t.Sequence, t.Timestamp)
	return err
}

func (p *PgRepo) LoadOrder(ctx context.Context, orderID uint64) (*domain.Order, error) {
	var o domain.Order
	var side, status string
	err := p.pool.QueryRow(ctx, `
SELECT id, client_id, client_order_id, side, price, quantity, remaining, sequence, status, created_at
FROM orders WHERE id = $1
`, orderID).Scan(&o.ID, &o.ClientID, &o.ClientOrderID, &side, &o.Price, &o.Quantity,
		&o.Remaining, &o.Sequence, &status, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, errors.New("order not found")
	}
	if err != nil {
		return nil, err
	}
	o.Side = domain.Side(side)
	o.Status = domain.OrderStatus(status)
	return &o, nil
}

// LoadTradesForOrder returns every execution the order took part in, in
// engine sequence order.
func (p *PgRepo) LoadTradesForOrder(ctx context.Context, orderID uint64) ([]*domain.Trade, error) {
	rows, err := p.pool.Query(ctx, `
SELECT id, maker_order, taker_order, taker_side, price, quantity, sequence, executed_at
FROM trades
WHERE maker_order = $1 OR taker_order = $1
ORDER BY sequence ASC
`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []*domain.Trade
	for rows.Next() {
		var t domain.Trade
		var side string
		if err := rows.Scan(&t.ID, &t.MakerID, &t.TakerID, &side, &t.Price, &t.Quantity, &t.Sequence, &t.Timestamp); err != nil {
			return nil, err
		}
		t.TakerSide = domain.Side(side)
		res = append(res, &t)
	}
	return res, rows.Err()
}
