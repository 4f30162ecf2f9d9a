package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// ListComandas comandas del usuario, la más antigua primero. Sin líneas ni totales.
func (s *Store) ListComandas(owner string) ([]entity.Order, error) {
	query := `
		SELECT id, name, service_fee, closed, created_at
		FROM comandas WHERE owner_id = $1
		ORDER BY created_at, id`
	rows, err := s.pool.Query(context.Background(), query, owner)
	if err != nil {
		return nil, fmt.Errorf("list comandas: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Order, 0)
	for rows.Next() {
		var (
			o   entity.Order
			fee int
		)
		if err := rows.Scan(&o.ID, &o.Name, &fee, &o.Closed, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan comanda: %w", err)
		}
		o.ServiceFee = entity.ServiceFee(fee)
		list = append(list, o)
	}
	return list, rows.Err()
}

// CreateComanda abre una comanda vacía, con tasa 0.
func (s *Store) CreateComanda(owner, name string) (*entity.Order, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	o := &entity.Order{ID: uuid.New().String(), Name: name, CreatedAt: time.Now().UTC()}
	query := `
		INSERT INTO comandas (id, owner_id, name, service_fee, closed, created_at)
		VALUES ($1, $2, $3, 0, FALSE, $4)`
	if _, err := s.pool.Exec(context.Background(), query, o.ID, owner, o.Name, o.CreatedAt); err != nil {
		return nil, fmt.Errorf("insert comanda: %w", err)
	}
	return priceOrder(o), nil
}

// GetComanda comanda completa con totales calculados.
func (s *Store) GetComanda(owner, id string) (*entity.Order, error) {
	return s.loadOrder(context.Background(), s.pool, owner, id)
}

// AddProduct suma quantity unidades del producto; si ya hay una línea del producto se
// incrementa su cantidad.
func (s *Store) AddProduct(owner, id, productID string, quantity int) (*entity.Order, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	ctx := context.Background()
	var out *entity.Order
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpen(ctx, tx, owner, id); err != nil {
			return err
		}
		var (
			name  string
			price decimal.Decimal
		)
		err := tx.QueryRow(ctx, `SELECT name, price FROM products WHERE id = $1`, productID).Scan(&name, &price)
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		upsert := `
			INSERT INTO comanda_lines (comanda_id, product_id, name, price, quantity)
			VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (comanda_id, product_id)
			DO UPDATE SET quantity = comanda_lines.quantity + EXCLUDED.quantity`
		if _, err := tx.Exec(ctx, upsert, id, productID, name, price, quantity); err != nil {
			return fmt.Errorf("upsert line: %w", err)
		}
		out, err = s.loadOrder(ctx, tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SetServiceFee cambia la tasa de servicio (0, 5 o 10).
func (s *Store) SetServiceFee(owner, id string, fee entity.ServiceFee) (*entity.Order, error) {
	if !fee.Valid() {
		return nil, domain.ErrInvalidServiceFee
	}
	ctx := context.Background()
	var out *entity.Order
	err := s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpen(ctx, tx, owner, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE comandas SET service_fee = $2 WHERE id = $1`, id, int(fee)); err != nil {
			return fmt.Errorf("update service fee: %w", err)
		}
		var err error
		out, err = s.loadOrder(ctx, tx, owner, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CloseComanda marca la comanda como cerrada; una comanda cerrada no acepta cambios.
func (s *Store) CloseComanda(owner, id string) error {
	ctx := context.Background()
	return s.withTx(ctx, func(tx pgx.Tx) error {
		if err := lockOpen(ctx, tx, owner, id); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `UPDATE comandas SET closed = TRUE WHERE id = $1`, id); err != nil {
			return fmt.Errorf("close comanda: %w", err)
		}
		return nil
	})
}

// lockOpen bloquea la fila de la comanda; ajena o inexistente → ErrNotFound, cerrada → ErrConflict.
func lockOpen(ctx context.Context, tx pgx.Tx, owner, id string) error {
	var (
		rowOwner string
		closed   bool
	)
	err := tx.QueryRow(ctx, `SELECT owner_id, closed FROM comandas WHERE id = $1 FOR UPDATE`, id).Scan(&rowOwner, &closed)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && rowOwner != owner) {
		return domain.ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("lock comanda: %w", err)
	}
	if closed {
		return domain.ErrConflict
	}
	return nil
}

func (s *Store) loadOrder(ctx context.Context, q Querier, owner, id string) (*entity.Order, error) {
	var (
		o        entity.Order
		rowOwner string
		fee      int
	)
	err := q.QueryRow(ctx, `SELECT owner_id, id, name, service_fee, closed, created_at FROM comandas WHERE id = $1`, id).
		Scan(&rowOwner, &o.ID, &o.Name, &fee, &o.Closed, &o.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) || (err == nil && rowOwner != owner) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get comanda: %w", err)
	}
	o.ServiceFee = entity.ServiceFee(fee)

	rows, err := q.Query(ctx, `SELECT name, price, quantity FROM comanda_lines WHERE comanda_id = $1 ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("list lines: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var l entity.OrderLine
		if err := rows.Scan(&l.Name, &l.UnitPrice, &l.Quantity); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		o.Lines = append(o.Lines, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return priceOrder(&o), nil
}

// priceOrder completa subtotales, valor de la tasa y total con decimal.
func priceOrder(o *entity.Order) *entity.Order {
	if o.Lines == nil {
		o.Lines = []entity.OrderLine{}
	}
	subtotal := decimal.Zero
	for i := range o.Lines {
		l := &o.Lines[i]
		l.Subtotal = l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(l.Subtotal)
	}
	o.Subtotal = subtotal
	o.ServiceFeeAmount = subtotal.Mul(decimal.NewFromInt(int64(o.ServiceFee))).Div(decimal.NewFromInt(100)).Round(2)
	o.Total = subtotal.Add(o.ServiceFeeAmount)
	return o
}
