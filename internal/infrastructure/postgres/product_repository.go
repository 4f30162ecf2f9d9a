package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// ListProducts catálogo ordenado por nombre.
func (s *Store) ListProducts() ([]entity.Product, error) {
	rows, err := s.pool.Query(context.Background(), `SELECT id, name, price FROM products ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	defer rows.Close()

	list := make([]entity.Product, 0)
	for rows.Next() {
		var p entity.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Price); err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// CreateProduct agrega un producto al catálogo.
func (s *Store) CreateProduct(name string, price decimal.Decimal) (entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || !price.IsPositive() {
		return entity.Product{}, domain.ErrInvalidInput
	}
	p := entity.Product{ID: uuid.New().String(), Name: name, Price: price.Round(2)}
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO products (id, name, price) VALUES ($1, $2, $3)`, p.ID, p.Name, p.Price)
	if err != nil {
		return entity.Product{}, fmt.Errorf("insert product: %w", err)
	}
	return p, nil
}

// DeleteProduct elimina un producto. Las comandas conservan sus líneas.
func (s *Store) DeleteProduct(id string) error {
	tag, err := s.pool.Exec(context.Background(), `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
