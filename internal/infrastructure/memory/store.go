// Package memory guarda en memoria el estado del servidor sandbox: usuarios, catálogo y
// comandas. Los totales y la tasa de servicio se calculan aquí, igual que en el backend real.
package memory

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

type comanda struct {
	owner     string
	id        string
	name      string
	createdAt time.Time
	lines     []line
	fee       entity.ServiceFee
	closed    bool
}

type line struct {
	productID string
	name      string
	price     decimal.Decimal
	quantity  int
}

// Store estado del sandbox protegido por un único mutex.
type Store struct {
	mu       sync.RWMutex
	users    map[string]*entity.User // por email
	products map[string]entity.Product
	comandas map[string]*comanda
	now      func() time.Time
}

// NewStore crea un store vacío.
func NewStore() *Store {
	return &Store{
		users:    make(map[string]*entity.User),
		products: make(map[string]entity.Product),
		comandas: make(map[string]*comanda),
		now:      time.Now,
	}
}

// ── Usuarios ──────────────────────────────────────────────────────────────────

// CreateUser registra un usuario hasheando el password con bcrypt.
// Devuelve domain.ErrConflict si el email ya existe.
func (s *Store) CreateUser(name, email, password string) (*entity.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return nil, domain.ErrConflict
	}
	u := &entity.User{
		ID:           uuid.New().String(),
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	s.users[email] = u
	return u, nil
}

// Authenticate verifica email/password. Credenciales incorrectas → domain.ErrUnauthorized.
func (s *Store) Authenticate(email, password string) (*entity.User, error) {
	s.mu.RLock()
	u, ok := s.users[strings.ToLower(strings.TrimSpace(email))]
	s.mu.RUnlock()
	if !ok {
		return nil, domain.ErrUnauthorized
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, domain.ErrUnauthorized
	}
	return u, nil
}

// ── Catálogo ──────────────────────────────────────────────────────────────────

// ListProducts catálogo ordenado por nombre.
func (s *Store) ListProducts() ([]entity.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Product, 0, len(s.products))
	for _, p := range s.products {
		list = append(list, p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list, nil
}

// CreateProduct agrega un producto al catálogo.
func (s *Store) CreateProduct(name string, price decimal.Decimal) (entity.Product, error) {
	name = strings.TrimSpace(name)
	if name == "" || !price.IsPositive() {
		return entity.Product{}, domain.ErrInvalidInput
	}
	p := entity.Product{ID: uuid.New().String(), Name: name, Price: price.Round(2)}
	s.mu.Lock()
	s.products[p.ID] = p
	s.mu.Unlock()
	return p, nil
}

// DeleteProduct elimina un producto. Las comandas conservan sus líneas.
func (s *Store) DeleteProduct(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.products[id]; !ok {
		return domain.ErrNotFound
	}
	delete(s.products, id)
	return nil
}

// ── Comandas ──────────────────────────────────────────────────────────────────

// ListComandas comandas del usuario, la más antigua primero.
func (s *Store) ListComandas(owner string) ([]entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := make([]entity.Order, 0)
	for _, c := range s.comandas {
		if c.owner == owner {
			list = append(list, *c.toOrder())
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	return list, nil
}

// CreateComanda abre una comanda vacía, con tasa 0.
func (s *Store) CreateComanda(owner, name string) (*entity.Order, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, domain.ErrInvalidInput
	}
	c := &comanda{owner: owner, id: uuid.New().String(), name: name, createdAt: s.now()}
	s.mu.Lock()
	s.comandas[c.id] = c
	s.mu.Unlock()
	return c.toOrder(), nil
}

// GetComanda comanda completa con totales calculados.
func (s *Store) GetComanda(owner, id string) (*entity.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	return c.toOrder(), nil
}

// AddProduct suma quantity unidades del producto; si ya hay una línea del producto se
// incrementa su cantidad.
func (s *Store) AddProduct(owner, id, productID string, quantity int) (*entity.Order, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.lookupOpen(owner, id)
	if err != nil {
		return nil, err
	}
	p, ok := s.products[productID]
	if !ok {
		return nil, domain.ErrNotFound
	}
	for i := range c.lines {
		if c.lines[i].productID == productID {
			c.lines[i].quantity += quantity
			return c.toOrder(), nil
		}
	}
	c.lines = append(c.lines, line{productID: p.ID, name: p.Name, price: p.Price, quantity: quantity})
	return c.toOrder(), nil
}

// SetServiceFee cambia la tasa de servicio (0, 5 o 10).
func (s *Store) SetServiceFee(owner, id string, fee entity.ServiceFee) (*entity.Order, error) {
	if !fee.Valid() {
		return nil, domain.ErrInvalidServiceFee
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.lookupOpen(owner, id)
	if err != nil {
		return nil, err
	}
	c.fee = fee
	return c.toOrder(), nil
}

// CloseComanda marca la comanda como cerrada; una comanda cerrada no acepta cambios.
func (s *Store) CloseComanda(owner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, err := s.lookupOpen(owner, id)
	if err != nil {
		return err
	}
	c.closed = true
	return nil
}

func (s *Store) lookup(owner, id string) (*comanda, error) {
	c, ok := s.comandas[id]
	if !ok || c.owner != owner {
		return nil, domain.ErrNotFound
	}
	return c, nil
}

func (s *Store) lookupOpen(owner, id string) (*comanda, error) {
	c, err := s.lookup(owner, id)
	if err != nil {
		return nil, err
	}
	if c.closed {
		return nil, domain.ErrConflict
	}
	return c, nil
}

// toOrder calcula subtotal, valor de la tasa y total con decimal.
func (c *comanda) toOrder() *entity.Order {
	lines := make([]entity.OrderLine, 0, len(c.lines))
	subtotal := decimal.Zero
	for _, l := range c.lines {
		sub := l.price.Mul(decimal.NewFromInt(int64(l.quantity)))
		subtotal = subtotal.Add(sub)
		lines = append(lines, entity.OrderLine{
			Name:      l.name,
			UnitPrice: l.price,
			Quantity:  l.quantity,
			Subtotal:  sub,
		})
	}
	feeAmount := subtotal.Mul(decimal.NewFromInt(int64(c.fee))).Div(decimal.NewFromInt(100)).Round(2)
	return &entity.Order{
		ID:               c.id,
		Name:             c.name,
		CreatedAt:        c.createdAt,
		Lines:            lines,
		ServiceFee:       c.fee,
		ServiceFeeAmount: feeAmount,
		Subtotal:         subtotal,
		Total:            subtotal.Add(feeAmount),
		Closed:           c.closed,
	}
}
