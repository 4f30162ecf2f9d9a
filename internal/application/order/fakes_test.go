package order_test

import (
	"context"
	"fmt"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/comanda-client/internal/domain/entity"
)

// fakeAPI implementa OrderGateway y CatalogGateway en memoria y registra las llamadas.
type fakeAPI struct {
	mu       sync.Mutex
	order    entity.Order
	products []entity.Product
	calls    []string

	getFn    func(ctx context.Context, id string) (*entity.Order, error)
	getErr   error
	listErr  error
	addErr   error
	feeErr   error
	closeErr error
}

func newFakeAPI(id string) *fakeAPI {
	return &fakeAPI{
		order: entity.Order{ID: id, Name: "Mesa 4", Lines: []entity.OrderLine{}},
		products: []entity.Product{
			{ID: "prod-9", Name: "Café", Price: decimal.NewFromInt(5)},
			{ID: "prod-3", Name: "Pão de queijo", Price: decimal.RequireFromString("7.50")},
		},
	}
}

func (f *fakeAPI) record(call string) {
	f.mu.Lock()
	f.calls = append(f.calls, call)
	f.mu.Unlock()
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	copy(out, f.calls)
	return out
}

func (f *fakeAPI) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func (f *fakeAPI) snapshotOrder() *entity.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	o := f.order
	o.Lines = append([]entity.OrderLine(nil), f.order.Lines...)
	return &o
}

func (f *fakeAPI) ListComandas(context.Context) ([]entity.OrderSummary, error) {
	return nil, nil
}

func (f *fakeAPI) CreateComanda(context.Context, string) (*entity.Order, error) {
	return nil, nil
}

func (f *fakeAPI) GetComanda(ctx context.Context, id string) (*entity.Order, error) {
	f.record("get:" + id)
	if f.getFn != nil {
		return f.getFn(ctx, id)
	}
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.snapshotOrder(), nil
}

func (f *fakeAPI) AddProduct(_ context.Context, orderID, productID string, qty int) error {
	f.record(fmt.Sprintf("add:%s:%s:%d", orderID, productID, qty))
	if f.addErr != nil {
		return f.addErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == productID {
			sub := p.Price.Mul(decimal.NewFromInt(int64(qty)))
			f.order.Lines = append(f.order.Lines, entity.OrderLine{Name: p.Name, UnitPrice: p.Price, Quantity: qty, Subtotal: sub})
			f.order.Subtotal = f.order.Subtotal.Add(sub)
			f.order.Total = f.order.Subtotal
		}
	}
	return nil
}

func (f *fakeAPI) SetServiceFee(_ context.Context, orderID string, fee entity.ServiceFee) error {
	f.record(fmt.Sprintf("fee:%s:%d", orderID, fee))
	if f.feeErr != nil {
		return f.feeErr
	}
	f.mu.Lock()
	f.order.ServiceFee = fee
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) CloseComanda(_ context.Context, orderID string) error {
	f.record("close:" + orderID)
	if f.closeErr != nil {
		return f.closeErr
	}
	f.mu.Lock()
	f.order.Closed = true
	f.mu.Unlock()
	return nil
}

func (f *fakeAPI) ListProducts(context.Context) ([]entity.Product, error) {
	f.record("products")
	if f.listErr != nil {
		return nil, f.listErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]entity.Product(nil), f.products...), nil
}

func (f *fakeAPI) CreateProduct(context.Context, string, decimal.Decimal) (*entity.Product, error) {
	return nil, nil
}

func (f *fakeAPI) DeleteProduct(context.Context, string) error { return nil }

// recordingNotifier guarda las notificaciones mostradas.
type recordingNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (n *recordingNotifier) Notify(_, message string) {
	n.mu.Lock()
	n.messages = append(n.messages, message)
	n.mu.Unlock()
}

func (n *recordingNotifier) Messages() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.messages...)
}

// scriptedConfirmer responde siempre answer.
type scriptedConfirmer struct {
	answer bool
	asked  int
}

func (s *scriptedConfirmer) Confirm(context.Context, string, string) (bool, error) {
	s.asked++
	return s.answer, nil
}
