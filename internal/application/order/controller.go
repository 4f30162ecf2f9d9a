// Package order contiene el controlador de la pantalla de detalle de una comanda.
//
// Cada escritura sigue el patrón mutar-y-releer: no hay actualización optimista; tras el
// acuse del servidor se vuelve a leer la comanda autoritativa. Dos mutaciones lanzadas
// seguidas no se coalescen: ambas se envían y la última relectura en resolver gana.
//
// El controlador vive lo que vive la pantalla (Close). Las peticiones en curso se cancelan
// y una respuesta que llega después del cierre se descarta sin tocar el estado.
package order

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

// AddQuantity incremento fijo al agregar un producto desde el selector.
const AddQuantity = 1

// Mensajes de las notificaciones de la pantalla.
const (
	msgLoadOrder   = "No fue posible cargar la comanda."
	msgLoadCatalog = "No fue posible buscar los productos."
	msgAddProduct  = "No fue posible agregar el producto."
	msgServiceFee  = "No fue posible actualizar la tasa de servicio."
	msgCloseOrder  = "No fue posible cerrar la comanda."
)

// Config parámetros de la pantalla.
type Config struct {
	OrderID       string
	MenuAnimation time.Duration
}

// Deps colaboradores del controlador.
type Deps struct {
	Orders    ports.OrderGateway
	Catalog   ports.CatalogGateway
	Notifier  ports.Notifier
	Confirmer ports.Confirmer
	Logger    *logger.Logger
}

// View estado que la pantalla renderiza. Order es nil hasta la primera carga exitosa y
// nunca se modifica en sitio: cada relectura lo reemplaza por un valor nuevo.
type View struct {
	Order         *entity.Order
	Products      []entity.Product
	Loading       bool
	PickerVisible bool
	Menu          entity.MenuState
	Finished      bool
}

// Controller controlador de una comanda para una pantalla.
type Controller struct {
	orders    ports.OrderGateway
	catalog   ports.CatalogGateway
	notifier  ports.Notifier
	confirmer ports.Confirmer
	log       *logger.Logger

	orderID      string
	menuDuration time.Duration

	life   context.Context
	cancel context.CancelFunc

	mu            sync.Mutex
	order         *entity.Order
	products      []entity.Product
	catalogLoaded bool
	inFlight      int
	pickerVisible bool
	closed        bool
	finished      bool

	menu      entity.MenuState
	menuGen   uint64
	menuDone  chan struct{}
	menuTimer *time.Timer

	done     chan struct{}
	doneOnce sync.Once
	changes  chan struct{}
}

// NewController crea el controlador para cfg.OrderID.
func NewController(cfg Config, deps Deps) (*Controller, error) {
	if strings.TrimSpace(cfg.OrderID) == "" {
		return nil, domain.NewValidationError("order_id", "id de comanda requerido")
	}
	if deps.Orders == nil || deps.Catalog == nil {
		return nil, fmt.Errorf("order: gateways requeridos")
	}
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	log := deps.Logger
	if log == nil {
		log = logger.Nop()
	}
	life, cancel := context.WithCancel(context.Background())
	return &Controller{
		orders:       deps.Orders,
		catalog:      deps.Catalog,
		notifier:     deps.Notifier,
		confirmer:    deps.Confirmer,
		log:          log.Component("order").WithStr("order_id", cfg.OrderID),
		orderID:      cfg.OrderID,
		menuDuration: cfg.MenuAnimation,
		life:         life,
		cancel:       cancel,
		done:         make(chan struct{}),
		changes:      make(chan struct{}, 1),
	}, nil
}

// OrderID id de la comanda de esta pantalla.
func (c *Controller) OrderID() string { return c.orderID }

// Snapshot copia del estado para renderizar.
func (c *Controller) Snapshot() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	products := make([]entity.Product, len(c.products))
	copy(products, c.products)
	return View{
		Order:         c.order,
		Products:      products,
		Loading:       c.inFlight > 0,
		PickerVisible: c.pickerVisible,
		Menu:          c.menu,
		Finished:      c.finished,
	}
}

// Changes recibe una señal cada vez que el estado cambia (se conserva a lo sumo una pendiente).
func (c *Controller) Changes() <-chan struct{} { return c.changes }

// Done se cierra cuando la comanda fue cerrada con éxito: la pantalla debe terminar.
func (c *Controller) Done() <-chan struct{} { return c.done }

// Close termina la vida de la pantalla: cancela las peticiones en curso y descarta las
// respuestas que lleguen después. Idempotente.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	c.cancel()
	c.menuGen++
	if c.menuTimer != nil {
		c.menuTimer.Stop()
	}
	if c.menuDone != nil {
		close(c.menuDone)
		c.menuDone = nil
	}
}

// Load lee la comanda y, en paralelo, el catálogo (este solo hasta lograr cargarlo una vez).
// Un fallo al leer la comanda deja intacto el estado anterior; un fallo del catálogo se
// notifica por separado y la comanda se muestra igual.
func (c *Controller) Load(ctx context.Context) error {
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	c.mu.Lock()
	c.inFlight++
	fetchCatalog := !c.catalogLoaded
	c.mu.Unlock()
	c.signal()

	var (
		g          errgroup.Group
		order      *entity.Order
		products   []entity.Product
		orderErr   error
		catalogErr error
	)
	g.Go(func() error {
		order, orderErr = c.orders.GetComanda(ctx, c.orderID)
		return nil
	})
	if fetchCatalog {
		g.Go(func() error {
			products, catalogErr = c.catalog.ListProducts(ctx)
			return nil
		})
	}
	_ = g.Wait()

	c.mu.Lock()
	c.inFlight--
	if c.closed {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	if orderErr == nil && order != nil {
		c.order = order
	}
	if fetchCatalog && catalogErr == nil {
		c.products = products
		c.catalogLoaded = true
	}
	c.mu.Unlock()
	c.signal()

	if orderErr != nil {
		c.fail(orderErr, msgLoadOrder, "cargar comanda")
	}
	if catalogErr != nil {
		c.fail(catalogErr, msgLoadCatalog, "cargar catálogo")
	}
	return errors.Join(orderErr, catalogErr)
}

// OpenPicker muestra el selector de productos.
func (c *Controller) OpenPicker() { c.setPicker(true) }

// ClosePicker oculta el selector de productos.
func (c *Controller) ClosePicker() { c.setPicker(false) }

// AddProduct agrega una unidad del producto. Si el servidor lo acepta se cierra el
// selector y se relee la comanda; si falla, el selector queda abierto.
func (c *Controller) AddProduct(ctx context.Context, productID string) error {
	if strings.TrimSpace(productID) == "" {
		err := domain.NewValidationError("produtoId", "Seleccione un producto.")
		c.notify(err.Message)
		return err
	}
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.orders.AddProduct(ctx, c.orderID, productID, AddQuantity); err != nil {
		if !c.alive() {
			return domain.ErrSessionClosed
		}
		c.fail(err, msgAddProduct, "agregar producto")
		return err
	}
	c.log.Info().Str("product_id", productID).Msg("producto agregado")

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	c.pickerVisible = false
	c.mu.Unlock()
	c.signal()

	return c.Load(ctx)
}

// SetServiceFee cambia la tasa de servicio. Solo acepta 0, 5 o 10; otro valor se rechaza
// sin llamar al servidor. No hay actualización optimista: la tasa mostrada cambia solo
// tras la relectura.
func (c *Controller) SetServiceFee(ctx context.Context, fee entity.ServiceFee) error {
	if !fee.Valid() {
		c.notify(usecase.UserMessage(domain.ErrInvalidServiceFee, msgServiceFee))
		return fmt.Errorf("%w: %d", domain.ErrInvalidServiceFee, fee)
	}
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	if err := c.orders.SetServiceFee(ctx, c.orderID, fee); err != nil {
		if !c.alive() {
			return domain.ErrSessionClosed
		}
		c.fail(err, msgServiceFee, "actualizar tasa de servicio")
		return err
	}
	c.log.Info().Int("fee", int(fee)).Msg("tasa de servicio enviada")
	return c.Load(ctx)
}

// CloseOrder pide confirmación y cierra la comanda. Si el usuario cancela no se hace
// ninguna llamada. Con éxito se cierra Done; con error la comanda sigue abierta.
func (c *Controller) CloseOrder(ctx context.Context) error {
	if c.confirmer == nil {
		return fmt.Errorf("order: cerrar comanda requiere confirmación")
	}
	ctx, release, err := c.bind(ctx)
	if err != nil {
		return err
	}
	defer release()

	name := c.orderID
	if v := c.Snapshot(); v.Order != nil {
		name = v.Order.Name
	}
	ok, err := c.confirmer.Confirm(ctx, "Cerrar comanda", fmt.Sprintf("¿Desea cerrar la comanda %q?", name))
	if err != nil || !ok {
		return domain.ErrCancelled
	}

	if err := c.orders.CloseComanda(ctx, c.orderID); err != nil {
		if !c.alive() {
			return domain.ErrSessionClosed
		}
		c.fail(err, msgCloseOrder, "cerrar comanda")
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrSessionClosed
	}
	c.finished = true
	c.mu.Unlock()
	c.doneOnce.Do(func() { close(c.done) })
	c.signal()
	c.log.Info().Msg("comanda cerrada")
	return nil
}

// bind deriva un contexto que se cancela con ctx o con el fin de la pantalla.
func (c *Controller) bind(ctx context.Context) (context.Context, func(), error) {
	if !c.alive() {
		return nil, func() {}, domain.ErrSessionClosed
	}
	ctx, cancel := context.WithCancel(ctx)
	stop := context.AfterFunc(c.life, cancel)
	return ctx, func() {
		stop()
		cancel()
	}, nil
}

func (c *Controller) alive() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.closed
}

func (c *Controller) setPicker(visible bool) {
	c.mu.Lock()
	if c.closed || c.pickerVisible == visible {
		c.mu.Unlock()
		return
	}
	c.pickerVisible = visible
	c.mu.Unlock()
	c.signal()
}

// fail registra el error y lo notifica si la pantalla sigue viva.
func (c *Controller) fail(err error, fallback, op string) {
	if errors.Is(err, context.Canceled) || !c.alive() {
		return
	}
	c.log.Error().Err(err).Str("op", op).Msg("operación fallida")
	c.notify(usecase.UserMessage(err, fallback))
}

func (c *Controller) notify(msg string) {
	if !c.alive() {
		return
	}
	c.notifier.Notify(usecase.MsgErrorTitle, msg)
}

func (c *Controller) signal() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

type nopNotifier struct{}

func (nopNotifier) Notify(string, string) {}
