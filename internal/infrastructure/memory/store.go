// Package memory implementa todos los puertos de persistencia en proceso.
// Se usa con STORAGE_DRIVER=memory (demo local) y como doble de prueba.
//
// Las transacciones se serializan: cada una trabaja sobre una copia de las tablas y
// el commit reemplaza la versión confirmada. Un error descarta la copia.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/jhoicas/yuandi-erp/internal/domain"
	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
	"github.com/jhoicas/yuandi-erp/internal/domain/repository"
)

var _ repository.TxRunner = (*Store)(nil)

// Operaciones sobre las que se puede inyectar un fallo con FailOn.
const (
	OpProductCreate      = "products.Create"
	OpProductUpdate      = "products.Update"
	OpProductUpdateStock = "products.UpdateStock"
	OpMovementCreate     = "movements.Create"
	OpCashbookCreate     = "cashbook.Create"
	OpOrderCreate        = "orders.Create"
	OpOrderUpdateStatus  = "orders.UpdateStatus"
	OpShipmentCreate     = "shipments.Create"
	OpCommit             = "tx.Commit"
)

// tables datos cubiertos por transacciones.
type tables struct {
	products  map[string]entity.Product
	movements []entity.InventoryMovement
	cashbook  []entity.CashbookEntry
	orders    map[string]entity.Order
	orderSeq  []string
	shipments map[string]entity.Shipment // por order_id
}

func newTables() *tables {
	return &tables{
		products:  map[string]entity.Product{},
		orders:    map[string]entity.Order{},
		shipments: map[string]entity.Shipment{},
	}
}

func (t *tables) clone() *tables {
	c := &tables{
		products:  make(map[string]entity.Product, len(t.products)),
		movements: append([]entity.InventoryMovement(nil), t.movements...),
		cashbook:  append([]entity.CashbookEntry(nil), t.cashbook...),
		orders:    make(map[string]entity.Order, len(t.orders)),
		orderSeq:  append([]string(nil), t.orderSeq...),
		shipments: make(map[string]entity.Shipment, len(t.shipments)),
	}
	for k, v := range t.products {
		c.products[k] = v
	}
	for k, v := range t.orders {
		v.Items = append([]entity.OrderItem(nil), v.Items...)
		c.orders[k] = v
	}
	for k, v := range t.shipments {
		c.shipments[k] = v
	}
	return c
}

// Store almacenamiento en memoria.
type Store struct {
	sem     chan struct{} // un único escritor (tx o autocommit) a la vez
	timeout time.Duration

	mu        sync.RWMutex
	committed *tables

	auxMu    sync.RWMutex
	rates    []entity.ExchangeRate
	settings *entity.Settings

	faultMu sync.Mutex
	faults  map[string]error
}

// Option configura el Store.
type Option func(*Store)

// WithTxTimeout acota la espera del lock y la duración de cada transacción.
func WithTxTimeout(d time.Duration) Option {
	return func(s *Store) { s.timeout = d }
}

// NewStore crea un almacenamiento vacío.
func NewStore(opts ...Option) *Store {
	s := &Store{
		sem:       make(chan struct{}, 1),
		committed: newTables(),
		faults:    map[string]error{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// FailOn hace que op devuelva err hasta que se llame ClearFaults.
func (s *Store) FailOn(op string, err error) {
	s.faultMu.Lock()
	s.faults[op] = err
	s.faultMu.Unlock()
}

// ClearFaults elimina los fallos inyectados.
func (s *Store) ClearFaults() {
	s.faultMu.Lock()
	s.faults = map[string]error{}
	s.faultMu.Unlock()
}

func (s *Store) fault(op string) error {
	s.faultMu.Lock()
	defer s.faultMu.Unlock()
	if err, ok := s.faults[op]; ok {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) release() { <-s.sem }

// Run ejecuta fn sobre una copia de las tablas y la confirma si fn no falla.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	if err := s.acquire(ctx); err != nil {
		return domain.AsPersistence("begin", err)
	}
	defer s.release()

	s.mu.RLock()
	work := s.committed.clone()
	s.mu.RUnlock()

	if err := fn(ctx, s.repos(work)); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil && !domain.IsBusinessError(err) {
			return domain.AsPersistence("tx", ctxErr)
		}
		return domain.AsPersistence("tx", err)
	}
	if err := ctx.Err(); err != nil {
		return domain.AsPersistence("commit", err)
	}
	if err := s.fault(OpCommit); err != nil {
		return domain.AsPersistence("commit", err)
	}
	s.mu.Lock()
	s.committed = work
	s.mu.Unlock()
	return nil
}

func (s *Store) repos(t *tables) repository.TxRepositories {
	return repository.TxRepositories{
		Products:  &ProductRepo{s: s, tx: t},
		Movements: &MovementRepo{s: s, tx: t},
		Cashbook:  &CashbookRepo{s: s, tx: t},
		Orders:    &OrderRepo{s: s, tx: t},
		Shipments: &ShipmentRepo{s: s, tx: t},
	}
}

// Repositories repositorios fuera de transacción (lecturas confirmadas, escrituras autocommit).
func (s *Store) Repositories() repository.TxRepositories {
	return s.repos(nil)
}

// read ejecuta fn sobre la tabla de la tx o, fuera de tx, sobre la versión confirmada.
func (s *Store) read(ctx context.Context, tx *tables, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if tx != nil {
		return fn(tx)
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return fn(s.committed)
}

// write igual que read; fuera de tx se comporta como una transacción de una sola sentencia.
func (s *Store) write(ctx context.Context, tx *tables, op string, fn func(t *tables) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.fault(op); err != nil {
		return err
	}
	if tx != nil {
		return fn(tx)
	}
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.committed)
}

func page[T any](list []T, limit, offset int) []T {
	if offset >= len(list) {
		return nil
	}
	list = list[offset:]
	if limit > 0 && limit < len(list) {
		list = list[:limit]
	}
	return list
}

func inRange(t time.Time, from, to *time.Time) bool {
	if from != nil && t.Before(*from) {
		return false
	}
	if to != nil && t.After(*to) {
		return false
	}
	return true
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
