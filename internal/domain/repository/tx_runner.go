package repository

import "context"

// TxRepositories repositorios atados a una misma transacción.
type TxRepositories struct {
	Products  ProductRepository
	Movements InventoryMovementRepository
	Cashbook  CashbookRepository
	Orders    OrderRepository
	Shipments ShipmentRepository
}

// TxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback en cualquier otro caso.
// Los errores que no sean de dominio se devuelven como *domain.PersistenceError.
type TxRunner interface {
	Run(ctx context.Context, fn func(ctx context.Context, repos TxRepositories) error) error
}
