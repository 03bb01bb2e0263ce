package domain

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrProductNotFound   = errors.New("producto no encontrado")
	ErrOrderNotFound     = errors.New("pedido no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrDuplicate         = errors.New("recurso duplicado")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrInsufficientStock = errors.New("stock insuficiente")
	ErrInvalidTransition = errors.New("transición de estado no permitida")
	ErrInvalidCurrency   = errors.New("moneda sin tasa de cambio")
	ErrPersistence       = errors.New("error de persistencia")
)

// InsufficientStockError indica que el movimiento dejaría el stock en negativo.
type InsufficientStockError struct {
	ProductID string
	Available int
	Requested int // delta solicitado (negativo)
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("stock insuficiente para producto %s: disponible %d, delta %d", e.ProductID, e.Available, e.Requested)
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

// InvalidTransitionError indica un cambio de estado de pedido fuera de la máquina de estados.
type InvalidTransitionError struct {
	OrderID string
	From    string
	To      string
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("pedido %s: no se puede pasar de %s a %s", e.OrderID, e.From, e.To)
}

func (e *InvalidTransitionError) Unwrap() error { return ErrInvalidTransition }

// InvalidCurrencyError indica que no hay tasa de cambio resoluble para la moneda y fecha.
type InvalidCurrencyError struct {
	Currency string
	Date     time.Time
}

func (e *InvalidCurrencyError) Error() string {
	return fmt.Sprintf("sin tasa de cambio para %s en %s", e.Currency, e.Date.Format("2006-01-02"))
}

func (e *InvalidCurrencyError) Unwrap() error { return ErrInvalidCurrency }

// PersistenceError envuelve un fallo del almacenamiento (begin, query, commit, timeout).
// Nunca deja estado parcial: la transacción ya fue revertida cuando se devuelve.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistencia (%s): %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is permite errors.Is(err, ErrPersistence) sin perder la causa original.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// businessErrors son los errores que deben llegar intactos al caller.
var businessErrors = []error{
	ErrNotFound, ErrProductNotFound, ErrOrderNotFound, ErrInvalidInput, ErrDuplicate,
	ErrUnauthorized, ErrForbidden, ErrConflict, ErrInsufficientStock,
	ErrInvalidTransition, ErrInvalidCurrency, ErrPersistence,
}

// IsBusinessError informa si err pertenece a la taxonomía de dominio.
func IsBusinessError(err error) bool {
	for _, target := range businessErrors {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

// AsPersistence deja pasar errores de dominio y envuelve el resto como PersistenceError.
// Un contexto vencido se reporta como timeout de la transacción.
func AsPersistence(op string, err error) error {
	if err == nil {
		return nil
	}
	if IsBusinessError(err) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &PersistenceError{Op: op, Err: fmt.Errorf("timeout: %w", err)}
	}
	return &PersistenceError{Op: op, Err: err}
}
