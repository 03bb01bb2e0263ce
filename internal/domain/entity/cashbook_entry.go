package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tipos de asiento del libro de caja.
const (
	CashbookTypeIncome  = "income"
	CashbookTypeExpense = "expense"
)

// Categorías de asiento.
const (
	CashbookCategoryOrderPayment      = "order_payment"
	CashbookCategoryRefund            = "refund"
	CashbookCategoryShippingCost      = "shipping_cost"
	CashbookCategoryInventoryPurchase = "inventory_purchase"
	CashbookCategoryAdjustment        = "adjustment"
)

// ValidCashbookType informa si t es income o expense.
func ValidCashbookType(t string) bool {
	return t == CashbookTypeIncome || t == CashbookTypeExpense
}

// ValidCashbookCategory informa si c es una categoría conocida.
func ValidCashbookCategory(c string) bool {
	switch c {
	case CashbookCategoryOrderPayment, CashbookCategoryRefund, CashbookCategoryShippingCost,
		CashbookCategoryInventoryPurchase, CashbookCategoryAdjustment:
		return true
	}
	return false
}

// CashbookEntry asiento inmutable del libro de caja.
// Los montos son enteros en unidades enteras de la moneda (won, yuan), sin centavos.
type CashbookEntry struct {
	ID              string
	TransactionDate time.Time
	Type            string
	Category        string
	Amount          int64 // negativo para egresos y reembolsos
	Currency        string
	FXRate          decimal.Decimal // moneda -> moneda base
	AmountBase      int64           // Amount * FXRate redondeado
	ReferenceType   string
	ReferenceID     string
	Description     string
	CreatedBy       string
	CreatedAt       time.Time

	// BalanceAfter saldo acumulado en moneda base; se calcula al consultar, no se persiste.
	BalanceAfter *int64
}
