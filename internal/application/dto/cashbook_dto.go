package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CashbookEntryRequest body para POST /api/cashbook/entries (asiento manual).
type CashbookEntryRequest struct {
	Type            string           `json:"type"`
	Category        string           `json:"category"`
	Amount          int64            `json:"amount"`
	Currency        string           `json:"currency"`
	FXRate          *decimal.Decimal `json:"fx_rate,omitempty"`
	TransactionDate *time.Time       `json:"transaction_date,omitempty"`
	ReferenceType   string           `json:"reference_type,omitempty"`
	ReferenceID     string           `json:"reference_id,omitempty"`
	Description     string           `json:"description"`
}

// CashbookEntryResponse asiento del libro de caja. BalanceAfter es el saldo acumulado en moneda base.
type CashbookEntryResponse struct {
	ID              string          `json:"id"`
	TransactionDate time.Time       `json:"transaction_date"`
	Type            string          `json:"type"`
	Category        string          `json:"category"`
	Amount          int64           `json:"amount"`
	Currency        string          `json:"currency"`
	FXRate          decimal.Decimal `json:"fx_rate"`
	AmountBase      int64           `json:"amount_base"`
	BalanceAfter    *int64          `json:"balance_after,omitempty"`
	ReferenceType   string          `json:"reference_type,omitempty"`
	ReferenceID     string          `json:"reference_id,omitempty"`
	Description     string          `json:"description"`
	CreatedBy       string          `json:"created_by"`
	CreatedAt       time.Time       `json:"created_at"`
}

// CashbookListResponse lista paginada de asientos.
type CashbookListResponse struct {
	Items []CashbookEntryResponse `json:"items"`
	Page  PageResponse            `json:"page"`
}

// CashbookBalanceResponse saldo en moneda base a una fecha.
type CashbookBalanceResponse struct {
	At           time.Time `json:"at"`
	BaseCurrency string    `json:"base_currency"`
	Balance      int64     `json:"balance"`
}
