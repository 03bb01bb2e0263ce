package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ProductCostCurrency moneda en la que se expresa Product.UnitCost (compras en China).
const ProductCostCurrency = "CNY"

// Product representa un artículo del catálogo YUANDI.
// OnHand solo se modifica vía movimientos de inventario (StockMutator); nunca por escritura directa.
type Product struct {
	ID                string
	SKU               string // derivado: CATEGORIA-MODELO-COLOR-MARCA-XXXXX
	Category          string
	Name              string
	Model             string
	Color             string
	Brand             string
	UnitCost          decimal.Decimal // costo unitario en moneda de origen (CNY)
	OnHand            int
	LowStockThreshold int
	Active            bool // baja lógica: un producto con movimientos nunca se borra
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// BuildSKU arma el SKU a partir de los atributos del producto y un sufijo único.
// Las partes vacías se omiten; los espacios se eliminan y todo va en mayúsculas.
func BuildSKU(category, model, color, brand, suffix string) string {
	parts := make([]string, 0, 5)
	for _, p := range []string{category, model, color, brand, suffix} {
		p = strings.ToUpper(strings.Join(strings.Fields(p), ""))
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, "-")
}

// IsLowStock informa si el stock está en o por debajo del umbral.
// threshold <= 0 desactiva la alerta.
func (p *Product) IsLowStock(threshold int) bool {
	return threshold > 0 && p.OnHand <= threshold
}
