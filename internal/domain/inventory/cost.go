// Package inventory reglas de dominio del inventario que no dependen de persistencia.
package inventory

import "github.com/shopspring/decimal"

// WeightedAverageCost costo unitario promedio ponderado después de una entrada.
//
//	nuevo = (onHand*costoActual + totalEntrada) / (onHand + cantidadEntrada)
//
// totalCost es el costo total de la entrada, no el unitario. Sin unidades resultantes devuelve el costo actual.
func WeightedAverageCost(onHand int, currentCost decimal.Decimal, inbound int, totalCost decimal.Decimal) decimal.Decimal {
	units := onHand + inbound
	if units <= 0 || inbound <= 0 {
		return currentCost
	}
	if onHand < 0 {
		onHand = 0
	}
	num := decimal.NewFromInt(int64(onHand)).Mul(currentCost).Add(totalCost)
	return num.Div(decimal.NewFromInt(int64(onHand + inbound))).Round(2)
}
