package inventory

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestWeightedAverageCost(t *testing.T) {
	tests := []struct {
		name    string
		onHand  int
		current string
		inbound int
		total   string
		want    string
	}{
		{"sin stock previo", 0, "0", 10, "1200", "120"},
		{"promedia con el stock actual", 10, "100", 10, "1400", "120"},
		{"redondea a dos decimales", 2, "10", 1, "11", "10.33"},
		{"entrada no positiva conserva el costo", 5, "80", 0, "0", "80"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := WeightedAverageCost(tt.onHand, decimal.RequireFromString(tt.current), tt.inbound, decimal.RequireFromString(tt.total))
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)), "got %s want %s", got, tt.want)
		})
	}
}
