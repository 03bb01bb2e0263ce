package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/jhoicas/yuandi-erp/internal/domain/entity"
)

func TestPolicyService_Allowed(t *testing.T) {
	policy := NewPolicyService()

	tests := []struct {
		role   string
		action string
		want   bool
	}{
		{entity.RoleAdmin, ActionSettingsWrite, true},
		{entity.RoleAdmin, ActionInventoryAdjust, true},
		{entity.RoleOrderManager, ActionOrdersCreate, true},
		{entity.RoleOrderManager, ActionOrdersRefund, true},
		{entity.RoleOrderManager, ActionOrdersShip, false},
		{entity.RoleOrderManager, ActionInventoryAdjust, false},
		{entity.RoleOrderManager, ActionCashbookWrite, false},
		{entity.RoleShipManager, ActionOrdersShip, true},
		{entity.RoleShipManager, ActionOrdersComplete, true},
		{entity.RoleShipManager, ActionOrdersCancel, false},
		{entity.RoleShipManager, ActionCashbookRead, false},
		{"guest", ActionOrdersRead, false},
		{"", ActionOrdersRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allowed(tt.role, tt.action))
		})
	}
}
