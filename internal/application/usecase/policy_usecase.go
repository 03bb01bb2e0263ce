package usecase

import "github.com/jhoicas/yuandi-erp/internal/domain/entity"

// Acciones protegidas por la política de acceso.
const (
	ActionOrdersCreate    = "orders:create"
	ActionOrdersRead      = "orders:read"
	ActionOrdersShip      = "orders:ship"
	ActionOrdersComplete  = "orders:complete"
	ActionOrdersCancel    = "orders:cancel"
	ActionOrdersRefund    = "orders:refund"
	ActionInventoryAdjust = "inventory:adjust"
	ActionInventoryRead   = "inventory:read"
	ActionCashbookRead    = "cashbook:read"
	ActionCashbookWrite   = "cashbook:write"
	ActionProductsWrite   = "products:write"
	ActionSettingsWrite   = "settings:write"
)

// PolicyService único punto que decide qué rol puede ejecutar qué acción.
// admin puede todo; el resto se resuelve con la tabla de permisos.
type PolicyService struct {
	permissions map[string]map[string]bool
}

// NewPolicyService construye la política con la tabla de permisos por defecto.
func NewPolicyService() *PolicyService {
	return &PolicyService{permissions: map[string]map[string]bool{
		entity.RoleOrderManager: set(
			ActionOrdersCreate, ActionOrdersRead, ActionOrdersComplete, ActionOrdersCancel, ActionOrdersRefund,
			ActionInventoryRead, ActionCashbookRead,
		),
		entity.RoleShipManager: set(
			ActionOrdersRead, ActionOrdersShip, ActionOrdersComplete, ActionInventoryRead,
		),
	}}
}

// Allowed informa si role puede ejecutar action.
func (s *PolicyService) Allowed(role, action string) bool {
	if role == entity.RoleAdmin {
		return true
	}
	return s.permissions[role][action]
}

func set(actions ...string) map[string]bool {
	m := make(map[string]bool, len(actions))
	for _, a := range actions {
		m[a] = true
	}
	return m
}
