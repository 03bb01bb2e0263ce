package entity

// Roles válidos (claim app_metadata.role del token de Supabase).
const (
	RoleAdmin        = "admin"
	RoleOrderManager = "order_manager"
	RoleShipManager  = "ship_manager"
)
