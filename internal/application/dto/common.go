package dto

// MaxPageLimit tope de filas por página en cualquier listado.
const MaxPageLimit = 100

// PageRequest ventana de un listado, leída de ?limit= y ?offset=.
type PageRequest struct {
	Limit  int
	Offset int
}

// Normalize aplica defaultLimit cuando Limit no es positivo, acota a MaxPageLimit y descarta offsets negativos.
func (p PageRequest) Normalize(defaultLimit int) PageRequest {
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > MaxPageLimit {
		p.Limit = MaxPageLimit
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
	return p
}

// PageResponse ventana efectivamente aplicada y cantidad de filas devueltas.
type PageResponse struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Count  int `json:"count"`
}

// ErrorResponse cuerpo de error HTTP. Code es estable; Message es para humanos.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
