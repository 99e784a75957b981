package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// HealthResponse estado del servicio.
type HealthResponse struct {
	Status string `json:"status"`
	Mode   string `json:"mode"`
}
