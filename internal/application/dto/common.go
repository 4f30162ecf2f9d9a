package dto

// ErrorResponse cuerpo de error devuelto por la API de comandas.
// El backend responde {"error": "..."}; algunas rutas usan "message".
type ErrorResponse struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// Text devuelve el mensaje disponible, priorizando "error".
func (e ErrorResponse) Text() string {
	if e.Error != "" {
		return e.Error
	}
	return e.Message
}

// AckResponse respuesta genérica de confirmación.
type AckResponse struct {
	Message string `json:"message,omitempty"`
}
