package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound          = errors.New("recurso no encontrado")
	ErrInvalidInput      = errors.New("entrada inválida")
	ErrUnauthorized      = errors.New("no autorizado")
	ErrForbidden         = errors.New("acceso denegado")
	ErrConflict          = errors.New("conflicto con el estado actual")
	ErrUnreachable       = errors.New("no fue posible conectar con el servidor")
	ErrRemote            = errors.New("el servidor rechazó la operación")
	ErrInvalidServiceFee = errors.New("tasa de servicio inválida: se permite 0, 5 o 10")
	ErrSessionClosed     = errors.New("la pantalla ya fue cerrada")
	ErrCancelled         = errors.New("operación cancelada por el usuario")
	ErrNoToken           = errors.New("no hay token de sesión")
)

// ValidationError fallo de validación local: bloquea la petición antes de cualquier llamada remota.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Unwrap permite errors.Is(err, ErrInvalidInput).
func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

// NewValidationError construye un ValidationError.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}
