package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/domain"
)

// Error respuesta de error del servidor. Message es el texto de {"error": ...} si vino.
type Error struct {
	Status  int
	Message string
	kind    error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: HTTP %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: HTTP %d", e.Status)
}

// Unwrap permite errors.Is contra los errores de dominio.
func (e *Error) Unwrap() error { return e.kind }

// NewError construye el error de una respuesta con status >= 400 a partir de su cuerpo.
func NewError(status int, body []byte) *Error {
	var payload dto.ErrorResponse
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = payload.Text()
	} else if len(body) > 0 && len(body) < 256 {
		msg = strings.TrimSpace(string(body))
	}
	return &Error{Status: status, Message: msg, kind: kindFor(status)}
}

func kindFor(status int) error {
	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusForbidden:
		return domain.ErrForbidden
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusConflict:
		return domain.ErrConflict
	default:
		return domain.ErrRemote
	}
}

// RemoteMessage texto enviado por el servidor (vacío si no vino ninguno).
func (e *Error) RemoteMessage() string { return e.Message }
