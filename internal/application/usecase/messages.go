package usecase

import (
	"errors"

	"github.com/jhoicas/comanda-client/internal/domain"
)

// Mensajes genéricos mostrados al usuario.
const (
	MsgUnreachable = "No fue posible conectar con el servidor."
	MsgErrorTitle  = "Error"
)

// remoteMessager lo implementan los errores que traen el texto enviado por el servidor.
type remoteMessager interface {
	RemoteMessage() string
}

// UserMessage convierte un error en el texto de la notificación:
// fallo de transporte → mensaje de conexión; validación local → su propio texto;
// cualquier otro → fallback.
func UserMessage(err error, fallback string) string {
	var ve *domain.ValidationError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, domain.ErrUnreachable):
		return MsgUnreachable
	case errors.As(err, &ve):
		return ve.Message
	case errors.Is(err, domain.ErrInvalidServiceFee):
		return "La tasa de servicio debe ser 0, 5 o 10%."
	default:
		return fallback
	}
}

// RemoteMessage como UserMessage, pero muestra tal cual el texto del servidor si vino.
func RemoteMessage(err error, fallback string) string {
	var rm remoteMessager
	if errors.As(err, &rm) && rm.RemoteMessage() != "" {
		return rm.RemoteMessage()
	}
	return UserMessage(err, fallback)
}
