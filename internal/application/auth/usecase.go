package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/application/ports"
	"github.com/jhoicas/comanda-client/internal/application/usecase"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/logger"
)

// Mensajes de fallo cuando el servidor no envía texto propio.
const (
	MsgLoginFailed    = "No fue posible iniciar sesión."
	MsgRegisterFailed = "No fue posible crear la cuenta."
)

// SessionSink recibe el token emitido: LOGIN o REGISTER sobre la sesión del dispositivo.
type SessionSink interface {
	SignIn(ctx context.Context, token, userName string) entity.Session
	Register(ctx context.Context, token, userName string) entity.Session
	SignOut(ctx context.Context) entity.Session
}

// AuthUseCase casos de uso de autenticación del cliente: login y registro.
// Valida localmente, llama al servidor y entrega el token a la sesión.
type AuthUseCase struct {
	gateway  ports.AuthGateway
	session  SessionSink
	validate *validator.Validate
	log      *logger.Logger
}

// NewAuthUseCase construye el caso de uso de auth.
func NewAuthUseCase(gateway ports.AuthGateway, session SessionSink, log *logger.Logger) *AuthUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &AuthUseCase{
		gateway:  gateway,
		session:  session,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      log.Component("auth"),
	}
}

// Error fallo de login o registro con el texto que debe mostrarse al usuario.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// Login valida email/password, pide el token y marca la sesión como autenticada.
// El nombre de usuario de la sesión es el email.
func (uc *AuthUseCase) Login(ctx context.Context, in dto.LoginRequest) (entity.Session, error) {
	in.Email = strings.TrimSpace(in.Email)
	if err := uc.check(in); err != nil {
		return entity.Session{}, err
	}
	token, err := uc.gateway.Login(ctx, in.Email, in.Password)
	if err != nil {
		uc.log.Warn().Err(err).Str("email", in.Email).Msg("login rechazado")
		return entity.Session{}, &Error{Message: usecase.RemoteMessage(err, MsgLoginFailed), Err: err}
	}
	return uc.session.SignIn(ctx, token, in.Email), nil
}

// Register valida nombre/email/password, crea la cuenta y deja la sesión autenticada.
func (uc *AuthUseCase) Register(ctx context.Context, in dto.RegisterRequest) (entity.Session, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	if err := uc.check(in); err != nil {
		return entity.Session{}, err
	}
	token, err := uc.gateway.Register(ctx, in.Name, in.Email, in.Password)
	if err != nil {
		uc.log.Warn().Err(err).Str("email", in.Email).Msg("registro rechazado")
		return entity.Session{}, &Error{Message: usecase.RemoteMessage(err, MsgRegisterFailed), Err: err}
	}
	return uc.session.Register(ctx, token, in.Email), nil
}

// Logout elimina el token persistido y vuelve al stack de autenticación.
func (uc *AuthUseCase) Logout(ctx context.Context) entity.Session {
	return uc.session.SignOut(ctx)
}

// check valida la petición y traduce el primer campo inválido a un ValidationError.
func (uc *AuthUseCase) check(in any) error {
	err := uc.validate.Struct(in)
	if err == nil {
		return nil
	}
	var fields validator.ValidationErrors
	if !errors.As(err, &fields) || len(fields) == 0 {
		return err
	}
	fe := fields[0]
	switch {
	case fe.Tag() == "required" && fe.Field() == "Name":
		return domain.NewValidationError("name", "Informe su nombre.")
	case fe.Tag() == "required":
		return domain.NewValidationError("credentials", "Informe email y contraseña.")
	case fe.Tag() == "email":
		return domain.NewValidationError("email", "Email inválido.")
	case fe.Tag() == "min":
		return domain.NewValidationError("password", "La contraseña debe tener al menos "+fe.Param()+" caracteres.")
	default:
		return domain.NewValidationError(strings.ToLower(fe.Field()), "Dato inválido: "+fe.Field()+".")
	}
}
