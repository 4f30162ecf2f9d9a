package http

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/comanda-client/internal/application/dto"
	"github.com/jhoicas/comanda-client/internal/domain"
	"github.com/jhoicas/comanda-client/internal/domain/entity"
	"github.com/jhoicas/comanda-client/pkg/jwt"
)

// Users contrato de cuentas que necesita el handler de auth.
type Users interface {
	CreateUser(name, email, password string) (*entity.User, error)
	Authenticate(email, password string) (*entity.User, error)
}

// JWTConfig configuración para generación de tokens.
type JWTConfig struct {
	Secret     string
	ExpMinutes int
	Issuer     string
}

// AuthHandler maneja registro y login. Ambos responden {token} o {error}.
type AuthHandler struct {
	users  Users
	jwtCfg JWTConfig
}

// NewAuthHandler construye el handler de auth.
func NewAuthHandler(users Users, jwtCfg JWTConfig) *AuthHandler {
	return &AuthHandler{users: users, jwtCfg: jwtCfg}
}

// Register POST /auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if strings.TrimSpace(in.Name) == "" || in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "name, email y password son requeridos"})
	}
	if len(in.Password) < 8 {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "password debe tener al menos 8 caracteres"})
	}
	user, err := h.users.CreateUser(in.Name, in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "el email ya está registrado"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return h.issue(c, fiber.StatusCreated, user)
}

// Login POST /auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cuerpo inválido"})
	}
	if in.Email == "" || in.Password == "" {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "email y password son requeridos"})
	}
	user, err := h.users.Authenticate(in.Email, in.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Error: "email o contraseña inválidos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return h.issue(c, fiber.StatusOK, user)
}

func (h *AuthHandler) issue(c *fiber.Ctx, status int, user *entity.User) error {
	token, err := jwt.Generate(h.jwtCfg.Secret, user.ID, user.Email, h.jwtCfg.Issuer, h.jwtCfg.ExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: err.Error()})
	}
	return c.Status(status).JSON(dto.AuthResponse{Token: token})
}
