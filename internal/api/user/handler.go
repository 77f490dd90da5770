package user

import (
	"context"
	"net/http"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/middleware"
)

// UserService define o contrato para as operações de registro e login.
type UserService interface {
	Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error)
	Login(ctx context.Context, email string, password string) (string, error)
	CurrentUser(ctx context.Context, userID string) (domain.User, error)
}

// Handler agrupa todos os métodos de Handler do usuário.
type Handler struct {
	Service UserService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc UserService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// RegisterUserHandler lida com a requisição POST /v1/register.
// @Summary Registra um novo usuário
// @Description Cria um novo usuário, hasheia a senha e salva no banco de dados.
// @Tags users
// @Accept json
// @Produce json
// @Param registration body domain.UserRegistration true "Credenciais de registro (email e senha)"
// @Success 201 {object} domain.User "Usuário criado com sucesso"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Email já cadastrado"
// @Failure 500 {object} domain.ErrorResponse "Erro interno do servidor"
// @Router /register [post]
func (h *Handler) RegisterUserHandler(w http.ResponseWriter, r *http.Request) {
	var reg domain.UserRegistration
	if err := httpx.DecodeJSON(r, &reg); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusCreated)
		return
	}

	// O PasswordHash não é serializado (json:"-").
	newUser, err := h.Service.Register(r.Context(), reg)
	httpx.Respond(w, r, h.Logger, newUser, err, http.StatusCreated)
}

// LoginUserHandler lida com a requisição POST /v1/login.
// @Summary Autentica um usuário e retorna um JWT
// @Tags users
// @Accept json
// @Produce json
// @Param login body domain.UserLogin true "Credenciais do usuário (email e senha)"
// @Success 200 {object} domain.TokenResponse "Token JWT emitido"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 401 {object} domain.ErrorResponse "Credenciais inválidas"
// @Router /login [post]
func (h *Handler) LoginUserHandler(w http.ResponseWriter, r *http.Request) {
	var login domain.UserLogin
	if err := httpx.DecodeJSON(r, &login); err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}

	token, err := h.Service.Login(r.Context(), login.Email, login.Password)
	if err != nil {
		httpx.Respond(w, r, h.Logger, nil, err, http.StatusOK)
		return
	}
	httpx.Respond(w, r, h.Logger, domain.TokenResponse{Token: token}, nil, http.StatusOK)
}

// MeHandler lida com a requisição GET /v1/me.
// @Summary Retorna o usuário autenticado
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} domain.User
// @Failure 401 {object} domain.ErrorResponse "Token ausente ou usuário inexistente"
// @Router /me [get]
func (h *Handler) MeHandler(w http.ResponseWriter, r *http.Request) {
	claims, ok := middleware.GetUserClaimsFromContext(r.Context())
	if !ok {
		httpx.Respond(w, r, h.Logger, nil, apperror.NewUnauthorizedError("Autorização necessária."), http.StatusOK)
		return
	}

	u, err := h.Service.CurrentUser(r.Context(), claims.UserID)
	httpx.Respond(w, r, h.Logger, u, err, http.StatusOK)
}
