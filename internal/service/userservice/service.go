package userservice

import (
	"context"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
	"gowms/internal/pkg/token"
)

// Tamanho mínimo de senha aceito no registro.
const minPasswordLength = 8

// TokenService é o contrato da camada de token (internal/pkg/token)
type TokenService interface {
	GenerateToken(userID string, userRole string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// UserService define o serviço de lógica de negócio para a entidade User.
type UserService struct {
	UserRepo domain.UserRepository
	TokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do UserService, injetando o Repositório.
func NewService(repo domain.UserRepository, tokenSvc TokenService, log logger.Logger) *UserService {
	return &UserService{
		UserRepo: repo,
		TokenSvc: tokenSvc,
		logger:   log,
	}
}

// Register registra um novo operador com o papel padrão "user".
// Email já cadastrado volta como DuplicateError(email).
func (s *UserService) Register(ctx context.Context, registration domain.UserRegistration) (domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(registration.Email))
	if email == "" || registration.Password == "" {
		return domain.User{}, apperror.NewValidationError("Email e senha são obrigatórios.")
	}
	if len(registration.Password) < minPasswordLength {
		return domain.User{}, apperror.NewValidationError("A senha deve ter no mínimo 8 caracteres.")
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registration.Password), bcrypt.DefaultCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user, err := s.UserRepo.Save(ctx, domain.User{
		Email:        email,
		PasswordHash: string(hashedPassword),
		Role:         domain.RoleUser,
	})
	if err != nil {
		return domain.User{}, err
	}

	s.logger.Info("Usuário registrado.", map[string]interface{}{"user_id": user.ID})
	return user, nil
}

// Login autentica um usuário, verifica a senha e gera um JWT.
func (s *UserService) Login(ctx context.Context, email string, password string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return "", apperror.NewUnauthorizedError("Email e senha são obrigatórios.")
	}

	user, err := s.UserRepo.FindByEmail(ctx, email)
	if err != nil {
		// NotFound vira 401 para não revelar quais emails existem.
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn("Tentativa de login com senha incorreta.", map[string]interface{}{"user_id": user.ID})
		return "", apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	tokenString, err := s.TokenSvc.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return "", apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}
	return tokenString, nil
}

// CurrentUser devolve o usuário das claims. Um token de usuário removido vira 401.
func (s *UserService) CurrentUser(ctx context.Context, userID string) (domain.User, error) {
	if userID == "" {
		return domain.User{}, apperror.NewUnauthorizedError("Autorização necessária.")
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			return domain.User{}, apperror.NewUnauthorizedError("Usuário do token não existe mais.")
		}
		return domain.User{}, err
	}
	return user, nil
}
