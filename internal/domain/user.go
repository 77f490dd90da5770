package domain

import (
	"context"
	"time"
)

// User representa o operador do back office.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         UserRole  `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// UserRole é um tipo string para representar o papel do usuário no sistema.
type UserRole string

const (
	RoleAdmin UserRole = "admin"
	RoleUser  UserRole = "user"
)

// UserRegistration representa o payload de entrada para o registro.
type UserRegistration struct {
	Email    string `json:"email" example:"operador@gowms.local"`
	Password string `json:"password" example:"segredo123"`
}

// UserLogin é o payload de login.
type UserLogin struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse devolve o JWT emitido no login.
type TokenResponse struct {
	Token string `json:"token"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	Save(ctx context.Context, user User) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	FindByID(ctx context.Context, id string) (User, error)
}
