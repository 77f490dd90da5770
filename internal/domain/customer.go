package domain

import (
	"net/mail"
	"strings"
	"time"

	apperror "gowms/internal/errors"
)

// Customer representa o cliente que realiza pedidos. O email é opcional,
// mas quando presente é único.
type Customer struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     *string   `json:"email"`
	Phone     string    `json:"phone"`
	Address   string    `json:"address"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CustomerSummary struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
}

// Validate normaliza o email vazio para nil e valida o formato.
func (c *Customer) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return apperror.NewValidationError("O nome do cliente não pode ser vazio.")
	}
	if c.Email != nil {
		email := strings.TrimSpace(*c.Email)
		if email == "" {
			c.Email = nil
			return nil
		}
		if _, err := mail.ParseAddress(email); err != nil {
			return apperror.NewValidationError("O email do cliente é inválido.")
		}
		c.Email = &email
	}
	return nil
}
