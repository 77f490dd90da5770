package customerservice

import (
	"context"

	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

type CustomerRepository interface {
	Create(ctx context.Context, c domain.Customer) (domain.Customer, error)
	GetByID(ctx context.Context, id int64) (domain.Customer, error)
	List(ctx context.Context) ([]domain.Customer, error)
	Update(ctx context.Context, c domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, id int64) error
}

// Service é o cadastro de clientes.
type Service struct {
	repo   CustomerRepository
	logger logger.Logger
}

func NewService(repo CustomerRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateCustomer valida e grava o cliente. Email repetido volta como DuplicateError(email).
func (s *Service) CreateCustomer(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	if err := c.Validate(); err != nil {
		return domain.Customer{}, err
	}
	created, err := s.repo.Create(ctx, c)
	if err != nil {
		return domain.Customer{}, err
	}
	s.logger.Info("Cliente criado.", map[string]interface{}{"id": created.ID})
	return created, nil
}

func (s *Service) GetCustomer(ctx context.Context, id int64) (domain.Customer, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	return s.repo.List(ctx)
}

func (s *Service) UpdateCustomer(ctx context.Context, id int64, c domain.Customer) (domain.Customer, error) {
	c.ID = id
	if err := c.Validate(); err != nil {
		return domain.Customer{}, err
	}
	return s.repo.Update(ctx, c)
}

// DeleteCustomer remove o cliente; clientes com pedidos geram ConflictError.
func (s *Service) DeleteCustomer(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Cliente removido.", map[string]interface{}{"id": id})
	return nil
}
