package productservice

import (
	"context"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// ProductRepository define o contrato (interface) que este Serviço espera
// da camada de Persistência (DB, Cache).
type ProductRepository interface {
	Save(ctx context.Context, product domain.Product) (domain.Product, error)
	FindByID(ctx context.Context, id int64) (domain.Product, error)
	FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)
	Update(ctx context.Context, product domain.Product) (domain.Product, error)
	Delete(ctx context.Context, id int64) error
}

// Service implementa as regras do catálogo de produtos.
type Service struct {
	repo   ProductRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Produto.
func NewService(repo ProductRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// --- Implementação: CreateProduct ---
func (s *Service) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	if err := product.Validate(); err != nil {
		s.logger.Warn("Produto inválido.", map[string]interface{}{"sku": product.SKU, "error": err.Error()})
		return domain.Product{}, err
	}

	// SKU duplicado volta do repositório como DuplicateError(sku).
	created, err := s.repo.Save(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}

	s.logger.Info("Produto criado.", map[string]interface{}{"id": created.ID, "sku": created.SKU})
	return created, nil
}

func (s *Service) GetProductByID(ctx context.Context, id int64) (domain.Product, error) {
	return s.repo.FindByID(ctx, id)
}

// GetProducts lista o catálogo. Faixa de preço invertida é erro de validação.
func (s *Service) GetProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && filter.MinPrice.GreaterThan(*filter.MaxPrice) {
		return nil, apperror.NewValidationError("min_price não pode ser maior que max_price.")
	}
	return s.repo.FindAll(ctx, filter)
}

// UpdateProduct grava os campos editáveis. O SKU é imutável: enviar um SKU
// diferente do atual é erro de validação; omitir mantém o atual.
func (s *Service) UpdateProduct(ctx context.Context, id int64, product domain.Product) (domain.Product, error) {
	current, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if product.SKU != "" && product.SKU != current.SKU {
		return domain.Product{}, apperror.NewValidationError("O SKU do produto não pode ser alterado.")
	}

	product.ID = id
	product.SKU = current.SKU
	if err := product.Validate(); err != nil {
		return domain.Product{}, err
	}

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return domain.Product{}, err
	}
	s.logger.Info("Produto atualizado.", map[string]interface{}{"id": id})
	return updated, nil
}

func (s *Service) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Produto removido.", map[string]interface{}{"id": id})
	return nil
}
