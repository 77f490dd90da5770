package warehouseservice

import (
	"context"

	"gowms/internal/domain"
	"gowms/internal/pkg/logger"
)

// WarehouseRepository define o contrato que o Serviço de Armazéns espera da camada de Persistência.
type WarehouseRepository interface {
	CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error)
	GetAllWarehouses(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, error)
	UpdateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error)
	DeleteWarehouse(ctx context.Context, id int64) error
	InventorySummary(ctx context.Context, id int64) (domain.InventorySummary, error)
	Stats(ctx context.Context) ([]domain.WarehouseStats, error)
}

// Service implementa as regras de cadastro de armazéns e os resumos de estoque.
type Service struct {
	repo   WarehouseRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Armazéns.
func NewService(repo WarehouseRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// CreateWarehouse cria um novo armazém após validações de negócio.
func (s *Service) CreateWarehouse(ctx context.Context, warehouse domain.Warehouse) (domain.Warehouse, error) {
	s.logger.Debug("Iniciando criação de armazém no serviço.", map[string]interface{}{"name": warehouse.Name})

	if err := warehouse.Validate(); err != nil {
		s.logger.Warn("Falha na validação do armazém.", map[string]interface{}{"name": warehouse.Name, "error": err.Error()})
		return domain.Warehouse{}, err
	}

	created, err := s.repo.CreateWarehouse(ctx, warehouse)
	if err != nil {
		return domain.Warehouse{}, err
	}

	s.logger.Info("Armazém criado com sucesso.", map[string]interface{}{"id": created.ID, "name": created.Name})
	return created, nil
}

// GetWarehouseByID busca um armazém pelo ID.
func (s *Service) GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error) {
	return s.repo.GetWarehouseByID(ctx, id)
}

func (s *Service) GetAllWarehouses(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, error) {
	return s.repo.GetAllWarehouses(ctx, filter)
}

// UpdateWarehouse valida e grava os dados cadastrais do armazém.
func (s *Service) UpdateWarehouse(ctx context.Context, id int64, warehouse domain.Warehouse) (domain.Warehouse, error) {
	warehouse.ID = id
	if err := warehouse.Validate(); err != nil {
		s.logger.Warn("Falha na validação do armazém.", map[string]interface{}{"id": id, "error": err.Error()})
		return domain.Warehouse{}, err
	}

	updated, err := s.repo.UpdateWarehouse(ctx, warehouse)
	if err != nil {
		return domain.Warehouse{}, err
	}
	s.logger.Info("Armazém atualizado com sucesso.", map[string]interface{}{"id": id})
	return updated, nil
}

// DeleteWarehouse remove o armazém. Pedidos e remessas que o referenciam bloqueiam a remoção.
func (s *Service) DeleteWarehouse(ctx context.Context, id int64) error {
	if err := s.repo.DeleteWarehouse(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Armazém deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// InventorySummary agrega o estoque de um armazém existente.
func (s *Service) InventorySummary(ctx context.Context, id int64) (domain.InventorySummary, error) {
	if _, err := s.repo.GetWarehouseByID(ctx, id); err != nil {
		return domain.InventorySummary{}, err
	}
	return s.repo.InventorySummary(ctx, id)
}

func (s *Service) Stats(ctx context.Context) ([]domain.WarehouseStats, error) {
	return s.repo.Stats(ctx)
}
