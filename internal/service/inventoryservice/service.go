package inventoryservice

import (
	"context"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// InventoryRepository é o contrato de persistência das linhas de estoque.
type InventoryRepository interface {
	Create(ctx context.Context, inv domain.Inventory) (domain.Inventory, error)
	GetByID(ctx context.Context, id int64) (domain.Inventory, error)
	List(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error)
	Update(ctx context.Context, inv domain.Inventory) (domain.Inventory, error)
	Delete(ctx context.Context, id int64) error
}

type ProductFinder interface {
	FindByID(ctx context.Context, id int64) (domain.Product, error)
}

type WarehouseFinder interface {
	GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error)
}

// Service mantém as linhas de estoque por produto e armazém.
type Service struct {
	repo       InventoryRepository
	products   ProductFinder
	warehouses WarehouseFinder
	uow        domain.UnitOfWork
	logger     logger.Logger
	now        func() time.Time
}

func NewService(repo InventoryRepository, products ProductFinder, warehouses WarehouseFinder, uow domain.UnitOfWork, log logger.Logger) *Service {
	return &Service{
		repo:       repo,
		products:   products,
		warehouses: warehouses,
		uow:        uow,
		logger:     log,
		now:        time.Now,
	}
}

// CreateInventory cria a linha de estoque. Produto e armazém precisam existir.
func (s *Service) CreateInventory(ctx context.Context, inv domain.Inventory) (domain.Inventory, error) {
	if err := inv.Validate(); err != nil {
		return domain.Inventory{}, err
	}
	if _, err := s.products.FindByID(ctx, inv.ProductID); err != nil {
		return domain.Inventory{}, err
	}
	if _, err := s.warehouses.GetWarehouseByID(ctx, inv.WarehouseID); err != nil {
		return domain.Inventory{}, err
	}

	inv.LastRestockDate = nil
	if inv.Quantity > 0 {
		now := s.now().UTC()
		inv.LastRestockDate = &now
	}

	created, err := s.repo.Create(ctx, inv)
	if err != nil {
		return domain.Inventory{}, err
	}
	created.Classify()

	s.logger.Info("Linha de estoque criada.", map[string]interface{}{
		"inventory_id": created.ID, "product_id": created.ProductID, "warehouse_id": created.WarehouseID,
	})
	return created, nil
}

func (s *Service) GetInventory(ctx context.Context, id int64) (domain.Inventory, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListInventory(ctx context.Context, filter domain.InventoryFilter) ([]domain.Inventory, error) {
	return s.repo.List(ctx, filter)
}

// UpdateInventory altera quantidade, limites e localização. O par produto/armazém
// é mantido; a data de reposição só avança quando a quantidade cresce.
func (s *Service) UpdateInventory(ctx context.Context, id int64, inv domain.Inventory) (domain.Inventory, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Inventory{}, err
	}

	inv.ID = id
	inv.ProductID = current.ProductID
	inv.WarehouseID = current.WarehouseID
	if err := inv.Validate(); err != nil {
		return domain.Inventory{}, err
	}

	inv.LastRestockDate = current.LastRestockDate
	if inv.Quantity > current.Quantity {
		now := s.now().UTC()
		inv.LastRestockDate = &now
	}

	updated, err := s.repo.Update(ctx, inv)
	if err != nil {
		return domain.Inventory{}, err
	}
	updated.Classify()
	return updated, nil
}

// AdjustInventory aplica um delta sob lock da linha. O resultado nunca fica negativo.
func (s *Service) AdjustInventory(ctx context.Context, id int64, adj domain.InventoryAdjustment) (domain.Inventory, error) {
	if adj.Delta == 0 {
		return domain.Inventory{}, apperror.NewValidationError("O ajuste de estoque não pode ser zero.")
	}

	var adjusted domain.Inventory
	err := s.uow.Do(ctx, func(ctx context.Context, tx domain.TxStore) error {
		inv, err := tx.LockInventoryByID(ctx, id)
		if err != nil {
			return err
		}
		next := inv.Quantity + adj.Delta
		if next < 0 {
			return apperror.NewInsufficientStockError(inv.ProductID, inv.WarehouseID, inv.Quantity, -adj.Delta)
		}
		if err := tx.SetInventoryQuantity(ctx, inv.ID, next, adj.Delta > 0); err != nil {
			return err
		}
		adjusted, err = tx.LockInventoryByID(ctx, id)
		return err
	})
	if err != nil {
		return domain.Inventory{}, err
	}
	adjusted.Classify()

	s.logger.Info("Estoque ajustado.", map[string]interface{}{
		"inventory_id": id, "delta": adj.Delta, "quantity": adjusted.Quantity, "reason": adj.Reason,
	})
	return adjusted, nil
}

func (s *Service) DeleteInventory(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Linha de estoque removida.", map[string]interface{}{"inventory_id": id})
	return nil
}
