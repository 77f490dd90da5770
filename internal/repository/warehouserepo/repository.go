package warehouserepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const warehouseColumns = `id, name, location, address, contact_person, contact_email, contact_phone, created_at, updated_at`

// Contagens de estoque baixo e excedente, mesma regra de domain.ClassifyStock.
const summaryAggregates = `
        COUNT(i.id),
        COALESCE(SUM(i.quantity), 0),
        COUNT(i.id) FILTER (WHERE i.quantity <= i.min_stock_level),
        COUNT(i.id) FILTER (WHERE i.quantity > i.min_stock_level
                             AND i.max_stock_level IS NOT NULL
                             AND i.quantity >= i.max_stock_level)`

// WarehouseRepository implementa as operações CRUD de armazéns e as agregações de estoque.
type WarehouseRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewWarehouseRepository cria e retorna uma nova instância do Repositório de Armazéns.
func NewWarehouseRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *WarehouseRepository {
	return &WarehouseRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanWarehouse(row rowScanner) (domain.Warehouse, error) {
	var w domain.Warehouse
	err := row.Scan(&w.ID, &w.Name, &w.Location, &w.Address, &w.ContactPerson, &w.ContactEmail, &w.ContactPhone, &w.CreatedAt, &w.UpdatedAt)
	return w, err
}

// CreateWarehouse insere um novo armazém no banco de dados.
func (r *WarehouseRepository) CreateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	r.logger.Debug("Iniciando CreateWarehouse no repositório.", map[string]interface{}{"name": w.Name})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO warehouses (name, location, address, contact_person, contact_email, contact_phone)
        VALUES ($1, $2, $3, $4, $5, $6)
        RETURNING ` + warehouseColumns

	created, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		w.Name, w.Location, w.Address, w.ContactPerson, w.ContactEmail, w.ContactPhone,
	))
	if err != nil {
		r.logger.Error("Falha ao inserir armazém no DB.", err)
		return domain.Warehouse{}, apperror.NewDBError("Falha ao criar armazém", err)
	}
	return created, nil
}

// GetWarehouseByID busca um armazém pelo ID.
func (r *WarehouseRepository) GetWarehouseByID(ctx context.Context, id int64) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	w, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, `SELECT `+warehouseColumns+` FROM warehouses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Warehouse{}, apperror.NewEntityNotFoundError("warehouse", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar armazém no DB.", err)
		return domain.Warehouse{}, apperror.NewDBError("Falha ao buscar armazém", err)
	}
	return w, nil
}

// GetAllWarehouses lista os armazéns, com busca opcional em nome, localização e endereço.
func (r *WarehouseRepository) GetAllWarehouses(ctx context.Context, filter domain.WarehouseFilter) ([]domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + warehouseColumns + ` FROM warehouses`
	var args []interface{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		query += ` WHERE name ILIKE $1 OR location ILIKE $1 OR address ILIKE $1`
	}
	query += ` ORDER BY name, id`

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao buscar todos os armazéns no DB.", err)
		return nil, apperror.NewDBError("Falha ao buscar armazéns", err)
	}
	defer rows.Close()

	warehouses := []domain.Warehouse{}
	for rows.Next() {
		w, err := scanWarehouse(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler armazém", err)
		}
		warehouses = append(warehouses, w)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar armazéns", err)
	}
	return warehouses, nil
}

// UpdateWarehouse atualiza um armazém existente.
func (r *WarehouseRepository) UpdateWarehouse(ctx context.Context, w domain.Warehouse) (domain.Warehouse, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        UPDATE warehouses
        SET name = $1, location = $2, address = $3, contact_person = $4, contact_email = $5,
            contact_phone = $6, updated_at = NOW()
        WHERE id = $7
        RETURNING ` + warehouseColumns

	updated, err := scanWarehouse(r.DB.QueryRowContext(ctxTimeout, query,
		w.Name, w.Location, w.Address, w.ContactPerson, w.ContactEmail, w.ContactPhone, w.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Warehouse{}, apperror.NewEntityNotFoundError("warehouse", w.ID)
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar armazém no DB.", err)
		return domain.Warehouse{}, apperror.NewDBError("Falha ao atualizar armazém", err)
	}
	return updated, nil
}

// DeleteWarehouse remove um armazém. Linhas de estoque caem em cascata; pedidos e
// remessas que referenciam o armazém impedem a remoção.
func (r *WarehouseRepository) DeleteWarehouse(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM warehouses WHERE id = $1`, id)
	if err != nil {
		if _, ok := database.ForeignKeyViolation(err); ok {
			return apperror.NewConflictError(fmt.Sprintf("O armazém %d é referenciado por pedidos ou remessas.", id))
		}
		r.logger.Error("Falha ao deletar armazém no DB.", err)
		return apperror.NewDBError("Falha ao deletar armazém", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if rowsAffected == 0 {
		return apperror.NewEntityNotFoundError("warehouse", id)
	}
	return nil
}

// InventorySummary agrega o estoque de um armazém.
func (r *WarehouseRepository) InventorySummary(ctx context.Context, id int64) (domain.InventorySummary, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + summaryAggregates + ` FROM inventory i WHERE i.warehouse_id = $1`

	s := domain.InventorySummary{WarehouseID: id}
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(&s.TotalItems, &s.TotalQuantity, &s.LowStockItems, &s.OverStockItems)
	if err != nil {
		r.logger.Error("Falha ao agregar estoque do armazém.", err)
		return domain.InventorySummary{}, apperror.NewDBError("Falha ao agregar estoque", err)
	}
	return s, nil
}

// Stats devolve o resumo de estoque de todos os armazéns, inclusive os vazios.
func (r *WarehouseRepository) Stats(ctx context.Context) ([]domain.WarehouseStats, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT w.id, w.name, w.location, ` + summaryAggregates + `
        FROM warehouses w
        LEFT JOIN inventory i ON i.warehouse_id = w.id
        GROUP BY w.id, w.name, w.location
        ORDER BY w.name, w.id`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao calcular estatísticas de armazéns.", err)
		return nil, apperror.NewDBError("Falha ao calcular estatísticas", err)
	}
	defer rows.Close()

	stats := []domain.WarehouseStats{}
	for rows.Next() {
		var s domain.WarehouseStats
		if err := rows.Scan(&s.Warehouse.ID, &s.Warehouse.Name, &s.Warehouse.Location,
			&s.TotalItems, &s.TotalQuantity, &s.LowStockItems, &s.OverStockItems); err != nil {
			return nil, apperror.NewDBError("Falha ao ler estatísticas", err)
		}
		s.WarehouseID = s.Warehouse.ID
		stats = append(stats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar estatísticas", err)
	}
	return stats, nil
}
