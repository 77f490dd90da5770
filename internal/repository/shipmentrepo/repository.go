package shipmentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const shipmentColumns = `sh.id, sh.order_id, sh.warehouse_id, sh.shipment_date, sh.tracking_number, sh.carrier,
        sh.status, sh.created_at, sh.updated_at`

const detailSelect = `
        SELECT ` + shipmentColumns + `, o.order_number, o.status_id, w.name, w.location
        FROM shipments sh
        JOIN orders o ON o.id = sh.order_id
        JOIN warehouses w ON w.id = sh.warehouse_id`

// ShipmentRepository acessa a tabela shipments.
type ShipmentRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewShipmentRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *ShipmentRepository {
	return &ShipmentRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanShipment(row rowScanner) (domain.Shipment, error) {
	var s domain.Shipment
	var tracking, carrier sql.NullString
	err := row.Scan(&s.ID, &s.OrderID, &s.WarehouseID, &s.ShipmentDate, &tracking, &carrier, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return s, err
	}
	applyNullable(&s, tracking, carrier)
	return s, nil
}

func scanShipmentDetail(row rowScanner) (domain.Shipment, error) {
	var s domain.Shipment
	var tracking, carrier sql.NullString
	w := &domain.WarehouseSummary{}
	err := row.Scan(&s.ID, &s.OrderID, &s.WarehouseID, &s.ShipmentDate, &tracking, &carrier, &s.Status, &s.CreatedAt, &s.UpdatedAt,
		&s.OrderNumber, &s.OrderStatusID, &w.Name, &w.Location)
	if err != nil {
		return s, err
	}
	applyNullable(&s, tracking, carrier)
	w.ID = s.WarehouseID
	s.Warehouse = w
	return s, nil
}

func applyNullable(s *domain.Shipment, tracking, carrier sql.NullString) {
	if tracking.Valid {
		s.TrackingNumber = &tracking.String
	}
	if carrier.Valid {
		s.Carrier = &carrier.String
	}
}

// Insert cria a remessa.
func (r *ShipmentRepository) Insert(ctx context.Context, s domain.Shipment) (domain.Shipment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        INSERT INTO shipments AS sh (order_id, warehouse_id, tracking_number, carrier, status)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING ` + shipmentColumns

	created, err := scanShipment(r.DB.QueryRowContext(ctxTimeout, query,
		s.OrderID, s.WarehouseID, s.TrackingNumber, s.Carrier, s.Status,
	))
	if err != nil {
		if constraint, ok := database.UniqueViolation(err); ok {
			return domain.Shipment{}, apperror.NewDuplicateError(database.FieldForConstraint(constraint))
		}
		if _, ok := database.ForeignKeyViolation(err); ok {
			return domain.Shipment{}, apperror.NewNotFoundError("Pedido ou armazém informado não existe.")
		}
		r.logger.Error("Falha ao inserir remessa.", err)
		return domain.Shipment{}, apperror.NewDBError("Falha ao inserir remessa", err)
	}
	return created, nil
}

// LockByID bloqueia a remessa para atualização.
func (r *ShipmentRepository) LockByID(ctx context.Context, id int64) (domain.Shipment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanShipment(r.DB.QueryRowContext(ctxTimeout, `SELECT `+shipmentColumns+` FROM shipments sh WHERE sh.id = $1 FOR UPDATE`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shipment{}, apperror.NewEntityNotFoundError("shipment", id)
	}
	if err != nil {
		return domain.Shipment{}, apperror.NewDBError("Falha ao bloquear remessa", err)
	}
	return s, nil
}

// Update grava status, rastreio e transportadora.
func (r *ShipmentRepository) Update(ctx context.Context, s domain.Shipment) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `
        UPDATE shipments SET status = $1, tracking_number = $2, carrier = $3, updated_at = NOW()
        WHERE id = $4`, s.Status, s.TrackingNumber, s.Carrier, s.ID)
	if err != nil {
		r.logger.Error("Falha ao atualizar remessa.", err)
		return apperror.NewDBError("Falha ao atualizar remessa", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("shipment", s.ID)
	}
	return nil
}

// GetByID busca a remessa com número do pedido e armazém.
func (r *ShipmentRepository) GetByID(ctx context.Context, id int64) (domain.Shipment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	s, err := scanShipmentDetail(r.DB.QueryRowContext(ctxTimeout, detailSelect+` WHERE sh.id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Shipment{}, apperror.NewEntityNotFoundError("shipment", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar remessa.", err)
		return domain.Shipment{}, apperror.NewDBError("Falha ao buscar remessa", err)
	}
	return s, nil
}

// List devolve as remessas filtradas, mais recentes primeiro.
func (r *ShipmentRepository) List(ctx context.Context, filter domain.ShipmentFilter) ([]domain.Shipment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := detailSelect + ` WHERE 1 = 1`
	var args []interface{}
	if filter.OrderID != nil {
		args = append(args, *filter.OrderID)
		query += fmt.Sprintf(" AND sh.order_id = $%d", len(args))
	}
	if filter.WarehouseID != nil {
		args = append(args, *filter.WarehouseID)
		query += fmt.Sprintf(" AND sh.warehouse_id = $%d", len(args))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		query += fmt.Sprintf(" AND sh.status = $%d", len(args))
	}
	if filter.StartDate != nil {
		args = append(args, *filter.StartDate)
		query += fmt.Sprintf(" AND sh.shipment_date >= $%d", len(args))
	}
	if filter.EndDate != nil {
		args = append(args, *filter.EndDate)
		query += fmt.Sprintf(" AND sh.shipment_date <= $%d", len(args))
	}
	query += " ORDER BY sh.shipment_date DESC, sh.id DESC"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar remessas.", err)
		return nil, apperror.NewDBError("Falha ao listar remessas", err)
	}
	defer rows.Close()

	shipments := []domain.Shipment{}
	for rows.Next() {
		s, err := scanShipmentDetail(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler remessa", err)
		}
		shipments = append(shipments, s)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar remessas", err)
	}
	return shipments, nil
}
