package customerrepo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

const customerColumns = `id, name, email, phone, address, created_at, updated_at`

// CustomerRepository acessa a tabela customers.
type CustomerRepository struct {
	DB        database.Querier
	DBTimeout time.Duration
	logger    logger.Logger
}

func NewCustomerRepository(db database.Querier, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{DB: db, DBTimeout: dbTimeout, logger: logger}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanCustomer(row rowScanner) (domain.Customer, error) {
	var c domain.Customer
	var email sql.NullString
	if err := row.Scan(&c.ID, &c.Name, &email, &c.Phone, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return c, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	return c, nil
}

func (r *CustomerRepository) translateWriteError(msg string, err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		return apperror.NewDuplicateError(database.FieldForConstraint(constraint))
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return apperror.NewConflictError("O cliente possui pedidos e não pode ser removido.")
	}
	r.logger.Error(msg, err)
	return apperror.NewDBError(msg, err)
}

func (r *CustomerRepository) Create(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `INSERT INTO customers (name, email, phone, address) VALUES ($1, $2, $3, $4)
              RETURNING ` + customerColumns

	created, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query, c.Name, c.Email, c.Phone, c.Address))
	if err != nil {
		return domain.Customer{}, r.translateWriteError("Falha ao criar cliente", err)
	}
	return created, nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	c, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, `SELECT `+customerColumns+` FROM customers WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, apperror.NewEntityNotFoundError("customer", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}
	return c, nil
}

func (r *CustomerRepository) List(ctx context.Context) ([]domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	rows, err := r.DB.QueryContext(ctxTimeout, `SELECT `+customerColumns+` FROM customers ORDER BY name, id`)
	if err != nil {
		r.logger.Error("Falha ao listar clientes.", err)
		return nil, apperror.NewDBError("Falha ao listar clientes", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler cliente", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar clientes", err)
	}
	return customers, nil
}

func (r *CustomerRepository) Update(ctx context.Context, c domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE customers SET name = $1, email = $2, phone = $3, address = $4, updated_at = NOW()
              WHERE id = $5
              RETURNING ` + customerColumns

	updated, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query, c.Name, c.Email, c.Phone, c.Address, c.ID))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Customer{}, apperror.NewEntityNotFoundError("customer", c.ID)
	}
	if err != nil {
		return domain.Customer{}, r.translateWriteError("Falha ao atualizar cliente", err)
	}
	return updated, nil
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		return r.translateWriteError("Falha ao remover cliente", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("customer", id)
	}
	return nil
}
