package database

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
)

const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
)

// pgError extrai SQLSTATE e constraint de erros de qualquer um dos dois drivers.
func pgError(err error) (code, constraint string, ok bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code), pqErr.Constraint, true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code, pgErr.ConstraintName, true
	}
	return "", "", false
}

// UniqueViolation informa se err é uma violação de unicidade e qual constraint falhou.
func UniqueViolation(err error) (string, bool) {
	code, constraint, ok := pgError(err)
	if !ok || code != codeUniqueViolation {
		return "", false
	}
	return constraint, true
}

// ForeignKeyViolation informa se err é uma violação de chave estrangeira.
func ForeignKeyViolation(err error) (string, bool) {
	code, constraint, ok := pgError(err)
	if !ok || code != codeForeignKeyViolation {
		return "", false
	}
	return constraint, true
}

// CheckViolation informa se err é uma violação de CHECK (ex.: quantity >= 0).
func CheckViolation(err error) (string, bool) {
	code, constraint, ok := pgError(err)
	if !ok || code != codeCheckViolation {
		return "", false
	}
	return constraint, true
}

// ConstraintFields mapeia as constraints únicas do schema para o campo exposto ao cliente.
var ConstraintFields = map[string]string{
	"uq_products_sku":                "sku",
	"uq_inventory_product_warehouse": "product_id,warehouse_id",
	"uq_orders_order_number":         "order_number",
	"uq_customers_email":             "email",
	"uq_users_email":                 "email",
}

// FieldForConstraint devolve o campo da constraint ou o próprio nome quando não mapeado.
func FieldForConstraint(constraint string) string {
	if f, ok := ConstraintFields[constraint]; ok {
		return f
	}
	return constraint
}
