package errors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	apperror "gowms/internal/errors"
)

func TestMapToHTTPStatus(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		status   int
		category string
	}{
		{"validação", apperror.NewValidationError("x"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"não encontrado", apperror.NewEntityNotFoundError("product", 1), http.StatusNotFound, "NOT_FOUND"},
		{"duplicado", apperror.NewDuplicateError("sku"), http.StatusConflict, "DUPLICATE_CONSTRAINT"},
		{"estado inválido", apperror.NewInvalidStateError(1, "Shipped", "cancel"), http.StatusConflict, "INVALID_STATE"},
		{"estoque insuficiente", apperror.NewInsufficientStockError(1, 1, 2, 3), http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"não autorizado", apperror.NewUnauthorizedError("x"), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"proibido", apperror.NewForbiddenError("x"), http.StatusForbidden, "FORBIDDEN"},
		{"integridade", apperror.NewIntegrityError("x"), http.StatusInternalServerError, "DATA_INTEGRITY"},
		{"banco", apperror.NewDBError("falha", errors.New("timeout")), http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"encapsulado", fmt.Errorf("ctx: %w", apperror.NewValidationError("x")), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"não tipado", errors.New("boom"), http.StatusInternalServerError, "UNKNOWN_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, category, msg := apperror.MapToHTTPStatus(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.category, category)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestMapToHTTPStatus_HidesRootCause(t *testing.T) {
	_, _, msg := apperror.MapToHTTPStatus(apperror.NewDBError("falha", errors.New("pq: relation missing")))
	assert.NotContains(t, msg, "pq:")
}

func TestDetails(t *testing.T) {
	assert.Equal(t, map[string]interface{}{
		"product_id": int64(1), "warehouse_id": int64(2), "available": 10, "requested": 11,
	}, apperror.Details(apperror.NewInsufficientStockError(1, 2, 10, 11)))

	assert.Equal(t, map[string]interface{}{"entity": "order", "id": int64(7)},
		apperror.Details(apperror.NewEntityNotFoundError("order", 7)))

	inv := apperror.Details(apperror.NewInventoryNotFoundError(3, 4))
	assert.Equal(t, "inventory", inv["entity"])
	assert.NotContains(t, inv, "id")
	assert.Equal(t, int64(3), inv["product_id"])

	assert.Nil(t, apperror.Details(apperror.NewNotFoundError("sem entidade")))
	assert.Nil(t, apperror.Details(errors.New("boom")))
}
