package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// AppError é a interface central para todos os erros customizados do GoWMS.
// Ela permite que o código externo (Handler) acesse a Categoria e a Mensagem do erro.
type AppError interface {
	Error() string    // Implementa a interface error padrão do Go
	Category() string // Categoria do erro (e.g., "VALIDATION_ERROR", "NOT_FOUND", "INTERNAL_ERROR")
	HTTPStatus() int  // Código HTTP sugerido para o Handler
	Unwrap() error    // Permite encapsular erros subjacentes (original error)
}

// Detailer é implementado pelos erros que carregam dados estruturados
// (IDs, quantidades, campos) para a resposta ao cliente.
type Detailer interface {
	Details() map[string]interface{}
}

// --- Tipos de Erro Específicos (Erros de Domínio) ---

// ValidationError representa falhas de validação de dados de entrada.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string    { return fmt.Sprintf("Erro de Validação: %s", e.Msg) }
func (e *ValidationError) Category() string { return "VALIDATION_ERROR" }
func (e *ValidationError) HTTPStatus() int  { return http.StatusBadRequest } // 400
func (e *ValidationError) Unwrap() error    { return nil }

// NewValidationError cria um novo erro de validação.
func NewValidationError(msg string) AppError {
	return &ValidationError{Msg: msg}
}

// NotFoundError representa a ausência de um recurso solicitado.
// Entity e ID são opcionais; quando presentes vão para os detalhes da resposta.
type NotFoundError struct {
	Entity string
	ID     int64
	Msg    string
	Extra  map[string]interface{}
}

func (e *NotFoundError) Error() string    { return fmt.Sprintf("Recurso não encontrado: %s", e.Msg) }
func (e *NotFoundError) Category() string { return "NOT_FOUND" }
func (e *NotFoundError) HTTPStatus() int  { return http.StatusNotFound } // 404
func (e *NotFoundError) Unwrap() error    { return nil }

func (e *NotFoundError) Details() map[string]interface{} {
	if e.Entity == "" {
		return nil
	}
	d := map[string]interface{}{"entity": e.Entity}
	if e.ID != 0 {
		d["id"] = e.ID
	}
	for k, v := range e.Extra {
		d[k] = v
	}
	return d
}

// NewNotFoundError cria um novo erro de recurso não encontrado.
func NewNotFoundError(msg string) AppError {
	return &NotFoundError{Msg: msg}
}

// NewEntityNotFoundError cria um NotFoundError identificando a entidade e o ID ausentes.
func NewEntityNotFoundError(entity string, id int64) AppError {
	return &NotFoundError{
		Entity: entity,
		ID:     id,
		Msg:    fmt.Sprintf("%s com ID %d não encontrado.", entity, id),
	}
}

// NewInventoryNotFoundError indica que não existe linha de estoque para o par produto/armazém.
func NewInventoryNotFoundError(productID, warehouseID int64) AppError {
	return &NotFoundError{
		Entity: "inventory",
		Msg:    fmt.Sprintf("Não há estoque do produto %d no armazém %d.", productID, warehouseID),
		Extra:  map[string]interface{}{"product_id": productID, "warehouse_id": warehouseID},
	}
}

// ConflictError representa um conflito na regra de negócio (e.g., registro ainda referenciado).
type ConflictError struct {
	Msg string
}

func (e *ConflictError) Error() string    { return fmt.Sprintf("Conflito de estado: %s", e.Msg) }
func (e *ConflictError) Category() string { return "CONFLICT" }
func (e *ConflictError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *ConflictError) Unwrap() error    { return nil }

// NewConflictError cria um novo erro de conflito.
func NewConflictError(msg string) AppError {
	return &ConflictError{Msg: msg}
}

// DuplicateError representa a violação de uma restrição de unicidade.
type DuplicateError struct {
	Field string
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("Registro duplicado: já existe um registro com o mesmo valor de '%s'.", e.Field)
}
func (e *DuplicateError) Category() string { return "DUPLICATE_CONSTRAINT" }
func (e *DuplicateError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *DuplicateError) Unwrap() error    { return nil }

func (e *DuplicateError) Details() map[string]interface{} {
	return map[string]interface{}{"field": e.Field}
}

// NewDuplicateError cria um erro de unicidade nomeando o campo violado.
func NewDuplicateError(field string) AppError {
	return &DuplicateError{Field: field}
}

// InsufficientStockError indica que o estoque de um produto em um armazém não cobre o pedido.
type InsufficientStockError struct {
	ProductID   int64
	WarehouseID int64
	Available   int
	Requested   int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Estoque insuficiente do produto %d no armazém %d. Disponível: %d, solicitado: %d.",
		e.ProductID, e.WarehouseID, e.Available, e.Requested)
}
func (e *InsufficientStockError) Category() string { return "INSUFFICIENT_STOCK" }
func (e *InsufficientStockError) HTTPStatus() int  { return http.StatusUnprocessableEntity } // 422
func (e *InsufficientStockError) Unwrap() error    { return nil }

func (e *InsufficientStockError) Details() map[string]interface{} {
	return map[string]interface{}{
		"product_id":   e.ProductID,
		"warehouse_id": e.WarehouseID,
		"available":    e.Available,
		"requested":    e.Requested,
	}
}

// NewInsufficientStockError cria um erro de estoque insuficiente.
func NewInsufficientStockError(productID, warehouseID int64, available, requested int) AppError {
	return &InsufficientStockError{ProductID: productID, WarehouseID: warehouseID, Available: available, Requested: requested}
}

// InvalidStateError indica uma ação não permitida no estado atual do pedido.
type InvalidStateError struct {
	OrderID       int64
	CurrentStatus string
	Action        string
}

func (e *InvalidStateError) Error() string {
	return fmt.Sprintf("Ação '%s' não permitida para o pedido %d no estado '%s'.", e.Action, e.OrderID, e.CurrentStatus)
}
func (e *InvalidStateError) Category() string { return "INVALID_STATE" }
func (e *InvalidStateError) HTTPStatus() int  { return http.StatusConflict } // 409
func (e *InvalidStateError) Unwrap() error    { return nil }

func (e *InvalidStateError) Details() map[string]interface{} {
	return map[string]interface{}{
		"order_id":       e.OrderID,
		"current_status": e.CurrentStatus,
		"action":         e.Action,
	}
}

// NewInvalidStateError cria um erro de transição de estado inválida.
func NewInvalidStateError(orderID int64, currentStatus, action string) AppError {
	return &InvalidStateError{OrderID: orderID, CurrentStatus: currentStatus, Action: action}
}

// UnauthorizedError representa falha de autenticação.
type UnauthorizedError struct {
	Msg string
}

func (e *UnauthorizedError) Error() string    { return fmt.Sprintf("Não autorizado: %s", e.Msg) }
func (e *UnauthorizedError) Category() string { return "UNAUTHORIZED" }
func (e *UnauthorizedError) HTTPStatus() int  { return http.StatusUnauthorized } // 401
func (e *UnauthorizedError) Unwrap() error    { return nil }

// NewUnauthorizedError cria um novo erro de autenticação.
func NewUnauthorizedError(msg string) AppError {
	return &UnauthorizedError{Msg: msg}
}

// ForbiddenError representa falta de permissão para um usuário autenticado.
type ForbiddenError struct {
	Msg string
}

func (e *ForbiddenError) Error() string    { return fmt.Sprintf("Acesso negado: %s", e.Msg) }
func (e *ForbiddenError) Category() string { return "FORBIDDEN" }
func (e *ForbiddenError) HTTPStatus() int  { return http.StatusForbidden } // 403
func (e *ForbiddenError) Unwrap() error    { return nil }

// NewForbiddenError cria um novo erro de permissão.
func NewForbiddenError(msg string) AppError {
	return &ForbiddenError{Msg: msg}
}

// --- Tipos de Erro de Infraestrutura (Encapsulamento) ---

// InternalError representa falhas inesperadas no servidor, serviço ou repositório.
type InternalError struct {
	Msg      string
	Err      error // Erro original subjacente (e.g., erro do driver SQL)
	category string
}

func (e *InternalError) Error() string { return fmt.Sprintf("Erro Interno: %s", e.Msg) }
func (e *InternalError) Category() string {
	if e.category != "" {
		return e.category
	}
	return "INTERNAL_ERROR"
}
func (e *InternalError) HTTPStatus() int { return http.StatusInternalServerError } // 500
func (e *InternalError) Unwrap() error   { return e.Err }

// NewInternalError cria um erro de servidor (para falhas de lógica ou código não esperado).
func NewInternalError(msg string, err error) AppError {
	return &InternalError{Msg: msg, Err: err}
}

// NewDBError é um atalho para criar um InternalError específico de falhas no DB.
func NewDBError(msg string, err error) AppError {
	return NewInternalError(fmt.Sprintf("%s (DB): %s", msg, err.Error()), err)
}

// NewIntegrityError sinaliza dados inconsistentes encontrados no meio de um fluxo
// (e.g., linha de estoque removida enquanto um pedido ainda a referencia).
func NewIntegrityError(msg string) AppError {
	return &InternalError{Msg: msg, category: "DATA_INTEGRITY"}
}

// --- Helper para o Handler (Tradução Final) ---

// MapToHTTPStatus recebe um erro e o traduz para o código HTTP e corpo de resposta.
// Erros encapsulados com %w também são reconhecidos.
func MapToHTTPStatus(err error) (int, string, string) {
	var appErr AppError
	if errors.As(err, &appErr) {
		if appErr.HTTPStatus() >= http.StatusInternalServerError {
			// A causa raiz (erro SQL) fica apenas no log, nunca na resposta.
			return appErr.HTTPStatus(), appErr.Category(), "Ocorreu um erro interno. Nenhuma alteração foi aplicada."
		}
		return appErr.HTTPStatus(), appErr.Category(), appErr.Error()
	}

	// Erro não tipado: tratar como erro interno genérico.
	return http.StatusInternalServerError, "UNKNOWN_ERROR", "Ocorreu um erro inesperado."
}

// Details extrai os dados estruturados do erro, se houver.
func Details(err error) map[string]interface{} {
	var d Detailer
	if errors.As(err, &d) {
		return d.Details()
	}
	return nil
}
