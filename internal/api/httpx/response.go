// Package httpx reúne o tratamento de requisição e resposta compartilhado pelos handlers.
package httpx

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/shopspring/decimal"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

// Limite do corpo aceito nos endpoints JSON.
const maxBodyBytes = 1 << 20

// Respond escreve data com successStatus ou, quando err != nil, o corpo de erro
// padronizado. Erros 5xx são logados com a causa raiz, que nunca vai para o cliente.
func Respond(w http.ResponseWriter, r *http.Request, log logger.Logger, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				log.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)
	fields := map[string]interface{}{
		"path":       r.URL.Path,
		"status":     status,
		"category":   category,
		"request_id": middleware.GetReqID(r.Context()),
	}
	if status >= http.StatusInternalServerError {
		log.With(fields).Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		log.Debug(fmt.Sprintf("Requisição rejeitada com status %d.", status), fields)
	}

	body := domain.ErrorResponse{Code: status, Category: category, Message: message}
	if status < http.StatusInternalServerError {
		body.Details = apperror.Details(err)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// DecodeJSON lê o corpo da requisição em dst. Corpo vazio ou malformado é ValidationError.
func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return apperror.NewValidationError("O corpo da requisição está vazio.")
		}
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return apperror.NewValidationError(fmt.Sprintf("Campo '%s' com tipo inválido.", typeErr.Field))
		}
		return apperror.NewValidationError("Payload inválido. Verifique o formato JSON.")
	}
	return nil
}

// ParseID lê um identificador inteiro positivo do path.
func ParseID(r *http.Request, param string) (int64, error) {
	raw := chi.URLParam(r, param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, apperror.NewValidationError(fmt.Sprintf("O parâmetro '%s' deve ser um inteiro positivo.", param))
	}
	return id, nil
}

// QueryInt64 lê um inteiro opcional da query string.
func QueryInt64(r *http.Request, name string) (*int64, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperror.NewValidationError(fmt.Sprintf("O filtro '%s' deve ser um inteiro.", name))
	}
	return &v, nil
}

// QueryBool lê um booleano opcional; ausente vale false.
func QueryBool(r *http.Request, name string) (bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, apperror.NewValidationError(fmt.Sprintf("O filtro '%s' deve ser true ou false.", name))
	}
	return v, nil
}

// QueryDecimal lê um valor monetário opcional.
func QueryDecimal(r *http.Request, name string) (*decimal.Decimal, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	v, err := decimal.NewFromString(raw)
	if err != nil {
		return nil, apperror.NewValidationError(fmt.Sprintf("O filtro '%s' deve ser numérico.", name))
	}
	return &v, nil
}

// QueryDate aceita YYYY-MM-DD ou RFC3339.
func QueryDate(r *http.Request, name string) (*time.Time, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return nil, nil
	}
	for _, layout := range []string{time.DateOnly, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, apperror.NewValidationError(fmt.Sprintf("O filtro '%s' deve estar no formato YYYY-MM-DD.", name))
}
