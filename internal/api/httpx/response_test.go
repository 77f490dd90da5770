package httpx_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gowms/internal/api/httpx"
	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/logger"
)

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func TestParseID(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"12", 12, false},
		{"0", 0, true},
		{"-3", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			r := withURLParam(httptest.NewRequest(http.MethodGet, "/", nil), "id", tt.raw)
			id, err := httpx.ParseID(r, "id")
			if tt.wantErr {
				var ve *apperror.ValidationError
				assert.ErrorAs(t, err, &ve)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var dst domain.CreateOrderRequest

	err := httpx.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader("")), &dst)
	assert.ErrorContains(t, err, "vazio")

	err = httpx.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":"x"}`)), &dst)
	assert.ErrorContains(t, err, "customer_id")

	err = httpx.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer_id":4}`)), &dst)
	require.NoError(t, err)
	assert.Equal(t, int64(4), dst.CustomerID)
}

func TestQueryHelpers(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?n=7&b=true&d=2024-03-01&p=9.90&bad=x", nil)

	n, err := httpx.QueryInt64(r, "n")
	require.NoError(t, err)
	assert.Equal(t, int64(7), *n)

	missing, err := httpx.QueryInt64(r, "none")
	require.NoError(t, err)
	assert.Nil(t, missing)

	b, err := httpx.QueryBool(r, "b")
	require.NoError(t, err)
	assert.True(t, b)

	d, err := httpx.QueryDate(r, "d")
	require.NoError(t, err)
	assert.Equal(t, 2024, d.Year())

	p, err := httpx.QueryDecimal(r, "p")
	require.NoError(t, err)
	assert.Equal(t, "9.9", p.String())

	_, err = httpx.QueryInt64(r, "bad")
	assert.Error(t, err)
	_, err = httpx.QueryDate(r, "bad")
	assert.Error(t, err)
}

func TestRespond(t *testing.T) {
	log := logger.NewLogger("error")

	t.Run("Sucesso sem corpo", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Respond(rec, httptest.NewRequest(http.MethodDelete, "/", nil), log, nil, nil, http.StatusNoContent)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Empty(t, rec.Body.String())
	})

	t.Run("Conflito de duplicidade com detalhes", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Respond(rec, httptest.NewRequest(http.MethodPost, "/", nil), log, nil, apperror.NewDuplicateError("sku"), http.StatusCreated)

		assert.Equal(t, http.StatusConflict, rec.Code)
		var body domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, http.StatusConflict, body.Code)
		assert.Equal(t, "sku", body.Details["field"])
	})

	t.Run("Erro de integridade sem detalhes e com mensagem genérica", func(t *testing.T) {
		rec := httptest.NewRecorder()
		httpx.Respond(rec, httptest.NewRequest(http.MethodPost, "/", nil), log, nil, apperror.NewIntegrityError("linha sumiu"), http.StatusOK)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		var body domain.ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "DATA_INTEGRITY", body.Category)
		assert.NotContains(t, body.Message, "linha sumiu")
	})
}
