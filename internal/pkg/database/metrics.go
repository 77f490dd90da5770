package database

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// QueryMetrics conta e cronometra os comandos SQL enviados pelos repositórios.
type QueryMetrics struct {
	queries  metric.Int64Counter
	duration metric.Float64Histogram
}

func NewQueryMetrics(meter metric.Meter) (*QueryMetrics, error) {
	queries, err := meter.Int64Counter("db.client.queries",
		metric.WithDescription("Comandos SQL executados"),
		metric.WithUnit("{query}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("db.client.query.duration",
		metric.WithDescription("Duração dos comandos SQL"),
		metric.WithUnit("s"))
	if err != nil {
		return nil, err
	}
	return &QueryMetrics{queries: queries, duration: duration}, nil
}

// Wrap devolve q instrumentado. Com m nil devolve q sem alteração.
func (m *QueryMetrics) Wrap(q Querier) Querier {
	if m == nil {
		return q
	}
	return &instrumentedQuerier{next: q, metrics: m}
}

func (m *QueryMetrics) record(ctx context.Context, query string, start time.Time, err error) {
	outcome := "ok"
	if err != nil && err != sql.ErrNoRows {
		outcome = "error"
	}
	attrs := metric.WithAttributes(
		attribute.String("db.operation", operation(query)),
		attribute.String("outcome", outcome),
	)
	m.queries.Add(ctx, 1, attrs)
	m.duration.Record(ctx, time.Since(start).Seconds(), attrs)
}

// operation é a primeira palavra do comando (SELECT, INSERT, ...).
func operation(query string) string {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return "UNKNOWN"
	}
	return strings.ToUpper(fields[0])
}

type instrumentedQuerier struct {
	next    Querier
	metrics *QueryMetrics
}

func (q *instrumentedQuerier) ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error) {
	start := time.Now()
	res, err := q.next.ExecContext(ctx, query, args...)
	q.metrics.record(ctx, query, start, err)
	return res, err
}

func (q *instrumentedQuerier) QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error) {
	start := time.Now()
	rows, err := q.next.QueryContext(ctx, query, args...)
	q.metrics.record(ctx, query, start, err)
	return rows, err
}

// QueryRowContext adia o erro para o Scan; aqui só o tempo de envio é medido.
func (q *instrumentedQuerier) QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row {
	start := time.Now()
	row := q.next.QueryRowContext(ctx, query, args...)
	q.metrics.record(ctx, query, start, row.Err())
	return row
}
