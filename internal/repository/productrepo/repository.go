package productrepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gowms/internal/domain"
	apperror "gowms/internal/errors"
	"gowms/internal/pkg/cache"
	"gowms/internal/pkg/database"
	"gowms/internal/pkg/logger"
)

// Define a chave de cache para produtos.
const productCacheKey = "product:%d"

const productColumns = `id, name, sku, price, weight, dimensions, description, created_at, updated_at`

// ProductRepository acessa a tabela products. Cache é opcional: dentro de uma
// unidade de trabalho o repositório é criado sem cache para ler sempre o preço atual.
type ProductRepository struct {
	DB        database.Querier
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewProductRepository cria e retorna uma nova instância do Repositório.
func NewProductRepository(db database.Querier, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, log logger.Logger) *ProductRepository {
	return &ProductRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    log,
	}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(&p.ID, &p.Name, &p.SKU, &p.Price, &p.Weight, &p.Dimensions, &p.Description, &p.CreatedAt, &p.UpdatedAt)
	return p, err
}

// translateWriteError converte violações de constraint em erros de domínio.
func translateWriteError(msg string, err error) error {
	if constraint, ok := database.UniqueViolation(err); ok {
		return apperror.NewDuplicateError(database.FieldForConstraint(constraint))
	}
	if _, ok := database.ForeignKeyViolation(err); ok {
		return apperror.NewConflictError("O produto está referenciado por pedidos e não pode ser removido.")
	}
	return apperror.NewDBError(msg, err)
}

// Save persiste um novo Produto.
func (r *ProductRepository) Save(ctx context.Context, p domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `INSERT INTO products (name, sku, price, weight, dimensions, description)
              VALUES ($1, $2, $3, $4, $5, $6)
              RETURNING ` + productColumns

	created, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		p.Name, p.SKU, p.Price, p.Weight, p.Dimensions, p.Description,
	))
	if err != nil {
		r.logger.Warn("Falha ao inserir produto.", map[string]interface{}{"sku": p.SKU, "error": err.Error()})
		return domain.Product{}, translateWriteError("Falha ao inserir produto", err)
	}
	return created, nil
}

// FindByID busca um produto pelo ID, utilizando a estratégia Cache-Aside quando há cache.
func (r *ProductRepository) FindByID(ctx context.Context, id int64) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	key := fmt.Sprintf(productCacheKey, id)

	if r.Cache != nil {
		cached, err := r.Cache.Get(ctxTimeout, key)
		if err == nil {
			var product domain.Product
			if json.Unmarshal([]byte(cached), &product) == nil {
				r.logger.Debug("Produto servido pelo cache.", map[string]interface{}{"id": id})
				return product, nil
			}
		} else if err != cache.ErrCacheMiss {
			// Cache fora do ar não impede a leitura do banco.
			r.logger.Warn("Falha ao ler produto do cache.", map[string]interface{}{"id": id, "error": err.Error()})
		}
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`
	product, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewEntityNotFoundError("product", id)
	}
	if err != nil {
		r.logger.Error("Falha ao buscar produto no DB.", err)
		return domain.Product{}, apperror.NewDBError("Falha ao buscar produto", err)
	}

	if r.Cache != nil {
		if data, marshalErr := json.Marshal(product); marshalErr == nil {
			if setErr := r.Cache.Set(ctxTimeout, key, data, r.CacheTTL); setErr != nil {
				r.logger.Warn("Falha ao gravar produto no cache.", map[string]interface{}{"id": id, "error": setErr.Error()})
			}
		}
	}
	return product, nil
}

// FindAll lista produtos aplicando busca textual e faixa de preço.
func (r *ProductRepository) FindAll(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	var conds []string
	var args []interface{}
	if s := strings.TrimSpace(filter.Search); s != "" {
		args = append(args, "%"+s+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR sku ILIKE $%d OR description ILIKE $%d)", n, n, n))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		conds = append(conds, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		conds = append(conds, fmt.Sprintf("price <= $%d", len(args)))
	}

	query := `SELECT ` + productColumns + ` FROM products`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name, id"

	rows, err := r.DB.QueryContext(ctxTimeout, query, args...)
	if err != nil {
		r.logger.Error("Falha ao listar produtos.", err)
		return nil, apperror.NewDBError("Falha ao listar produtos", err)
	}
	defer rows.Close()

	products := []domain.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, apperror.NewDBError("Falha ao ler produto", err)
		}
		products = append(products, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Falha ao iterar produtos", err)
	}
	return products, nil
}

// Update grava os campos editáveis. O SKU não faz parte do UPDATE.
func (r *ProductRepository) Update(ctx context.Context, p domain.Product) (domain.Product, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `UPDATE products
              SET name = $1, price = $2, weight = $3, dimensions = $4, description = $5, updated_at = NOW()
              WHERE id = $6
              RETURNING ` + productColumns

	updated, err := scanProduct(r.DB.QueryRowContext(ctxTimeout, query,
		p.Name, p.Price, p.Weight, p.Dimensions, p.Description, p.ID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, apperror.NewEntityNotFoundError("product", p.ID)
	}
	if err != nil {
		return domain.Product{}, translateWriteError("Falha ao atualizar produto", err)
	}

	r.invalidate(ctxTimeout, p.ID)
	return updated, nil
}

// Delete remove o produto; linhas de estoque caem em cascata.
func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return translateWriteError("Falha ao remover produto", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao verificar linhas afetadas", err)
	}
	if affected == 0 {
		return apperror.NewEntityNotFoundError("product", id)
	}

	r.invalidate(ctxTimeout, id)
	return nil
}

func (r *ProductRepository) invalidate(ctx context.Context, id int64) {
	if r.Cache == nil {
		return
	}
	if err := r.Cache.Delete(ctx, fmt.Sprintf(productCacheKey, id)); err != nil {
		r.logger.Warn("Falha ao invalidar cache do produto.", map[string]interface{}{"id": id, "error": err.Error()})
	}
}
