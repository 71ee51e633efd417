package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog"

	"tienda-api/internal/domain"
)

// Predefined errors for store operations
var (
	ErrCategoryNotFound   = errors.New("store: category not found")
	ErrCategoryNameExists = errors.New("store: category name already exists")
	ErrProductNotFound    = errors.New("store: product not found")
	ErrUserNotFound       = errors.New("store: user not found")
	ErrUserEmailExists    = errors.New("store: user email already exists")
)

// PostgresStore implements CategoryStorer, ProductStorer and UserStorer
// using PostgreSQL.
type PostgresStore struct {
	db     *sql.DB
	logger zerolog.Logger
}

// NewPostgresStore creates a new PostgresStore instance.
func NewPostgresStore(db *sql.DB, logger zerolog.Logger) *PostgresStore {
	return &PostgresStore{db: db, logger: logger}
}

// querier is satisfied by both *sql.DB and *sql.Tx so product loading can
// run inside or outside a transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

// --- CategoryStorer Implementation ---

func (s *PostgresStore) CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error) {
	query := `
		INSERT INTO categorias (nombre, descripcion, icono)
		VALUES ($1, $2, $3)
		RETURNING id;
	`
	err := s.db.QueryRowContext(ctx, query, category.Nombre, category.Descripcion, category.Icono).Scan(&category.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "categorias_nombre_key") || strings.Contains(pqErr.Detail, "Key (nombre)") {
				return nil, ErrCategoryNameExists
			}
		}
		return nil, fmt.Errorf("store: CreateCategory failed to scan row: %w", err)
	}

	// A freshly created category owns no products yet.
	category.Productos = []domain.Product{}
	return category, nil
}

func (s *PostgresStore) GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error) {
	query := `
		SELECT id, nombre, descripcion, icono
		FROM categorias
		WHERE id = $1;
	`
	var category domain.Category
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&category.ID,
		&category.Nombre,
		&category.Descripcion,
		&category.Icono,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: GetCategoryByID failed to scan row: %w", err)
	}

	owned, err := s.loadProductsByCategory(ctx, s.db, category.ID)
	if err != nil {
		return nil, fmt.Errorf("store: GetCategoryByID failed to load products: %w", err)
	}
	category.Productos = ownedOrEmpty(owned, category.ID)
	return &category, nil
}

func (s *PostgresStore) ListCategories(ctx context.Context, params ListCategoriesParams) ([]domain.Category, error) {
	var queryArgs []interface{}
	query := `
		SELECT id, nombre, descripcion, icono
		FROM categorias
	`
	if params.NameContains != nil && *params.NameContains != "" {
		// LIKE is case-sensitive in PostgreSQL, which is the contract here.
		query += ` WHERE nombre LIKE $1`
		queryArgs = append(queryArgs, "%"+*params.NameContains+"%")
	}
	query += ` ORDER BY id ASC;`

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to query categories: %w", err)
	}
	defer rows.Close()

	categories := make([]domain.Category, 0)
	var ids []int64
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Nombre, &c.Descripcion, &c.Icono); err != nil {
			return nil, fmt.Errorf("store: ListCategories failed to scan category row: %w", err)
		}
		categories = append(categories, c)
		ids = append(ids, c.ID)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListCategories iteration error: %w", err)
	}

	if len(ids) == 0 {
		return categories, nil
	}

	owned, err := s.loadProductsByCategory(ctx, s.db, ids...)
	if err != nil {
		return nil, fmt.Errorf("store: ListCategories failed to load products: %w", err)
	}
	for i := range categories {
		categories[i].Productos = ownedOrEmpty(owned, categories[i].ID)
	}
	return categories, nil
}

func (s *PostgresStore) UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateCategory failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, nombre, descripcion, icono
		FROM categorias
		WHERE id = $1
		FOR UPDATE;
	`
	var category domain.Category
	err = tx.QueryRowContext(ctx, selectQuery, id).Scan(
		&category.ID,
		&category.Nombre,
		&category.Descripcion,
		&category.Icono,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrCategoryNotFound
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to scan row: %w", err)
	}

	patch.Apply(&category)

	updateQuery := `
		UPDATE categorias
		SET nombre = $1, descripcion = $2, icono = $3
		WHERE id = $4;
	`
	if _, err = tx.ExecContext(ctx, updateQuery, category.Nombre, category.Descripcion, category.Icono, category.ID); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			if strings.Contains(pqErr.Constraint, "categorias_nombre_key") || strings.Contains(pqErr.Detail, "Key (nombre)") {
				return nil, ErrCategoryNameExists
			}
		}
		return nil, fmt.Errorf("store: UpdateCategory failed to execute update: %w", err)
	}

	owned, err := s.loadProductsByCategory(ctx, tx, category.ID)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateCategory failed to load products: %w", err)
	}
	category.Productos = ownedOrEmpty(owned, category.ID)

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateCategory failed to commit: %w", err)
	}
	return &category, nil
}

func (s *PostgresStore) DeleteCategory(ctx context.Context, id int64) error {
	// Owned products go with the category via ON DELETE CASCADE.
	query := `DELETE FROM categorias WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteCategory failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrCategoryNotFound
	}
	return nil
}

// loadProductsByCategory fetches the products owned by the given categories
// in one query, keyed by category id.
func (s *PostgresStore) loadProductsByCategory(ctx context.Context, q querier, ids ...int64) (map[int64][]domain.Product, error) {
	query := `
		SELECT id, titulo, descripcion, precio, imagen, categoria_id
		FROM productos
		WHERE categoria_id = ANY($1)
		ORDER BY id ASC;
	`
	rows, err := q.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owned := make(map[int64][]domain.Product)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Titulo, &p.Descripcion, &p.Precio, &p.Imagen, &p.CategoriaID); err != nil {
			return nil, err
		}
		owned[p.CategoriaID] = append(owned[p.CategoriaID], p)
	}
	return owned, rows.Err()
}

// ownedOrEmpty avoids serializing null for categories without products.
func ownedOrEmpty(owned map[int64][]domain.Product, id int64) []domain.Product {
	if products, ok := owned[id]; ok {
		return products
	}
	return []domain.Product{}
}

// Close shuts down the underlying connection pool.
func (s *PostgresStore) Close() error {
	if s.db == nil {
		return nil
	}
	if err := s.db.Close(); err != nil {
		s.logger.Error().Err(err).Msg("failed to close database connection pool")
		return err
	}
	s.logger.Info().Msg("database connection pool closed")
	return nil
}
