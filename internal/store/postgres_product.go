package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"tienda-api/internal/domain"
)

// --- ProductStorer Implementation ---

func (s *PostgresStore) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	query := `
		INSERT INTO productos (titulo, descripcion, precio, imagen, categoria_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id;
	`
	err := s.db.QueryRowContext(ctx, query,
		product.Titulo, product.Descripcion, product.Precio, product.Imagen, product.CategoriaID,
	).Scan(&product.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" { // Foreign key violation
			if strings.Contains(pqErr.Constraint, "productos_categoria_id_fkey") {
				return nil, ErrCategoryNotFound
			}
		}
		return nil, fmt.Errorf("store: CreateProduct failed to scan row: %w", err)
	}
	return product, nil
}

func (s *PostgresStore) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	query := `
		SELECT id, titulo, descripcion, precio, imagen, categoria_id
		FROM productos
		WHERE id = $1;
	`
	var product domain.Product
	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Titulo,
		&product.Descripcion,
		&product.Precio,
		&product.Imagen,
		&product.CategoriaID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: GetProductByID failed to scan row: %w", err)
	}
	return &product, nil
}

func (s *PostgresStore) ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error) {
	var queryArgs []interface{}
	var whereClauses []string
	argID := 1

	if params.NameContains != nil && *params.NameContains != "" {
		whereClauses = append(whereClauses, fmt.Sprintf("titulo LIKE $%d", argID))
		queryArgs = append(queryArgs, "%"+*params.NameContains+"%")
		argID++
	}
	if params.CategoriaID != nil {
		whereClauses = append(whereClauses, fmt.Sprintf("categoria_id = $%d", argID))
		queryArgs = append(queryArgs, *params.CategoriaID)
		argID++
	}

	query := `
		SELECT id, titulo, descripcion, precio, imagen, categoria_id
		FROM productos
	`
	if len(whereClauses) > 0 {
		query += " WHERE " + strings.Join(whereClauses, " AND ")
	}
	query += " ORDER BY id ASC;"

	rows, err := s.db.QueryContext(ctx, query, queryArgs...)
	if err != nil {
		return nil, fmt.Errorf("store: ListProducts failed to query products: %w", err)
	}
	defer rows.Close()

	products := make([]domain.Product, 0)
	for rows.Next() {
		var p domain.Product
		if err := rows.Scan(&p.ID, &p.Titulo, &p.Descripcion, &p.Precio, &p.Imagen, &p.CategoriaID); err != nil {
			return nil, fmt.Errorf("store: ListProducts failed to scan product row: %w", err)
		}
		products = append(products, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("store: ListProducts iteration error: %w", err)
	}
	return products, nil
}

func (s *PostgresStore) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("store: UpdateProduct failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	selectQuery := `
		SELECT id, titulo, descripcion, precio, imagen, categoria_id
		FROM productos
		WHERE id = $1
		FOR UPDATE;
	`
	var product domain.Product
	err = tx.QueryRowContext(ctx, selectQuery, id).Scan(
		&product.ID,
		&product.Titulo,
		&product.Descripcion,
		&product.Precio,
		&product.Imagen,
		&product.CategoriaID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to scan row: %w", err)
	}

	patch.Apply(&product)

	updateQuery := `
		UPDATE productos
		SET titulo = $1, descripcion = $2, precio = $3, imagen = $4, categoria_id = $5
		WHERE id = $6;
	`
	if _, err = tx.ExecContext(ctx, updateQuery,
		product.Titulo, product.Descripcion, product.Precio, product.Imagen, product.CategoriaID, product.ID,
	); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			if strings.Contains(pqErr.Constraint, "productos_categoria_id_fkey") {
				return nil, ErrCategoryNotFound
			}
		}
		return nil, fmt.Errorf("store: UpdateProduct failed to execute update: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return nil, fmt.Errorf("store: UpdateProduct failed to commit: %w", err)
	}
	return &product, nil
}

func (s *PostgresStore) DeleteProduct(ctx context.Context, id int64) error {
	query := `DELETE FROM productos WHERE id = $1;`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to execute delete: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("store: DeleteProduct failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}
