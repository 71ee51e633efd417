package store

import (
	"context"

	"tienda-api/internal/domain"
)

// ListCategoriesParams holds optional filters for listing categories.
type ListCategoriesParams struct {
	NameContains *string // case-sensitive substring match on nombre
}

// CategoryStorer defines the database operations for categories.
type CategoryStorer interface {
	CreateCategory(ctx context.Context, category *domain.Category) (*domain.Category, error)
	GetCategoryByID(ctx context.Context, id int64) (*domain.Category, error)
	ListCategories(ctx context.Context, params ListCategoriesParams) ([]domain.Category, error)
	UpdateCategory(ctx context.Context, id int64, patch domain.CategoryPatch) (*domain.Category, error)
	DeleteCategory(ctx context.Context, id int64) error
}

// ListProductsParams holds optional filters for listing products.
type ListProductsParams struct {
	NameContains *string // case-sensitive substring match on titulo
	CategoriaID  *int64
}

// ProductStorer defines the database operations for products.
type ProductStorer interface {
	CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error)
	GetProductByID(ctx context.Context, id int64) (*domain.Product, error)
	ListProducts(ctx context.Context, params ListProductsParams) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
}

// UserStorer defines the database operations for users. The API exposes no
// user update or delete, so neither does the store.
type UserStorer interface {
	CreateUser(ctx context.Context, user *domain.User) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
}
