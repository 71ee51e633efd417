package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"tienda-api/internal/auth"
	"tienda-api/internal/domain"
	"tienda-api/internal/store"
)

// HTTPHandler holds dependencies for HTTP handlers.
type HTTPHandler struct {
	categoryStore store.CategoryStorer
	productStore  store.ProductStorer
	userStore     store.UserStorer
	tokens        *auth.TokenIssuer
	validate      *validator.Validate
	logger        zerolog.Logger
}

// NewHTTPHandler creates a new HTTPHandler with dependencies.
func NewHTTPHandler(
	cs store.CategoryStorer,
	ps store.ProductStorer,
	us store.UserStorer,
	tokens *auth.TokenIssuer,
	logger zerolog.Logger,
) *HTTPHandler {
	validate := validator.New()
	// Report violations under the wire name, not the Go field name.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &HTTPHandler{
		categoryStore: cs,
		productStore:  ps,
		userStore:     us,
		tokens:        tokens,
		validate:      validate,
		logger:        logger,
	}
}

// --- Helpers ---

// ResultResponse is the envelope for error and confirmation messages.
type ResultResponse struct {
	Resultado string `json:"resultado"`
}

func (h *HTTPHandler) respondWithError(w http.ResponseWriter, code int, message string) {
	h.respondWithJSON(w, code, ResultResponse{Resultado: message})
}

func (h *HTTPHandler) respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if payload != nil {
		if err := json.NewEncoder(w).Encode(payload); err != nil {
			h.logger.Error().Err(err).Msg("failed to encode JSON response")
		}
	}
}

// validationMessage turns the first violation into a field-specific message.
func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required":
			return fmt.Sprintf("field '%s' is required and must not be empty", fe.Field())
		case "email":
			return fmt.Sprintf("field '%s' must be a valid email address", fe.Field())
		default:
			return fmt.Sprintf("field '%s' is invalid", fe.Field())
		}
	}
	return "invalid request payload"
}

func parseIDParam(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid id")
	}
	return id, nil
}

// --- Category Handlers ---

// CategoryCreateInput defines the expected input for creating a category.
type CategoryCreateInput struct {
	Nombre      string `json:"nombre" validate:"required,max=25"`
	Descripcion string `json:"descripcion" validate:"required,max=80"`
	Icono       string `json:"icono" validate:"required,max=80"`
}

func (h *HTTPHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var input CategoryCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	category := domain.NewCategory(input.Nombre, input.Descripcion, input.Icono)

	created, err := h.categoryStore.CreateCategory(r.Context(), category)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNameExists) {
			h.respondWithError(w, http.StatusConflict, "category name already exists")
			return
		}
		h.logger.Error().Err(err).Msg("CreateCategory store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListCategories(w http.ResponseWriter, r *http.Request) {
	params := store.ListCategoriesParams{}
	if filter := r.URL.Query().Get("categoryname"); filter != "" {
		params.NameContains = &filter
	}

	categories, err := h.categoryStore.ListCategories(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("ListCategories store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to retrieve categories")
		return
	}

	h.respondWithJSON(w, http.StatusOK, categories)
}

func (h *HTTPHandler) GetCategoryByID(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "categoriaID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid category ID format")
		return
	}

	category, err := h.categoryStore.GetCategoryByID(r.Context(), categoryID)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.respondWithError(w, http.StatusNotFound, "category does not exist")
			return
		}
		h.logger.Error().Err(err).Int64("category_id", categoryID).Msg("GetCategoryByID store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to retrieve category")
		return
	}

	h.respondWithJSON(w, http.StatusOK, category)
}

func (h *HTTPHandler) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "categoriaID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid category ID format")
		return
	}

	var patch domain.CategoryPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	updated, err := h.categoryStore.UpdateCategory(r.Context(), categoryID, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrCategoryNotFound):
			h.respondWithError(w, http.StatusNotFound, "category does not exist")
		case errors.Is(err, store.ErrCategoryNameExists):
			h.respondWithError(w, http.StatusConflict, "category name already exists")
		default:
			h.logger.Error().Err(err).Int64("category_id", categoryID).Msg("UpdateCategory store operation failed")
			h.respondWithError(w, http.StatusInternalServerError, "failed to update category")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "categoriaID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid category ID format")
		return
	}

	if err := h.categoryStore.DeleteCategory(r.Context(), categoryID); err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.respondWithError(w, http.StatusNotFound, "category does not exist")
			return
		}
		h.logger.Error().Err(err).Int64("category_id", categoryID).Msg("DeleteCategory store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to delete category")
		return
	}

	h.respondWithJSON(w, http.StatusOK, ResultResponse{Resultado: "the category has been deleted successfully"})
}

// --- Product Handlers ---

// ProductCreateInput defines the expected input for creating a product.
// Precio and CategoriaID are pointers so that a missing field and a zero
// value can be told apart by the required rule.
type ProductCreateInput struct {
	Titulo      string `json:"titulo" validate:"required,max=50"`
	Descripcion string `json:"descripcion" validate:"required,max=100"`
	Precio      *int64 `json:"precio" validate:"required"`
	Imagen      string `json:"imagen" validate:"required,max=150"`
	CategoriaID *int64 `json:"categoria_id" validate:"required,gt=0"`
}

func (h *HTTPHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var input ProductCreateInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	if err := h.validate.Struct(input); err != nil {
		h.respondWithError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	product := domain.NewProduct(input.Titulo, input.Descripcion, *input.Precio, input.Imagen, *input.CategoriaID)

	created, err := h.productStore.CreateProduct(r.Context(), product)
	if err != nil {
		if errors.Is(err, store.ErrCategoryNotFound) {
			h.respondWithError(w, http.StatusBadRequest, "categoria_id does not reference an existing category")
			return
		}
		h.logger.Error().Err(err).Msg("CreateProduct store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	h.respondWithJSON(w, http.StatusCreated, created)
}

func (h *HTTPHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	params := store.ListProductsParams{}
	if filter := r.URL.Query().Get("productname"); filter != "" {
		params.NameContains = &filter
	}

	products, err := h.productStore.ListProducts(r.Context(), params)
	if err != nil {
		h.logger.Error().Err(err).Msg("ListProducts store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to retrieve products")
		return
	}

	h.respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) ListProductsByCategory(w http.ResponseWriter, r *http.Request) {
	categoryID, err := parseIDParam(r, "categoriaID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid category ID format")
		return
	}

	// No existence check on the category: an unknown id yields an empty list.
	products, err := h.productStore.ListProducts(r.Context(), store.ListProductsParams{CategoriaID: &categoryID})
	if err != nil {
		h.logger.Error().Err(err).Int64("category_id", categoryID).Msg("ListProductsByCategory store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to retrieve products")
		return
	}

	h.respondWithJSON(w, http.StatusOK, products)
}

func (h *HTTPHandler) GetProductByID(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productoID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid product ID format")
		return
	}

	product, err := h.productStore.GetProductByID(r.Context(), productID)
	if err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, "product does not exist")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("GetProductByID store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to retrieve product")
		return
	}

	h.respondWithJSON(w, http.StatusOK, product)
}

func (h *HTTPHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productoID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid product ID format")
		return
	}

	var patch domain.ProductPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	defer r.Body.Close()

	updated, err := h.productStore.UpdateProduct(r.Context(), productID, patch)
	if err != nil {
		switch {
		case errors.Is(err, store.ErrProductNotFound):
			h.respondWithError(w, http.StatusNotFound, "product does not exist")
		case errors.Is(err, store.ErrCategoryNotFound):
			h.respondWithError(w, http.StatusBadRequest, "categoria_id does not reference an existing category")
		default:
			h.logger.Error().Err(err).Int64("product_id", productID).Msg("UpdateProduct store operation failed")
			h.respondWithError(w, http.StatusInternalServerError, "failed to update product")
		}
		return
	}

	h.respondWithJSON(w, http.StatusOK, updated)
}

func (h *HTTPHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	productID, err := parseIDParam(r, "productoID")
	if err != nil {
		h.respondWithError(w, http.StatusBadRequest, "invalid product ID format")
		return
	}

	if err := h.productStore.DeleteProduct(r.Context(), productID); err != nil {
		if errors.Is(err, store.ErrProductNotFound) {
			h.respondWithError(w, http.StatusNotFound, "product does not exist")
			return
		}
		h.logger.Error().Err(err).Int64("product_id", productID).Msg("DeleteProduct store operation failed")
		h.respondWithError(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	h.respondWithJSON(w, http.StatusOK, ResultResponse{Resultado: "the product has been deleted successfully"})
}

// --- Route Registration ---

// RegisterRoutes sets up the HTTP routes for the service.
func (h *HTTPHandler) RegisterRoutes(r chi.Router) {
	r.Route("/categorias", func(r chi.Router) {
		r.Get("/", h.ListCategories)
		r.Post("/", h.CreateCategory)
		r.Route("/{categoriaID}", func(r chi.Router) {
			r.Get("/", h.GetCategoryByID)
			r.Put("/", h.UpdateCategory)
			r.Patch("/", h.UpdateCategory)
			r.Delete("/", h.DeleteCategory)
		})
	})

	r.Route("/productos", func(r chi.Router) {
		r.Get("/", h.ListProducts)
		r.Post("/", h.CreateProduct)
		r.Get("/categoria/{categoriaID}", h.ListProductsByCategory)
		r.Route("/{productoID}", func(r chi.Router) {
			r.Get("/", h.GetProductByID)
			r.Put("/", h.UpdateProduct)
			r.Patch("/", h.UpdateProduct)
			r.Delete("/", h.DeleteProduct)
		})
	})

	r.Post("/register", h.Register)
	r.Post("/login", h.Login)
}
