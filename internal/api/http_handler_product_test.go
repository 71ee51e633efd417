package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"tienda-api/internal/domain"
	"tienda-api/internal/store"
)

// MockProductStorer is a mock implementation of store.ProductStorer
type MockProductStorer struct {
	mock.Mock
}

func (m *MockProductStorer) CreateProduct(ctx context.Context, product *domain.Product) (*domain.Product, error) {
	args := m.Called(ctx, product)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) GetProductByID(ctx context.Context, id int64) (*domain.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) ListProducts(ctx context.Context, params store.ListProductsParams) ([]domain.Product, error) {
	args := m.Called(ctx, params)
	var products []domain.Product
	if arg0 := args.Get(0); arg0 != nil {
		products = arg0.([]domain.Product)
	}
	return products, args.Error(1)
}

func (m *MockProductStorer) UpdateProduct(ctx context.Context, id int64, patch domain.ProductPatch) (*domain.Product, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Product), args.Error(1)
}

func (m *MockProductStorer) DeleteProduct(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestHTTPHandler_CreateProduct_Success(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	expectedCreated := &domain.Product{
		ID:          3,
		Titulo:      "Taladro",
		Descripcion: "taladro de 500W",
		Precio:      2500,
		Imagen:      PtrTo("taladro.jpg"),
		CategoriaID: 1,
	}

	mockProdStore.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p *domain.Product) bool {
		return p.Titulo == "Taladro" && p.Precio == 2500 && p.CategoriaID == 1
	})).Return(expectedCreated, nil).Once()

	reqBody := []byte(`{"titulo": "tALADRO", "descripcion": "taladro de 500W", "precio": 2500, "imagen": "taladro.jpg", "categoria_id": 1}`)
	res, err := http.Post(server.URL+"/productos", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusCreated, res.StatusCode)

	var created domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&created))
	assert.Equal(t, int64(3), created.ID)
	assert.Equal(t, "Taladro", created.Titulo)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_CreateProduct_MissingPrecio(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	reqBody := []byte(`{"titulo": "Taladro", "descripcion": "desc", "imagen": "t.jpg", "categoria_id": 1}`)
	res, err := http.Post(server.URL+"/productos", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, decodeResultado(t, res), "precio")

	mockProdStore.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
}

func TestHTTPHandler_CreateProduct_MissingCategory(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	mockProdStore.On("CreateProduct", mock.Anything, mock.Anything).
		Return(nil, store.ErrCategoryNotFound).Once()

	reqBody := []byte(`{"titulo": "Taladro", "descripcion": "desc", "precio": 100, "imagen": "t.jpg", "categoria_id": 999}`)
	res, err := http.Post(server.URL+"/productos", "application/json", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusBadRequest, res.StatusCode)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_ListProducts_ForwardsNameFilter(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	matching := []domain.Product{
		{ID: 3, Titulo: "Taladro", Descripcion: "desc", Precio: 2500, CategoriaID: 1},
	}
	mockProdStore.On("ListProducts", mock.Anything, mock.MatchedBy(func(params store.ListProductsParams) bool {
		return params.NameContains != nil && *params.NameContains == "ala" && params.CategoriaID == nil
	})).Return(matching, nil).Once()

	res, err := http.Get(server.URL + "/productos?productname=ala")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&products))
	require.Len(t, products, 1)
	assert.Equal(t, "Taladro", products[0].Titulo)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_ListProductsByCategory(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	mockProdStore.On("ListProducts", mock.Anything, mock.MatchedBy(func(params store.ListProductsParams) bool {
		return params.CategoriaID != nil && *params.CategoriaID == 7 && params.NameContains == nil
	})).Return([]domain.Product{}, nil).Once()

	res, err := http.Get(server.URL + "/productos/categoria/7")
	require.NoError(t, err)
	defer res.Body.Close()

	// Unknown categories are not an error: the list is just empty.
	require.Equal(t, http.StatusOK, res.StatusCode)

	var products []domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&products))
	assert.Empty(t, products)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_GetProductByID_NotFound(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	mockProdStore.On("GetProductByID", mock.Anything, int64(99)).
		Return(nil, store.ErrProductNotFound).Once()

	res, err := http.Get(server.URL + "/productos/99")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNotFound, res.StatusCode)
	assert.Equal(t, "product does not exist", decodeResultado(t, res))

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_UpdateProduct_ForwardsPatch(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	updated := &domain.Product{ID: 3, Titulo: "Taladro", Descripcion: "desc", Precio: 1999, CategoriaID: 1}
	mockProdStore.On("UpdateProduct", mock.Anything, int64(3), mock.MatchedBy(func(patch domain.ProductPatch) bool {
		return patch.Titulo == nil && patch.Precio != nil && *patch.Precio == 1999
	})).Return(updated, nil).Once()

	reqBody := []byte(`{"precio": 1999}`)
	req, err := http.NewRequest(http.MethodPut, server.URL+"/productos/3", bytes.NewBuffer(reqBody))
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	var got domain.Product
	require.NoError(t, json.NewDecoder(res.Body).Decode(&got))
	assert.Equal(t, int64(1999), got.Precio)

	mockProdStore.AssertExpectations(t)
}

func TestHTTPHandler_DeleteProduct_NotFound(t *testing.T) {
	mockProdStore := new(MockProductStorer)
	server := setupTestChiServer(t, nil, mockProdStore, nil)
	defer server.Close()

	mockProdStore.On("DeleteProduct", mock.Anything, int64(99)).
		Return(store.ErrProductNotFound).Once()

	req, err := http.NewRequest(http.MethodDelete, server.URL+"/productos/99", nil)
	require.NoError(t, err)
	res, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusNotFound, res.StatusCode)

	mockProdStore.AssertExpectations(t)
}
