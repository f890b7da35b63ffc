package rest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	cerrors "github.com/silkyway/catalog/internal/catalog/errors"
	"github.com/silkyway/catalog/internal/catalog/service"
	"github.com/stretchr/testify/assert"
)

// mockProductService is a mock implementation of the ProductService interface
type mockProductService struct {
	product  service.ProductDto
	products []service.ProductDto
	error    error
}

func (m *mockProductService) FindAll(_ context.Context) ([]service.ProductDto, error) {
	return m.products, m.error
}

func (m *mockProductService) FindByID(_ context.Context, _ int64) (*service.ProductDto, error) {
	return &m.product, m.error
}

func (m *mockProductService) Create(_ context.Context, _ service.ProductCreateDto) (*service.ProductDto, error) {
	return &m.product, m.error
}

func (m *mockProductService) Update(_ context.Context, _ int64, _ service.ProductUpdateDto) (*service.ProductDto, error) {
	return &m.product, m.error
}

func (m *mockProductService) DeleteByID(_ context.Context, _ int64) error {
	return m.error
}

func (m *mockProductService) Search(_ context.Context, _ string) ([]service.ProductDto, error) {
	return m.products, m.error
}

func (m *mockProductService) LowStock(_ context.Context, _ int) ([]service.ProductDto, error) {
	return m.products, m.error
}

// newTestRouter wires the handler into a bare chi router so URL params resolve.
func newTestRouter(svc service.ProductService) *chi.Mux {
	mux := chi.NewRouter()
	handler := NewHandler(svc, slog.New(slog.NewTextHandler(io.Discard, nil)))
	handler.RegisterRoutes(mux)
	return mux
}

func do(t *testing.T, mux *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func Test_Handler_FindAll(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - products found",
			mockService: &mockProductService{
				products: []service.ProductDto{
					{ID: 1, Name: "Mouse", Price: 39.99, Stock: 20},
					{ID: 2, Name: "Keyboard", Price: 59.99, Stock: 10},
				},
			},
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":1,"name":"Mouse","description":"","price":39.99,"stock":20},{"id":2,"name":"Keyboard","description":"","price":59.99,"stock":10}]`,
		},
		{
			name:         "Success - no products",
			mockService:  &mockProductService{products: []service.ProductDto{}},
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Failed to fetch products"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodGet, "/products", "")
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_FindByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product found",
			mockService: &mockProductService{
				product: service.ProductDto{ID: 1, Name: "Mouse", Description: "Wireless", Price: 39.99, Stock: 20},
			},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: `{"id":1,"name":"Mouse","description":"Wireless","price":39.99,"stock":20}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: cerrors.ErrProductNotFound},
			productID:    "999",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Product not found"}`,
		},
		{
			name:         "Error - invalid id",
			mockService:  &mockProductService{},
			productID:    "abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Invalid ID: abc"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			productID:    "2",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Failed to retrieve product with ID 2"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodGet, "/products/"+tc.productID, "")
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Create(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		requestBody  string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - product created",
			mockService: &mockProductService{
				product: service.ProductDto{ID: 1, Name: "Mouse", Price: 39.99, Stock: 20},
			},
			requestBody:  `{"name":"Mouse","price":39.99,"stock":20}`,
			expectedCode: http.StatusCreated,
			expectedBody: `{"message":"Product added successfully","id":1}`,
		},
		{
			name:         "Error - validation failed",
			mockService:  &mockProductService{},
			requestBody:  `{"name":"","price":10,"stock":5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Field Name failed on rule: required"}`,
		},
		{
			name:         "Error - negative price",
			mockService:  &mockProductService{},
			requestBody:  `{"name":"Mouse","price":-1,"stock":5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Field Price failed on rule: gte"}`,
		},
		{
			name:         "Error - malformed body",
			mockService:  &mockProductService{},
			requestBody:  `{"name":`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Invalid request body"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			requestBody:  `{"name":"Mouse","price":39.99,"stock":20}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Failed to create product"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodPost, "/products", tc.requestBody)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Update(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		requestBody  string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - partial update",
			mockService: &mockProductService{
				product: service.ProductDto{ID: 1, Name: "Mouse", Price: 29.99, Stock: 20},
			},
			requestBody:  `{"price":29.99}`,
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product updated successfully"}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: cerrors.ErrProductNotFound},
			requestBody:  `{"price":29.99}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Product not found"}`,
		},
		{
			name:         "Error - empty patch reported as not found",
			mockService:  &mockProductService{error: cerrors.ErrEmptyUpdate},
			requestBody:  `{}`,
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Product not found"}`,
		},
		{
			name:         "Error - negative price",
			mockService:  &mockProductService{},
			requestBody:  `{"price":-5}`,
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Field Price failed on rule: gte"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			requestBody:  `{"price":29.99}`,
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Failed to update product with ID 1"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodPut, "/products/1", tc.requestBody)
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		productID    string
		expectedCode int
		expectedBody string
	}{
		{
			name:         "Success - product deleted",
			mockService:  &mockProductService{},
			productID:    "1",
			expectedCode: http.StatusOK,
			expectedBody: `{"message":"Product deleted successfully"}`,
		},
		{
			name:         "Error - product not found",
			mockService:  &mockProductService{error: cerrors.ErrProductNotFound},
			productID:    "999",
			expectedCode: http.StatusNotFound,
			expectedBody: `{"detail":"Product not found"}`,
		},
		{
			name:         "Error - service error",
			mockService:  &mockProductService{error: errors.New("service unavailable")},
			productID:    "2",
			expectedCode: http.StatusInternalServerError,
			expectedBody: `{"detail":"Failed to delete product with ID 2"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodDelete, "/products/"+tc.productID, "")
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_Search(t *testing.T) {
	// given
	mux := newTestRouter(&mockProductService{
		products: []service.ProductDto{{ID: 1, Name: "Wireless Mouse", Price: 39.99, Stock: 20}},
	})
	// when
	rr := do(t, mux, http.MethodGet, "/search/mouse", "")
	// then
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `[{"id":1,"name":"Wireless Mouse","description":"","price":39.99,"stock":20}]`, rr.Body.String())
}

func Test_Handler_LowStock(t *testing.T) {
	testCases := []struct {
		name         string
		mockService  *mockProductService
		target       string
		expectedCode int
		expectedBody string
	}{
		{
			name: "Success - default threshold",
			mockService: &mockProductService{
				products: []service.ProductDto{{ID: 3, Name: "Cable", Price: 5, Stock: 2}},
			},
			target:       "/lowstock",
			expectedCode: http.StatusOK,
			expectedBody: `[{"id":3,"name":"Cable","description":"","price":5,"stock":2}]`,
		},
		{
			name:         "Success - explicit threshold",
			mockService:  &mockProductService{products: []service.ProductDto{}},
			target:       "/lowstock?threshold=2",
			expectedCode: http.StatusOK,
			expectedBody: `[]`,
		},
		{
			name:         "Error - non-integer threshold",
			mockService:  &mockProductService{},
			target:       "/lowstock?threshold=abc",
			expectedCode: http.StatusBadRequest,
			expectedBody: `{"detail":"Invalid threshold: abc"}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			mux := newTestRouter(tc.mockService)
			// when
			rr := do(t, mux, http.MethodGet, tc.target, "")
			// then
			assert.Equal(t, tc.expectedCode, rr.Code, "status code should match")
			assert.JSONEq(t, tc.expectedBody, rr.Body.String(), "response body should match")
		})
	}
}

func Test_Handler_HealthCheck(t *testing.T) {
	// given
	mux := newTestRouter(&mockProductService{})
	// when
	rr := do(t, mux, http.MethodGet, "/healthz", "")
	// then
	assert.Equal(t, http.StatusOK, rr.Code, "status code should be 200 OK")
	assert.Empty(t, rr.Body.String(), "response body should be empty")
}
