package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"gerai-be/internal/admincache"
	"gerai-be/internal/product"
	"gerai-be/internal/user"
)

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) List(ctx context.Context, onlyActive bool) ([]product.Product, error) {
	args := m.Called(ctx, onlyActive)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]product.Product), args.Error(1)
}

func (m *MockProductService) GetByID(ctx context.Context, productID string) (*product.Product, error) {
	args := m.Called(ctx, productID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Create(ctx context.Context, input product.NewProductInput) (*product.Product, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Update(ctx context.Context, productID string, input product.UpdateProductInput) (*product.Product, error) {
	args := m.Called(ctx, productID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*product.Product), args.Error(1)
}

func (m *MockProductService) Delete(ctx context.Context, productID string) error {
	args := m.Called(ctx, productID)
	return args.Error(0)
}

func newCatalogAdminHandler(users *MockUserService, products *MockProductService) *AdminHandler {
	return NewAdminHandler(users, new(MockOrderService), new(MockStatsService), products, &stubCategoryRepo{}, admincache.New())
}

func TestAdminHandler_CreateProduct(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		users := new(MockUserService)
		users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

		products := new(MockProductService)
		products.On("Create", mock.Anything, product.NewProductInput{Name: "Kopi Gayo", Price: 25000, Stock: 10}).
			Return(&product.Product{ID: "p-1", Name: "Kopi Gayo", Price: 25000}, nil)

		h := newCatalogAdminHandler(users, products)

		rec := httptest.NewRecorder()
		req := newRequest(http.MethodPost, "/api/admin/products",
			strings.NewReader(`{"name":"Kopi Gayo","price":25000,"stock":10}`), "admin-1")
		h.CreateProduct(rec, req)

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "p-1", decodeBody(t, rec)["id"])
	})

	t.Run("InvalidPrice", func(t *testing.T) {
		users := new(MockUserService)
		users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

		products := new(MockProductService)
		products.On("Create", mock.Anything, mock.Anything).Return(nil, product.ErrInvalidPrice)

		h := newCatalogAdminHandler(users, products)

		rec := httptest.NewRecorder()
		req := newRequest(http.MethodPost, "/api/admin/products",
			strings.NewReader(`{"name":"Kopi Gayo","price":-5}`), "admin-1")
		h.CreateProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("CustomerForbidden", func(t *testing.T) {
		users := new(MockUserService)
		users.On("RequireAdmin", mock.Anything, "user-1").Return(nil, user.ErrForbidden)

		products := new(MockProductService)
		h := newCatalogAdminHandler(users, products)

		rec := httptest.NewRecorder()
		req := newRequest(http.MethodPost, "/api/admin/products",
			strings.NewReader(`{"name":"Kopi Gayo","price":25000}`), "user-1")
		h.CreateProduct(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
		products.AssertNotCalled(t, "Create")
	})
}

func TestAdminHandler_UpdateProduct(t *testing.T) {
	t.Run("EmptyUpdate", func(t *testing.T) {
		users := new(MockUserService)
		users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

		products := new(MockProductService)
		products.On("Update", mock.Anything, "p-1", product.UpdateProductInput{}).
			Return(nil, product.ErrEmptyUpdate)

		h := newCatalogAdminHandler(users, products)

		rec := httptest.NewRecorder()
		req := withURLParam(newRequest(http.MethodPatch, "/api/admin/products/p-1",
			strings.NewReader(`{}`), "admin-1"), "productID", "p-1")
		h.UpdateProduct(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("NotFound", func(t *testing.T) {
		users := new(MockUserService)
		users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

		products := new(MockProductService)
		products.On("Update", mock.Anything, "ghost", mock.Anything).
			Return(nil, product.ErrProductNotFound)

		h := newCatalogAdminHandler(users, products)

		rec := httptest.NewRecorder()
		req := withURLParam(newRequest(http.MethodPatch, "/api/admin/products/ghost",
			strings.NewReader(`{"price":30000}`), "admin-1"), "productID", "ghost")
		h.UpdateProduct(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAdminHandler_DeleteProduct(t *testing.T) {
	users := new(MockUserService)
	users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

	products := new(MockProductService)
	products.On("Delete", mock.Anything, "p-1").Return(nil)

	h := newCatalogAdminHandler(users, products)

	rec := httptest.NewRecorder()
	req := withURLParam(newRequest(http.MethodDelete, "/api/admin/products/p-1", nil, "admin-1"), "productID", "p-1")
	h.DeleteProduct(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	products.AssertExpectations(t)
}

func TestAdminHandler_CreateCategory(t *testing.T) {
	users := new(MockUserService)
	users.On("RequireAdmin", mock.Anything, "admin-1").Return(adminProfile(), nil)

	h := newCatalogAdminHandler(users, new(MockProductService))

	rec := httptest.NewRecorder()
	req := newRequest(http.MethodPost, "/api/admin/categories", strings.NewReader(`{}`), "admin-1")
	h.CreateCategory(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
