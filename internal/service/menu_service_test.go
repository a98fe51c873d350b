package service_test

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/service"
)

// MockMenuCache is a mock implementation of port.MenuCache
type MockMenuCache struct {
	mock.Mock
}

func (m *MockMenuCache) GetMenu(ctx context.Context) ([]byte, bool, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).([]byte), args.Bool(1), args.Error(2)
}

func (m *MockMenuCache) SetMenu(ctx context.Context, menu []byte, expiration time.Duration) error {
	args := m.Called(ctx, menu, expiration)
	return args.Error(0)
}

func (m *MockMenuCache) Invalidate(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type menuServiceMocks struct {
	menuRepo  *MockMenuRepository
	menuCache *MockMenuCache
	auditRepo *MockAuditLogRepository
}

func newMenuServiceMocks() menuServiceMocks {
	return menuServiceMocks{
		menuRepo:  new(MockMenuRepository),
		menuCache: new(MockMenuCache),
		auditRepo: new(MockAuditLogRepository),
	}
}

func newTestMenuService(mocks menuServiceMocks) *service.MenuService {
	audit := service.NewAuditService(mocks.auditRepo, testLogger())
	return service.NewMenuService(mocks.menuRepo, mocks.menuCache, audit, 10*time.Minute, testLogger())
}

// expectMenuAssembly sets up the repository calls of a full tree rebuild.
func expectMenuAssembly(m *MockMenuRepository) {
	m.On("ActiveCategories", mock.Anything).Return([]domain.Category{
		{ID: 1, Title: "Lavash", IsActive: true},
		{ID: 2, Title: "Drinks", IsActive: true},
	}, nil)
	m.On("ActiveProducts", mock.Anything).Return([]domain.Product{
		{ID: 10, CategoryID: 1, Title: "Beef Lavash", Price: 35000, IsActive: true},
		{ID: 11, CategoryID: 2, Title: "Cola", Price: 10000, IsActive: true},
	}, nil)
	m.On("ActiveAddons", mock.Anything, []int64{10, 11}).Return([]domain.ProductAddon{
		{ID: 100, ProductID: 10, Title: "Cheese", Price: 3000, IsActive: true},
	}, nil)
}

func TestMenuService_Menu(t *testing.T) {
	t.Run("cache hit skips the database", func(t *testing.T) {
		mocks := newMenuServiceMocks()

		cached := []domain.MenuCategory{{Category: domain.Category{ID: 1, Title: "Lavash"}}}
		payload, err := json.Marshal(cached)
		require.NoError(t, err)

		mocks.menuCache.On("GetMenu", mock.Anything).Return(payload, true, nil)

		svc := newTestMenuService(mocks)

		menu, err := svc.Menu(context.Background())
		require.NoError(t, err)
		require.Len(t, menu, 1)
		assert.Equal(t, "Lavash", menu[0].Title)

		mocks.menuRepo.AssertNotCalled(t, "ActiveCategories", mock.Anything)
	})

	t.Run("cache miss assembles tree and stores it", func(t *testing.T) {
		mocks := newMenuServiceMocks()

		mocks.menuCache.On("GetMenu", mock.Anything).Return(nil, false, nil)
		expectMenuAssembly(mocks.menuRepo)
		mocks.menuCache.On("SetMenu", mock.Anything, mock.Anything, 10*time.Minute).Return(nil)

		svc := newTestMenuService(mocks)

		menu, err := svc.Menu(context.Background())
		require.NoError(t, err)
		require.Len(t, menu, 2)
		require.Len(t, menu[0].Products, 1)
		assert.Equal(t, "Beef Lavash", menu[0].Products[0].Title)
		require.Len(t, menu[0].Products[0].Addons, 1)
		assert.Equal(t, "Cheese", menu[0].Products[0].Addons[0].Title)
		assert.Empty(t, menu[1].Products[0].Addons)

		mocks.menuCache.AssertExpectations(t)
	})

	t.Run("corrupt cache entry rebuilds from database", func(t *testing.T) {
		mocks := newMenuServiceMocks()

		mocks.menuCache.On("GetMenu", mock.Anything).Return([]byte("{not json"), true, nil)
		expectMenuAssembly(mocks.menuRepo)
		mocks.menuCache.On("SetMenu", mock.Anything, mock.Anything, mock.Anything).Return(nil)

		svc := newTestMenuService(mocks)

		menu, err := svc.Menu(context.Background())
		require.NoError(t, err)
		assert.Len(t, menu, 2)
	})

	t.Run("cache failures degrade to database reads", func(t *testing.T) {
		mocks := newMenuServiceMocks()

		mocks.menuCache.On("GetMenu", mock.Anything).Return(nil, false, assert.AnError)
		expectMenuAssembly(mocks.menuRepo)
		mocks.menuCache.On("SetMenu", mock.Anything, mock.Anything, mock.Anything).Return(assert.AnError)

		svc := newTestMenuService(mocks)

		menu, err := svc.Menu(context.Background())
		require.NoError(t, err)
		assert.Len(t, menu, 2)
	})
}

func TestMenuService_CreateCategory(t *testing.T) {
	mocks := newMenuServiceMocks()

	mocks.menuRepo.On("CreateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Title == "Desserts"
	})).Return(nil)
	mocks.menuCache.On("Invalidate", mock.Anything).Return(nil)
	mocks.auditRepo.On("Create", mock.Anything, mock.MatchedBy(func(l *domain.AuditLog) bool {
		return l.Action == domain.AuditActionCategoryCreate && l.ResourceType == domain.AuditResourceTypeMenu
	})).Return(nil)

	svc := newTestMenuService(mocks)

	err := svc.CreateCategory(context.Background(), &domain.Category{Title: "Desserts", IsActive: true}, 1, "127.0.0.1", "test-agent")
	require.NoError(t, err)

	mocks.menuCache.AssertExpectations(t)
	mocks.auditRepo.AssertExpectations(t)
}

func TestMenuService_UpdateCategory_InvalidatesCache(t *testing.T) {
	mocks := newMenuServiceMocks()

	mocks.menuRepo.On("FindCategory", mock.Anything, int64(1)).Return(&domain.Category{ID: 1, Title: "Lavash", IsActive: true}, nil)
	mocks.menuRepo.On("UpdateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return c.Title == "Shawarma"
	})).Return(nil)
	mocks.menuCache.On("Invalidate", mock.Anything).Return(nil)
	mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestMenuService(mocks)

	category, err := svc.UpdateCategory(context.Background(), 1, func(c *domain.Category) {
		c.Title = "Shawarma"
	}, 1, "", "")
	require.NoError(t, err)
	assert.Equal(t, "Shawarma", category.Title)

	mocks.menuCache.AssertExpectations(t)
}

func TestMenuService_DeleteCategory_IsSoftDelete(t *testing.T) {
	mocks := newMenuServiceMocks()

	mocks.menuRepo.On("FindCategory", mock.Anything, int64(1)).Return(&domain.Category{ID: 1, Title: "Lavash", IsActive: true}, nil)
	mocks.menuRepo.On("UpdateCategory", mock.Anything, mock.MatchedBy(func(c *domain.Category) bool {
		return !c.IsActive
	})).Return(nil)
	mocks.menuCache.On("Invalidate", mock.Anything).Return(nil)
	mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestMenuService(mocks)

	require.NoError(t, svc.DeleteCategory(context.Background(), 1, 1, "", ""))
	mocks.menuRepo.AssertExpectations(t)
}

func TestMenuService_CreateProduct(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		mocks := newMenuServiceMocks()

		mocks.menuRepo.On("FindCategory", mock.Anything, int64(1)).Return(&domain.Category{ID: 1, IsActive: true}, nil)
		mocks.menuRepo.On("CreateProduct", mock.Anything, mock.Anything).Return(nil)
		mocks.menuCache.On("Invalidate", mock.Anything).Return(nil)
		mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

		svc := newTestMenuService(mocks)

		err := svc.CreateProduct(context.Background(), &domain.Product{
			CategoryID: 1, Title: "Beef Lavash", Price: 35000, IsActive: true,
		}, 1, "", "")
		require.NoError(t, err)
	})

	t.Run("failure - negative price", func(t *testing.T) {
		mocks := newMenuServiceMocks()
		svc := newTestMenuService(mocks)

		err := svc.CreateProduct(context.Background(), &domain.Product{
			CategoryID: 1, Title: "Broken", Price: -100,
		}, 1, "", "")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeValidation, appErr.Code)
		mocks.menuRepo.AssertNotCalled(t, "CreateProduct", mock.Anything, mock.Anything)
	})

	t.Run("failure - unknown category", func(t *testing.T) {
		mocks := newMenuServiceMocks()
		mocks.menuRepo.On("FindCategory", mock.Anything, int64(77)).Return(nil, apperror.NotFound("category", 77))

		svc := newTestMenuService(mocks)

		err := svc.CreateProduct(context.Background(), &domain.Product{
			CategoryID: 77, Title: "Orphan", Price: 1000,
		}, 1, "", "")
		require.Error(t, err)
		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeNotFound, appErr.Code)
	})
}

func TestMenuService_UpdateProduct_RejectsNegativePrice(t *testing.T) {
	mocks := newMenuServiceMocks()

	mocks.menuRepo.On("FindProduct", mock.Anything, int64(10)).Return(&domain.Product{
		ID: 10, CategoryID: 1, Title: "Beef Lavash", Price: 35000, IsActive: true,
	}, nil)

	svc := newTestMenuService(mocks)

	_, err := svc.UpdateProduct(context.Background(), 10, func(p *domain.Product) {
		p.Price = -1
	}, 1, "", "")
	require.Error(t, err)
	mocks.menuRepo.AssertNotCalled(t, "UpdateProduct", mock.Anything, mock.Anything)
}

func TestMenuService_CacheInvalidationFailureDoesNotFailWrite(t *testing.T) {
	mocks := newMenuServiceMocks()

	mocks.menuRepo.On("CreateCategory", mock.Anything, mock.Anything).Return(nil)
	// Redis is down; the TTL still bounds staleness.
	mocks.menuCache.On("Invalidate", mock.Anything).Return(assert.AnError)
	mocks.auditRepo.On("Create", mock.Anything, mock.Anything).Return(nil)

	svc := newTestMenuService(mocks)

	err := svc.CreateCategory(context.Background(), &domain.Category{Title: "Soups", IsActive: true}, 1, "", "")
	require.NoError(t, err)
}
