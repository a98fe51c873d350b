package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
)

// MenuRepository implements port.MenuRepository using PostgreSQL.
// MenuRepository реализует интерфейс port.MenuRepository с использованием PostgreSQL.
//
// Customer-facing reads return only active rows; admin reads return
// everything. Deactivation replaces physical deletion so existing
// orders keep valid product references.
// Клиентские чтения возвращают только активные строки; админские —
// всё. Деактивация заменяет физическое удаление, чтобы существующие
// заказы сохраняли корректные ссылки на продукты.
type MenuRepository struct {
	db *gorm.DB // Database connection / Подключение к базе данных
}

// NewMenuRepository creates a new MenuRepository instance.
// NewMenuRepository создаёт новый экземпляр MenuRepository.
func NewMenuRepository(db *gorm.DB) *MenuRepository {
	return &MenuRepository{db: db}
}

// ActiveCategories retrieves active categories ordered by sort.
// ActiveCategories получает активные категории в порядке sort.
func (r *MenuRepository) ActiveCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&categories).Error

	if err != nil {
		return nil, apperror.Internal("failed to list active categories", err)
	}
	return categories, nil
}

// ActiveProducts retrieves active products ordered by sort.
// ActiveProducts получает активные продукты в порядке sort.
func (r *MenuRepository) ActiveProducts(ctx context.Context) ([]domain.Product, error) {
	var products []domain.Product
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, id ASC").
		Find(&products).Error

	if err != nil {
		return nil, apperror.Internal("failed to list active products", err)
	}
	return products, nil
}

// ActiveAddons retrieves active addons for the given products, ordered by sort.
// ActiveAddons получает активные опции указанных продуктов в порядке sort.
func (r *MenuRepository) ActiveAddons(ctx context.Context, productIDs []int64) ([]domain.ProductAddon, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}

	var addons []domain.ProductAddon
	err := r.db.WithContext(ctx).
		Where("product_id IN ? AND is_active = ?", productIDs, true).
		Order("sort ASC, id ASC").
		Find(&addons).Error

	if err != nil {
		return nil, apperror.Internal("failed to list active addons", err)
	}
	return addons, nil
}

// ActiveBranches retrieves active branches ordered by title.
// ActiveBranches получает активные филиалы в алфавитном порядке.
func (r *MenuRepository) ActiveBranches(ctx context.Context) ([]domain.Branch, error) {
	var branches []domain.Branch
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort ASC, title ASC").
		Find(&branches).Error

	if err != nil {
		return nil, apperror.Internal("failed to list active branches", err)
	}
	return branches, nil
}

// ProductPrices returns the authoritative price per product ID for active
// products. Unknown or inactive IDs are simply absent from the result.
// ProductPrices возвращает актуальную цену по ID активного продукта.
// Неизвестные или неактивные ID просто отсутствуют в результате.
func (r *MenuRepository) ProductPrices(ctx context.Context, productIDs []int64) (map[int64]int64, error) {
	if len(productIDs) == 0 {
		return map[int64]int64{}, nil
	}

	var rows []struct {
		ID    int64
		Price int64
	}
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Select("id", "price").
		Where("id IN ? AND is_active = ?", productIDs, true).
		Find(&rows).Error

	if err != nil {
		return nil, apperror.Internal("failed to load product prices", err)
	}

	prices := make(map[int64]int64, len(rows))
	for _, row := range rows {
		prices[row.ID] = row.Price
	}
	return prices, nil
}

// ListCategories retrieves all categories (admin view), ordered by sort.
// ListCategories получает все категории (админский вид) в порядке sort.
func (r *MenuRepository) ListCategories(ctx context.Context) ([]domain.Category, error) {
	var categories []domain.Category
	err := r.db.WithContext(ctx).
		Order("sort ASC, id ASC").
		Find(&categories).Error

	if err != nil {
		return nil, apperror.Internal("failed to list categories", err)
	}
	return categories, nil
}

// FindCategory retrieves a category by ID.
// FindCategory получает категорию по ID.
func (r *MenuRepository) FindCategory(ctx context.Context, id int64) (*domain.Category, error) {
	var category domain.Category
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&category).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("category", id)
		}
		return nil, apperror.Internal("failed to find category", err)
	}
	return &category, nil
}

// CreateCategory creates a new category.
// CreateCategory создаёт новую категорию.
func (r *MenuRepository) CreateCategory(ctx context.Context, category *domain.Category) error {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return apperror.Internal("failed to create category", err)
	}
	return nil
}

// UpdateCategory updates an existing category.
// UpdateCategory обновляет существующую категорию.
func (r *MenuRepository) UpdateCategory(ctx context.Context, category *domain.Category) error {
	result := r.db.WithContext(ctx).Save(category)
	if result.Error != nil {
		return apperror.Internal("failed to update category", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("category", category.ID)
	}
	return nil
}

// ListProducts retrieves all products (admin view), optionally by category.
// A zero categoryID means all categories.
// ListProducts получает все продукты (админский вид), опционально по категории.
// Нулевой categoryID означает все категории.
func (r *MenuRepository) ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{})
	if categoryID > 0 {
		query = query.Where("category_id = ?", categoryID)
	}

	var products []domain.Product
	err := query.
		Order("sort ASC, id ASC").
		Find(&products).Error

	if err != nil {
		return nil, apperror.Internal("failed to list products", err)
	}
	return products, nil
}

// FindProduct retrieves a product by ID.
// FindProduct получает продукт по ID.
func (r *MenuRepository) FindProduct(ctx context.Context, id int64) (*domain.Product, error) {
	var product domain.Product
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&product).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("product", id)
		}
		return nil, apperror.Internal("failed to find product", err)
	}
	return &product, nil
}

// CreateProduct creates a new product.
// CreateProduct создаёт новый продукт.
func (r *MenuRepository) CreateProduct(ctx context.Context, product *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return apperror.Internal("failed to create product", err)
	}
	return nil
}

// UpdateProduct updates an existing product.
// UpdateProduct обновляет существующий продукт.
func (r *MenuRepository) UpdateProduct(ctx context.Context, product *domain.Product) error {
	result := r.db.WithContext(ctx).Save(product)
	if result.Error != nil {
		return apperror.Internal("failed to update product", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("product", product.ID)
	}
	return nil
}
