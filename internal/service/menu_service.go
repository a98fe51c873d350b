package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// MenuService implements port.MenuService interface.
// MenuService реализует интерфейс port.MenuService.
//
// Serves the customer-facing menu tree through a cache-aside Redis cache
// and handles admin catalog management. Every catalog write drops the
// cached tree so customers never see a stale menu longer than one request.
// Отдаёт клиентское дерево меню через cache-aside кэш в Redis и
// обрабатывает админское управление каталогом. Каждая запись в каталог
// сбрасывает кэш дерева, чтобы клиенты не видели устаревшее меню дольше
// одного запроса.
type MenuService struct {
	menuRepo  port.MenuRepository // Menu repository / Репозиторий меню
	menuCache port.MenuCache      // Menu tree cache / Кэш дерева меню
	audit     *AuditService       // Audit service / Сервис аудита
	cacheTTL  time.Duration       // Menu cache TTL / TTL кэша меню
	logger    *logger.Logger      // Logger instance / Экземпляр логгера
}

// NewMenuService creates a new MenuService instance.
// NewMenuService создаёт новый экземпляр MenuService.
func NewMenuService(
	menuRepo port.MenuRepository,
	menuCache port.MenuCache,
	audit *AuditService,
	cacheTTL time.Duration,
	log *logger.Logger,
) *MenuService {
	return &MenuService{
		menuRepo:  menuRepo,
		menuCache: menuCache,
		audit:     audit,
		cacheTTL:  cacheTTL,
		logger:    log.WithComponent("menu_service"),
	}
}

// ==================== Customer Operations / Операции клиента ====================

// Menu returns the customer-facing category tree.
//
// Cache-aside: a cache hit is served as-is, a miss assembles the tree
// from active categories, products and addons and stores it. Cache
// failures degrade to a database read, never to an error.
// Menu возвращает клиентское дерево категорий.
//
// Cache-aside: попадание в кэш отдаётся как есть, промах собирает дерево
// из активных категорий, продуктов и опций и сохраняет его. Сбои кэша
// деградируют до чтения из БД, никогда до ошибки.
func (s *MenuService) Menu(ctx context.Context) ([]domain.MenuCategory, error) {
	log := s.logger.WithContext(ctx)

	cached, found, err := s.menuCache.GetMenu(ctx)
	if err != nil {
		log.Warn("menu cache read failed, falling back to database", "error", err)
	}
	if found {
		var menu []domain.MenuCategory
		if unmarshalErr := json.Unmarshal(cached, &menu); unmarshalErr == nil {
			return menu, nil
		}
		// Corrupt cache entry, rebuild from the database
		// Повреждённая запись кэша, пересобираем из БД
		log.Warn("menu cache entry is corrupt, rebuilding")
	}

	menu, err := s.assembleMenu(ctx)
	if err != nil {
		return nil, err
	}

	if payload, marshalErr := json.Marshal(menu); marshalErr == nil {
		if setErr := s.menuCache.SetMenu(ctx, payload, s.cacheTTL); setErr != nil {
			log.Warn("failed to cache menu", "error", setErr)
		}
	}

	return menu, nil
}

// assembleMenu builds the category tree from active catalog rows.
// assembleMenu собирает дерево категорий из активных строк каталога.
func (s *MenuService) assembleMenu(ctx context.Context) ([]domain.MenuCategory, error) {
	categories, err := s.menuRepo.ActiveCategories(ctx)
	if err != nil {
		return nil, err
	}

	products, err := s.menuRepo.ActiveProducts(ctx)
	if err != nil {
		return nil, err
	}

	productIDs := make([]int64, 0, len(products))
	for _, p := range products {
		productIDs = append(productIDs, p.ID)
	}

	addons, err := s.menuRepo.ActiveAddons(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	addonsByProduct := make(map[int64][]domain.ProductAddon, len(products))
	for _, a := range addons {
		addonsByProduct[a.ProductID] = append(addonsByProduct[a.ProductID], a)
	}

	productsByCategory := make(map[int64][]domain.MenuProduct, len(categories))
	for _, p := range products {
		productsByCategory[p.CategoryID] = append(productsByCategory[p.CategoryID], domain.MenuProduct{
			Product: p,
			Addons:  addonsByProduct[p.ID],
		})
	}

	menu := make([]domain.MenuCategory, 0, len(categories))
	for _, c := range categories {
		menu = append(menu, domain.MenuCategory{
			Category: c,
			Products: productsByCategory[c.ID],
		})
	}

	return menu, nil
}

// Branches returns active pickup branches.
// Branches возвращает активные филиалы самовывоза.
func (s *MenuService) Branches(ctx context.Context) ([]domain.Branch, error) {
	return s.menuRepo.ActiveBranches(ctx)
}

// ==================== Category Management / Управление категориями ====================

// ListCategories returns all categories for the admin panel.
// ListCategories возвращает все категории для админ-панели.
func (s *MenuService) ListCategories(ctx context.Context) ([]domain.Category, error) {
	return s.menuRepo.ListCategories(ctx)
}

// GetCategory returns one category.
// GetCategory возвращает одну категорию.
func (s *MenuService) GetCategory(ctx context.Context, id int64) (*domain.Category, error) {
	return s.menuRepo.FindCategory(ctx, id)
}

// CreateCategory creates a category and invalidates the menu cache.
// CreateCategory создаёт категорию и инвалидирует кэш меню.
func (s *MenuService) CreateCategory(ctx context.Context, category *domain.Category, actorID int64, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	if err := s.menuRepo.CreateCategory(ctx, category); err != nil {
		log.Error("failed to create category", "error", err)
		return err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionCategoryCreate, category.ID, map[string]interface{}{
		"title": category.Title,
	}, ipAddress, userAgent)

	log.Info("category created", "category_id", category.ID, "created_by", actorID)
	return nil
}

// UpdateCategory applies a patch to a category and invalidates the menu cache.
// UpdateCategory применяет изменения к категории и инвалидирует кэш меню.
func (s *MenuService) UpdateCategory(ctx context.Context, id int64, patch func(*domain.Category), actorID int64, ipAddress, userAgent string) (*domain.Category, error) {
	log := s.logger.WithContext(ctx)

	category, err := s.menuRepo.FindCategory(ctx, id)
	if err != nil {
		return nil, err
	}

	patch(category)
	category.UpdatedAt = time.Now()

	if err := s.menuRepo.UpdateCategory(ctx, category); err != nil {
		log.Error("failed to update category", "category_id", id, "error", err)
		return nil, err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionCategoryUpdate, id, map[string]interface{}{
		"title":     category.Title,
		"is_active": category.IsActive,
	}, ipAddress, userAgent)

	log.Info("category updated", "category_id", id, "updated_by", actorID)
	return category, nil
}

// DeleteCategory deactivates a category. Rows are never removed so order
// history keeps resolving.
// DeleteCategory деактивирует категорию. Строки никогда не удаляются,
// чтобы история заказов продолжала разрешаться.
func (s *MenuService) DeleteCategory(ctx context.Context, id int64, actorID int64, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	category, err := s.menuRepo.FindCategory(ctx, id)
	if err != nil {
		return err
	}

	category.IsActive = false
	category.UpdatedAt = time.Now()

	if err := s.menuRepo.UpdateCategory(ctx, category); err != nil {
		log.Error("failed to deactivate category", "category_id", id, "error", err)
		return err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionCategoryDelete, id, map[string]interface{}{
		"title": category.Title,
	}, ipAddress, userAgent)

	log.Info("category deactivated", "category_id", id, "deleted_by", actorID)
	return nil
}

// ==================== Product Management / Управление продуктами ====================

// ListProducts returns products for the admin panel, optionally by category.
// ListProducts возвращает продукты для админ-панели, опционально по категории.
func (s *MenuService) ListProducts(ctx context.Context, categoryID int64) ([]domain.Product, error) {
	return s.menuRepo.ListProducts(ctx, categoryID)
}

// CreateProduct creates a product and invalidates the menu cache.
// CreateProduct создаёт продукт и инвалидирует кэш меню.
func (s *MenuService) CreateProduct(ctx context.Context, product *domain.Product, actorID int64, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	if product.Price < 0 {
		return apperror.ValidationError("price must not be negative", map[string]interface{}{
			"price": product.Price,
		})
	}

	// The parent category must exist; a missing one is a client error.
	// Родительская категория должна существовать; её отсутствие — ошибка клиента.
	if _, err := s.menuRepo.FindCategory(ctx, product.CategoryID); err != nil {
		return err
	}

	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if err := s.menuRepo.CreateProduct(ctx, product); err != nil {
		log.Error("failed to create product", "error", err)
		return err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionProductCreate, product.ID, map[string]interface{}{
		"title":       product.Title,
		"category_id": product.CategoryID,
		"price":       product.Price,
	}, ipAddress, userAgent)

	log.Info("product created", "product_id", product.ID, "created_by", actorID)
	return nil
}

// UpdateProduct applies a patch to a product and invalidates the menu cache.
// UpdateProduct применяет изменения к продукту и инвалидирует кэш меню.
func (s *MenuService) UpdateProduct(ctx context.Context, id int64, patch func(*domain.Product), actorID int64, ipAddress, userAgent string) (*domain.Product, error) {
	log := s.logger.WithContext(ctx)

	product, err := s.menuRepo.FindProduct(ctx, id)
	if err != nil {
		return nil, err
	}

	patch(product)
	if product.Price < 0 {
		return nil, apperror.ValidationError("price must not be negative", map[string]interface{}{
			"price": product.Price,
		})
	}
	product.UpdatedAt = time.Now()

	if err := s.menuRepo.UpdateProduct(ctx, product); err != nil {
		log.Error("failed to update product", "product_id", id, "error", err)
		return nil, err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionProductUpdate, id, map[string]interface{}{
		"title":     product.Title,
		"price":     product.Price,
		"is_active": product.IsActive,
	}, ipAddress, userAgent)

	log.Info("product updated", "product_id", id, "updated_by", actorID)
	return product, nil
}

// DeleteProduct deactivates a product (soft delete).
// DeleteProduct деактивирует продукт (мягкое удаление).
func (s *MenuService) DeleteProduct(ctx context.Context, id int64, actorID int64, ipAddress, userAgent string) error {
	log := s.logger.WithContext(ctx)

	product, err := s.menuRepo.FindProduct(ctx, id)
	if err != nil {
		return err
	}

	product.IsActive = false
	product.UpdatedAt = time.Now()

	if err := s.menuRepo.UpdateProduct(ctx, product); err != nil {
		log.Error("failed to deactivate product", "product_id", id, "error", err)
		return err
	}

	s.invalidateMenu(ctx)
	s.logMenuAction(ctx, actorID, domain.AuditActionProductDelete, id, map[string]interface{}{
		"title": product.Title,
	}, ipAddress, userAgent)

	log.Info("product deactivated", "product_id", id, "deleted_by", actorID)
	return nil
}

// ==================== Helpers / Вспомогательные функции ====================

// invalidateMenu drops the cached menu tree. Failures are logged only:
// the cache entry still expires by TTL.
// invalidateMenu сбрасывает кэш дерева меню. Сбои только логируются:
// запись кэша всё равно истечёт по TTL.
func (s *MenuService) invalidateMenu(ctx context.Context) {
	if err := s.menuCache.Invalidate(ctx); err != nil {
		s.logger.WithContext(ctx).Warn("failed to invalidate menu cache", "error", err)
	}
}

// logMenuAction writes a catalog audit record. Audit failures must not
// fail the catalog operation itself.
// logMenuAction пишет запись аудита каталога. Сбои аудита не должны
// ронять саму операцию каталога.
func (s *MenuService) logMenuAction(ctx context.Context, actorID int64, action string, resourceID int64, details map[string]interface{}, ipAddress, userAgent string) {
	if err := s.audit.LogActionWithContext(ctx, actorID, action, domain.AuditResourceTypeMenu, fmt.Sprintf("%d", resourceID), details, ipAddress, userAgent); err != nil {
		s.logger.WithContext(ctx).Warn("failed to write menu audit record", "action", action, "error", err)
	}
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.MenuService = (*MenuService)(nil)
