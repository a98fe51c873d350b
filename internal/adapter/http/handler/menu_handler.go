package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// MenuHandler handles menu catalog HTTP requests.
// MenuHandler обрабатывает HTTP запросы каталога меню.
//
// The customer endpoints are public and cached; the admin endpoints
// require a session and mutate the catalog.
// Клиентские эндпоинты публичны и кэшируются; админские требуют сессию
// и изменяют каталог.
type MenuHandler struct {
	menuService port.MenuService // Menu service / Сервис меню
	logger      *logger.Logger   // Logger instance / Экземпляр логгера
}

// NewMenuHandler creates a new MenuHandler instance.
// NewMenuHandler создаёт новый экземпляр MenuHandler.
func NewMenuHandler(menuService port.MenuService, log *logger.Logger) *MenuHandler {
	return &MenuHandler{
		menuService: menuService,
		logger:      log.WithComponent("menu_handler"),
	}
}

// ==================== Public Endpoints / Публичные эндпоинты ====================

// Menu handles GET /api/menu.
// Menu обрабатывает GET /api/menu.
// @Summary Customer menu
// @Description Get the active category tree with products and addons
// @Tags menu
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]domain.MenuCategory}
// @Router /api/menu [get]
func (h *MenuHandler) Menu(c *gin.Context) {
	menu, err := h.menuService.Menu(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, menu)
}

// Branches handles GET /api/branches.
// Branches обрабатывает GET /api/branches.
// @Summary Pickup branches
// @Description Get active pickup branches
// @Tags menu
// @Produce json
// @Success 200 {object} response.APIResponse{data=[]domain.Branch}
// @Router /api/branches [get]
func (h *MenuHandler) Branches(c *gin.Context) {
	branches, err := h.menuService.Branches(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, branches)
}

// ==================== Category Management / Управление категориями ====================

// CategoryRequest represents a category create/update body.
// CategoryRequest представляет тело создания/обновления категории.
type CategoryRequest struct {
	Title    string `json:"title" binding:"required"` // Category name / Название категории
	ImageURL string `json:"image_url"`                // Cover image / Обложка
	Sort     *int   `json:"sort"`                     // Display order / Порядок отображения
	IsActive *bool  `json:"is_active"`                // Visibility / Видимость
}

// ListCategories handles GET /admin/menu/categories.
// ListCategories обрабатывает GET /admin/menu/categories.
// @Summary List categories
// @Description Get all categories including inactive ones
// @Tags admin-menu
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=[]domain.Category}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/menu/categories [get]
func (h *MenuHandler) ListCategories(c *gin.Context) {
	categories, err := h.menuService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, categories)
}

// GetCategory handles GET /admin/menu/categories/:id.
// GetCategory обрабатывает GET /admin/menu/categories/:id.
// @Summary Get category
// @Description Get one category by ID
// @Tags admin-menu
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} response.APIResponse{data=domain.Category}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/categories/{id} [get]
func (h *MenuHandler) GetCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	category, err := h.menuService.GetCategory(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, category)
}

// CreateCategory handles POST /admin/menu/categories.
// CreateCategory обрабатывает POST /admin/menu/categories.
// @Summary Create category
// @Description Create a new menu category
// @Tags admin-menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CategoryRequest true "Category data"
// @Success 201 {object} response.APIResponse{data=domain.Category}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/menu/categories [post]
func (h *MenuHandler) CreateCategory(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	category := &domain.Category{
		Title:    req.Title,
		ImageURL: req.ImageURL,
		IsActive: true,
	}
	if req.Sort != nil {
		category.Sort = *req.Sort
	}
	if req.IsActive != nil {
		category.IsActive = *req.IsActive
	}

	actorID := c.GetInt64("admin_id")

	if err := h.menuService.CreateCategory(c.Request.Context(), category, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, category)
}

// UpdateCategory handles PATCH /admin/menu/categories/:id.
// UpdateCategory обрабатывает PATCH /admin/menu/categories/:id.
// @Summary Update category
// @Description Update fields of a menu category
// @Tags admin-menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Param request body CategoryRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=domain.Category}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/categories/{id} [patch]
func (h *MenuHandler) UpdateCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	// Partial update: empty fields keep their current values
	// Частичное обновление: пустые поля сохраняют текущие значения
	var req struct {
		Title    *string `json:"title"`
		ImageURL *string `json:"image_url"`
		Sort     *int    `json:"sort"`
		IsActive *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	actorID := c.GetInt64("admin_id")

	category, err := h.menuService.UpdateCategory(c.Request.Context(), id, func(cat *domain.Category) {
		if req.Title != nil {
			cat.Title = *req.Title
		}
		if req.ImageURL != nil {
			cat.ImageURL = *req.ImageURL
		}
		if req.Sort != nil {
			cat.Sort = *req.Sort
		}
		if req.IsActive != nil {
			cat.IsActive = *req.IsActive
		}
	}, actorID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, category)
}

// DeleteCategory handles DELETE /admin/menu/categories/:id.
// DeleteCategory обрабатывает DELETE /admin/menu/categories/:id.
// @Summary Delete category
// @Description Deactivate a menu category (soft delete)
// @Tags admin-menu
// @Produce json
// @Security BearerAuth
// @Param id path int true "Category ID"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/categories/{id} [delete]
func (h *MenuHandler) DeleteCategory(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid category id")
		return
	}

	actorID := c.GetInt64("admin_id")

	if err := h.menuService.DeleteCategory(c.Request.Context(), id, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "category deleted successfully"})
}

// ==================== Product Management / Управление продуктами ====================

// ProductRequest represents a product create body.
// ProductRequest представляет тело создания продукта.
type ProductRequest struct {
	CategoryID  int64  `json:"category_id" binding:"required"` // Parent category / Родительская категория
	Title       string `json:"title" binding:"required"`       // Product name / Название продукта
	Description string `json:"description"`                    // Description / Описание
	Price       int64  `json:"price" binding:"required,min=0"` // Price in UZS / Цена в UZS
	ImageURL    string `json:"image_url"`                      // Product image / Изображение продукта
	Tags        string `json:"tags"`                           // Comma-separated tags / Теги через запятую
	Sort        *int   `json:"sort"`                           // Display order / Порядок отображения
	IsActive    *bool  `json:"is_active"`                      // Visibility / Видимость
}

// ListProducts handles GET /admin/menu/products.
// ListProducts обрабатывает GET /admin/menu/products.
// @Summary List products
// @Description Get all products, optionally filtered by category
// @Tags admin-menu
// @Produce json
// @Security BearerAuth
// @Param category_id query int false "Filter by category"
// @Success 200 {object} response.APIResponse{data=[]domain.Product}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/menu/products [get]
func (h *MenuHandler) ListProducts(c *gin.Context) {
	var categoryID int64
	if raw := c.Query("category_id"); raw != "" {
		parsed, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			response.BadRequest(c, "invalid category id")
			return
		}
		categoryID = parsed
	}

	products, err := h.menuService.ListProducts(c.Request.Context(), categoryID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, products)
}

// CreateProduct handles POST /admin/menu/products.
// CreateProduct обрабатывает POST /admin/menu/products.
// @Summary Create product
// @Description Create a new menu product
// @Tags admin-menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ProductRequest true "Product data"
// @Success 201 {object} response.APIResponse{data=domain.Product}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/products [post]
func (h *MenuHandler) CreateProduct(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	product := &domain.Product{
		CategoryID:  req.CategoryID,
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ImageURL:    req.ImageURL,
		Tags:        req.Tags,
		IsActive:    true,
	}
	if req.Sort != nil {
		product.Sort = *req.Sort
	}
	if req.IsActive != nil {
		product.IsActive = *req.IsActive
	}

	actorID := c.GetInt64("admin_id")

	if err := h.menuService.CreateProduct(c.Request.Context(), product, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, product)
}

// UpdateProduct handles PATCH /admin/menu/products/:id.
// UpdateProduct обрабатывает PATCH /admin/menu/products/:id.
// @Summary Update product
// @Description Update fields of a menu product
// @Tags admin-menu
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param request body ProductRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=domain.Product}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/products/{id} [patch]
func (h *MenuHandler) UpdateProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	// Partial update: empty fields keep their current values
	// Частичное обновление: пустые поля сохраняют текущие значения
	var req struct {
		CategoryID  *int64  `json:"category_id"`
		Title       *string `json:"title"`
		Description *string `json:"description"`
		Price       *int64  `json:"price"`
		ImageURL    *string `json:"image_url"`
		Tags        *string `json:"tags"`
		Sort        *int    `json:"sort"`
		IsActive    *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	actorID := c.GetInt64("admin_id")

	product, err := h.menuService.UpdateProduct(c.Request.Context(), id, func(p *domain.Product) {
		if req.CategoryID != nil {
			p.CategoryID = *req.CategoryID
		}
		if req.Title != nil {
			p.Title = *req.Title
		}
		if req.Description != nil {
			p.Description = *req.Description
		}
		if req.Price != nil {
			p.Price = *req.Price
		}
		if req.ImageURL != nil {
			p.ImageURL = *req.ImageURL
		}
		if req.Tags != nil {
			p.Tags = *req.Tags
		}
		if req.Sort != nil {
			p.Sort = *req.Sort
		}
		if req.IsActive != nil {
			p.IsActive = *req.IsActive
		}
	}, actorID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct handles DELETE /admin/menu/products/:id.
// DeleteProduct обрабатывает DELETE /admin/menu/products/:id.
// @Summary Delete product
// @Description Deactivate a menu product (soft delete)
// @Tags admin-menu
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/menu/products/{id} [delete]
func (h *MenuHandler) DeleteProduct(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid product id")
		return
	}

	actorID := c.GetInt64("admin_id")

	if err := h.menuService.DeleteProduct(c.Request.Context(), id, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "product deleted successfully"})
}
