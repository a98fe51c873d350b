package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/pkg/validator"
	"github.com/zahratun/orders-service/internal/port"
)

// AdminHandler handles admin account management HTTP requests (owner only).
// AdminHandler обрабатывает HTTP запросы управления админ-аккаунтами (только owner).
type AdminHandler struct {
	adminService port.AdminService // Admin service / Сервис админ-аккаунтов
	auditService port.AuditService // Audit service / Сервис аудита
	logger       *logger.Logger    // Logger instance / Экземпляр логгера
}

// NewAdminHandler creates a new AdminHandler instance.
// NewAdminHandler создаёт новый экземпляр AdminHandler.
func NewAdminHandler(adminService port.AdminService, auditService port.AuditService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		auditService: auditService,
		logger:       log.WithComponent("admin_handler"),
	}
}

// AdminResponse represents an admin account in API responses.
// AdminResponse представляет админ-аккаунт в ответах API.
type AdminResponse struct {
	ID                 int64  `json:"id"`                   // Account ID / ID аккаунта
	Username           string `json:"username"`             // Login name / Логин
	Role               string `json:"role"`                 // Access role / Роль доступа
	IsActive           bool   `json:"is_active"`            // Account enabled / Аккаунт активен
	MustChangePassword bool   `json:"must_change_password"` // Password change required / Требуется смена пароля
	CreatedAt          string `json:"created_at,omitempty"` // Creation timestamp / Время создания
}

// toAdminResponse converts a domain admin to the response format.
// toAdminResponse преобразует доменный админ-аккаунт в формат ответа.
func toAdminResponse(a *domain.AdminUser) AdminResponse {
	return AdminResponse{
		ID:                 a.ID,
		Username:           a.Username,
		Role:               a.Role,
		IsActive:           a.IsActive,
		MustChangePassword: a.MustChangePassword,
		CreatedAt:          a.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}

// ListAdminsResponse represents the list admins response.
// ListAdminsResponse представляет ответ со списком админ-аккаунтов.
type ListAdminsResponse struct {
	Admins []AdminResponse `json:"admins"` // Accounts list / Список аккаунтов
}

// ListAdmins handles GET /admin/admins.
// ListAdmins обрабатывает GET /admin/admins.
// @Summary List admin accounts
// @Description Get all admin accounts, newest first
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.APIResponse{data=ListAdminsResponse}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/admins [get]
func (h *AdminHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminService.ListAdmins(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	adminResponses := make([]AdminResponse, 0, len(admins))
	for i := range admins {
		adminResponses = append(adminResponses, toAdminResponse(&admins[i]))
	}

	response.Success(c, ListAdminsResponse{Admins: adminResponses})
}

// CreateAdmin handles POST /admin/admins.
// CreateAdmin обрабатывает POST /admin/admins.
// @Summary Create admin account
// @Description Create a new admin account with the specified role
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body domain.CreateAdminRequest true "Account data"
// @Success 201 {object} response.APIResponse{data=AdminResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /admin/admins [post]
func (h *AdminHandler) CreateAdmin(c *gin.Context) {
	var req domain.CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	// Validate password quality / Проверяем качество пароля
	validationResult := validator.ValidatePassword(req.Password, validator.AdminPasswordRequirements())
	if !validationResult.Valid {
		response.ValidationError(c, "password does not meet requirements", map[string]interface{}{
			"errors": validationResult.Errors,
		})
		return
	}

	actorID := c.GetInt64("admin_id")

	admin, err := h.adminService.CreateAdmin(c.Request.Context(), &req, actorID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, toAdminResponse(admin))
}

// UpdateAdmin handles PATCH /admin/admins/:id.
// UpdateAdmin обрабатывает PATCH /admin/admins/:id.
// @Summary Update admin account
// @Description Change role and/or activity of an admin account
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body domain.UpdateAdminRequest true "Fields to update"
// @Success 200 {object} response.APIResponse{data=AdminResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/admins/{id} [patch]
func (h *AdminHandler) UpdateAdmin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid admin id")
		return
	}

	var req domain.UpdateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	actorID := c.GetInt64("admin_id")

	admin, err := h.adminService.UpdateAdmin(c.Request.Context(), id, &req, actorID, c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, toAdminResponse(admin))
}

// DeactivateAdmin handles DELETE /admin/admins/:id.
//
// Accounts are deactivated rather than removed so their audit trail keeps
// resolving.
// DeactivateAdmin обрабатывает DELETE /admin/admins/:id.
//
// Аккаунты деактивируются, а не удаляются, чтобы их аудит-след продолжал
// разрешаться.
// @Summary Deactivate admin account
// @Description Disable an admin account (soft delete)
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/admins/{id} [delete]
func (h *AdminHandler) DeactivateAdmin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid admin id")
		return
	}

	actorID := c.GetInt64("admin_id")

	inactive := false
	req := domain.UpdateAdminRequest{IsActive: &inactive}
	if _, err := h.adminService.UpdateAdmin(c.Request.Context(), id, &req, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "admin deactivated successfully"})
}

// ResetPassword handles POST /admin/admins/:id/reset-password.
// ResetPassword обрабатывает POST /admin/admins/:id/reset-password.
// @Summary Reset admin password
// @Description Set a new password and force a change on next login
// @Tags admins
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Account ID"
// @Param request body domain.ResetPasswordRequest true "New password"
// @Success 200 {object} response.APIResponse
// @Failure 400 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 404 {object} response.APIResponse
// @Router /admin/admins/{id}/reset-password [post]
func (h *AdminHandler) ResetPassword(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid admin id")
		return
	}

	var req domain.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ValidationError(c, "invalid request body", map[string]interface{}{
			"details": err.Error(),
		})
		return
	}

	// Validate password quality / Проверяем качество пароля
	validationResult := validator.ValidatePassword(req.NewPassword, validator.AdminPasswordRequirements())
	if !validationResult.Valid {
		response.ValidationError(c, "password does not meet requirements", map[string]interface{}{
			"errors": validationResult.Errors,
		})
		return
	}

	actorID := c.GetInt64("admin_id")

	if err := h.adminService.ResetPassword(c.Request.Context(), id, req.NewPassword, actorID, c.ClientIP(), c.Request.UserAgent()); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "password reset successfully"})
}

// AuditLogs handles GET /admin/admins/:id/audit-logs.
// AuditLogs обрабатывает GET /admin/admins/:id/audit-logs.
// @Summary Admin audit trail
// @Description Get recent audit entries of one admin account
// @Tags admins
// @Produce json
// @Security BearerAuth
// @Param id path int true "Admin ID"
// @Param limit query int false "Max entries" default(50)
// @Success 200 {object} response.APIResponse{data=[]domain.AuditLog}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Router /admin/admins/{id}/audit-logs [get]
func (h *AdminHandler) AuditLogs(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.BadRequest(c, "invalid admin id")
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit < 1 {
		limit = 50
	}
	if limit > 200 {
		limit = 200 // Maximum entries per request / Максимум записей за запрос
	}

	logs, err := h.auditService.GetActorAuditLogs(c.Request.Context(), id, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, logs)
}
