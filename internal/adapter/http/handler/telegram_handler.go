package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/middleware"
	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// TelegramHandler handles Mini App customer authentication requests.
// TelegramHandler обрабатывает запросы аутентификации клиентов Mini App.
type TelegramHandler struct {
	authService port.TelegramAuthService // Customer auth service / Сервис аутентификации клиентов
	logger      *logger.Logger           // Logger instance / Экземпляр логгера
}

// NewTelegramHandler creates a new TelegramHandler instance.
// NewTelegramHandler создаёт новый экземпляр TelegramHandler.
func NewTelegramHandler(authService port.TelegramAuthService, log *logger.Logger) *TelegramHandler {
	return &TelegramHandler{
		authService: authService,
		logger:      log.WithComponent("telegram_handler"),
	}
}

// TelegramAuthRequest carries init-data in the request body when the
// X-Telegram-Init-Data header is not set.
// TelegramAuthRequest несёт init-data в теле запроса, когда заголовок
// X-Telegram-Init-Data не установлен.
type TelegramAuthRequest struct {
	InitData string `json:"init_data"` // Raw signed init data / Сырой подписанный init data
}

// Authenticate handles POST /api/auth/telegram.
//
// The Mini App calls this on startup to verify its init-data and register
// or refresh the customer profile.
// Authenticate обрабатывает POST /api/auth/telegram.
//
// Mini App вызывает это при запуске, чтобы проверить init-data и
// зарегистрировать или обновить профиль клиента.
// @Summary Authenticate Mini App customer
// @Description Verify signed init-data and upsert the customer profile
// @Tags telegram
// @Accept json
// @Produce json
// @Param X-Telegram-Init-Data header string false "Signed Mini App init data"
// @Param request body handler.TelegramAuthRequest false "Init data in the body when the header is absent"
// @Success 200 {object} response.APIResponse{data=domain.TelegramUser}
// @Failure 401 {object} response.APIResponse
// @Router /api/auth/telegram [post]
func (h *TelegramHandler) Authenticate(c *gin.Context) {
	raw := middleware.ExtractInitData(c)

	user, err := h.authService.Authenticate(c.Request.Context(), raw)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, user)
}
