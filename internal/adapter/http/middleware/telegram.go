package middleware

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/zahratun/orders-service/internal/adapter/http/response"
	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// InitDataHeader carries the signed Mini App init-data on customer requests.
// InitDataHeader несёт подписанный init-data Mini App в клиентских запросах.
const InitDataHeader = "X-Telegram-Init-Data"

// initDataBody is the JSON body shape clients may post init-data in.
// initDataBody — форма JSON-тела, в котором клиенты могут передавать init-data.
type initDataBody struct {
	InitData string `json:"init_data"`
}

// ExtractInitData reads the raw init-data from the request.
//
// The X-Telegram-Init-Data header takes precedence; when it is absent the
// JSON body field "init_data" is used. The body is re-buffered so downstream
// binding still sees it.
// ExtractInitData читает сырой init-data из запроса.
//
// Заголовок X-Telegram-Init-Data имеет приоритет; при его отсутствии
// используется поле "init_data" из JSON-тела. Тело перебуферизуется, чтобы
// последующий binding по-прежнему его видел.
func ExtractInitData(c *gin.Context) string {
	if raw := c.GetHeader(InitDataHeader); raw != "" {
		return raw
	}

	if c.Request.Body == nil {
		return ""
	}

	bodyBytes, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return ""
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))

	var body initDataBody
	if err := json.Unmarshal(bodyBytes, &body); err != nil {
		return ""
	}
	return body.InitData
}

// TelegramAuth returns the customer authentication middleware.
//
// Every customer request must carry signed init-data; the middleware
// verifies it, refreshes the customer profile and stores the verified
// identity in the request context under "telegram_identity".
// TelegramAuth возвращает middleware аутентификации клиентов.
//
// Каждый клиентский запрос должен нести подписанный init-data; middleware
// проверяет его, обновляет профиль клиента и сохраняет проверенную
// идентичность в контексте запроса под ключом "telegram_identity".
func TelegramAuth(authService port.TelegramAuthService, log *logger.Logger) gin.HandlerFunc {
	mlog := log.WithComponent("telegram_auth_middleware")

	return func(c *gin.Context) {
		raw := ExtractInitData(c)

		user, err := authService.Authenticate(c.Request.Context(), raw)
		if err != nil {
			mlog.Debug("customer authentication rejected", "path", c.FullPath(), "error", err)
			response.Error(c, err)
			c.Abort()
			return
		}

		identity := &domain.TelegramIdentity{
			TgID:         user.TgID,
			Username:     user.Username,
			FirstName:    user.FirstName,
			LastName:     user.LastName,
			LanguageCode: user.LanguageCode,
			IsPremium:    user.IsPremium,
		}
		c.Set("telegram_identity", identity)

		// Add customer ID to logger context / Добавляем ID клиента в контекст логгера
		ctx := logger.WithUserIDContext(c.Request.Context(), user.TgID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
