// Package telegram provides adapters for the Telegram platform:
// Mini App init-data verification and Bot API notifications.
// Пакет telegram предоставляет адаптеры для платформы Telegram:
// проверку init-data Mini App и уведомления через Bot API.
package telegram

import (
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// InitDataVerifier validates Telegram Mini App init-data signatures.
// InitDataVerifier проверяет подписи init-data Telegram Mini App.
//
// Verification covers both the HMAC signature (keyed by the bot token)
// and the freshness of auth_date; stale or tampered payloads are
// rejected before any identity is produced.
// Проверка охватывает и HMAC-подпись (с ключом от токена бота), и
// свежесть auth_date; устаревшие или подделанные данные отклоняются
// до создания какой-либо идентичности.
type InitDataVerifier struct {
	botToken string        // Bot token used as HMAC key / Токен бота как ключ HMAC
	ttl      time.Duration // Max age of auth_date / Максимальный возраст auth_date
}

// NewInitDataVerifier creates a new InitDataVerifier.
// NewInitDataVerifier создаёт новый InitDataVerifier.
func NewInitDataVerifier(botToken string, ttl time.Duration) *InitDataVerifier {
	return &InitDataVerifier{
		botToken: botToken,
		ttl:      ttl,
	}
}

// Verify checks the signature and freshness of raw init-data and
// returns the verified customer identity.
// Verify проверяет подпись и свежесть сырых init-data и возвращает
// проверенную идентичность клиента.
func (v *InitDataVerifier) Verify(raw string) (*domain.TelegramIdentity, error) {
	if raw == "" {
		return nil, apperror.Unauthorized("init data is missing")
	}

	if err := initdata.Validate(raw, v.botToken, v.ttl); err != nil {
		return nil, apperror.Unauthorized("invalid init data")
	}

	parsed, err := initdata.Parse(raw)
	if err != nil {
		return nil, apperror.Unauthorized("malformed init data")
	}

	// A payload can carry a valid signature yet no user object
	// (e.g. data signed for a channel). Reject those.
	// Данные могут нести корректную подпись, но без объекта user
	// (например, данные канала). Такие отклоняем.
	if parsed.User.ID == 0 {
		return nil, apperror.Unauthorized("init data has no user")
	}

	return &domain.TelegramIdentity{
		TgID:         parsed.User.ID,
		Username:     parsed.User.Username,
		FirstName:    parsed.User.FirstName,
		LastName:     parsed.User.LastName,
		LanguageCode: parsed.User.LanguageCode,
		IsPremium:    parsed.User.IsPremium,
		AuthDate:     parsed.AuthDate().Unix(),
	}, nil
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.InitDataVerifier = (*InitDataVerifier)(nil)
