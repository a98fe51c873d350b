package service

import (
	"context"
	"time"

	"github.com/zahratun/orders-service/internal/domain"
	"github.com/zahratun/orders-service/internal/pkg/logger"
	"github.com/zahratun/orders-service/internal/port"
)

// TelegramAuthService implements port.TelegramAuthService interface.
// TelegramAuthService реализует интерфейс port.TelegramAuthService.
//
// Authenticates Mini App customers: verifies the signed init-data payload
// and upserts the customer profile so it always carries the latest values
// Telegram reported.
// Аутентифицирует клиентов Mini App: проверяет подписанный init-data и
// обновляет профиль клиента, чтобы он всегда нёс последние данные от
// Telegram.
type TelegramAuthService struct {
	verifier port.InitDataVerifier       // Init-data verifier / Проверка init-data
	userRepo port.TelegramUserRepository // Customer repository / Репозиторий клиентов
	logger   *logger.Logger              // Logger instance / Экземпляр логгера
}

// NewTelegramAuthService creates a new TelegramAuthService instance.
// NewTelegramAuthService создаёт новый экземпляр TelegramAuthService.
func NewTelegramAuthService(
	verifier port.InitDataVerifier,
	userRepo port.TelegramUserRepository,
	log *logger.Logger,
) *TelegramAuthService {
	return &TelegramAuthService{
		verifier: verifier,
		userRepo: userRepo,
		logger:   log.WithComponent("telegram_auth_service"),
	}
}

// Authenticate verifies raw init-data and upserts the customer profile.
// Any verification failure yields an unauthorized error, never partial data.
// Authenticate проверяет сырой init-data и обновляет профиль клиента.
// Любой сбой проверки даёт ошибку авторизации, никогда частичные данные.
func (s *TelegramAuthService) Authenticate(ctx context.Context, rawInitData string) (*domain.TelegramUser, error) {
	log := s.logger.WithContext(ctx)

	identity, err := s.verifier.Verify(rawInitData)
	if err != nil {
		log.Warn("init data verification failed", "error", err)
		return nil, err
	}

	user := &domain.TelegramUser{
		TgID:         identity.TgID,
		Username:     identity.Username,
		FirstName:    identity.FirstName,
		LastName:     identity.LastName,
		LanguageCode: identity.LanguageCode,
		IsPremium:    identity.IsPremium,
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}

	if err := s.userRepo.Upsert(ctx, user); err != nil {
		log.Error("failed to upsert customer profile", "tg_id", identity.TgID, "error", err)
		return nil, err
	}

	log.Debug("customer authenticated", "tg_id", identity.TgID)
	return user, nil
}

// Ensure interface compliance. / Проверка соответствия интерфейсу.
var _ port.TelegramAuthService = (*TelegramAuthService)(nil)
