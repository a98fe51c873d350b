package telegram_test

import (
	"context"
	"net/url"
	"strconv"
	"testing"
	"time"

	initdata "github.com/telegram-mini-apps/init-data-golang"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zahratun/orders-service/internal/adapter/telegram"
	"github.com/zahratun/orders-service/internal/pkg/apperror"
)

const testBotToken = "7342037359:AAFTV1aZK_oMchQUXIZWWbL5WL7hk9Ei0Wc"

// signInitData builds a raw init-data query string signed with the given
// bot token, the same way the Telegram client would.
func signInitData(t *testing.T, botToken string, authDate time.Time, payload map[string]string) string {
	t.Helper()

	hash := initdata.Sign(payload, botToken, authDate)

	values := url.Values{}
	for k, v := range payload {
		values.Set(k, v)
	}
	values.Set("auth_date", strconv.FormatInt(authDate.Unix(), 10))
	values.Set("hash", hash)
	return values.Encode()
}

func TestInitDataVerifier_Verify(t *testing.T) {
	userJSON := `{"id":6601562775,"first_name":"Dilshod","last_name":"U","username":"dilshod_u","language_code":"uz","is_premium":true}`

	t.Run("valid init data", func(t *testing.T) {
		raw := signInitData(t, testBotToken, time.Now(), map[string]string{
			"query_id": "AAHdF6IQAAAAAN0XohDhrOrc",
			"user":     userJSON,
		})

		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		identity, err := verifier.Verify(raw)

		require.NoError(t, err)
		assert.Equal(t, int64(6601562775), identity.TgID)
		assert.Equal(t, "Dilshod", identity.FirstName)
		assert.Equal(t, "U", identity.LastName)
		assert.Equal(t, "dilshod_u", identity.Username)
		assert.Equal(t, "uz", identity.LanguageCode)
		assert.True(t, identity.IsPremium)
	})

	t.Run("empty init data", func(t *testing.T) {
		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		_, err := verifier.Verify("")

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("wrong bot token", func(t *testing.T) {
		raw := signInitData(t, "1111111111:wrong-token", time.Now(), map[string]string{
			"user": userJSON,
		})

		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		_, err := verifier.Verify(raw)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("tampered payload", func(t *testing.T) {
		raw := signInitData(t, testBotToken, time.Now(), map[string]string{
			"user": userJSON,
		})
		tampered := raw + "&premium_override=1"

		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		_, err := verifier.Verify(tampered)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("expired auth date", func(t *testing.T) {
		raw := signInitData(t, testBotToken, time.Now().Add(-48*time.Hour), map[string]string{
			"user": userJSON,
		})

		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		_, err := verifier.Verify(raw)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})

	t.Run("no user object", func(t *testing.T) {
		raw := signInitData(t, testBotToken, time.Now(), map[string]string{
			"query_id": "AAHdF6IQAAAAAN0XohDhrOrc",
		})

		verifier := telegram.NewInitDataVerifier(testBotToken, 24*time.Hour)
		_, err := verifier.Verify(raw)

		appErr, ok := apperror.AsAppError(err)
		require.True(t, ok)
		assert.Equal(t, apperror.CodeUnauthorized, appErr.Code)
	})
}

func TestNotifier_NilBotIsNoop(t *testing.T) {
	notifier := telegram.NewNotifier(nil, 0)

	assert.NoError(t, notifier.NotifyAdminsNewOrder(context.Background(), nil))
	assert.NoError(t, notifier.NotifyCustomerStatus(context.Background(), 1, "preparing"))
}
