// Package redis provides Redis-based cache implementations.
// Пакет redis предоставляет реализации кэша на базе Redis.
//
// This package implements all cache interfaces defined in port package
// using Redis as the underlying storage.
// Этот пакет реализует все интерфейсы кэша, определённые в пакете port,
// используя Redis в качестве хранилища.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/zahratun/orders-service/internal/pkg/apperror"
	"github.com/zahratun/orders-service/internal/port"
)

// Cache implements port.Cache interface using Redis.
// Cache реализует интерфейс port.Cache с использованием Redis.
//
// Provides basic key-value caching operations with expiration support.
// Предоставляет базовые операции кэширования "ключ-значение" с поддержкой истечения срока.
type Cache struct {
	client *redis.Client // Redis client / Клиент Redis
}

// NewCache creates a new Redis Cache instance.
// NewCache создаёт новый экземпляр Redis Cache.
func NewCache(client *redis.Client) *Cache {
	return &Cache{client: client}
}

// Get retrieves a value from the cache by key.
// Get получает значение из кэша по ключу.
// Returns empty string and error if key doesn't exist.
// Возвращает пустую строку и ошибку, если ключ не существует.
func (c *Cache) Get(ctx context.Context, key string) (string, error) {
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", apperror.NotFound("cache key", key)
		}
		return "", apperror.Internal("failed to get cache value", err)
	}
	return val, nil
}

// Set stores a value in the cache with an expiration time.
// Set сохраняет значение в кэше с временем истечения.
func (c *Cache) Set(ctx context.Context, key, value string, expiration time.Duration) error {
	if err := c.client.Set(ctx, key, value, expiration).Err(); err != nil {
		return apperror.Internal("failed to set cache value", err)
	}
	return nil
}

// Delete removes a value from the cache.
// Delete удаляет значение из кэша.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := c.client.Del(ctx, key).Err(); err != nil {
		return apperror.Internal("failed to delete cache key", err)
	}
	return nil
}

// DeleteByPattern removes all values matching a glob pattern.
// DeleteByPattern удаляет все значения, соответствующие шаблону glob.
// Uses SCAN to iterate through matching keys safely.
// Использует SCAN для безопасной итерации по совпадающим ключам.
func (c *Cache) DeleteByPattern(ctx context.Context, pattern string) error {
	iter := c.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			return apperror.Internal("failed to delete cache key", err)
		}
	}
	if err := iter.Err(); err != nil {
		return apperror.Internal("failed to scan cache keys", err)
	}
	return nil
}

// Exists checks if a key exists in the cache.
// Exists проверяет, существует ли ключ в кэше.
func (c *Cache) Exists(ctx context.Context, key string) (bool, error) {
	count, err := c.client.Exists(ctx, key).Result()
	if err != nil {
		return false, apperror.Internal("failed to check cache key existence", err)
	}
	return count > 0, nil
}

// isCacheMiss reports whether an error from Cache.Get is a plain miss.
// isCacheMiss сообщает, является ли ошибка от Cache.Get обычным промахом.
func isCacheMiss(err error) bool {
	appErr, ok := apperror.AsAppError(err)
	return ok && appErr.Code == apperror.CodeNotFound
}

// Compile-time interface compliance check / Проверка соответствия интерфейсу
var _ port.Cache = (*Cache)(nil)

// AuthorizationCache implements port.AuthorizationCache using Redis.
// AuthorizationCache реализует интерфейс port.AuthorizationCache с использованием Redis.
//
// Caches RBAC authorization decisions to improve performance by avoiding
// repeated database lookups for the same access checks.
// Кэширует решения RBAC авторизации для улучшения производительности,
// избегая повторных запросов к БД для одних и тех же проверок доступа.
type AuthorizationCache struct {
	cache  *Cache // Underlying key-value cache / Базовый кэш "ключ-значение"
	prefix string // Key prefix / Префикс ключа
}

// NewAuthorizationCache creates a new AuthorizationCache instance.
// NewAuthorizationCache создаёт новый экземпляр AuthorizationCache.
func NewAuthorizationCache(client *redis.Client) *AuthorizationCache {
	return &AuthorizationCache{
		cache:  NewCache(client),
		prefix: "authz:decision",
	}
}

// GetDecision retrieves a cached authorization decision.
// GetDecision получает закэшированное решение авторизации.
// Returns: allowed (the decision), found (whether it was in cache), error.
// Возвращает: allowed (решение), found (было ли в кэше), error.
func (c *AuthorizationCache) GetDecision(ctx context.Context, adminID int64, resource, action string) (allowed, found bool, err error) {
	key := c.buildKey(adminID, resource, action)
	val, err := c.cache.Get(ctx, key)
	if err != nil {
		if isCacheMiss(err) {
			return false, false, nil // Not found in cache / Не найдено в кэше
		}
		return false, false, err
	}
	return val == "1", true, nil // "1" = allowed, "0" = denied / "1" = разрешено, "0" = запрещено
}

// SetDecision caches an authorization decision.
// SetDecision кэширует решение авторизации.
func (c *AuthorizationCache) SetDecision(ctx context.Context, adminID int64, resource, action string, allowed bool, expiration time.Duration) error {
	key := c.buildKey(adminID, resource, action)
	value := "0" // denied / запрещено
	if allowed {
		value = "1" // allowed / разрешено
	}
	return c.cache.Set(ctx, key, value, expiration)
}

// InvalidateAdmin invalidates all cached decisions for a specific admin.
// InvalidateAdmin инвалидирует все закэшированные решения для конкретного администратора.
// Call this when admin roles change.
// Вызывайте при изменении ролей администратора.
func (c *AuthorizationCache) InvalidateAdmin(ctx context.Context, adminID int64) error {
	pattern := fmt.Sprintf("%s:%d:*", c.prefix, adminID)
	return c.cache.DeleteByPattern(ctx, pattern)
}

// InvalidateAll invalidates all cached authorization decisions.
// InvalidateAll инвалидирует все закэшированные решения авторизации.
// Call this when RBAC policies change.
// Вызывайте при изменении политик RBAC.
func (c *AuthorizationCache) InvalidateAll(ctx context.Context) error {
	pattern := fmt.Sprintf("%s:*", c.prefix)
	return c.cache.DeleteByPattern(ctx, pattern)
}

// buildKey constructs a cache key for authorization decision.
// buildKey создаёт ключ кэша для решения авторизации.
func (c *AuthorizationCache) buildKey(adminID int64, resource, action string) string {
	return fmt.Sprintf("%s:%d:%s:%s", c.prefix, adminID, resource, action)
}

// RateLimitCache implements port.RateLimitCache using Redis.
// RateLimitCache реализует интерфейс port.RateLimitCache с использованием Redis.
//
// Provides rate limiting functionality using Redis atomic counters.
// Предоставляет функциональность ограничения частоты запросов
// с использованием атомарных счётчиков Redis.
type RateLimitCache struct {
	client *redis.Client // Redis client / Клиент Redis
	prefix string        // Key prefix / Префикс ключа
}

// NewRateLimitCache creates a new RateLimitCache instance.
// NewRateLimitCache создаёт новый экземпляр RateLimitCache.
func NewRateLimitCache(client *redis.Client) *RateLimitCache {
	return &RateLimitCache{
		client: client,
		prefix: "ratelimit",
	}
}

// Increment increments a counter and returns the new value.
// Increment увеличивает счётчик и возвращает новое значение.
// Sets expiration if this is a new key.
// Устанавливает время истечения, если это новый ключ.
func (c *RateLimitCache) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	fullKey := fmt.Sprintf("%s:%s", c.prefix, key)

	// Use pipeline for atomic INCR + EXPIRE
	// Используем pipeline для атомарных INCR + EXPIRE
	pipe := c.client.Pipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.Expire(ctx, fullKey, expiration)

	_, err := pipe.Exec(ctx)
	if err != nil {
		return 0, apperror.Internal("failed to increment rate limit counter", err)
	}

	return incr.Val(), nil
}

// GetCount retrieves the current count for a rate limit key.
// GetCount получает текущее значение счётчика для ключа rate limit.
func (c *RateLimitCache) GetCount(ctx context.Context, key string) (int64, error) {
	fullKey := fmt.Sprintf("%s:%s", c.prefix, key)
	val, err := c.client.Get(ctx, fullKey).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil // Key doesn't exist, count is 0 / Ключ не существует, счётчик равен 0
		}
		return 0, apperror.Internal("failed to get rate limit count", err)
	}
	return val, nil
}

// Reset resets the counter for a key.
// Reset сбрасывает счётчик для ключа.
// Use this after successful login to reset failed attempt counter.
// Используйте после успешного входа для сброса счётчика неудачных попыток.
func (c *RateLimitCache) Reset(ctx context.Context, key string) error {
	fullKey := fmt.Sprintf("%s:%s", c.prefix, key)
	if err := c.client.Del(ctx, fullKey).Err(); err != nil {
		return apperror.Internal("failed to reset rate limit counter", err)
	}
	return nil
}

// TokenCache implements port.TokenCache using Redis.
// TokenCache реализует интерфейс port.TokenCache с использованием Redis.
//
// Provides token blacklisting functionality for immediate token revocation.
// Предоставляет функциональность блокировки токенов для немедленного отзыва.
type TokenCache struct {
	cache  *Cache // Underlying key-value cache / Базовый кэш "ключ-значение"
	prefix string // Key prefix / Префикс ключа
}

// NewTokenCache creates a new TokenCache instance.
// NewTokenCache создаёт новый экземпляр TokenCache.
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{
		cache:  NewCache(client),
		prefix: "token:blacklist",
	}
}

// BlacklistToken adds a token to the blacklist.
// BlacklistToken добавляет токен в чёрный список.
// The token will be rejected until the blacklist entry expires.
// Токен будет отклоняться, пока не истечёт запись в чёрном списке.
func (c *TokenCache) BlacklistToken(ctx context.Context, tokenID string, expiration time.Duration) error {
	key := fmt.Sprintf("%s:%s", c.prefix, tokenID)
	return c.cache.Set(ctx, key, "1", expiration)
}

// IsBlacklisted checks if a token is in the blacklist.
// IsBlacklisted проверяет, находится ли токен в чёрном списке.
func (c *TokenCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	key := fmt.Sprintf("%s:%s", c.prefix, tokenID)
	return c.cache.Exists(ctx, key)
}

// MenuCache implements port.MenuCache using Redis.
// MenuCache реализует интерфейс port.MenuCache с использованием Redis.
//
// The assembled customer menu tree is cached as a single JSON document.
// Собранное клиентское дерево меню кэшируется одним JSON-документом.
type MenuCache struct {
	cache *Cache // Underlying key-value cache / Базовый кэш "ключ-значение"
	key   string // Cache key / Ключ кэша
}

// NewMenuCache creates a new MenuCache instance.
// NewMenuCache создаёт новый экземпляр MenuCache.
func NewMenuCache(client *redis.Client) *MenuCache {
	return &MenuCache{
		cache: NewCache(client),
		key:   "menu:tree",
	}
}

// GetMenu retrieves the cached menu JSON.
// Returns raw JSON, found flag, and error.
// GetMenu получает закэшированный JSON меню.
// Возвращает сырой JSON, флаг наличия и ошибку.
func (c *MenuCache) GetMenu(ctx context.Context) ([]byte, bool, error) {
	val, err := c.cache.Get(ctx, c.key)
	if err != nil {
		if isCacheMiss(err) {
			return nil, false, nil // Not cached / Не закэшировано
		}
		return nil, false, err
	}
	return []byte(val), true, nil
}

// SetMenu caches the assembled menu JSON with an expiration.
// SetMenu кэширует собранный JSON меню с временем истечения.
func (c *MenuCache) SetMenu(ctx context.Context, menu []byte, expiration time.Duration) error {
	return c.cache.Set(ctx, c.key, string(menu), expiration)
}

// Invalidate drops the cached menu after a catalog change.
// Invalidate сбрасывает кэш меню после изменения каталога.
func (c *MenuCache) Invalidate(ctx context.Context) error {
	return c.cache.Delete(ctx, c.key)
}
