// Package middleware provides HTTP middleware components for the Gin framework.
// Пакет middleware предоставляет компоненты HTTP middleware для фреймворка Gin.
package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for HTTP requests.
// Prometheus метрики для HTTP запросов.
var (
	// httpRequestsTotal counts total HTTP requests by method, path, and status.
	// httpRequestsTotal подсчитывает общее количество HTTP запросов по методу, пути и статусу.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration measures HTTP request duration in seconds.
	// httpRequestDuration измеряет длительность HTTP запросов в секундах.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "orders_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"method", "path"},
	)

	// httpRequestsInFlight tracks current number of in-flight requests.
	// httpRequestsInFlight отслеживает текущее количество обрабатываемых запросов.
	httpRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "orders_http_requests_in_flight",
			Help: "Current number of HTTP requests being served",
		},
	)

	// authAttemptsTotal counts authentication attempts by result.
	// authAttemptsTotal подсчитывает попытки аутентификации по результату.
	authAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_auth_attempts_total",
			Help: "Total number of authentication attempts",
		},
		[]string{"result"},
	)

	// authzDecisionsTotal counts authorization decisions by result, resource, and action.
	// authzDecisionsTotal подсчитывает решения авторизации по результату, ресурсу и действию.
	authzDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_authz_decisions_total",
			Help: "Total number of authorization decisions",
		},
		[]string{"result", "resource", "action"},
	)

	// cacheHitsTotal counts cache operations by cache name and result (hit/miss).
	// cacheHitsTotal подсчитывает операции кэша по имени кэша и результату (hit/miss).
	cacheHitsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_cache_hits_total",
			Help: "Total number of cache operations",
		},
		[]string{"cache", "result"},
	)

	// ordersCreatedTotal counts created orders by delivery mode.
	// ordersCreatedTotal подсчитывает созданные заказы по режиму доставки.
	ordersCreatedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_created_total",
			Help: "Total number of orders created",
		},
		[]string{"delivery_mode"},
	)

	// orderTransitionsTotal counts order status transitions by edge.
	// orderTransitionsTotal подсчитывает смены статусов заказов по рёбрам.
	orderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "orders_status_transitions_total",
			Help: "Total number of order status transitions",
		},
		[]string{"from", "to"},
	)
)

// Metrics returns a middleware that records Prometheus metrics for HTTP requests.
// Metrics возвращает middleware, который записывает Prometheus метрики для HTTP запросов.
//
// Records request count, duration, and in-flight requests.
// Записывает количество запросов, длительность и запросы в обработке.
func Metrics() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unknown" // Unknown route / Неизвестный маршрут
		}

		// Increment in-flight counter / Увеличиваем счётчик запросов в обработке
		httpRequestsInFlight.Inc()
		defer httpRequestsInFlight.Dec()

		c.Next()

		// Record metrics after request completion / Записываем метрики после завершения запроса
		status := strconv.Itoa(c.Writer.Status())
		duration := time.Since(start).Seconds()

		httpRequestsTotal.WithLabelValues(c.Request.Method, path, status).Inc()
		httpRequestDuration.WithLabelValues(c.Request.Method, path).Observe(duration)
	}
}

// RecordAuthAttempt records an authentication attempt in metrics.
// RecordAuthAttempt записывает попытку аутентификации в метрики.
func RecordAuthAttempt(success bool) {
	result := "failure" // Неудача
	if success {
		result = "success" // Успех
	}
	authAttemptsTotal.WithLabelValues(result).Inc()
}

// RecordAuthzDecision records an authorization decision in metrics.
// RecordAuthzDecision записывает решение авторизации в метрики.
func RecordAuthzDecision(allowed bool, resource, action string) {
	result := "denied" // Запрещено
	if allowed {
		result = "allowed" // Разрешено
	}
	authzDecisionsTotal.WithLabelValues(result, resource, action).Inc()
}

// RecordCacheHit records a cache operation result in metrics.
// RecordCacheHit записывает результат операции кэша в метрики.
func RecordCacheHit(cacheName string, hit bool) {
	result := "miss" // Промах
	if hit {
		result = "hit" // Попадание
	}
	cacheHitsTotal.WithLabelValues(cacheName, result).Inc()
}

// RecordOrderCreated records a created order in metrics.
// RecordOrderCreated записывает созданный заказ в метрики.
func RecordOrderCreated(deliveryMode string) {
	ordersCreatedTotal.WithLabelValues(deliveryMode).Inc()
}

// RecordOrderTransition records an order status transition in metrics.
// RecordOrderTransition записывает смену статуса заказа в метрики.
func RecordOrderTransition(from, to string) {
	orderTransitionsTotal.WithLabelValues(from, to).Inc()
}
