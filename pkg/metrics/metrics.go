package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// =============================================================================
// HTTP
// =============================================================================

// HttpRequestsTotal - количество HTTP запросов
// rate(http_requests_total{service="points-service",path="/events"}[5m])
var HttpRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	},
	[]string{"service", "method", "path", "status"},
)

// HttpRequestDuration - латентность ответа по маршруту
var HttpRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
	},
	[]string{"service", "method", "path"},
)

var HttpRequestsInFlight = promauto.NewGaugeVec(
	prometheus.GaugeOpts{
		Name: "http_requests_in_flight",
		Help: "Current number of HTTP requests being processed",
	},
	[]string{"service"},
)

// =============================================================================
// PostgreSQL
// =============================================================================

// DbQueryDuration - время запросов репозиториев
// Labels: service, operation (select, insert, update, delete, tx), table
var DbQueryDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "db_query_duration_seconds",
		Help:    "Duration of database queries in seconds",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
	},
	[]string{"service", "operation", "table"},
)

// DbErrors - ошибки базы, включая конфликты сериализации
var DbErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_errors_total",
		Help: "Total number of database errors",
	},
	[]string{"service", "operation"},
)

// DbTxConflicts - транзакции, отклоненные из-за конфликта сериализации (SQLSTATE 40001)
var DbTxConflicts = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "db_tx_serialization_conflicts_total",
		Help: "Total number of serializable transactions rejected by the database",
	},
	[]string{"service"},
)

// =============================================================================
// Redis
// =============================================================================

var RedisCacheHits = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_hits_total",
		Help: "Total number of Redis cache hits",
	},
	[]string{"service", "key_prefix"},
)

var RedisCacheMisses = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_cache_misses_total",
		Help: "Total number of Redis cache misses",
	},
	[]string{"service", "key_prefix"},
)

var RedisOperationDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "redis_operation_duration_seconds",
		Help:    "Duration of Redis operations in seconds",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1},
	},
	[]string{"service", "operation"},
)

var RedisErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "redis_errors_total",
		Help: "Total number of Redis errors",
	},
	[]string{"service", "operation"},
)

// =============================================================================
// Kafka (топик review_events)
// =============================================================================

var KafkaMessagesProduced = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_produced_total",
		Help: "Total number of Kafka messages produced",
	},
	[]string{"service", "topic"},
)

// KafkaMessagesConsumed - сообщения, обработанные consumer
// Labels: outcome (committed, poison, retry)
var KafkaMessagesConsumed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_messages_consumed_total",
		Help: "Total number of Kafka messages consumed",
	},
	[]string{"service", "topic", "group", "outcome"},
)

var KafkaProduceDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_produce_duration_seconds",
		Help:    "Duration of Kafka produce operations",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
	},
	[]string{"service", "topic"},
)

var KafkaConsumeDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "kafka_consume_duration_seconds",
		Help:    "Duration of Kafka message processing",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10},
	},
	[]string{"service", "topic"},
)

var KafkaErrors = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "kafka_errors_total",
		Help: "Total number of Kafka errors",
	},
	[]string{"service", "topic", "operation"}, // produce, fetch, commit
)

// =============================================================================
// Business Метрики (начисление баллов за отзывы)
// =============================================================================

// PointEventsDistributed - обработанные события отзывов
// Labels: action (ADD, MOD, DELETE), outcome (awarded, skipped, failed)
var PointEventsDistributed = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "point_events_distributed_total",
		Help: "Total number of review events processed by the point distributor",
	},
	[]string{"action", "outcome"},
)

// PointsAwarded - записанные строки баллов по причине начисления
var PointsAwarded = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "points_awarded_total",
		Help: "Total number of point ledger entries written",
	},
	[]string{"reason"},
)

// PointsScoreSum - суммарный score записанных баллов (может уменьшаться при удалении отзывов)
var PointsScoreSum = promauto.NewGauge(
	prometheus.GaugeOpts{
		Name: "points_score_sum",
		Help: "Net score written to the point ledger since process start",
	},
)

// UserLevelChanges - изменения уровня пользователя
var UserLevelChanges = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "user_level_changes_total",
		Help: "Total number of user level changes",
	},
	[]string{"source", "to_level"}, // source: distributor, reconciler
)

// ReviewsWritten - изменения отзывов, которые порождают события
var ReviewsWritten = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "reviews_written_total",
		Help: "Total number of review lifecycle changes",
	},
	[]string{"action"},
)

// LevelReconcileRuns - запуски пересчета уровней по расписанию
var LevelReconcileRuns = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "level_reconcile_runs_total",
		Help: "Total number of level reconciliation runs",
	},
	[]string{"status"}, // success, failed
)

// LevelReconcileDuration - время полного пересчета уровней
var LevelReconcileDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Name:    "level_reconcile_duration_seconds",
		Help:    "Duration of a level reconciliation run",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 30, 60},
	},
)
