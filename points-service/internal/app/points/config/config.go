package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config содержит все настройки Points Service
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Cron     CronConfig
	Log      LogConfig
}

type ServerConfig struct {
	Host string // Адрес хоста (по умолчанию 0.0.0.0)
	Port string // Порт сервера (по умолчанию 8085)
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string // disable/require/verify-full
	MaxOpen  int    // Максимум открытых соединений в пуле
	MaxIdle  int
}

// RedisConfig - кеш суммарных баллов пользователя
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	TotalTTL time.Duration // Сколько живет закешированная сумма баллов
	Enabled  bool
}

// KafkaConfig - топик событий отзывов. Producer публикует ADD/MOD/DELETE
// после изменения отзыва, consumer раздает по ним баллы.
type KafkaConfig struct {
	Brokers         []string
	Topic           string
	GroupID         string
	MinBytes        int
	MaxBytes        int
	ProducerEnabled bool
	ConsumerEnabled bool // Автоматическое начисление баллов из топика
}

type CronConfig struct {
	ReconcileLevels string // Расписание пересчета уровней, пустая строка отключает задачу
}

type LogConfig struct {
	Level        string
	LogstashAddr string
}

// Load загружает конфигурацию из переменных окружения
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnv("SERVER_PORT", "8085"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "points_service"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxOpen:  getEnvInt("DB_MAX_OPEN_CONNS", 25),
			MaxIdle:  getEnvInt("DB_MAX_IDLE_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			TotalTTL: time.Duration(getEnvInt("REDIS_POINTS_TTL_SECONDS", 300)) * time.Second,
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		Kafka: KafkaConfig{
			Brokers:         getEnvList("KAFKA_BROKERS", "localhost:9092"),
			Topic:           getEnv("KAFKA_TOPIC", "review_events"),
			GroupID:         getEnv("KAFKA_GROUP_ID", "points-distributor"),
			MinBytes:        getEnvInt("KAFKA_MIN_BYTES", 1),
			MaxBytes:        getEnvInt("KAFKA_MAX_BYTES", 10e6),
			ProducerEnabled: getEnvBool("KAFKA_PRODUCER_ENABLED", true),
			ConsumerEnabled: getEnvBool("POINTS_AUTO_DISPATCH", false),
		},
		Cron: CronConfig{
			ReconcileLevels: os.Getenv("CRON_RECONCILE_LEVELS"),
		},
		Log: LogConfig{
			Level:        getEnv("LOG_LEVEL", "info"),
			LogstashAddr: getEnv("LOGSTASH_ADDR", ""),
		},
	}

	if _, ok := os.LookupEnv("CRON_RECONCILE_LEVELS"); !ok {
		cfg.Cron.ReconcileLevels = "@hourly"
	}

	if cfg.Kafka.ConsumerEnabled && len(cfg.Kafka.Brokers) == 0 {
		return nil, fmt.Errorf("POINTS_AUTO_DISPATCH requires KAFKA_BROKERS")
	}

	return cfg, nil
}

// DSN возвращает строку подключения к PostgreSQL в формате libpq
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func (c *ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

func (c *RedisConfig) Address() string {
	return c.Host + ":" + c.Port
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// getEnvList разбирает список через запятую: "kafka-1:9092,kafka-2:9092"
func getEnvList(key, defaultValue string) []string {
	raw := getEnv(key, defaultValue)

	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
