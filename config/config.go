package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	ServicePort         string
	MetricsPort         string
	LogLevel            string
	JWTSecret           string
	PostgreSQLConfig    PostgreSQLConfig
	ElasticsearchConfig ElasticsearchConfig
	KafkaConfig         KafkaConfig
	RedisConfig         RedisConfig
	TracingConfig       TracingConfig
}

type PostgreSQLConfig struct {
	DBHost     string
	DBPort     string
	DBName     string
	DBUsername string
	DBPassword string
}

type ElasticsearchConfig struct {
	DBHost string
	Index  string
}

type KafkaConfig struct {
	BrokerAddress string
	BrokerTopic   string
	GroupID       string
}

type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

type TracingConfig struct {
	CollectorHost string
}

func CreateNewConfig() *Config {
	godotenv.Load(".env")

	conf := Config{
		ServicePort: getEnv("SERVICE_PORT", "8080"),
		MetricsPort: getEnv("METRICS_PORT", "9090"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
		PostgreSQLConfig: PostgreSQLConfig{
			DBHost:     os.Getenv("DB_HOST"),
			DBPort:     getEnv("DB_PORT", "5432"),
			DBName:     os.Getenv("DB_NAME"),
			DBUsername: os.Getenv("DB_USERNAME"),
			DBPassword: os.Getenv("DB_PASSWORD"),
		},
		ElasticsearchConfig: ElasticsearchConfig{
			DBHost: os.Getenv("ELASTIC_SEARCH_HOST"),
			Index:  getEnv("ELASTIC_SEARCH_INDEX", "products"),
		},
		KafkaConfig: KafkaConfig{
			BrokerAddress: os.Getenv("BROKER_ADDRESS"),
			BrokerTopic:   getEnv("BROKER_TOPIC", "product-events"),
			GroupID:       getEnv("BROKER_GROUP_ID", "catalog-indexer"),
		},
		RedisConfig: RedisConfig{
			Address:  os.Getenv("REDIS_ADDRESS"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		TracingConfig: TracingConfig{
			CollectorHost: os.Getenv("COLLECTOR_HOST"),
		},
	}

	redisDB, err := strconv.Atoi(os.Getenv("REDIS_DB"))
	if err == nil {
		conf.RedisConfig.DB = redisDB
	}

	return &conf
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}

	return fallback
}
