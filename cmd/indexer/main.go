package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/alimikegami/pos-microservices/catalog-service/config"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/app"
	redisDriver "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/cache/redis"
	circuitbreaker "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/circuit-breaker"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/database/elasticsearch"
	postgresDriver "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/database/postgres"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/repository"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/service"
	"github.com/rs/zerolog/log"
)

// indexer keeps the search index in line with postgres by applying the
// product events published by the webservice.
func main() {
	config := config.CreateNewConfig()
	app.ConfigureLogger(config.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := postgresDriver.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	esClient, err := elasticsearch.CreateElasticsearchClient(config.ElasticsearchConfig.DBHost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to elasticsearch")
	}

	cache := redisDriver.CreateRedisClient(config.RedisConfig.Address, config.RedisConfig.Password, config.RedisConfig.DB)
	if cache != nil {
		defer cache.Close()
	}

	elasticSearchRepo := repository.CreateNewElasticSearchRepository(esClient, config.ElasticsearchConfig.Index, circuitbreaker.CreateCircuitBreaker("elasticsearch"))
	if err := elasticSearchRepo.EnsureIndex(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare the search index")
	}

	kafkaReader := kafka.CreateKafkaReader(config)
	defer kafkaReader.Close()

	svc := service.CreateIndexerService(
		repository.CreateNewProductRepository(db),
		repository.CreateNewCategoryRepository(db, cache),
		elasticSearchRepo,
		kafkaReader,
	)

	log.Info().Str("topic", config.KafkaConfig.BrokerTopic).Str("group", config.KafkaConfig.GroupID).Msg("indexer started")

	svc.ConsumeEvent(ctx)

	log.Info().Msg("indexer stopped")
}
