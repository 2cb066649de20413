package main

import (
	"context"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/config"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/app"
	redisDriver "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/cache/redis"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/database/elasticsearch"
	postgresDriver "github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/database/postgres"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/infrastructure/message-queue/kafka"
	"github.com/rs/zerolog/log"
)

func main() {
	config := config.CreateNewConfig()
	app.ConfigureLogger(config.LogLevel)

	db, err := postgresDriver.GetDBInstance(config.PostgreSQLConfig.DBUsername, config.PostgreSQLConfig.DBPassword, config.PostgreSQLConfig.DBHost, config.PostgreSQLConfig.DBPort, config.PostgreSQLConfig.DBName)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to the database")
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgresDriver.EnsureSchema(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to prepare the database schema")
	}

	esClient, err := elasticsearch.CreateElasticsearchClient(config.ElasticsearchConfig.DBHost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to elasticsearch")
	}

	cache := redisDriver.CreateRedisClient(config.RedisConfig.Address, config.RedisConfig.Password, config.RedisConfig.DB)
	if cache != nil {
		defer cache.Close()
	}

	kafkaWriter := kafka.CreateKafkaWriter(config)
	defer kafkaWriter.Close()

	server := app.App{
		DB:        db,
		Cache:     cache,
		Search:    esClient,
		Publisher: kafka.CreateEventPublisher(kafkaWriter),
		Config:    config,
	}

	server.Start()
}
