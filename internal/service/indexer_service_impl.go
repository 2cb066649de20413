package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/repository"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/cenkalti/backoff/v4"
	"github.com/rs/zerolog/log"
	"github.com/segmentio/kafka-go"
)

type IndexerServiceImpl struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	elasticSearchRepo repository.ElasticSearchProductRepository
	kafkaReader       MessageReader
	newBackOff        func() backoff.BackOff
}

// retryBackOff never gives up on its own. A message keeps its partition
// until it is applied or the indexer shuts down.
func retryBackOff() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxInterval = time.Minute
	b.MaxElapsedTime = 0

	return b
}

func CreateIndexerService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, elasticSearchRepo repository.ElasticSearchProductRepository, kafkaReader MessageReader) IndexerService {
	return &IndexerServiceImpl{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		elasticSearchRepo: elasticSearchRepo,
		kafkaReader:       kafkaReader,
		newBackOff:        retryBackOff,
	}
}

// ConsumeEvent applies product events to the search index until ctx is
// cancelled or the reader is closed. An offset is committed once its event
// is applied or found to be unusable. Temporary failures are retried, so a
// message is never skipped while the indexer is running.
func (s *IndexerServiceImpl) ConsumeEvent(ctx context.Context) {
	for {
		msg, err := s.kafkaReader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, io.EOF) {
				return
			}
			log.Error().Err(err).Str("component", "ConsumeEvent").Msg("error reading kafka message")
			continue
		}

		if err := s.applyMessage(ctx, msg); err != nil {
			// shutting down, the message is redelivered on restart
			return
		}

		if err := s.kafkaReader.CommitMessages(ctx, msg); err != nil {
			if ctx.Err() != nil {
				return
			}
			log.Error().Err(err).Str("component", "ConsumeEvent").Int64("offset", msg.Offset).Msg("error committing kafka message")
		}
	}
}

// applyMessage only fails when ctx ends before the event could be applied.
func (s *IndexerServiceImpl) applyMessage(ctx context.Context, msg kafka.Message) error {
	var receivedMsg dto.KafkaMessage
	if err := json.Unmarshal(msg.Value, &receivedMsg); err != nil {
		log.Error().Err(err).Str("component", "ConsumeEvent").Str("key", string(msg.Key)).Msg("dropping malformed kafka message")
		return nil
	}

	operation := func() error {
		err := s.HandleEvent(ctx, receivedMsg)
		if errors.Is(err, errs.ErrMalformedEvent) || errors.Is(err, errs.ErrRejected) {
			return backoff.Permanent(err)
		}

		return err
	}

	notify := func(err error, wait time.Duration) {
		log.Warn().Err(err).Str("component", "ConsumeEvent").Str("event_type", receivedMsg.EventType).Dur("retry_in", wait).Msg("retrying event")
	}

	err := backoff.RetryNotify(operation, backoff.WithContext(s.newBackOff(), ctx), notify)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Error().Err(err).Str("component", "ConsumeEvent").Str("event_type", receivedMsg.EventType).Str("key", string(msg.Key)).Msg("dropping event")
		return nil
	}

	log.Debug().Str("component", "ConsumeEvent").Str("event_type", receivedMsg.EventType).Str("key", string(msg.Key)).Msg("event applied")

	return nil
}

func (s *IndexerServiceImpl) HandleEvent(ctx context.Context, msg dto.KafkaMessage) (err error) {
	var event dto.ProductEvent
	dataBytes, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMalformedEvent, err)
	}
	if err := json.Unmarshal(dataBytes, &event); err != nil {
		return fmt.Errorf("%w: %v", errs.ErrMalformedEvent, err)
	}
	if event.ID <= 0 {
		return fmt.Errorf("%w: event %q carries no product id", errs.ErrMalformedEvent, msg.EventType)
	}

	switch msg.EventType {
	case dto.EventProductUpserted:
		return s.indexProduct(ctx, event.ID)
	case dto.EventProductDeleted:
		return s.elasticSearchRepo.DeleteProduct(ctx, event.ID)
	default:
		return fmt.Errorf("%w: unknown event type %q", errs.ErrMalformedEvent, msg.EventType)
	}
}

func (s *IndexerServiceImpl) indexProduct(ctx context.Context, id int64) error {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if errors.Is(err, errs.ErrProductNotFound) {
		// deleted after the event was written
		return s.elasticSearchRepo.DeleteProduct(ctx, id)
	}
	if err != nil {
		return err
	}

	var ancestors []domain.Category
	if product.Category != nil {
		ancestors, err = s.categoryRepo.GetCategoriesByIDs(ctx, product.Category.AncestorIDs())
		if err != nil {
			return err
		}
	}

	return s.elasticSearchRepo.IndexProduct(ctx, dto.NewSearchDocument(product, ancestors))
}
