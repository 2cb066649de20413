package service

import (
	"context"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/segmentio/kafka-go"
)

type ProductService interface {
	SearchProducts(ctx context.Context, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error)
	GetAdminProducts(ctx context.Context, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error)
	GetProductDetail(ctx context.Context, id int64, userID int64) (data dto.ProductDetailResponse, err error)
	AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error)
	UpdateProduct(ctx context.Context, data dto.ProductRequest) (err error)
	DeleteProduct(ctx context.Context, id int64) (err error)
}

type FavoriteService interface {
	Favor(ctx context.Context, userID, productID int64) (err error)
	Disfavor(ctx context.Context, userID, productID int64) (err error)
	GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error)
}

type IndexerService interface {
	ConsumeEvent(ctx context.Context)
	HandleEvent(ctx context.Context, msg dto.KafkaMessage) (err error)
}

// EventPublisher sends product change events to the broker.
type EventPublisher interface {
	Publish(ctx context.Context, key string, msg dto.KafkaMessage) error
}

// MessageReader is a consumer group reader that leaves committing to the
// caller.
type MessageReader interface {
	FetchMessage(ctx context.Context) (kafka.Message, error)
	CommitMessages(ctx context.Context, msgs ...kafka.Message) error
}
