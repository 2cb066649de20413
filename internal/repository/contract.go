package repository

import (
	"context"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/search"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
)

type ProductRepository interface {
	GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error)
	CountProducts(ctx context.Context, filter pkgdto.Filter) (count int64, err error)
	GetProductByID(ctx context.Context, id int64) (data domain.Product, err error)
	GetProductsByIDs(ctx context.Context, ids []int64) (data []domain.Product, err error)
	AddProduct(ctx context.Context, data domain.Product) (id int64, err error)
	UpdateProduct(ctx context.Context, data domain.Product) (err error)
	DeleteProduct(ctx context.Context, id int64) (err error)
}

type CategoryRepository interface {
	GetCategoryByID(ctx context.Context, id int64) (data domain.Category, err error)
	GetCategoriesByIDs(ctx context.Context, ids []int64) (data []domain.Category, err error)
}

type FavoriteRepository interface {
	IsFavorited(ctx context.Context, userID, productID int64) (favorited bool, err error)
	AddFavorite(ctx context.Context, userID, productID int64) (err error)
	DeleteFavorite(ctx context.Context, userID, productID int64) (err error)
	GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) (data []domain.Product, err error)
	CountFavoriteProducts(ctx context.Context, userID int64) (count int64, err error)
}

type ElasticSearchProductRepository interface {
	SearchProducts(ctx context.Context, query search.Query) (result search.Result, err error)
	IndexProduct(ctx context.Context, doc dto.SearchDocument) (err error)
	DeleteProduct(ctx context.Context, id int64) (err error)
	EnsureIndex(ctx context.Context) (err error)
}
