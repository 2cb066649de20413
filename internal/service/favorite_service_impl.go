package service

import (
	"context"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/repository"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
)

type FavoriteServiceImpl struct {
	productRepo  repository.ProductRepository
	favoriteRepo repository.FavoriteRepository
}

func CreateFavoriteService(productRepo repository.ProductRepository, favoriteRepo repository.FavoriteRepository) FavoriteService {
	return &FavoriteServiceImpl{productRepo: productRepo, favoriteRepo: favoriteRepo}
}

func (s *FavoriteServiceImpl) Favor(ctx context.Context, userID, productID int64) (err error) {
	_, err = s.productRepo.GetProductByID(ctx, productID)
	if err != nil {
		return
	}

	favorited, err := s.favoriteRepo.IsFavorited(ctx, userID, productID)
	if err != nil {
		return
	}

	if favorited {
		return errs.ErrAlreadyFavorited
	}

	// a concurrent attach still loses on the primary key
	return s.favoriteRepo.AddFavorite(ctx, userID, productID)
}

func (s *FavoriteServiceImpl) Disfavor(ctx context.Context, userID, productID int64) (err error) {
	favorited, err := s.favoriteRepo.IsFavorited(ctx, userID, productID)
	if err != nil {
		return
	}

	if !favorited {
		return errs.ErrNotFavorited
	}

	return s.favoriteRepo.DeleteFavorite(ctx, userID, productID)
}

func (s *FavoriteServiceImpl) GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error) {
	filter.Normalize()

	products, err := s.favoriteRepo.GetFavoriteProducts(ctx, userID, filter)
	if err != nil {
		return
	}

	total, err := s.favoriteRepo.CountFavoriteProducts(ctx, userID)
	if err != nil {
		return
	}

	return pkgdto.NewPaginationResponse(filter, total, dto.NewProductResponses(products)), nil
}
