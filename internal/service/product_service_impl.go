package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/repository"
	"github.com/alimikegami/pos-microservices/catalog-service/internal/search"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/rs/zerolog/log"
)

type ProductServiceImpl struct {
	productRepo       repository.ProductRepository
	categoryRepo      repository.CategoryRepository
	favoriteRepo      repository.FavoriteRepository
	elasticSearchRepo repository.ElasticSearchProductRepository
	publisher         EventPublisher
}

func CreateProductService(productRepo repository.ProductRepository, categoryRepo repository.CategoryRepository, favoriteRepo repository.FavoriteRepository, elasticSearchRepo repository.ElasticSearchProductRepository, publisher EventPublisher) ProductService {
	return &ProductServiceImpl{
		productRepo:       productRepo,
		categoryRepo:      categoryRepo,
		favoriteRepo:      favoriteRepo,
		elasticSearchRepo: elasticSearchRepo,
		publisher:         publisher,
	}
}

// SearchProducts serves the customer catalog. The index decides which
// products match and in what order; postgres supplies the rows.
func (s *ProductServiceImpl) SearchProducts(ctx context.Context, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error) {
	filter.Normalize()

	builder := search.NewBuilder().Paginate(filter.Page, filter.PageSize)

	if filter.CategoryID > 0 {
		category, err := s.categoryRepo.GetCategoryByID(ctx, filter.CategoryID)
		switch {
		case err == nil:
			builder.Category(category)
		case errors.Is(err, errs.ErrCategoryNotFound):
			// unknown categories do not narrow the result
		default:
			return responsePayload, err
		}
	}

	query := builder.Keywords(filter.Search).OrderBy(filter.Order).Query()

	result, err := s.elasticSearchRepo.SearchProducts(ctx, query)
	if err != nil {
		return responsePayload, err
	}

	items := []dto.ProductResponse{}
	if len(result.IDs) > 0 {
		products, err := s.productRepo.GetProductsByIDs(ctx, result.IDs)
		if err != nil {
			return responsePayload, err
		}

		items = dto.NewProductResponses(search.Reconcile(result.IDs, products))
	}

	return pkgdto.NewPaginationResponse(filter, result.Total, items), nil
}

func (s *ProductServiceImpl) GetAdminProducts(ctx context.Context, filter pkgdto.Filter) (responsePayload pkgdto.PaginationResponse, err error) {
	filter.Normalize()

	products, err := s.productRepo.GetProducts(ctx, filter)
	if err != nil {
		return
	}

	total, err := s.productRepo.CountProducts(ctx, filter)
	if err != nil {
		return
	}

	return pkgdto.NewPaginationResponse(filter, total, dto.NewProductResponses(products)), nil
}

// GetProductDetail returns an on-sale product. userID is zero for anonymous
// callers, who are never shown as having favored it.
func (s *ProductServiceImpl) GetProductDetail(ctx context.Context, id int64, userID int64) (data dto.ProductDetailResponse, err error) {
	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	if !product.OnSale {
		return data, errs.ErrProductNotOnSale
	}

	data.ProductResponse = dto.NewProductResponse(product)

	if userID > 0 {
		data.Favored, err = s.favoriteRepo.IsFavorited(ctx, userID, id)
		if err != nil {
			return dto.ProductDetailResponse{}, err
		}
	}

	return data, nil
}

func (s *ProductServiceImpl) AddProduct(ctx context.Context, data dto.ProductRequest) (resp dto.ProductResponse, err error) {
	if err = s.checkAssignableCategory(ctx, data.CategoryID); err != nil {
		return
	}

	id, err := s.productRepo.AddProduct(ctx, data.ToDomain())
	if err != nil {
		return
	}

	s.publish(ctx, dto.EventProductUpserted, id)

	product, err := s.productRepo.GetProductByID(ctx, id)
	if err != nil {
		return
	}

	return dto.NewProductResponse(product), nil
}

func (s *ProductServiceImpl) UpdateProduct(ctx context.Context, data dto.ProductRequest) (err error) {
	if err = s.checkAssignableCategory(ctx, data.CategoryID); err != nil {
		return
	}

	err = s.productRepo.UpdateProduct(ctx, data.ToDomain())
	if err != nil {
		return
	}

	s.publish(ctx, dto.EventProductUpserted, data.ID)

	return nil
}

func (s *ProductServiceImpl) DeleteProduct(ctx context.Context, id int64) (err error) {
	err = s.productRepo.DeleteProduct(ctx, id)
	if err != nil {
		return
	}

	s.publish(ctx, dto.EventProductDeleted, id)

	return nil
}

// products may only be attached to leaf categories
func (s *ProductServiceImpl) checkAssignableCategory(ctx context.Context, categoryID int64) error {
	category, err := s.categoryRepo.GetCategoryByID(ctx, categoryID)
	if err != nil {
		return err
	}

	if category.IsDirectory {
		return errs.ErrCategoryIsDirectory
	}

	return nil
}

// publish runs after the relational write has committed. A failure leaves
// the index stale until the next change of the same product.
func (s *ProductServiceImpl) publish(ctx context.Context, eventType string, id int64) {
	if s.publisher == nil {
		return
	}

	err := s.publisher.Publish(ctx, strconv.FormatInt(id, 10), dto.KafkaMessage{
		EventType: eventType,
		Data:      dto.ProductEvent{ID: id},
	})
	if err != nil {
		log.Error().Err(err).Str("component", "PublishProductEvent").Int64("product_id", id).Str("event_type", eventType).Msg("")
	}
}
