package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const uniqueViolation = "23505"

type FavoriteRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewFavoriteRepository(db *sqlx.DB) FavoriteRepository {
	return &FavoriteRepositoryImpl{db: db}
}

func (r *FavoriteRepositoryImpl) IsFavorited(ctx context.Context, userID, productID int64) (favorited bool, err error) {
	err = r.db.GetContext(ctx, &favorited, "SELECT EXISTS (SELECT 1 FROM user_favorite_products WHERE user_id = $1 AND product_id = $2)", userID, productID)
	if err != nil {
		log.Error().Err(err).Str("component", "IsFavorited").Msg("")
		return false, err
	}

	return favorited, nil
}

// AddFavorite inserts the (user, product) edge. The primary key on that pair
// is what rejects duplicates; a violation surfaces as ErrAlreadyFavorited.
func (r *FavoriteRepositoryImpl) AddFavorite(ctx context.Context, userID, productID int64) (err error) {
	_, err = r.db.NamedExecContext(ctx, "INSERT INTO user_favorite_products (user_id, product_id, created_at) VALUES (:user_id, :product_id, :created_at)", domain.Favorite{
		UserID:    userID,
		ProductID: productID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return errs.ErrAlreadyFavorited
		}
		log.Error().Err(err).Str("component", "AddFavorite").Msg("")
		return err
	}

	return nil
}

func (r *FavoriteRepositoryImpl) DeleteFavorite(ctx context.Context, userID, productID int64) (err error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM user_favorite_products WHERE user_id = $1 AND product_id = $2", userID, productID)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteFavorite").Msg("")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return errs.ErrNotFavorited
	}

	return nil
}

// GetFavoriteProducts lists the user's favorites, most recently added first.
func (r *FavoriteRepositoryImpl) GetFavoriteProducts(ctx context.Context, userID int64, filter pkgdto.Filter) (data []domain.Product, err error) {
	err = r.db.SelectContext(ctx, &data,
		"SELECT "+productColumns+" FROM products p JOIN user_favorite_products f ON f.product_id = p.id WHERE f.user_id = $1 ORDER BY f.created_at DESC, p.id DESC LIMIT $2 OFFSET $3",
		userID, filter.PageSize, filter.Offset())
	if err != nil {
		log.Error().Err(err).Str("component", "GetFavoriteProducts").Msg("")
		return nil, err
	}

	err = loadProductRelations(ctx, r.db, data, withSKUs)
	if err != nil {
		log.Error().Err(err).Str("component", "GetFavoriteProducts").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *FavoriteRepositoryImpl) CountFavoriteProducts(ctx context.Context, userID int64) (count int64, err error) {
	err = r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM user_favorite_products WHERE user_id = $1", userID)
	if err != nil {
		log.Error().Err(err).Str("component", "CountFavoriteProducts").Msg("")
		return 0, err
	}

	return count, nil
}
