package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const CategoryCacheTTL = 30 * time.Minute

type CategoryRepositoryImpl struct {
	db    *sqlx.DB
	cache *redis.Client
}

// CreateNewCategoryRepository reads categories from postgres. A non-nil
// cache puts a read-through redis layer in front of single-id lookups.
func CreateNewCategoryRepository(db *sqlx.DB, cache *redis.Client) CategoryRepository {
	return &CategoryRepositoryImpl{db: db, cache: cache}
}

func categoryCacheKey(id int64) string {
	return fmt.Sprintf("catalog:category:%d", id)
}

func (r *CategoryRepositoryImpl) GetCategoryByID(ctx context.Context, id int64) (data domain.Category, err error) {
	if cached, ok := r.getCached(ctx, id); ok {
		return cached, nil
	}

	err = r.db.GetContext(ctx, &data, "SELECT "+categoryColumns+" FROM categories WHERE id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrCategoryNotFound
		}
		log.Error().Err(err).Str("component", "GetCategoryByID").Msg("")
		return data, err
	}

	r.setCached(ctx, data)

	return data, nil
}

func (r *CategoryRepositoryImpl) GetCategoriesByIDs(ctx context.Context, ids []int64) (data []domain.Category, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.SelectContext(ctx, &data, "SELECT "+categoryColumns+" FROM categories WHERE id = ANY($1) ORDER BY level, id", pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Str("component", "GetCategoriesByIDs").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *CategoryRepositoryImpl) getCached(ctx context.Context, id int64) (domain.Category, bool) {
	var category domain.Category
	if r.cache == nil {
		return category, false
	}

	raw, err := r.cache.Get(ctx, categoryCacheKey(id)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Str("component", "GetCategoryByID").Msg("category cache read failed")
		}
		return category, false
	}

	if err := json.Unmarshal(raw, &category); err != nil {
		log.Warn().Err(err).Str("component", "GetCategoryByID").Msg("discarding malformed cached category")
		return category, false
	}

	return category, true
}

func (r *CategoryRepositoryImpl) setCached(ctx context.Context, category domain.Category) {
	if r.cache == nil {
		return
	}

	raw, err := json.Marshal(category)
	if err != nil {
		return
	}

	if err := r.cache.Set(ctx, categoryCacheKey(category.ID), raw, CategoryCacheTTL).Err(); err != nil {
		log.Warn().Err(err).Str("component", "GetCategoryByID").Msg("category cache write failed")
	}
}
