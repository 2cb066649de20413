package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	pkgdto "github.com/alimikegami/pos-microservices/catalog-service/pkg/dto"
	"github.com/alimikegami/pos-microservices/catalog-service/pkg/errs"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const productColumns = "p.id, p.title, p.long_title, p.description, p.on_sale, p.sold_count, p.rating, p.price, p.category_id, p.created_at, p.updated_at"

// admin listing may only sort by these columns
var sortableColumns = map[string]string{
	"id":         "p.id",
	"title":      "p.title",
	"price":      "p.price",
	"sold_count": "p.sold_count",
	"rating":     "p.rating",
	"created_at": "p.created_at",
	"updated_at": "p.updated_at",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

type ProductRepositoryImpl struct {
	db *sqlx.DB
}

func CreateNewProductRepository(db *sqlx.DB) ProductRepository {
	return &ProductRepositoryImpl{db: db}
}

func productSearchCondition(filter pkgdto.Filter, args map[string]interface{}) string {
	if filter.Search == "" {
		return ""
	}

	args["search"] = "%" + likeEscaper.Replace(filter.Search) + "%"

	return " WHERE (p.title ILIKE :search OR p.description ILIKE :search" +
		" OR EXISTS (SELECT 1 FROM product_skus s WHERE s.product_id = p.id" +
		" AND (s.title ILIKE :search OR s.description ILIKE :search)))"
}

func productOrderClause(filter pkgdto.Filter) string {
	column, ok := sortableColumns[filter.Field]
	direction := strings.ToUpper(filter.Order)
	if !ok || (direction != "ASC" && direction != "DESC") {
		return " ORDER BY p.id ASC"
	}

	return fmt.Sprintf(" ORDER BY %s %s, p.id ASC", column, direction)
}

func (r *ProductRepositoryImpl) GetProducts(ctx context.Context, filter pkgdto.Filter) (data []domain.Product, err error) {
	args := make(map[string]interface{})

	query := "SELECT " + productColumns + " FROM products p" +
		productSearchCondition(filter, args) +
		productOrderClause(filter) +
		" LIMIT :limit OFFSET :offset"
	args["limit"] = filter.PageSize
	args["offset"] = filter.Offset()

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, err
	}
	defer nstmt.Close()

	err = nstmt.SelectContext(ctx, &data, args)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, err
	}

	err = loadProductRelations(ctx, r.db, data, withSKUs)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProducts").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *ProductRepositoryImpl) CountProducts(ctx context.Context, filter pkgdto.Filter) (count int64, err error) {
	args := make(map[string]interface{})
	query := "SELECT COUNT(*) FROM products p" + productSearchCondition(filter, args)

	nstmt, err := r.db.PrepareNamedContext(ctx, query)
	if err != nil {
		log.Error().Err(err).Str("component", "CountProducts").Msg("")
		return 0, err
	}
	defer nstmt.Close()

	err = nstmt.GetContext(ctx, &count, args)
	if err != nil {
		log.Error().Err(err).Str("component", "CountProducts").Msg("")
		return 0, err
	}

	return count, nil
}

func (r *ProductRepositoryImpl) GetProductByID(ctx context.Context, id int64) (data domain.Product, err error) {
	err = r.db.GetContext(ctx, &data, "SELECT "+productColumns+" FROM products p WHERE p.id = $1", id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return data, errs.ErrProductNotFound
		}
		log.Error().Err(err).Str("component", "GetProductByID").Msg("")
		return data, err
	}

	products := []domain.Product{data}
	err = loadProductRelations(ctx, r.db, products, withSKUs|withProperties|withCategory)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProductByID").Msg("")
		return data, err
	}

	return products[0], nil
}

// GetProductsByIDs fetches the given products with SKUs, properties and
// category loaded. Rows come back in id-list order, but callers that need a
// rank must not rely on it.
func (r *ProductRepositoryImpl) GetProductsByIDs(ctx context.Context, ids []int64) (data []domain.Product, err error) {
	if len(ids) == 0 {
		return nil, nil
	}

	err = r.db.SelectContext(ctx, &data,
		"SELECT "+productColumns+" FROM products p WHERE p.id = ANY($1::bigint[]) ORDER BY array_position($1::bigint[], p.id)",
		pq.Array(ids))
	if err != nil {
		log.Error().Err(err).Str("component", "GetProductsByIDs").Msg("")
		return nil, err
	}

	err = loadProductRelations(ctx, r.db, data, withSKUs|withProperties|withCategory)
	if err != nil {
		log.Error().Err(err).Str("component", "GetProductsByIDs").Msg("")
		return nil, err
	}

	return data, nil
}

func (r *ProductRepositoryImpl) AddProduct(ctx context.Context, data domain.Product) (id int64, err error) {
	timestamp := time.Now()
	data.CreatedAt = timestamp
	data.UpdatedAt = timestamp

	err = handleTrx(ctx, r.db, func(tx *sqlx.Tx) error {
		nstmt, err := tx.PrepareNamedContext(ctx, "INSERT INTO products (title, long_title, description, on_sale, price, category_id, created_at, updated_at) VALUES (:title, :long_title, :description, :on_sale, :price, :category_id, :created_at, :updated_at) RETURNING id")
		if err != nil {
			return err
		}
		defer nstmt.Close()

		if err := nstmt.GetContext(ctx, &data.ID, data); err != nil {
			return err
		}

		return insertProductChildren(ctx, tx, data)
	})
	if err != nil {
		log.Error().Err(err).Str("component", "AddProduct").Msg("")
		return 0, err
	}

	return data.ID, nil
}

// UpdateProduct overwrites the scalar fields and replaces SKUs and
// properties wholesale.
func (r *ProductRepositoryImpl) UpdateProduct(ctx context.Context, data domain.Product) (err error) {
	data.UpdatedAt = time.Now()

	err = handleTrx(ctx, r.db, func(tx *sqlx.Tx) error {
		res, err := tx.NamedExecContext(ctx, "UPDATE products SET title=:title, long_title=:long_title, description=:description, on_sale=:on_sale, price=:price, category_id=:category_id, updated_at=:updated_at WHERE id=:id", data)
		if err != nil {
			return err
		}

		affected, err := res.RowsAffected()
		if err != nil {
			return err
		}
		if affected == 0 {
			return errs.ErrProductNotFound
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM product_skus WHERE product_id = $1", data.ID); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, "DELETE FROM product_properties WHERE product_id = $1", data.ID); err != nil {
			return err
		}

		return insertProductChildren(ctx, tx, data)
	})
	if err != nil && !errors.Is(err, errs.ErrProductNotFound) {
		log.Error().Err(err).Str("component", "UpdateProduct").Msg("")
	}

	return err
}

// DeleteProduct removes the product; SKUs, properties and favorites go with
// it through ON DELETE CASCADE.
func (r *ProductRepositoryImpl) DeleteProduct(ctx context.Context, id int64) (err error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM products WHERE id = $1", id)
	if err != nil {
		log.Error().Err(err).Str("component", "DeleteProduct").Msg("")
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}

	if affected == 0 {
		return errs.ErrProductNotFound
	}

	return nil
}

func insertProductChildren(ctx context.Context, tx *sqlx.Tx, data domain.Product) error {
	if len(data.SKUs) > 0 {
		skus := make([]domain.ProductSKU, len(data.SKUs))
		for i, sku := range data.SKUs {
			sku.ProductID = data.ID
			skus[i] = sku
		}

		_, err := tx.NamedExecContext(ctx, "INSERT INTO product_skus (product_id, title, description, price, stock) VALUES (:product_id, :title, :description, :price, :stock)", skus)
		if err != nil {
			return err
		}
	}

	if len(data.Properties) > 0 {
		properties := make([]domain.ProductProperty, len(data.Properties))
		for i, property := range data.Properties {
			property.ProductID = data.ID
			properties[i] = property
		}

		_, err := tx.NamedExecContext(ctx, "INSERT INTO product_properties (product_id, name, value) VALUES (:product_id, :name, :value)", properties)
		if err != nil {
			return err
		}
	}

	return nil
}
