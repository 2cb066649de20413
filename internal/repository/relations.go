package repository

import (
	"context"
	"database/sql"

	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

type relation uint8

const (
	withSKUs relation = 1 << iota
	withProperties
	withCategory
)

const categoryColumns = "id, name, parent_id, is_directory, level, path"

// loadProductRelations eager-loads the requested relations with one query
// per relation, whatever the number of products.
func loadProductRelations(ctx context.Context, q sqlx.QueryerContext, products []domain.Product, rels relation) error {
	if len(products) == 0 {
		return nil
	}

	ids := make([]int64, 0, len(products))
	positions := make(map[int64]int, len(products))
	for i, product := range products {
		ids = append(ids, product.ID)
		positions[product.ID] = i
	}

	if rels&withSKUs != 0 {
		var skus []domain.ProductSKU
		err := sqlx.SelectContext(ctx, q, &skus, "SELECT id, product_id, title, description, price, stock FROM product_skus WHERE product_id = ANY($1) ORDER BY id", pq.Array(ids))
		if err != nil {
			return err
		}

		for _, sku := range skus {
			i := positions[sku.ProductID]
			products[i].SKUs = append(products[i].SKUs, sku)
		}
	}

	if rels&withProperties != 0 {
		var properties []domain.ProductProperty
		err := sqlx.SelectContext(ctx, q, &properties, "SELECT id, product_id, name, value FROM product_properties WHERE product_id = ANY($1) ORDER BY id", pq.Array(ids))
		if err != nil {
			return err
		}

		for _, property := range properties {
			i := positions[property.ProductID]
			products[i].Properties = append(products[i].Properties, property)
		}
	}

	if rels&withCategory != 0 {
		var categoryIDs []int64
		seen := make(map[int64]struct{})
		for _, product := range products {
			if product.CategoryID == nil {
				continue
			}
			if _, ok := seen[*product.CategoryID]; ok {
				continue
			}
			seen[*product.CategoryID] = struct{}{}
			categoryIDs = append(categoryIDs, *product.CategoryID)
		}

		if len(categoryIDs) == 0 {
			return nil
		}

		var categories []domain.Category
		err := sqlx.SelectContext(ctx, q, &categories, "SELECT "+categoryColumns+" FROM categories WHERE id = ANY($1)", pq.Array(categoryIDs))
		if err != nil {
			return err
		}

		byID := make(map[int64]domain.Category, len(categories))
		for _, category := range categories {
			byID[category.ID] = category
		}

		for i := range products {
			if products[i].CategoryID == nil {
				continue
			}
			if category, ok := byID[*products[i].CategoryID]; ok {
				products[i].Category = &category
			}
		}
	}

	return nil
}

func handleTrx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) (err error) {
	tx, err := db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		} else if err != nil {
			tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	err = fn(tx)

	return err
}
