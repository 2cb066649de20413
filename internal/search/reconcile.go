package search

import "github.com/alimikegami/pos-microservices/catalog-service/internal/domain"

// Reconcile returns products in the order of ids. A set-based fetch by id
// gives no ordering guarantee, so relevance rank must be restored here.
// Ids with no matching product (a stale index entry) are skipped.
func Reconcile(ids []int64, products []domain.Product) []domain.Product {
	byID := make(map[int64]domain.Product, len(products))
	for _, product := range products {
		byID[product.ID] = product
	}

	ordered := make([]domain.Product, 0, len(ids))
	for _, id := range ids {
		product, ok := byID[id]
		if !ok {
			continue
		}

		ordered = append(ordered, product)
		delete(byID, id)
	}

	return ordered
}
