package dto

import (
	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

// SearchDocument is the denormalized shape of a product inside the search index.
type SearchDocument struct {
	ID           int64                    `json:"id"`
	Title        string                   `json:"title"`
	LongTitle    string                   `json:"long_title"`
	Description  string                   `json:"description"`
	OnSale       bool                     `json:"on_sale"`
	SoldCount    int64                    `json:"sold_count"`
	Rating       float64                  `json:"rating"`
	Price        decimal.Decimal          `json:"price"`
	CategoryID   *int64                   `json:"category_id"`
	Category     []string                 `json:"category"`
	CategoryPath string                   `json:"category_path"`
	SKUs         []SearchDocumentSKU      `json:"skus"`
	Properties   []SearchDocumentProperty `json:"properties"`
}

type SearchDocumentSKU struct {
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
}

type SearchDocumentProperty struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// NewSearchDocument projects a hydrated product. ancestors are the product
// category's ancestors, root first; they only contribute their names.
func NewSearchDocument(product domain.Product, ancestors []domain.Category) SearchDocument {
	doc := SearchDocument{
		ID:          product.ID,
		Title:       product.Title,
		LongTitle:   product.LongTitle,
		Description: product.Description,
		OnSale:      product.OnSale,
		SoldCount:   product.SoldCount,
		Rating:      product.Rating,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		SKUs:        make([]SearchDocumentSKU, 0, len(product.SKUs)),
		Properties:  make([]SearchDocumentProperty, 0, len(product.Properties)),
	}

	if product.Category != nil {
		for _, ancestor := range ancestors {
			doc.Category = append(doc.Category, ancestor.Name)
		}
		doc.Category = append(doc.Category, product.Category.Name)
		doc.CategoryPath = product.Category.DescendantPathPrefix()
	}

	for _, sku := range product.SKUs {
		doc.SKUs = append(doc.SKUs, SearchDocumentSKU{
			Title:       sku.Title,
			Description: sku.Description,
			Price:       sku.Price,
		})
	}

	for _, property := range product.Properties {
		doc.Properties = append(doc.Properties, SearchDocumentProperty{
			Name:  property.Name,
			Value: property.Value,
		})
	}

	return doc
}
