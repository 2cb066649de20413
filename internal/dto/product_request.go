package dto

import (
	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductRequest struct {
	ID          int64             `json:"-"`
	Title       string            `json:"title" validate:"required,max=255"`
	LongTitle   string            `json:"long_title" validate:"max=255"`
	Description string            `json:"description"`
	OnSale      bool              `json:"on_sale"`
	CategoryID  int64             `json:"category_id" validate:"required,gt=0"`
	SKUs        []SKURequest      `json:"skus" validate:"required,min=1,dive"`
	Properties  []PropertyRequest `json:"properties" validate:"dive"`
}

type SKURequest struct {
	Title       string          `json:"title" validate:"required,max=255"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price" validate:"gte=0"`
	Stock       int64           `json:"stock" validate:"gte=0"`
}

type PropertyRequest struct {
	Name  string `json:"name" validate:"required,max=255"`
	Value string `json:"value" validate:"required,max=255"`
}

// ToDomain maps the request onto a product; price is derived from the SKUs.
func (r ProductRequest) ToDomain() domain.Product {
	categoryID := r.CategoryID
	product := domain.Product{
		ID:          r.ID,
		Title:       r.Title,
		LongTitle:   r.LongTitle,
		Description: r.Description,
		OnSale:      r.OnSale,
		CategoryID:  &categoryID,
	}

	for _, sku := range r.SKUs {
		product.SKUs = append(product.SKUs, domain.ProductSKU{
			ProductID:   r.ID,
			Title:       sku.Title,
			Description: sku.Description,
			Price:       sku.Price,
			Stock:       sku.Stock,
		})
	}

	for _, property := range r.Properties {
		product.Properties = append(product.Properties, domain.ProductProperty{
			ProductID: r.ID,
			Name:      property.Name,
			Value:     property.Value,
		})
	}

	product.RefreshPrice()

	return product
}
