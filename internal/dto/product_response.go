package dto

import (
	"github.com/alimikegami/pos-microservices/catalog-service/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductResponse struct {
	ID          int64              `json:"id"`
	Title       string             `json:"title"`
	LongTitle   string             `json:"long_title"`
	Description string             `json:"description"`
	OnSale      bool               `json:"on_sale"`
	SoldCount   int64              `json:"sold_count"`
	Rating      float64            `json:"rating"`
	Price       decimal.Decimal    `json:"price"`
	CategoryID  *int64             `json:"category_id"`
	Category    *domain.Category   `json:"category,omitempty"`
	SKUs        []SKUResponse      `json:"skus"`
	Properties  []PropertyResponse `json:"properties,omitempty"`
}

type SKUResponse struct {
	ID          int64           `json:"id"`
	Title       string          `json:"title"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int64           `json:"stock"`
}

type PropertyResponse struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

type ProductDetailResponse struct {
	ProductResponse
	Favored bool `json:"favored"`
}

func NewProductResponse(product domain.Product) ProductResponse {
	resp := ProductResponse{
		ID:          product.ID,
		Title:       product.Title,
		LongTitle:   product.LongTitle,
		Description: product.Description,
		OnSale:      product.OnSale,
		SoldCount:   product.SoldCount,
		Rating:      product.Rating,
		Price:       product.Price,
		CategoryID:  product.CategoryID,
		Category:    product.Category,
		SKUs:        make([]SKUResponse, 0, len(product.SKUs)),
	}

	for _, sku := range product.SKUs {
		resp.SKUs = append(resp.SKUs, SKUResponse{
			ID:          sku.ID,
			Title:       sku.Title,
			Description: sku.Description,
			Price:       sku.Price,
			Stock:       sku.Stock,
		})
	}

	for _, property := range product.Properties {
		resp.Properties = append(resp.Properties, PropertyResponse{
			Name:  property.Name,
			Value: property.Value,
		})
	}

	return resp
}

func NewProductResponses(products []domain.Product) []ProductResponse {
	resp := make([]ProductResponse, 0, len(products))
	for _, product := range products {
		resp = append(resp, NewProductResponse(product))
	}

	return resp
}
