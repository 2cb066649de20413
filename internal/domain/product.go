package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          int64           `db:"id"`
	Title       string          `db:"title"`
	LongTitle   string          `db:"long_title"`
	Description string          `db:"description"`
	OnSale      bool            `db:"on_sale"`
	SoldCount   int64           `db:"sold_count"`
	Rating      float64         `db:"rating"`
	Price       decimal.Decimal `db:"price"`
	CategoryID  *int64          `db:"category_id"`
	CreatedAt   time.Time       `db:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at"`

	SKUs       []ProductSKU      `db:"-"`
	Properties []ProductProperty `db:"-"`
	Category   *Category         `db:"-"`
}

type ProductSKU struct {
	ID          int64           `db:"id"`
	ProductID   int64           `db:"product_id"`
	Title       string          `db:"title"`
	Description string          `db:"description"`
	Price       decimal.Decimal `db:"price"`
	Stock       int64           `db:"stock"`
}

type ProductProperty struct {
	ID        int64  `db:"id"`
	ProductID int64  `db:"product_id"`
	Name      string `db:"name"`
	Value     string `db:"value"`
}

// RefreshPrice sets the listed price to the cheapest SKU price.
func (p *Product) RefreshPrice() {
	if len(p.SKUs) == 0 {
		return
	}

	lowest := p.SKUs[0].Price
	for _, sku := range p.SKUs[1:] {
		if sku.Price.LessThan(lowest) {
			lowest = sku.Price
		}
	}

	p.Price = lowest
}
