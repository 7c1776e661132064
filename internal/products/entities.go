package products

import (
	"github.com/shopspring/decimal"
)

func init() {
	// preços trafegam como número JSON, não como string
	decimal.MarshalJSONWithoutQuotes = true
}

// Product representa um produto do inventário. Stock é mantido pelo banco.
type Product struct {
	ProductID   int             `json:"productId" db:"product_id"`
	Name        string          `json:"name" db:"name"`
	Price       decimal.Decimal `json:"price" db:"price"`
	Stock       int             `json:"stock" db:"stock"`
	ImageURL    *string         `json:"imageUrl" db:"image_url"`
	IsActive    bool            `json:"isActive" db:"is_active"`
	Description *string         `json:"description" db:"description"`
}

// ProductCreate é o corpo do POST /api/products.
type ProductCreate struct {
	Name         string          `json:"name"`
	Description  *string         `json:"description"`
	ImageURL     *string         `json:"imageUrl"`
	Price        decimal.Decimal `json:"price"`
	InitialStock int             `json:"initialStock" binding:"max=2147483647"`
}

// ProductUpdate é o corpo do PUT /api/products/{id}. Não existe campo de estoque.
type ProductUpdate struct {
	Name        string          `json:"name"`
	Description *string         `json:"description"`
	ImageURL    *string         `json:"imageUrl"`
	Price       decimal.Decimal `json:"price"`
	IsActive    *bool           `json:"isActive"`
}

// Active resolves the optional flag; an omitted isActive means true.
func (u ProductUpdate) Active() bool {
	if u.IsActive == nil {
		return true
	}
	return *u.IsActive
}
