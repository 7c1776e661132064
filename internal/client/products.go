package client

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matheusmosca/inventory-app/internal/products"
)

// ProductsClient fala com /api/products
type ProductsClient struct {
	http *resty.Client
}

// NewProductsClient cria uma nova instância de ProductsClient
func NewProductsClient(baseURL string, timeout time.Duration) *ProductsClient {
	return &ProductsClient{http: newRestyClient(baseURL, timeout)}
}

func (c *ProductsClient) List(ctx context.Context) ([]products.Product, error) {
	var out []products.Product
	if err := check(request(ctx, c.http).SetResult(&out).Get("/api/products")); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProductsClient) Get(ctx context.Context, id int) (*products.Product, error) {
	var out products.Product
	if err := check(request(ctx, c.http).SetResult(&out).Get("/api/products/" + strconv.Itoa(id))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProductsClient) Create(ctx context.Context, in products.ProductCreate) (*products.Product, error) {
	var out products.Product
	if err := check(request(ctx, c.http).SetBody(in).SetResult(&out).Post("/api/products")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProductsClient) Update(ctx context.Context, id int, in products.ProductUpdate) (*products.Product, error) {
	var out products.Product
	if err := check(request(ctx, c.http).SetBody(in).SetResult(&out).Put("/api/products/" + strconv.Itoa(id))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *ProductsClient) Delete(ctx context.Context, id int) error {
	return check(request(ctx, c.http).Delete("/api/products/" + strconv.Itoa(id)))
}
