package client

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/matheusmosca/inventory-app/internal/transactions"
)

// TransactionsClient fala com /api/transactions
type TransactionsClient struct {
	http *resty.Client
}

// NewTransactionsClient cria uma nova instância de TransactionsClient
func NewTransactionsClient(baseURL string, timeout time.Duration) *TransactionsClient {
	return &TransactionsClient{http: newRestyClient(baseURL, timeout)}
}

// Search chama GET /api/transactions; filtros nil não são enviados
func (c *TransactionsClient) Search(
	ctx context.Context,
	filter transactions.SearchFilter,
	page, pageSize int,
) (transactions.PagedResult[transactions.Transaction], error) {
	params := map[string]string{
		"page":     strconv.Itoa(page),
		"pageSize": strconv.Itoa(pageSize),
	}
	if filter.ProductID != nil {
		params["productId"] = strconv.Itoa(*filter.ProductID)
	}
	if filter.TypeID != nil {
		params["typeId"] = strconv.Itoa(int(*filter.TypeID))
	}
	if filter.StartUTC != nil {
		params["startUtc"] = filter.StartUTC.UTC().Format(time.RFC3339Nano)
	}
	if filter.EndUTC != nil {
		params["endUtc"] = filter.EndUTC.UTC().Format(time.RFC3339Nano)
	}

	var out transactions.PagedResult[transactions.Transaction]
	if err := check(request(ctx, c.http).SetQueryParams(params).SetResult(&out).Get("/api/transactions")); err != nil {
		return transactions.PagedResult[transactions.Transaction]{}, err
	}
	return out, nil
}

func (c *TransactionsClient) Get(ctx context.Context, id int64) (*transactions.Transaction, error) {
	var out transactions.Transaction
	if err := check(request(ctx, c.http).SetResult(&out).Get(transactionPath(id))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionsClient) Create(ctx context.Context, in transactions.TransactionCreate) (*transactions.Transaction, error) {
	var out transactions.Transaction
	if err := check(request(ctx, c.http).SetBody(in).SetResult(&out).Post("/api/transactions")); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionsClient) Update(ctx context.Context, id int64, in transactions.TransactionUpdate) (*transactions.Transaction, error) {
	var out transactions.Transaction
	if err := check(request(ctx, c.http).SetBody(in).SetResult(&out).Put(transactionPath(id))); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *TransactionsClient) Delete(ctx context.Context, id int64) error {
	return check(request(ctx, c.http).Delete(transactionPath(id)))
}

func transactionPath(id int64) string {
	return "/api/transactions/" + strconv.FormatInt(id, 10)
}
