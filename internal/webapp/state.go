// Package webapp contains the view-models of the inventory web client and the gin
// handlers that render them.
package webapp

import (
	"context"
	"math"

	"github.com/matheusmosca/inventory-app/internal/products"
	"github.com/matheusmosca/inventory-app/internal/transactions"
)

// LoadState é o estado de uma região assíncrona da tela.
type LoadState int

const (
	Idle LoadState = iota
	Loading
	Loaded
	Failed
)

func (s LoadState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Loading:
		return "loading"
	case Loaded:
		return "loaded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event names a view-model change delivered to OnChange.
type Event string

const (
	EventListLoading    Event = "list.loading"
	EventListLoaded     Event = "list.loaded"
	EventListFailed     Event = "list.failed"
	EventListFiltered   Event = "list.filtered"
	EventListPaged      Event = "list.paged"
	EventProductDeleted Event = "product.deleted"
	EventProductLoading Event = "product.loading"
	EventProductLoaded  Event = "product.loaded"
	EventProductFailed  Event = "product.failed"
	EventProductSaved   Event = "product.saved"
	EventHistoryLoading Event = "history.loading"
	EventHistoryLoaded  Event = "history.loaded"
	EventHistoryFailed  Event = "history.failed"
	EventTrxFormOpened  Event = "trx.form.opened"
	EventTrxFormClosed  Event = "trx.form.closed"
	EventTrxCreated     Event = "trx.created"
	EventSuccess        Event = "success"
)

// ProductsAPI é o que os view-models usam da Products API.
type ProductsAPI interface {
	List(ctx context.Context) ([]products.Product, error)
	Get(ctx context.Context, id int) (*products.Product, error)
	Create(ctx context.Context, in products.ProductCreate) (*products.Product, error)
	Update(ctx context.Context, id int, in products.ProductUpdate) (*products.Product, error)
	Delete(ctx context.Context, id int) error
}

// TransactionsAPI é o que os view-models usam da Transactions API.
type TransactionsAPI interface {
	Search(ctx context.Context, filter transactions.SearchFilter, page, pageSize int) (transactions.PagedResult[transactions.Transaction], error)
	Create(ctx context.Context, in transactions.TransactionCreate) (*transactions.Transaction, error)
}

// Paginator descreve a navegação entre páginas de uma lista.
type Paginator struct {
	Total    int
	PageSize int
	Page     int
}

// TotalPages is never less than one.
func (p Paginator) TotalPages() int {
	if p.PageSize <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(float64(p.Total)/float64(p.PageSize))))
}

func (p Paginator) HasPrev() bool { return p.Page > 1 }

func (p Paginator) HasNext() bool { return p.Page < p.TotalPages() }

// Prev returns the previous page, or the current one on the first page.
func (p Paginator) Prev() int {
	if p.HasPrev() {
		return p.Page - 1
	}
	return p.Page
}

// Next returns the following page, or the current one on the last page.
func (p Paginator) Next() int {
	if p.HasNext() {
		return p.Page + 1
	}
	return p.Page
}

type observer struct {
	OnChange func(Event)
}

func (o *observer) notify(e Event) {
	if o.OnChange != nil {
		o.OnChange(e)
	}
}
