package webapp

import (
	"context"
	"strings"

	"github.com/matheusmosca/inventory-app/internal/client"
	"github.com/matheusmosca/inventory-app/internal/products"
)

// ActiveFilter filtra a lista pelo flag isActive.
type ActiveFilter string

const (
	ActiveAll      ActiveFilter = "all"
	ActiveOnly     ActiveFilter = "active"
	ActiveInactive ActiveFilter = "inactive"
)

// ParseActiveFilter returns ActiveAll for anything unknown.
func ParseActiveFilter(v string) ActiveFilter {
	switch ActiveFilter(v) {
	case ActiveOnly, ActiveInactive:
		return ActiveFilter(v)
	default:
		return ActiveAll
	}
}

const (
	ProductListPageSize   = 3
	DeleteConfirmation    = "Delete this product? This will fail if product has transactions."
	msgProductsLoadFailed = "Failed to load products"
	msgDeleteFailed       = "Delete failed"
	msgProductDeleted     = "Product deleted"
)

// ProductList é o view-model da tela de listagem. A lista completa é carregada uma vez;
// texto, filtro de ativo e paginação são aplicados no cliente.
type ProductList struct {
	observer

	api ProductsAPI

	State   LoadState
	Error   string
	Success string
	Items   []products.Product

	Query    string
	Active   ActiveFilter
	Page     int
	PageSize int
}

// NewProductList cria uma nova instância de ProductList
func NewProductList(api ProductsAPI) *ProductList {
	return &ProductList{
		api:      api,
		State:    Idle,
		Active:   ActiveAll,
		Page:     1,
		PageSize: ProductListPageSize,
	}
}

// Load busca todos os produtos e volta para a página 1
func (l *ProductList) Load(ctx context.Context) {
	l.State = Loading
	l.Error = ""
	l.notify(EventListLoading)

	items, err := l.api.List(ctx)
	if err != nil {
		l.State = Failed
		l.Error = client.Message(err, msgProductsLoadFailed)
		l.notify(EventListFailed)
		return
	}

	l.Items = items
	l.Page = 1
	l.State = Loaded
	l.notify(EventListLoaded)
}

// SetQuery altera o texto de busca e volta para a página 1
func (l *ProductList) SetQuery(q string) {
	l.Query = q
	l.Page = 1
	l.notify(EventListFiltered)
}

// SetActive altera o filtro de ativo e volta para a página 1
func (l *ProductList) SetActive(v string) {
	l.Active = ParseActiveFilter(v)
	l.Page = 1
	l.notify(EventListFiltered)
}

// SetPage moves to p, clamped to the available pages.
func (l *ProductList) SetPage(p int) {
	total := l.Paginator().TotalPages()
	switch {
	case p < 1:
		p = 1
	case p > total:
		p = total
	}
	l.Page = p
	l.notify(EventListPaged)
}

// Filtered aplica busca (trim, sem diferenciar maiúsculas) e filtro de ativo
func (l *ProductList) Filtered() []products.Product {
	text := strings.ToLower(strings.TrimSpace(l.Query))

	out := make([]products.Product, 0, len(l.Items))
	for _, p := range l.Items {
		if text != "" && !strings.Contains(strings.ToLower(p.Name), text) {
			continue
		}
		switch l.Active {
		case ActiveOnly:
			if !p.IsActive {
				continue
			}
		case ActiveInactive:
			if p.IsActive {
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

// Paged retorna a fatia da página atual
func (l *ProductList) Paged() []products.Product {
	filtered := l.Filtered()
	start := (l.Page - 1) * l.PageSize
	if start < 0 || start >= len(filtered) {
		return []products.Product{}
	}
	end := min(start+l.PageSize, len(filtered))
	return filtered[start:end]
}

func (l *ProductList) Paginator() Paginator {
	return Paginator{Total: len(l.Filtered()), PageSize: l.PageSize, Page: l.Page}
}

// Delete remove o produto e recarrega a lista
func (l *ProductList) Delete(ctx context.Context, id int) bool {
	l.Success = ""
	if err := l.api.Delete(ctx, id); err != nil {
		l.Error = client.Message(err, msgDeleteFailed)
		l.notify(EventListFailed)
		return false
	}

	l.Success = msgProductDeleted
	l.notify(EventProductDeleted)
	l.Load(ctx)
	return true
}
