package webapp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/matheusmosca/inventory-app/internal/client"
	"github.com/matheusmosca/inventory-app/internal/products"
	"github.com/matheusmosca/inventory-app/internal/transactions"
)

const (
	HistoryPageSize = 10
	dateLayout      = "2006-01-02"

	msgLoadFailed         = "Load failed"
	msgCreateFailed       = "Create failed"
	msgUpdateFailed       = "Update failed"
	msgHistoryLoadFailed  = "Failed to load transactions"
	msgTransactionFailed  = "Transaction failed"
	msgProductCreated     = "Product created"
	msgProductUpdated     = "Product updated"
	msgPurchaseCreated    = "Purchase created"
	msgSaleCreated        = "Sale created"
	msgInvalidDateRange   = `The "To" date must be after the "From" date.`
	msgInvalidDateFilter  = "Invalid date filter"
	msgFixTransactionForm = "Check the transaction fields"
)

var errInvalidDateRange = errors.New("start date after end date")

// ProductEditor é o view-model da tela de criação/edição de produto.
// Produto e histórico de transações têm estados independentes.
type ProductEditor struct {
	observer

	products     ProductsAPI
	transactions TransactionsAPI
	loc          *time.Location

	ID     int
	IsEdit bool

	Form        ProductForm
	FieldErrors FieldErrors

	Product      *products.Product
	ProductState LoadState
	Error        string
	Success      string

	HistoryState    LoadState
	HistoryError    string
	History         []transactions.Transaction
	HistoryTotal    int
	HistoryPage     int
	HistoryPageSize int
	FilterStart     string
	FilterEnd       string

	TrxFormVisible bool
	TrxType        transactions.TransactionType
	TrxForm        TransactionForm
	TrxFieldErrors FieldErrors
}

// NewProductEditor cria o view-model em modo de criação.
// loc é o fuso usado para converter as datas do filtro em instantes UTC.
func NewProductEditor(productsAPI ProductsAPI, transactionsAPI TransactionsAPI, loc *time.Location) *ProductEditor {
	if loc == nil {
		loc = time.Local
	}
	return &ProductEditor{
		products:        productsAPI,
		transactions:    transactionsAPI,
		loc:             loc,
		Form:            NewProductForm(),
		FieldErrors:     FieldErrors{},
		ProductState:    Idle,
		HistoryState:    Idle,
		HistoryPage:     1,
		HistoryPageSize: HistoryPageSize,
		TrxType:         transactions.Purchase,
		TrxFieldErrors:  FieldErrors{},
	}
}

// Open entra em modo de edição e carrega produto e histórico
func (e *ProductEditor) Open(ctx context.Context, id int) {
	e.ID = id
	e.IsEdit = true
	e.LoadProduct(ctx)
	e.LoadHistory(ctx, e.HistoryPage, e.HistoryPageSize)
}

// LoadProduct busca o produto e preenche o formulário
func (e *ProductEditor) LoadProduct(ctx context.Context) {
	if !e.IsEdit {
		return
	}

	e.ProductState = Loading
	e.Error = ""
	e.notify(EventProductLoading)

	p, err := e.products.Get(ctx, e.ID)
	if err != nil {
		e.ProductState = Failed
		e.Error = client.Message(err, msgLoadFailed)
		e.notify(EventProductFailed)
		return
	}

	e.Product = p
	e.Form = formFromProduct(p)
	e.ProductState = Loaded
	e.notify(EventProductLoaded)
}

// Submit valida e grava o produto. Na criação devolve o caminho da tela de edição
// do produto criado; nos demais casos devolve "".
func (e *ProductEditor) Submit(ctx context.Context) string {
	e.FieldErrors = e.Form.Validate(e.IsEdit)
	if len(e.FieldErrors) > 0 {
		return ""
	}

	e.ProductState = Loading
	e.Error = ""
	e.Success = ""
	e.notify(EventProductLoading)

	if e.IsEdit {
		if _, err := e.products.Update(ctx, e.ID, e.Form.toUpdate()); err != nil {
			e.ProductState = Failed
			e.Error = client.Message(err, msgUpdateFailed)
			e.notify(EventProductFailed)
			return ""
		}
		e.Success = msgProductUpdated
		e.notify(EventProductSaved)
		e.LoadProduct(ctx)
		return ""
	}

	created, err := e.products.Create(ctx, e.Form.toCreate())
	if err != nil {
		e.ProductState = Failed
		e.Error = client.Message(err, msgCreateFailed)
		e.notify(EventProductFailed)
		return ""
	}

	e.Success = msgProductCreated
	e.ProductState = Loaded
	e.notify(EventProductSaved)
	return EditPath(created.ProductID)
}

// SetFilters guarda as datas do filtro (yyyy-mm-dd, vazio = sem limite)
func (e *ProductEditor) SetFilters(start, end string) {
	e.FilterStart = start
	e.FilterEnd = end
}

// HistoryBounds converte as datas do filtro em instantes UTC:
// início às 00:00:00.000 e fim às 23:59:59.999 no fuso do cliente.
func (e *ProductEditor) HistoryBounds() (start, end *time.Time, err error) {
	var startDay, endDay time.Time

	if e.FilterStart != "" {
		startDay, err = time.ParseInLocation(dateLayout, e.FilterStart, e.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid start date %q: %w", e.FilterStart, err)
		}
		s := startDay.UTC()
		start = &s
	}

	if e.FilterEnd != "" {
		endDay, err = time.ParseInLocation(dateLayout, e.FilterEnd, e.loc)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid end date %q: %w", e.FilterEnd, err)
		}
		t := endDay.AddDate(0, 0, 1).Add(-time.Millisecond).UTC()
		end = &t
	}

	if start != nil && end != nil && startDay.After(endDay) {
		return nil, nil, errInvalidDateRange
	}
	return start, end, nil
}

// LoadHistory busca uma página do histórico do produto com os filtros atuais.
// Filtro inválido vira erro do histórico sem chamar a API.
func (e *ProductEditor) LoadHistory(ctx context.Context, page, pageSize int) {
	if !e.IsEdit {
		return
	}

	start, end, err := e.HistoryBounds()
	if err != nil {
		e.HistoryState = Failed
		if errors.Is(err, errInvalidDateRange) {
			e.HistoryError = msgInvalidDateRange
		} else {
			e.HistoryError = msgInvalidDateFilter
		}
		e.notify(EventHistoryFailed)
		return
	}

	e.HistoryState = Loading
	e.HistoryError = ""
	e.notify(EventHistoryLoading)

	productID := e.ID
	res, err := e.transactions.Search(ctx, transactions.SearchFilter{
		ProductID: &productID,
		StartUTC:  start,
		EndUTC:    end,
	}, page, pageSize)
	if err != nil {
		e.HistoryState = Failed
		e.HistoryError = client.Message(err, msgHistoryLoadFailed)
		e.notify(EventHistoryFailed)
		return
	}

	e.History = res.Items
	e.HistoryTotal = res.Total
	e.HistoryPage = res.Page
	e.HistoryPageSize = res.PageSize
	e.HistoryState = Loaded
	e.notify(EventHistoryLoaded)
}

// ApplyFilters troca os filtros e recarrega a partir da página 1
func (e *ProductEditor) ApplyFilters(ctx context.Context, start, end string) {
	e.SetFilters(start, end)
	e.HistoryPage = 1
	e.LoadHistory(ctx, 1, e.HistoryPageSize)
}

// ClearFilters remove os filtros de data
func (e *ProductEditor) ClearFilters(ctx context.Context) {
	e.ApplyFilters(ctx, "", "")
}

// ChangeHistoryPage carrega a página p mantendo os filtros
func (e *ProductEditor) ChangeHistoryPage(ctx context.Context, p int) {
	e.LoadHistory(ctx, p, e.HistoryPageSize)
}

func (e *ProductEditor) HistoryPaginator() Paginator {
	return Paginator{Total: e.HistoryTotal, PageSize: e.HistoryPageSize, Page: e.HistoryPage}
}

// OpenTransactionForm abre o formulário inline: quantidade 1, preço do formulário, sem detalhe
func (e *ProductEditor) OpenTransactionForm(t transactions.TransactionType) {
	e.TrxType = t
	e.TrxForm = TransactionForm{
		Quantity:  1,
		UnitPrice: e.Form.Price,
	}
	e.TrxFieldErrors = FieldErrors{}
	e.TrxFormVisible = true
	e.notify(EventTrxFormOpened)
}

// CancelTransaction fecha o formulário inline
func (e *ProductEditor) CancelTransaction() {
	e.TrxFormVisible = false
	e.notify(EventTrxFormClosed)
}

// SubmitTransaction cria a transação; em caso de sucesso fecha o formulário,
// recarrega o histórico na página 1, recarrega o produto (estoque) e informa o sucesso.
func (e *ProductEditor) SubmitTransaction(ctx context.Context) bool {
	if !e.IsEdit {
		return false
	}
	e.TrxFieldErrors = e.TrxForm.Validate()
	if len(e.TrxFieldErrors) > 0 {
		e.HistoryError = msgFixTransactionForm
		return false
	}

	e.HistoryState = Loading
	e.HistoryError = ""
	e.notify(EventHistoryLoading)

	if _, err := e.transactions.Create(ctx, e.TrxForm.toCreate(e.ID, e.TrxType)); err != nil {
		e.HistoryState = Failed
		e.HistoryError = client.Message(err, msgTransactionFailed)
		e.notify(EventHistoryFailed)
		return false
	}
	e.notify(EventTrxCreated)

	e.TrxFormVisible = false
	e.notify(EventTrxFormClosed)

	e.HistoryPage = 1
	e.LoadHistory(ctx, 1, e.HistoryPageSize)
	e.LoadProduct(ctx)

	if e.TrxType == transactions.Purchase {
		e.Success = msgPurchaseCreated
	} else {
		e.Success = msgSaleCreated
	}
	e.notify(EventSuccess)
	return true
}

// EditPath is the route of the edit screen of a product.
func EditPath(id int) string {
	return fmt.Sprintf("/products/%d/edit", id)
}
