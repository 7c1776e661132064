package webapp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/matheusmosca/inventory-app/internal/client"
	"github.com/matheusmosca/inventory-app/internal/products"
	"github.com/matheusmosca/inventory-app/internal/transactions"
)

// MockProductsAPI simula a Products API
type MockProductsAPI struct {
	mock.Mock
}

func (m *MockProductsAPI) List(ctx context.Context) ([]products.Product, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]products.Product), args.Error(1)
}

func (m *MockProductsAPI) Get(ctx context.Context, id int) (*products.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *MockProductsAPI) Create(ctx context.Context, in products.ProductCreate) (*products.Product, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *MockProductsAPI) Update(ctx context.Context, id int, in products.ProductUpdate) (*products.Product, error) {
	args := m.Called(ctx, id, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*products.Product), args.Error(1)
}

func (m *MockProductsAPI) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockTransactionsAPI simula a Transactions API
type MockTransactionsAPI struct {
	mock.Mock
}

func (m *MockTransactionsAPI) Search(ctx context.Context, filter transactions.SearchFilter, page, pageSize int) (transactions.PagedResult[transactions.Transaction], error) {
	args := m.Called(ctx, filter, page, pageSize)
	return args.Get(0).(transactions.PagedResult[transactions.Transaction]), args.Error(1)
}

func (m *MockTransactionsAPI) Create(ctx context.Context, in transactions.TransactionCreate) (*transactions.Transaction, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*transactions.Transaction), args.Error(1)
}

func sampleProducts() []products.Product {
	return []products.Product{
		{ProductID: 1, Name: "Apple", IsActive: true},
		{ProductID: 2, Name: "Banana", IsActive: false},
		{ProductID: 3, Name: "Pineapple", IsActive: true},
		{ProductID: 4, Name: "Grape", IsActive: true},
		{ProductID: 5, Name: "apricot", IsActive: false},
	}
}

func page(total, p, size int) transactions.PagedResult[transactions.Transaction] {
	return transactions.PagedResult[transactions.Transaction]{Items: []transactions.Transaction{}, Total: total, Page: p, PageSize: size}
}

func TestPaginator(t *testing.T) {
	assert.Equal(t, 1, Paginator{Total: 0, PageSize: 3, Page: 1}.TotalPages())
	assert.Equal(t, 2, Paginator{Total: 5, PageSize: 3, Page: 1}.TotalPages())
	assert.Equal(t, 3, Paginator{Total: 9, PageSize: 3, Page: 1}.TotalPages())

	first := Paginator{Total: 5, PageSize: 3, Page: 1}
	assert.False(t, first.HasPrev())
	assert.Equal(t, 1, first.Prev())
	assert.Equal(t, 2, first.Next())

	last := Paginator{Total: 5, PageSize: 3, Page: 2}
	assert.False(t, last.HasNext())
	assert.Equal(t, 2, last.Next())
}

func TestProductListLoadAndFilter(t *testing.T) {
	api := new(MockProductsAPI)
	api.On("List", mock.Anything).Return(sampleProducts(), nil)
	vm := NewProductList(api)

	var events []Event
	vm.OnChange = func(e Event) { events = append(events, e) }

	vm.Load(context.Background())
	require.Equal(t, Loaded, vm.State)
	assert.Equal(t, []Event{EventListLoading, EventListLoaded}, events)
	assert.Len(t, vm.Paged(), 3)
	assert.Equal(t, 2, vm.Paginator().TotalPages())

	vm.SetPage(2)
	assert.Len(t, vm.Paged(), 2)

	vm.SetQuery("  AP ")
	assert.Equal(t, 1, vm.Page, "changing the text filter resets the page")
	names := []string{}
	for _, p := range vm.Filtered() {
		names = append(names, p.Name)
	}
	assert.Equal(t, []string{"Apple", "Pineapple", "Grape", "apricot"}, names)

	vm.SetActive("inactive")
	assert.Equal(t, 1, vm.Page)
	require.Len(t, vm.Filtered(), 1)
	assert.Equal(t, "apricot", vm.Filtered()[0].Name)

	vm.SetActive("bogus")
	assert.Equal(t, ActiveAll, vm.Active)
}

func TestProductListLoadFailureUsesServerMessage(t *testing.T) {
	api := new(MockProductsAPI)
	api.On("List", mock.Anything).Return(nil, &client.APIError{Status: 500, Message: "internal server error"}).Once()
	api.On("List", mock.Anything).Return(nil, errors.New("connection refused")).Once()
	vm := NewProductList(api)

	vm.Load(context.Background())
	assert.Equal(t, Failed, vm.State)
	assert.Equal(t, "internal server error", vm.Error)

	vm.Load(context.Background())
	assert.Equal(t, "Failed to load products", vm.Error)
}

func TestProductListDelete(t *testing.T) {
	t.Run("success reloads", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("Delete", mock.Anything, 2).Return(nil)
		api.On("List", mock.Anything).Return(sampleProducts()[:1], nil)
		vm := NewProductList(api)

		ok := vm.Delete(context.Background(), 2)

		assert.True(t, ok)
		assert.Equal(t, "Product deleted", vm.Success)
		assert.Len(t, vm.Items, 1)
		api.AssertExpectations(t)
	})

	t.Run("blocked", func(t *testing.T) {
		api := new(MockProductsAPI)
		api.On("Delete", mock.Anything, 2).Return(&client.APIError{Status: 400, Message: "violates foreign key constraint"})
		vm := NewProductList(api)

		ok := vm.Delete(context.Background(), 2)

		assert.False(t, ok)
		assert.Equal(t, "violates foreign key constraint", vm.Error)
		api.AssertNotCalled(t, "List", mock.Anything)
	})
}

func TestProductFormValidate(t *testing.T) {
	f := NewProductForm()
	errs := f.Validate(false)
	assert.Contains(t, errs, "name")

	long := make([]byte, 201)
	for i := range long {
		long[i] = 'a'
	}
	f = ProductForm{Name: string(long), Price: decimal.NewFromInt(-1), InitialStock: -1}
	errs = f.Validate(false)
	assert.Len(t, errs, 3)

	assert.Equal(t, "Name must be at most 200 characters", errs["name"])
	assert.Equal(t, "Price must be zero or greater", errs["price"])

	assert.NotContains(t, f.Validate(true), "initialStock")
	assert.Empty(t, ProductForm{Name: "ok", Price: decimal.Zero}.Validate(false))
	assert.Equal(t, "Name is required", ProductForm{Name: "  "}.Validate(false)["name"])
	assert.Contains(t, ProductForm{Name: "ok", Price: decimal.RequireFromString("-0.01")}.Validate(false), "price")
}

func TestTransactionFormValidate(t *testing.T) {
	assert.Empty(t, TransactionForm{Quantity: 1, UnitPrice: decimal.Zero}.Validate())

	errs := TransactionForm{Quantity: 0, UnitPrice: decimal.NewFromInt(-1)}.Validate()
	assert.Equal(t, "Quantity must be at least 1", errs["quantity"])
	assert.Equal(t, "Unit price must be zero or greater", errs["unitPrice"])
}

func TestEditorCreateNavigatesToEdit(t *testing.T) {
	papi := new(MockProductsAPI)
	papi.On("Create", mock.Anything, mock.MatchedBy(func(in products.ProductCreate) bool {
		return in.Name == "Lamp" && in.Description == nil && in.InitialStock == 4
	})).Return(&products.Product{ProductID: 12, Name: "Lamp"}, nil)
	vm := NewProductEditor(papi, new(MockTransactionsAPI), time.UTC)
	vm.Form = ProductForm{Name: "Lamp", Price: decimal.NewFromInt(3), InitialStock: 4, IsActive: true}

	path := vm.Submit(context.Background())

	assert.Equal(t, "/products/12/edit", path)
	assert.Equal(t, "Product created", vm.Success)
}

func TestEditorSubmitInvalidFormDoesNotCallAPI(t *testing.T) {
	papi := new(MockProductsAPI)
	vm := NewProductEditor(papi, new(MockTransactionsAPI), time.UTC)

	path := vm.Submit(context.Background())

	assert.Empty(t, path)
	assert.Contains(t, vm.FieldErrors, "name")
	papi.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEditorUpdateFailure(t *testing.T) {
	papi := new(MockProductsAPI)
	papi.On("Update", mock.Anything, 3, mock.Anything).Return(nil, &client.APIError{Status: 404})
	vm := NewProductEditor(papi, new(MockTransactionsAPI), time.UTC)
	vm.ID, vm.IsEdit = 3, true
	vm.Form = ProductForm{Name: "x", Price: decimal.Zero, IsActive: true}

	vm.Submit(context.Background())

	assert.Equal(t, Failed, vm.ProductState)
	assert.Equal(t, "Update failed", vm.Error)
}

func TestHistoryBoundsUseClientTimeZone(t *testing.T) {
	loc := time.FixedZone("UTC-3", -3*60*60)
	vm := NewProductEditor(new(MockProductsAPI), new(MockTransactionsAPI), loc)
	vm.SetFilters("2024-05-01", "2024-05-01")

	start, end, err := vm.HistoryBounds()

	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC), *start)
	assert.Equal(t, time.Date(2024, 5, 2, 2, 59, 59, 999000000, time.UTC), *end)
}

func TestHistoryStartAfterEndIsRejectedWithoutRequest(t *testing.T) {
	tapi := new(MockTransactionsAPI)
	vm := NewProductEditor(new(MockProductsAPI), tapi, time.UTC)
	vm.ID, vm.IsEdit = 1, true

	vm.ApplyFilters(context.Background(), "2024-05-10", "2024-05-01")

	assert.Equal(t, Failed, vm.HistoryState)
	assert.Equal(t, `The "To" date must be after the "From" date.`, vm.HistoryError)
	tapi.AssertNotCalled(t, "Search", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestOpenLoadsProductAndHistoryIndependently(t *testing.T) {
	papi := new(MockProductsAPI)
	tapi := new(MockTransactionsAPI)
	papi.On("Get", mock.Anything, 9).Return(&products.Product{ProductID: 9, Name: "Desk", Price: decimal.NewFromInt(50), Stock: 2, IsActive: true}, nil)
	tapi.On("Search", mock.Anything, mock.Anything, 1, 10).Return(transactions.PagedResult[transactions.Transaction]{}, &client.APIError{Status: 500})
	vm := NewProductEditor(papi, tapi, time.UTC)

	vm.Open(context.Background(), 9)

	assert.Equal(t, Loaded, vm.ProductState)
	assert.Equal(t, "Desk", vm.Form.Name)
	assert.Equal(t, Failed, vm.HistoryState)
	assert.Equal(t, "Failed to load transactions", vm.HistoryError)
}

func TestOpenTransactionFormResetsValues(t *testing.T) {
	vm := NewProductEditor(new(MockProductsAPI), new(MockTransactionsAPI), time.UTC)
	vm.Form.Price = decimal.RequireFromString("7.25")
	vm.TrxForm = TransactionForm{Quantity: 9, Detail: "old"}

	vm.OpenTransactionForm(transactions.Sale)

	assert.True(t, vm.TrxFormVisible)
	assert.Equal(t, transactions.Sale, vm.TrxType)
	assert.Equal(t, 1, vm.TrxForm.Quantity)
	assert.True(t, vm.TrxForm.UnitPrice.Equal(decimal.RequireFromString("7.25")))
	assert.Empty(t, vm.TrxForm.Detail)

	vm.CancelTransaction()
	assert.False(t, vm.TrxFormVisible)
}

func TestSubmitTransactionOrdering(t *testing.T) {
	papi := new(MockProductsAPI)
	tapi := new(MockTransactionsAPI)
	var calls []string

	tapi.On("Create", mock.Anything, mock.MatchedBy(func(in transactions.TransactionCreate) bool {
		return in.ProductID == 4 && in.TransactionTypeID == transactions.Purchase && in.Quantity == 2 && in.Detail == nil
	})).Run(func(mock.Arguments) { calls = append(calls, "create") }).
		Return(&transactions.Transaction{InventoryTransactionID: 1}, nil)
	tapi.On("Search", mock.Anything, mock.Anything, 1, 10).Run(func(mock.Arguments) { calls = append(calls, "history") }).
		Return(page(1, 1, 10), nil)
	papi.On("Get", mock.Anything, 4).Run(func(mock.Arguments) { calls = append(calls, "product") }).
		Return(&products.Product{ProductID: 4, Name: "Desk", Stock: 7, IsActive: true}, nil)

	vm := NewProductEditor(papi, tapi, time.UTC)
	vm.ID, vm.IsEdit = 4, true
	vm.HistoryPage = 3
	vm.OpenTransactionForm(transactions.Purchase)
	vm.TrxForm.Quantity = 2

	var events []Event
	vm.OnChange = func(e Event) { events = append(events, e) }

	ok := vm.SubmitTransaction(context.Background())

	require.True(t, ok)
	assert.Equal(t, []string{"create", "history", "product"}, calls)
	assert.False(t, vm.TrxFormVisible)
	assert.Equal(t, 1, vm.HistoryPage)
	assert.Equal(t, 7, vm.Product.Stock)
	assert.Equal(t, "Purchase created", vm.Success)
	assert.Equal(t, []Event{
		EventHistoryLoading, EventTrxCreated, EventTrxFormClosed,
		EventHistoryLoading, EventHistoryLoaded,
		EventProductLoading, EventProductLoaded,
		EventSuccess,
	}, events)
}

func TestSubmitTransactionFailureKeepsForm(t *testing.T) {
	tapi := new(MockTransactionsAPI)
	tapi.On("Create", mock.Anything, mock.Anything).
		Return(nil, &client.APIError{Status: 400, Message: "Insufficient stock for product 4 (available 1, requested 5)"})
	vm := NewProductEditor(new(MockProductsAPI), tapi, time.UTC)
	vm.ID, vm.IsEdit = 4, true
	vm.OpenTransactionForm(transactions.Sale)
	vm.TrxForm.Quantity = 5

	ok := vm.SubmitTransaction(context.Background())

	assert.False(t, ok)
	assert.True(t, vm.TrxFormVisible)
	assert.Equal(t, Failed, vm.HistoryState)
	assert.Equal(t, "Insufficient stock for product 4 (available 1, requested 5)", vm.HistoryError)
	assert.Empty(t, vm.Success)
}
