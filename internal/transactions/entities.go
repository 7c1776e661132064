package transactions

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	decimal.MarshalJSONWithoutQuotes = true
}

// TransactionType identifica compra ou venda (tabela transaction_type)
type TransactionType uint8

const (
	Purchase TransactionType = 1
	Sale     TransactionType = 2
)

func (t TransactionType) String() string {
	switch t {
	case Purchase:
		return "Purchase"
	case Sale:
		return "Sale"
	default:
		return fmt.Sprintf("TransactionType(%d)", uint8(t))
	}
}

// Transaction é a leitura de uma transação, com nomes do tipo e do produto.
type Transaction struct {
	InventoryTransactionID int64           `json:"inventoryTransactionId" db:"inventory_transaction_id"`
	OccurredAt             time.Time       `json:"occurredAt" db:"occurred_at"`
	TransactionTypeID      TransactionType `json:"transactionTypeId" db:"transaction_type_id"`
	TransactionType        string          `json:"transactionType" db:"transaction_type"`
	ProductID              int             `json:"productId" db:"product_id"`
	ProductName            string          `json:"productName" db:"product_name"`
	Quantity               int             `json:"quantity" db:"quantity"`
	UnitPrice              decimal.Decimal `json:"unitPrice" db:"unit_price"`
	TotalPrice             decimal.Decimal `json:"totalPrice" db:"total_price"`
	Detail                 *string         `json:"detail" db:"detail"`
}

// TransactionCreate é o corpo do POST /api/transactions.
// OccurredAt omitido significa "agora" no relógio do banco.
type TransactionCreate struct {
	TransactionTypeID TransactionType `json:"transactionTypeId"`
	ProductID         int             `json:"productId" binding:"max=2147483647"`
	Quantity          int             `json:"quantity" binding:"max=2147483647"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Detail            *string         `json:"detail"`
	OccurredAt        *time.Time      `json:"occurredAt"`
}

// TransactionUpdate é o corpo do PUT /api/transactions/{id}.
// OccurredAt omitido mantém o valor gravado; os demais campos são sobrescritos.
type TransactionUpdate struct {
	TransactionTypeID TransactionType `json:"transactionTypeId"`
	ProductID         int             `json:"productId" binding:"max=2147483647"`
	Quantity          int             `json:"quantity" binding:"max=2147483647"`
	UnitPrice         decimal.Decimal `json:"unitPrice"`
	Detail            *string         `json:"detail"`
	OccurredAt        *time.Time      `json:"occurredAt"`
}

// SearchFilter: campos nil não filtram. StartUTC é inclusivo e EndUTC exclusivo.
type SearchFilter struct {
	ProductID *int
	TypeID    *TransactionType
	StartUTC  *time.Time
	EndUTC    *time.Time
}

// PagedResult é o envelope de uma página de resultados.
type PagedResult[T any] struct {
	Items    []T `json:"items"`
	Total    int `json:"total"`
	Page     int `json:"page"`
	PageSize int `json:"pageSize"`
}

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxPage         = math.MaxInt32
)

// NormalizePaging aplica os limites de paginação: page <= 0 vira 1,
// pageSize <= 0 ou > MaxPageSize vira DefaultPageSize e page acima de MaxPage vira MaxPage.
func NormalizePaging(page, pageSize int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return page, pageSize
}

// Offset is the number of rows skipped before the given page.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}

// validAmounts is the boundary check run before create and update.
func validAmounts(quantity int, unitPrice decimal.Decimal) bool {
	return quantity > 0 && !unitPrice.IsNegative()
}
