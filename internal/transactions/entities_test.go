package transactions

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizePaging(t *testing.T) {
	tests := []struct {
		name             string
		page, pageSize   int
		wantPage, wantPS int
	}{
		{"defaults from zero", 0, 0, 1, 20},
		{"negative page", -3, 10, 1, 10},
		{"negative size", 2, -1, 2, 20},
		{"size above max", 1, 101, 1, 20},
		{"size at max", 4, 100, 4, 100},
		{"size one", 1, 1, 1, 1},
		{"page above max", 922337203685477581, 20, MaxPage, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, pageSize := NormalizePaging(tt.page, tt.pageSize)
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantPS, pageSize)
		})
	}
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 0, Offset(1, 10))
	assert.Equal(t, 20, Offset(3, 10))

	page, pageSize := NormalizePaging(922337203685477581, MaxPageSize)
	assert.Positive(t, Offset(page, pageSize))
}

func TestValidAmounts(t *testing.T) {
	assert.True(t, validAmounts(1, decimal.Zero))
	assert.False(t, validAmounts(0, decimal.NewFromInt(5)))
	assert.False(t, validAmounts(3, decimal.NewFromInt(-1)))
}

func TestTransactionTypeString(t *testing.T) {
	assert.Equal(t, "Purchase", Purchase.String())
	assert.Equal(t, "Sale", Sale.String())
	assert.Equal(t, "TransactionType(9)", TransactionType(9).String())
}

func TestTransactionCreateDecodesOptionalFields(t *testing.T) {
	var in TransactionCreate
	err := json.Unmarshal([]byte(`{"transactionTypeId":2,"productId":4,"quantity":3,"unitPrice":1.5}`), &in)
	require.NoError(t, err)

	assert.Equal(t, Sale, in.TransactionTypeID)
	assert.Nil(t, in.OccurredAt)
	assert.Nil(t, in.Detail)
	assert.True(t, in.UnitPrice.Equal(decimal.RequireFromString("1.5")))

	err = json.Unmarshal([]byte(`{"transactionTypeId":1,"occurredAt":"2024-05-01T10:00:00Z"}`), &in)
	require.NoError(t, err)
	require.NotNil(t, in.OccurredAt)
	assert.True(t, in.OccurredAt.Equal(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)))
}

func TestPagedResultEncodesEmptyItems(t *testing.T) {
	b, err := json.Marshal(PagedResult[Transaction]{Items: []Transaction{}, Page: 1, PageSize: 20})
	require.NoError(t, err)
	assert.JSONEq(t, `{"items":[],"total":0,"page":1,"pageSize":20}`, string(b))
}
