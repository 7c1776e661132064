package transactions

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/inventory-app/internal/database"
)

var (
	ErrInvalidAmounts = errors.New("invalid quantity or unit price")
)

// UseCase contém a lógica de negócio de transações
type UseCase struct {
	repository Repository
	tracer     trace.Tracer

	transactionsCreated  metric.Int64Counter
	transactionsRejected metric.Int64Counter
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(
	repository Repository,
	tracer trace.Tracer,
	meter metric.Meter,
) (*UseCase, error) {
	transactionsCreated, err := meter.Int64Counter(
		"inventory.transactions.created",
		metric.WithDescription("Number of inventory transactions created, by type"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transactions counter: %w", err)
	}

	transactionsRejected, err := meter.Int64Counter(
		"inventory.transactions.rejected",
		metric.WithDescription("Number of inventory transactions refused by the database"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create rejections counter: %w", err)
	}

	return &UseCase{
		repository:           repository,
		tracer:               tracer,
		transactionsCreated:  transactionsCreated,
		transactionsRejected: transactionsRejected,
	}, nil
}

// Create registra a transação; o banco ajusta o estoque e recusa venda sem saldo
func (uc *UseCase) Create(ctx context.Context, in TransactionCreate) (*Transaction, error) {
	ctx, span := uc.tracer.Start(ctx, "transactions.create", trace.WithAttributes(
		attribute.Int("product_id", in.ProductID),
		attribute.String("transaction_type", in.TransactionTypeID.String()),
		attribute.Int("quantity", in.Quantity),
	))
	defer span.End()

	log.Printf("➡️ [CREATE TRANSACTION] ProductID=%d | Type=%s | Quantity=%d | UnitPrice=%s",
		in.ProductID, in.TransactionTypeID, in.Quantity, in.UnitPrice)

	if !validAmounts(in.Quantity, in.UnitPrice) {
		return nil, ErrInvalidAmounts
	}

	id, err := uc.repository.Add(ctx, in)
	if err != nil {
		uc.fail(ctx, span, "CREATE TRANSACTION", err)
		return nil, err
	}
	span.SetAttributes(attribute.Int64("transaction_id", id))
	uc.transactionsCreated.Add(ctx, 1, metric.WithAttributes(
		attribute.String("type", in.TransactionTypeID.String()),
	))

	trx, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, ErrNotFound
	}

	log.Printf("✅ [CREATE TRANSACTION] Success: TransactionID=%d | ProductID=%d", id, in.ProductID)
	return trx, nil
}

// Update sobrescreve a transação e devolve a versão relida
func (uc *UseCase) Update(ctx context.Context, id int64, in TransactionUpdate) (*Transaction, error) {
	ctx, span := uc.tracer.Start(ctx, "transactions.update",
		trace.WithAttributes(attribute.Int64("transaction_id", id)))
	defer span.End()

	log.Printf("➡️ [UPDATE TRANSACTION] TransactionID=%d | ProductID=%d | Type=%s | Quantity=%d",
		id, in.ProductID, in.TransactionTypeID, in.Quantity)

	if !validAmounts(in.Quantity, in.UnitPrice) {
		return nil, ErrInvalidAmounts
	}

	if err := uc.repository.Update(ctx, id, in); err != nil {
		uc.fail(ctx, span, "UPDATE TRANSACTION", err)
		return nil, err
	}

	trx, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if trx == nil {
		return nil, ErrNotFound
	}

	log.Printf("✅ [UPDATE TRANSACTION] Success: TransactionID=%d", id)
	return trx, nil
}

// Delete remove a transação
func (uc *UseCase) Delete(ctx context.Context, id int64) error {
	ctx, span := uc.tracer.Start(ctx, "transactions.delete",
		trace.WithAttributes(attribute.Int64("transaction_id", id)))
	defer span.End()

	log.Printf("➡️ [DELETE TRANSACTION] TransactionID=%d", id)

	if err := uc.repository.Delete(ctx, id); err != nil {
		uc.fail(ctx, span, "DELETE TRANSACTION", err)
		return err
	}

	log.Printf("✅ [DELETE TRANSACTION] Success: TransactionID=%d", id)
	return nil
}

// Get retorna a transação ou ErrNotFound
func (uc *UseCase) Get(ctx context.Context, id int64) (*Transaction, error) {
	ctx, span := uc.tracer.Start(ctx, "transactions.get",
		trace.WithAttributes(attribute.Int64("transaction_id", id)))
	defer span.End()

	trx, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if trx == nil {
		return nil, ErrNotFound
	}
	return trx, nil
}

// Search normaliza a paginação e busca a página pedida
func (uc *UseCase) Search(ctx context.Context, filter SearchFilter, page, pageSize int) (PagedResult[Transaction], error) {
	page, pageSize = NormalizePaging(page, pageSize)

	ctx, span := uc.tracer.Start(ctx, "transactions.search", trace.WithAttributes(
		attribute.Int("page", page),
		attribute.Int("page_size", pageSize),
	))
	defer span.End()

	if filter.ProductID != nil {
		span.SetAttributes(attribute.Int("product_id", *filter.ProductID))
	}

	result, err := uc.repository.Search(ctx, filter, page, pageSize)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return PagedResult[Transaction]{}, err
	}

	span.SetAttributes(attribute.Int("total", result.Total))
	return result, nil
}

func (uc *UseCase) fail(ctx context.Context, span trace.Span, tag string, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())

	if errors.Is(err, ErrNotFound) {
		log.Printf("ℹ️ [%s] %v", tag, err)
		return
	}
	if rejected, ok := database.AsRejected(err); ok {
		uc.transactionsRejected.Add(ctx, 1, metric.WithAttributes(attribute.String("code", rejected.Code)))
	}
	log.Printf("❌ [%s] Failed: %v", tag, err)
}
