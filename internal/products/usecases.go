package products

import (
	"context"
	"errors"
	"fmt"
	"log"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	ErrNotFound = errors.New("product not found")
)

// UseCase contém a lógica de negócio de produtos
type UseCase struct {
	repository Repository
	tracer     trace.Tracer

	productsCreated metric.Int64Counter
}

// NewUseCase cria uma nova instância de UseCase
func NewUseCase(
	repository Repository,
	tracer trace.Tracer,
	meter metric.Meter,
) (*UseCase, error) {
	productsCreated, err := meter.Int64Counter(
		"inventory.products.created",
		metric.WithDescription("Number of products created"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create products counter: %w", err)
	}

	return &UseCase{
		repository:      repository,
		tracer:          tracer,
		productsCreated: productsCreated,
	}, nil
}

// List retorna todos os produtos ordenados por nome
func (uc *UseCase) List(ctx context.Context) ([]Product, error) {
	ctx, span := uc.tracer.Start(ctx, "products.list")
	defer span.End()

	items, err := uc.repository.List(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	span.SetAttributes(attribute.Int("products.count", len(items)))
	return items, nil
}

// Get retorna o produto ou ErrNotFound
func (uc *UseCase) Get(ctx context.Context, productID int) (*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "products.get",
		trace.WithAttributes(attribute.Int("product_id", productID)))
	defer span.End()

	product, err := uc.repository.GetByID(ctx, productID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}
	return product, nil
}

// Create cria o produto e devolve a versão persistida (com estoque inicial)
func (uc *UseCase) Create(ctx context.Context, in ProductCreate) (*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "products.create")
	defer span.End()

	log.Printf("➡️ [CREATE PRODUCT] Name=%q | Price=%s | InitialStock=%d", in.Name, in.Price, in.InitialStock)

	id, err := uc.repository.Add(ctx, in)
	if err != nil {
		log.Printf("❌ [CREATE PRODUCT] Failed: %v", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("product_id", id))
	uc.productsCreated.Add(ctx, 1)

	product, err := uc.repository.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, ErrNotFound
	}

	log.Printf("✅ [CREATE PRODUCT] Success: ProductID=%d", id)
	return product, nil
}

// Update altera o produto e o relê; estoque nunca é alterado aqui
func (uc *UseCase) Update(ctx context.Context, productID int, in ProductUpdate) (*Product, error) {
	ctx, span := uc.tracer.Start(ctx, "products.update",
		trace.WithAttributes(attribute.Int("product_id", productID)))
	defer span.End()

	log.Printf("➡️ [UPDATE PRODUCT] ProductID=%d | Name=%q | Active=%t", productID, in.Name, in.Active())

	if err := uc.repository.Update(ctx, productID, in); err != nil {
		log.Printf("❌ [UPDATE PRODUCT] ProductID=%d Failed: %v", productID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	product, err := uc.repository.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		log.Printf("ℹ️ [UPDATE PRODUCT] ProductID=%d not found", productID)
		return nil, ErrNotFound
	}

	log.Printf("✅ [UPDATE PRODUCT] Success: ProductID=%d", productID)
	return product, nil
}

// Delete remove o produto; o banco recusa quando há transações associadas
func (uc *UseCase) Delete(ctx context.Context, productID int) error {
	ctx, span := uc.tracer.Start(ctx, "products.delete",
		trace.WithAttributes(attribute.Int("product_id", productID)))
	defer span.End()

	log.Printf("➡️ [DELETE PRODUCT] ProductID=%d", productID)

	if err := uc.repository.Delete(ctx, productID); err != nil {
		log.Printf("❌ [DELETE PRODUCT] ProductID=%d Failed: %v", productID, err)
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return err
	}

	log.Printf("✅ [DELETE PRODUCT] Success: ProductID=%d", productID)
	return nil
}
