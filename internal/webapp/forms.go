package webapp

import (
	"errors"
	"log"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/inventory-app/internal/products"
	"github.com/matheusmosca/inventory-app/internal/transactions"
)

// FieldErrors maps a form field to its validation message.
type FieldErrors map[string]string

// formErrorKey guarda erros que não pertencem a um campo (ex.: número mal formatado).
const formErrorKey = "form"

const msgInvalidNumber = "Numeric fields must contain valid numbers"

var registerRules sync.Once

// formValidator registra no validator do gin as regras usadas pelos formulários:
// decimal.Decimal é validado como float64 e notblank recusa texto só com espaços.
func formValidator() *validator.Validate {
	v := binding.Validator.Engine().(*validator.Validate)
	registerRules.Do(func() {
		v.RegisterCustomTypeFunc(func(field reflect.Value) any {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				return d.InexactFloat64()
			}
			return nil
		}, decimal.Decimal{})
		if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
			return strings.TrimSpace(fl.Field().String()) != ""
		}); err != nil {
			log.Printf("❌ Failed to register notblank rule: %v", err)
		}
	})
	return v
}

// bindErrors traduz o erro de c.ShouldBind (ou da validação) para mensagens por campo
func bindErrors(err error) FieldErrors {
	errs := FieldErrors{}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		errs[formErrorKey] = msgInvalidNumber
		return errs
	}
	for _, fe := range verrs {
		name := fe.StructField()
		errs[strings.ToLower(name[:1])+name[1:]] = fieldMessage(fe)
	}
	return errs
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.StructField() + "." + fe.Tag() {
	case "Name.required", "Name.notblank":
		return "Name is required"
	case "Name.max":
		return "Name must be at most 200 characters"
	case "Price.min":
		return "Price must be zero or greater"
	case "InitialStock.min":
		return "Initial stock must be zero or greater"
	case "Quantity.min":
		return "Quantity must be at least 1"
	case "UnitPrice.min":
		return "Unit price must be zero or greater"
	}
	return fe.Error()
}

func validate(form any) FieldErrors {
	formValidator()
	if err := binding.Validator.ValidateStruct(form); err != nil {
		return bindErrors(err)
	}
	return FieldErrors{}
}

// ProductForm são os campos editáveis da tela de produto.
type ProductForm struct {
	Name         string          `form:"name" binding:"required,notblank,max=200"`
	Description  string          `form:"description"`
	ImageURL     string          `form:"imageUrl"`
	Price        decimal.Decimal `form:"price,default=0" binding:"min=0"`
	IsActive     bool            `form:"isActive"`
	InitialStock int             `form:"initialStock" binding:"min=0"`
}

// NewProductForm returns the blank create form.
func NewProductForm() ProductForm {
	return ProductForm{Price: decimal.Zero, IsActive: true}
}

// Validate aplica as regras de binding; o estoque inicial só conta na criação
func (f ProductForm) Validate(isEdit bool) FieldErrors {
	errs := validate(f)
	if isEdit {
		delete(errs, "initialStock")
	}
	return errs
}

func (f ProductForm) toCreate() products.ProductCreate {
	return products.ProductCreate{
		Name:         f.Name,
		Description:  optional(f.Description),
		ImageURL:     optional(f.ImageURL),
		Price:        f.Price,
		InitialStock: f.InitialStock,
	}
}

func (f ProductForm) toUpdate() products.ProductUpdate {
	active := f.IsActive
	return products.ProductUpdate{
		Name:        f.Name,
		Description: optional(f.Description),
		ImageURL:    optional(f.ImageURL),
		Price:       f.Price,
		IsActive:    &active,
	}
}

func formFromProduct(p *products.Product) ProductForm {
	f := ProductForm{
		Name:     p.Name,
		Price:    p.Price,
		IsActive: p.IsActive,
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
	if p.ImageURL != nil {
		f.ImageURL = *p.ImageURL
	}
	return f
}

// TransactionForm é o formulário inline de compra/venda.
type TransactionForm struct {
	Quantity  int             `form:"quantity" binding:"min=1"`
	UnitPrice decimal.Decimal `form:"unitPrice,default=0" binding:"min=0"`
	Detail    string          `form:"detail"`
}

func (f TransactionForm) Validate() FieldErrors {
	return validate(f)
}

func (f TransactionForm) toCreate(productID int, t transactions.TransactionType) transactions.TransactionCreate {
	return transactions.TransactionCreate{
		TransactionTypeID: t,
		ProductID:         productID,
		Quantity:          f.Quantity,
		UnitPrice:         f.UnitPrice,
		Detail:            optional(f.Detail),
	}
}

// optional turns an empty input into a JSON null.
func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
