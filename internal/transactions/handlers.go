package transactions

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"

	"github.com/matheusmosca/inventory-app/internal/httpserver"
)

// InvalidAmountsMessage é a resposta 400 para quantidade ou preço inválidos.
const InvalidAmountsMessage = "Invalid quantity or unit price."

// Handler contém os handlers HTTP de transações
type Handler struct {
	useCase *UseCase
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase *UseCase) *Handler {
	return &Handler{
		useCase: useCase,
	}
}

// Register monta as rotas em /api/transactions
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/transactions")
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
	g.GET("", h.Search)
	g.GET("/:id", h.Get)
}

// Create é o endpoint POST /api/transactions; responde 201 com Location
func (h *Handler) Create(c *gin.Context) {
	var req TransactionCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trx, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.Header("Location", fmt.Sprintf("/api/transactions/%d", trx.InventoryTransactionID))
	c.JSON(http.StatusCreated, trx)
}

// Update é o endpoint PUT /api/transactions/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	var req TransactionUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	trx, err := h.useCase.Update(c.Request.Context(), id, req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

// Delete é o endpoint DELETE /api/transactions/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// Get é o endpoint GET /api/transactions/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := transactionID(c)
	if !ok {
		return
	}

	trx, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, trx)
}

// Search é o endpoint GET /api/transactions?productId&typeId&startUtc&endUtc&page&pageSize
func (h *Handler) Search(c *gin.Context) {
	filter, page, pageSize, err := parseSearchQuery(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.useCase.Search(c.Request.Context(), filter, page, pageSize)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *Handler) respondError(c *gin.Context, err error) {
	if errors.Is(err, ErrInvalidAmounts) {
		c.JSON(http.StatusBadRequest, gin.H{"error": InvalidAmountsMessage})
		return
	}
	httpserver.RespondError(c, err, ErrNotFound)
}

func transactionID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return 0, false
	}
	return id, true
}

// searchQuery são os parâmetros de GET /api/transactions
type searchQuery struct {
	ProductID *int32           `form:"productId"`
	TypeID    *TransactionType `form:"typeId"`
	StartUTC  *time.Time       `form:"startUtc" time_format:"2006-01-02T15:04:05.999999999Z07:00"`
	EndUTC    *time.Time       `form:"endUtc" time_format:"2006-01-02T15:04:05.999999999Z07:00"`
	Page      int              `form:"page"`
	PageSize  int              `form:"pageSize"`
}

func (q searchQuery) filter() SearchFilter {
	filter := SearchFilter{TypeID: q.TypeID}
	if q.ProductID != nil {
		id := int(*q.ProductID)
		filter.ProductID = &id
	}
	if q.StartUTC != nil {
		t := q.StartUTC.UTC()
		filter.StartUTC = &t
	}
	if q.EndUTC != nil {
		t := q.EndUTC.UTC()
		filter.EndUTC = &t
	}
	return filter
}

// nonEmptyQuery liga a query string como binding.Query, mas parâmetro vazio equivale a ausente
type nonEmptyQuery struct{}

func (nonEmptyQuery) Name() string {
	return "query"
}

func (nonEmptyQuery) Bind(req *http.Request, obj any) error {
	values := req.URL.Query()
	for key, vs := range values {
		if len(vs) == 0 || vs[0] == "" {
			delete(values, key)
		}
	}
	if err := binding.MapFormWithTag(obj, values, "form"); err != nil {
		return err
	}
	return binding.Validator.ValidateStruct(obj)
}

func parseSearchQuery(c *gin.Context) (SearchFilter, int, int, error) {
	var q searchQuery
	if err := c.ShouldBindWith(&q, nonEmptyQuery{}); err != nil {
		return SearchFilter{}, 0, 0, fmt.Errorf("invalid search parameters: %w", err)
	}
	return q.filter(), q.Page, q.PageSize, nil
}
