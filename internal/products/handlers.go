package products

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/matheusmosca/inventory-app/internal/httpserver"
)

// Handler contém os handlers HTTP de produtos
type Handler struct {
	useCase *UseCase
}

// NewHandler cria uma nova instância de Handler
func NewHandler(useCase *UseCase) *Handler {
	return &Handler{
		useCase: useCase,
	}
}

// Register monta as rotas em /api/products
func (h *Handler) Register(r gin.IRouter) {
	g := r.Group("/api/products")
	g.GET("", h.List)
	g.GET("/:id", h.Get)
	g.POST("", h.Create)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Delete)
}

// List é o endpoint GET /api/products
func (h *Handler) List(c *gin.Context) {
	items, err := h.useCase.List(c.Request.Context())
	if err != nil {
		httpserver.RespondError(c, err, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Get é o endpoint GET /api/products/:id
func (h *Handler) Get(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	product, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		httpserver.RespondError(c, err, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Create é o endpoint POST /api/products; responde 201 com Location
func (h *Handler) Create(c *gin.Context) {
	var req ProductCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Create(c.Request.Context(), req)
	if err != nil {
		httpserver.RespondError(c, err, ErrNotFound)
		return
	}

	c.Header("Location", "/api/products/"+strconv.Itoa(product.ProductID))
	c.JSON(http.StatusCreated, product)
}

// Update é o endpoint PUT /api/products/:id
func (h *Handler) Update(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	var req ProductUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	product, err := h.useCase.Update(c.Request.Context(), id, req)
	if err != nil {
		httpserver.RespondError(c, err, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, product)
}

// Delete é o endpoint DELETE /api/products/:id
func (h *Handler) Delete(c *gin.Context) {
	id, ok := productID(c)
	if !ok {
		return
	}

	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		httpserver.RespondError(c, err, ErrNotFound)
		return
	}
	c.Status(http.StatusNoContent)
}

// productID lê o parâmetro :id; ids não numéricos ou fora de int4 não casam com nenhum produto
func productID(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": ErrNotFound.Error()})
		return 0, false
	}
	return int(id), true
}
