package webapp

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/matheusmosca/inventory-app/internal/transactions"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Handler serve as telas do cliente web
type Handler struct {
	products     ProductsAPI
	transactions TransactionsAPI
	loc          *time.Location
}

// NewHandler cria uma nova instância de Handler
func NewHandler(productsAPI ProductsAPI, transactionsAPI TransactionsAPI, loc *time.Location) *Handler {
	formValidator()
	if loc == nil {
		loc = time.Local
	}
	return &Handler{
		products:     productsAPI,
		transactions: transactionsAPI,
		loc:          loc,
	}
}

// Templates parses the embedded pages with the helpers they use.
func (h *Handler) Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"money": func(d decimal.Decimal) string {
			return d.StringFixed(2)
		},
		"localTime": func(t time.Time) string {
			return t.In(h.loc).Format("2006-01-02 15:04")
		},
		"deref": func(s *string) string {
			if s == nil {
				return ""
			}
			return *s
		},
	}).ParseFS(templatesFS, "templates/*.html")
}

// Register instala templates e rotas. Rotas desconhecidas levam a /products.
func (h *Handler) Register(r *gin.Engine) error {
	tmpl, err := h.Templates()
	if err != nil {
		return err
	}
	r.SetHTMLTemplate(tmpl)

	r.GET("/", h.redirectToList)
	r.GET("/products", h.List)
	r.POST("/products/:id/delete", h.Delete)
	r.GET("/products/new", h.New)
	r.POST("/products/new", h.Create)
	r.GET("/products/:id/edit", h.Edit)
	r.POST("/products/:id/edit", h.Update)
	r.POST("/products/:id/transactions", h.CreateTransaction)
	r.NoRoute(h.redirectToList)
	return nil
}

type listPage struct {
	Title   string
	Confirm string
	VM      *ProductList
}

type editorPage struct {
	Title string
	VM    *ProductEditor
}

func (h *Handler) redirectToList(c *gin.Context) {
	c.Redirect(http.StatusFound, "/products")
}

// List é a tela GET /products?q&active&page
func (h *Handler) List(c *gin.Context) {
	vm := NewProductList(h.products)
	vm.Load(c.Request.Context())
	vm.SetQuery(c.Query("q"))
	vm.SetActive(c.Query("active"))
	vm.SetPage(queryPage(c, "page"))
	applyFlash(c, &vm.Success, &vm.Error)

	c.HTML(http.StatusOK, "products.html", listPage{Title: "Products", Confirm: DeleteConfirmation, VM: vm})
}

// Delete é o POST /products/:id/delete; volta para a lista mantendo os filtros
func (h *Handler) Delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.redirectToList(c)
		return
	}

	vm := NewProductList(h.products)
	params := url.Values{}
	if q := c.PostForm("q"); q != "" {
		params.Set("q", q)
	}
	if active := c.PostForm("active"); active != "" {
		params.Set("active", active)
	}

	if vm.Delete(c.Request.Context(), id) {
		params.Set("success", vm.Success)
	} else {
		params.Set("error", vm.Error)
	}
	redirect(c, "/products", params)
}

// New é a tela GET /products/new
func (h *Handler) New(c *gin.Context) {
	vm := NewProductEditor(h.products, h.transactions, h.loc)
	c.HTML(http.StatusOK, "product_form.html", editorPage{Title: "New Product", VM: vm})
}

// Create é o POST /products/new; em caso de sucesso vai para a edição do produto criado
func (h *Handler) Create(c *gin.Context) {
	vm := NewProductEditor(h.products, h.transactions, h.loc)

	form := NewProductForm()
	err := c.ShouldBind(&form)
	vm.Form = form
	if err != nil {
		vm.FieldErrors = bindErrors(err)
		c.HTML(http.StatusUnprocessableEntity, "product_form.html", editorPage{Title: "New Product", VM: vm})
		return
	}

	if path := vm.Submit(c.Request.Context()); path != "" {
		redirect(c, path, url.Values{"success": {vm.Success}})
		return
	}

	c.HTML(statusFor(vm.FieldErrors), "product_form.html", editorPage{Title: "New Product", VM: vm})
}

// Edit é a tela GET /products/:id/edit?start&end&page&trx
func (h *Handler) Edit(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.redirectToList(c)
		return
	}

	vm := NewProductEditor(h.products, h.transactions, h.loc)
	vm.SetFilters(c.Query("start"), c.Query("end"))
	vm.HistoryPage = queryPage(c, "page")
	vm.Open(c.Request.Context(), id)

	switch c.Query("trx") {
	case "purchase":
		vm.OpenTransactionForm(transactions.Purchase)
	case "sale":
		vm.OpenTransactionForm(transactions.Sale)
	}
	applyFlash(c, &vm.Success, &vm.Error)

	c.HTML(http.StatusOK, "product_form.html", editorPage{Title: "Edit Product", VM: vm})
}

// Update é o POST /products/:id/edit
func (h *Handler) Update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.redirectToList(c)
		return
	}
	ctx := c.Request.Context()

	vm := NewProductEditor(h.products, h.transactions, h.loc)
	vm.ID = id
	vm.IsEdit = true
	vm.LoadProduct(ctx)

	var form ProductForm
	err := c.ShouldBind(&form)
	vm.Form = form
	if err != nil {
		vm.FieldErrors = bindErrors(err)
		vm.LoadHistory(ctx, 1, vm.HistoryPageSize)
		c.HTML(http.StatusUnprocessableEntity, "product_form.html", editorPage{Title: "Edit Product", VM: vm})
		return
	}

	vm.Submit(ctx)
	if vm.Success != "" {
		redirect(c, EditPath(id), url.Values{"success": {vm.Success}})
		return
	}

	vm.LoadHistory(ctx, 1, vm.HistoryPageSize)
	c.HTML(statusFor(vm.FieldErrors), "product_form.html", editorPage{Title: "Edit Product", VM: vm})
}

// CreateTransaction é o POST /products/:id/transactions do formulário inline;
// em caso de sucesso redireciona para a edição mantendo os filtros
func (h *Handler) CreateTransaction(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		h.redirectToList(c)
		return
	}
	ctx := c.Request.Context()

	vm := NewProductEditor(h.products, h.transactions, h.loc)
	vm.SetFilters(c.PostForm("start"), c.PostForm("end"))
	vm.Open(ctx, id)

	trxType := transactions.Purchase
	if c.PostForm("type") == "sale" {
		trxType = transactions.Sale
	}
	vm.OpenTransactionForm(trxType)

	var form TransactionForm
	err := c.ShouldBind(&form)
	vm.TrxForm = form
	if err != nil {
		vm.TrxFieldErrors = bindErrors(err)
		vm.HistoryError = msgFixTransactionForm
		c.HTML(http.StatusUnprocessableEntity, "product_form.html", editorPage{Title: "Edit Product", VM: vm})
		return
	}

	if vm.SubmitTransaction(ctx) {
		params := url.Values{"success": {vm.Success}}
		if vm.FilterStart != "" {
			params.Set("start", vm.FilterStart)
		}
		if vm.FilterEnd != "" {
			params.Set("end", vm.FilterEnd)
		}
		redirect(c, EditPath(id), params)
		return
	}
	c.HTML(statusFor(vm.TrxFieldErrors), "product_form.html", editorPage{Title: "Edit Product", VM: vm})
}

// pathID lê o :id da rota; ids fora de int4 não existem no banco
func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 32)
	if err != nil {
		return 0, false
	}
	return int(id), true
}

func queryPage(c *gin.Context, key string) int {
	page, err := strconv.Atoi(c.Query(key))
	if err != nil || page < 1 {
		return 1
	}
	return page
}

// applyFlash copia mensagens vindas de um redirect
func applyFlash(c *gin.Context, success, failure *string) {
	if msg := c.Query("success"); msg != "" {
		*success = msg
	}
	if msg := c.Query("error"); msg != "" && *failure == "" {
		*failure = msg
	}
}

func redirect(c *gin.Context, path string, params url.Values) {
	if len(params) > 0 {
		path += "?" + params.Encode()
	}
	c.Redirect(http.StatusSeeOther, path)
}

func statusFor(errs FieldErrors) int {
	if len(errs) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}
