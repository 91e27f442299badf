package controllers

import (
	"github.com/shashiranjanraj/vampware/app/models"
	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/ctx"
	"github.com/shashiranjanraj/vampware/pkg/logger"
)

const (
	defaultPage    = 1
	defaultPerPage = 10
	maxPerPage     = 100
)

// ProductInput creates a product. Price is a pointer so a missing key
// is distinguishable from an explicit zero.
type ProductInput struct {
	Name  string   `json:"product_name" validate:"required,min=2,max=100"`
	Price *float64 `json:"price" validate:"required,gte=0"`
}

// UpdateProductInput carries a partial product update.
type UpdateProductInput struct {
	Name  *string  `json:"product_name" validate:"min=2,max=100"`
	Price *float64 `json:"price" validate:"gte=0"`
}

// DeleteProductsInput is the batch-delete payload. An empty list is a
// plain bad request, not a validation failure.
type DeleteProductsInput struct {
	ProductIDs []uint `json:"product_ids"`
}

// ProductController handles the product catalog.
type ProductController struct {
	products *store.ProductStore
}

func NewProductController(products *store.ProductStore) *ProductController {
	return &ProductController{products: products}
}

// Index lists products one page at a time. Out-of-bounds pagination
// parameters are rejected, not clamped.
func (pc *ProductController) Index(c *ctx.Context) {
	page, err := c.QueryInt("page", defaultPage)
	if err != nil {
		c.Fail(err)
		return
	}
	perPage, err := c.QueryInt("per_page", defaultPerPage)
	if err != nil {
		c.Fail(err)
		return
	}

	if page < 1 {
		c.Fail(apperr.BadRequest("The page parameter must be 1 or greater"))
		return
	}
	if perPage < 1 || perPage > maxPerPage {
		c.Fail(apperr.BadRequest("The per_page parameter must be between 1 and 100"))
		return
	}

	result, err := pc.products.Paginate(c.Context(), page, perPage)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(result)
}

// Show returns one product by id.
func (pc *ProductController) Show(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	product, err := pc.products.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}

// Store adds a product to the catalog.
func (pc *ProductController) Store(c *ctx.Context) {
	var in ProductInput
	if !c.BindJSON(&in) {
		return
	}

	product := models.Product{Name: in.Name, Price: *in.Price}
	if err := pc.products.Create(c.Context(), &product); err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("product created", "product_id", product.ID)
	c.Created(&product)
}

// Update applies a partial update to a product.
func (pc *ProductController) Update(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	var in UpdateProductInput
	if !c.BindJSON(&in) {
		return
	}

	product, err := pc.products.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}

	if in.Name != nil {
		product.Name = *in.Name
	}
	if in.Price != nil {
		product.Price = *in.Price
	}

	if err := pc.products.Update(c.Context(), product); err != nil {
		c.Fail(err)
		return
	}
	c.Success(product)
}

// Delete removes one product.
func (pc *ProductController) Delete(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	if err := pc.products.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("product deleted", "product_id", id)
	c.Message("Product deleted successfully")
}

// DeleteMultiple removes a batch of products and reports the deleted
// count.
func (pc *ProductController) DeleteMultiple(c *ctx.Context) {
	var in DeleteProductsInput
	if !c.BindJSON(&in) {
		return
	}
	if len(in.ProductIDs) == 0 {
		c.Fail(apperr.BadRequest("The product_ids field must be a non-empty list"))
		return
	}

	deleted, err := pc.products.DeleteMany(c.Context(), in.ProductIDs)
	if err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("products deleted", "count", deleted)
	c.Success(map[string]any{
		"message": "Products deleted successfully",
		"deleted": deleted,
	})
}

// Orders lists the orders that contain this product.
func (pc *ProductController) Orders(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	orders, err := pc.products.OrdersFor(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Users lists the distinct users who have ordered this product.
func (pc *ProductController) Users(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	users, err := pc.products.UsersFor(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(users)
}
