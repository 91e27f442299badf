package controllers

import (
	"time"

	"github.com/shashiranjanraj/vampware/app/store"
	"github.com/shashiranjanraj/vampware/pkg/apperr"
	"github.com/shashiranjanraj/vampware/pkg/ctx"
	"github.com/shashiranjanraj/vampware/pkg/event"
	"github.com/shashiranjanraj/vampware/pkg/logger"
)

const dateLayout = "2006-01-02"

// Order lifecycle events fired on the bus.
const (
	EventOrderCreated = "order.created"
	EventOrderUpdated = "order.updated"
	EventOrderDeleted = "order.deleted"
)

// OrderInput creates an order for a user with a set of products.
type OrderInput struct {
	UserID     *uint  `json:"user_id" validate:"required"`
	ProductIDs []uint `json:"product_ids" validate:"required"`
}

// UpdateOrderInput carries a partial order update: re-point the order
// to another user and/or replace the whole product set.
type UpdateOrderInput struct {
	UserID     *uint  `json:"user_id"`
	ProductIDs []uint `json:"product_ids"`
}

// OrderEvent is the payload fired on the bus for lifecycle events.
type OrderEvent struct {
	Event   string `json:"event"`
	OrderID uint   `json:"order_id"`
	UserID  uint   `json:"user_id,omitempty"`
}

// OrderController handles orders and their product associations.
type OrderController struct {
	orders *store.OrderStore
	events *event.Bus
}

func NewOrderController(orders *store.OrderStore, events *event.Bus) *OrderController {
	return &OrderController{orders: orders, events: events}
}

// Store creates an order. The user and every product must exist or the
// whole request fails.
func (oc *OrderController) Store(c *ctx.Context) {
	var in OrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := oc.orders.Create(c.Context(), *in.UserID, in.ProductIDs)
	if err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("order created", "order_id", order.ID, "user_id", order.UserID)
	oc.events.FireAsync(EventOrderCreated, OrderEvent{Event: EventOrderCreated, OrderID: order.ID, UserID: order.UserID})
	c.Created(order)
}

// Index lists all orders.
func (oc *OrderController) Index(c *ctx.Context) {
	orders, err := oc.orders.List(c.Context())
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Show returns one order with its products.
func (oc *OrderController) Show(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	order, err := oc.orders.Get(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(order)
}

// Update replaces the order's product set.
func (oc *OrderController) Update(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	var in UpdateOrderInput
	if !c.BindJSON(&in) {
		return
	}

	order, err := oc.orders.Update(c.Context(), id, in.UserID, in.ProductIDs)
	if err != nil {
		c.Fail(err)
		return
	}

	oc.events.FireAsync(EventOrderUpdated, OrderEvent{Event: EventOrderUpdated, OrderID: order.ID, UserID: order.UserID})
	c.Success(order)
}

// Delete removes an order.
func (oc *OrderController) Delete(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	if err := oc.orders.Delete(c.Context(), id); err != nil {
		c.Fail(err)
		return
	}

	logger.WithCtx(c.Context()).Info("order deleted", "order_id", id)
	oc.events.FireAsync(EventOrderDeleted, OrderEvent{Event: EventOrderDeleted, OrderID: id})
	c.Message("Order deleted successfully")
}

// AddProduct attaches one product to an order.
func (oc *OrderController) AddProduct(c *ctx.Context) {
	orderID, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	productID, err := c.ParamUint("product_id")
	if err != nil {
		c.Fail(err)
		return
	}

	if err := oc.orders.AddProduct(c.Context(), orderID, productID); err != nil {
		c.Fail(err)
		return
	}

	oc.events.FireAsync(EventOrderUpdated, OrderEvent{Event: EventOrderUpdated, OrderID: orderID})
	c.Message("Product added to order successfully")
}

// RemoveProduct detaches one product from an order.
func (oc *OrderController) RemoveProduct(c *ctx.Context) {
	orderID, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}
	productID, err := c.ParamUint("product_id")
	if err != nil {
		c.Fail(err)
		return
	}

	if err := oc.orders.RemoveProduct(c.Context(), orderID, productID); err != nil {
		c.Fail(err)
		return
	}

	oc.events.FireAsync(EventOrderUpdated, OrderEvent{Event: EventOrderUpdated, OrderID: orderID})
	c.Message("Product removed from order successfully")
}

// Products lists the products inside one order.
func (oc *OrderController) Products(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	products, err := oc.orders.ProductsIn(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(products)
}

// Total prices one order at current product prices.
func (oc *OrderController) Total(c *ctx.Context) {
	id, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	total, err := oc.orders.Total(c.Context(), id)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(total)
}

// ForUser lists one user's orders.
func (oc *OrderController) ForUser(c *ctx.Context) {
	userID, err := c.ParamUint("id")
	if err != nil {
		c.Fail(err)
		return
	}

	orders, err := oc.orders.ForUser(c.Context(), userID)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}

// Filter lists orders created inside an inclusive date range. Dates
// use the YYYY-MM-DD format.
func (oc *OrderController) Filter(c *ctx.Context) {
	startRaw := c.Query("start_date")
	endRaw := c.Query("end_date")
	if startRaw == "" || endRaw == "" {
		c.Fail(apperr.BadRequest("The start_date and end_date parameters are required"))
		return
	}

	start, err := time.Parse(dateLayout, startRaw)
	if err != nil {
		c.Fail(apperr.BadRequest("The start_date parameter must use the YYYY-MM-DD format"))
		return
	}
	end, err := time.Parse(dateLayout, endRaw)
	if err != nil {
		c.Fail(apperr.BadRequest("The end_date parameter must use the YYYY-MM-DD format"))
		return
	}
	if end.Before(start) {
		c.Fail(apperr.BadRequest("The end_date must not be before the start_date"))
		return
	}

	orders, err := oc.orders.ByDateRange(c.Context(), start, end)
	if err != nil {
		c.Fail(err)
		return
	}
	c.Success(orders)
}
