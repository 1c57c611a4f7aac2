package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"comanda-go/internal/models"
	"comanda-go/internal/printer"
	"comanda-go/internal/services"
	"comanda-go/internal/ws"
)

// OrderPrinter is the slice of the printer the order flow needs. Printing is
// best effort: a dead printer must never fail an order.
type OrderPrinter interface {
	Print(text string) error
	Connect(explicitPort string) error
}

// OrderController handles HTTP requests for orders
type OrderController interface {
	// Create persists a new order from the submitted cart
	Create(c *gin.Context)
	// List returns all orders, most recent first
	List(c *gin.Context)
	// Get returns one order by id
	Get(c *gin.Context)
	// UpdateStatus sets a new status on an order
	UpdateStatus(c *gin.Context)
}

type orderController struct {
	service services.OrderService
	hub     *ws.Hub
	printer OrderPrinter
}

// NewOrderController creates a new instance of OrderController
func NewOrderController(service services.OrderService, hub *ws.Hub, p OrderPrinter) OrderController {
	return &orderController{service: service, hub: hub, printer: p}
}

// Create godoc
// @Summary Create an order
// @Description Submit a cart for a table. Lines are priced from the catalog, merged, persisted transactionally, broadcast to viewers and printed.
// @Tags pedidos
// @Accept json
// @Produce json
// @Param pedido body models.CreateOrderRequest true "Order payload"
// @Success 201 {object} models.Pedido
// @Failure 400 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/pedidos [post]
func (o *orderController) Create(ctx *gin.Context) {
	var req models.CreateOrderRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order payload"})
		return
	}

	pedido, err := o.service.CreateOrder(req)
	if err != nil {
		if errors.Is(err, models.ErrInvalidOrder) {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.WithError(err).Error("Failed to create order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}

	o.hub.Broadcast(ws.EventNovoPedido, pedido)
	go o.printOrder(pedido)

	ctx.JSON(http.StatusCreated, pedido)
}

// printOrder sends the receipt in the background. Failures are logged and
// never surfaced to the guest; a closed port gets one reconnect attempt.
func (o *orderController) printOrder(pedido *models.Pedido) {
	text := printer.FormatOrder(pedido)
	err := o.printer.Print(text)
	if errors.Is(err, models.ErrPortNotOpen) {
		if cerr := o.printer.Connect(""); cerr != nil {
			log.WithError(cerr).WithField("pedido", pedido.ID).Warn("Printer reconnect failed")
			return
		}
		err = o.printer.Print(text)
	}
	if err != nil {
		log.WithError(err).WithField("pedido", pedido.ID).Warn("Failed to print order")
	}
}

// List godoc
// @Summary List orders
// @Description Get all orders, most recent first
// @Tags pedidos
// @Produce json
// @Success 200 {array} models.Pedido
// @Failure 500 {object} map[string]string
// @Router /api/pedidos [get]
func (o *orderController) List(ctx *gin.Context) {
	pedidos, err := o.service.ListOrders()
	if err != nil {
		log.WithError(err).Error("Failed to list orders")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list orders"})
		return
	}
	ctx.JSON(http.StatusOK, pedidos)
}

// Get godoc
// @Summary Get an order
// @Description Get a single order by its ID
// @Tags pedidos
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} models.Pedido
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/pedidos/{id} [get]
func (o *orderController) Get(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	pedido, err := o.service.GetOrder(id)
	if err != nil {
		if errors.Is(err, models.ErrOrderNotFound) {
			ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
			return
		}
		log.WithError(err).Error("Failed to load order")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load order"})
		return
	}
	ctx.JSON(http.StatusOK, pedido)
}

// UpdateStatus godoc
// @Summary Update order status
// @Description Set a new status on an order and notify connected viewers
// @Tags pedidos
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param status body models.UpdateStatusRequest true "New status"
// @Success 200 {object} models.Pedido
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /api/pedidos/{id}/status [put]
func (o *orderController) UpdateStatus(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
		return
	}

	var req models.UpdateStatusRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "missing status"})
		return
	}

	pedido, err := o.service.UpdateStatus(id, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrUnknownStatus):
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, models.ErrOrderNotFound):
			ctx.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		default:
			log.WithError(err).Error("Failed to update order status")
			ctx.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update order"})
		}
		return
	}

	o.hub.Broadcast(ws.EventPedidoAtualizado, pedido)
	ctx.JSON(http.StatusOK, pedido)
}
