package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"comanda-go/internal/printer"
)

// PrinterController handles the printer management endpoints
type PrinterController interface {
	// Status reports the printer connection state
	Status(c *gin.Context)
	// Test prints a test page
	Test(c *gin.Context)
	// Connect (re)connects to an explicit or auto-discovered port
	Connect(c *gin.Context)
	// List enumerates candidate serial ports
	List(c *gin.Context)
}

type printerController struct {
	printer *printer.Printer
}

// NewPrinterController creates a new instance of PrinterController
func NewPrinterController(p *printer.Printer) PrinterController {
	return &printerController{printer: p}
}

// Status godoc
// @Summary Printer status
// @Description Report whether the thermal printer is connected and on which port
// @Tags printer
// @Produce json
// @Success 200 {object} printer.Status
// @Router /api/printer/status [get]
func (p *printerController) Status(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, p.printer.Status())
}

// Test godoc
// @Summary Print a test page
// @Description Send a test page to the connected printer
// @Tags printer
// @Produce json
// @Success 200 {object} map[string]string
// @Failure 500 {object} map[string]string
// @Router /api/printer/test [post]
func (p *printerController) Test(ctx *gin.Context) {
	if err := p.printer.Print(printer.FormatTestPage(time.Now())); err != nil {
		log.WithError(err).Error("Printer test failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{"status": "printed"})
}

// Connect godoc
// @Summary Connect the printer
// @Description Open the serial connection. Without a port in the body the device is auto-discovered.
// @Tags printer
// @Accept json
// @Produce json
// @Param body body map[string]string false "Optional explicit port, e.g. {\"port\": \"/dev/ttyUSB0\"}"
// @Success 200 {object} printer.Status
// @Failure 500 {object} map[string]string
// @Router /api/printer/connect [post]
func (p *printerController) Connect(ctx *gin.Context) {
	var req struct {
		Port string `json:"port"`
	}
	// An empty body means auto-discovery.
	_ = ctx.ShouldBindJSON(&req)

	if err := p.printer.Connect(req.Port); err != nil {
		log.WithError(err).Error("Printer connect failed")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, p.printer.Status())
}

// List godoc
// @Summary List serial ports
// @Description Enumerate the serial devices visible on the host
// @Tags printer
// @Produce json
// @Success 200 {array} printer.PortInfo
// @Failure 500 {object} map[string]string
// @Router /api/printer/list [get]
func (p *printerController) List(ctx *gin.Context) {
	ports, err := p.printer.ListPorts()
	if err != nil {
		log.WithError(err).Error("Failed to list serial ports")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, ports)
}
