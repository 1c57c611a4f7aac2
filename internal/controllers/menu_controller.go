package controllers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"comanda-go/internal/models"
	"comanda-go/internal/services"
)

// MenuController handles HTTP requests for the menu
type MenuController interface {
	// GetMenu returns the grouped menu for the active or requested variant
	GetMenu(c *gin.Context)
	// GetCurrent returns which menu variant applies today
	GetCurrent(c *gin.Context)
}

type menuController struct {
	service services.MenuService
}

// NewMenuController creates a new instance of MenuController
func NewMenuController(service services.MenuService) MenuController {
	return &menuController{service: service}
}

// GetMenu godoc
// @Summary Get the menu
// @Description Get the active menu grouped by category. The cardapio query parameter forces a specific variant; omitted, the variant is resolved from today's date.
// @Tags menu
// @Produce json
// @Param cardapio query string false "Menu variant slug (semana or fds)"
// @Success 200 {array} models.MenuGroup
// @Failure 500 {object} map[string]string
// @Router /api/menu [get]
func (m *menuController) GetMenu(ctx *gin.Context) {
	slug := ctx.Query("cardapio")

	variant, err := m.service.ResolveVariant(slug, time.Now())
	if err != nil {
		log.WithError(err).Error("Failed to resolve menu variant")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	menu, err := m.service.GetMenu(variant.ID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, models.ErrVariantNotFound) {
			status = http.StatusNotFound
		}
		log.WithError(err).Error("Failed to load menu")
		ctx.JSON(status, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, menu)
}

// GetCurrent godoc
// @Summary Get the current menu variant
// @Description Get the variant slug that applies to today's date
// @Tags menu
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /api/cardapio/atual [get]
func (m *menuController) GetCurrent(ctx *gin.Context) {
	now := time.Now()
	variant, err := m.service.ResolveVariant("", now)
	if err != nil {
		log.WithError(err).Error("Failed to resolve current menu variant")
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	ctx.JSON(http.StatusOK, gin.H{
		"cardapio":  variant.Slug,
		"dia":       int(now.Weekday()),
		"descricao": variant.Nome,
	})
}
