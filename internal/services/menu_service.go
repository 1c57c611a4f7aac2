package services

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"gorm.io/gorm"

	"comanda-go/internal/models"
)

// MenuService resolves the active menu variant and serves the grouped menu
type MenuService interface {
	// ResolveVariant picks the menu variant for a request. An explicit slug that
	// matches a known variant wins; otherwise the variant covering the weekday of
	// date is returned. No covering variant is a seed-data problem.
	ResolveVariant(explicitSlug string, date time.Time) (models.Cardapio, error)
	// GetMenu returns the variant's active listings grouped by category
	GetMenu(variantID int) ([]models.MenuGroup, error)
}

type menuService struct {
	db *gorm.DB
}

// NewMenuService creates a new instance of MenuService
func NewMenuService(db *gorm.DB) MenuService {
	return &menuService{db: db}
}

func (s *menuService) ResolveVariant(explicitSlug string, date time.Time) (models.Cardapio, error) {
	if explicitSlug != "" {
		var card models.Cardapio
		err := s.db.Where("slug = ?", explicitSlug).First(&card).Error
		if err == nil {
			return card, nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cardapio{}, err
		}
		// Unknown slug falls back to date-based resolution.
	}

	var cards []models.Cardapio
	if err := s.db.Find(&cards).Error; err != nil {
		return models.Cardapio{}, err
	}
	for _, card := range cards {
		if card.CoversDay(date.Weekday()) {
			return card, nil
		}
	}
	return models.Cardapio{}, fmt.Errorf("%w: weekday %d", models.ErrMenuNotConfigured, int(date.Weekday()))
}

// menuRow is the flat shape of the menu join before grouping
type menuRow struct {
	Categoria      string
	CategoriaScope string
	ID             int
	Nome           string
	Preco          float64
	PrecoMeia      *float64
	Ingredientes   models.StringList
}

func (s *menuService) GetMenu(variantID int) ([]models.MenuGroup, error) {
	var card models.Cardapio
	if err := s.db.First(&card, variantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: id %d", models.ErrVariantNotFound, variantID)
		}
		return nil, err
	}

	var rows []menuRow
	err := s.db.Table("itens_cardapio ic").
		Select("c.nome AS categoria, c.scope AS categoria_scope, i.id, i.nome, ic.preco, ic.preco_meia, i.ingredientes").
		Joins("JOIN itens i ON ic.item_id = i.id").
		Joins("JOIN categorias c ON i.categoria_id = c.id").
		Where("ic.cardapio_id = ? AND ic.ativo = ?", card.ID, true).
		Order("c.nome, ic.ordem, i.nome").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	variantScope := card.Scope()
	grouped := []models.MenuGroup{}
	var current *models.MenuGroup
	for _, row := range rows {
		// Items listed on both cards keep their category's scope tag; a weekday
		// category never shows up on the weekend card and vice versa.
		if row.CategoriaScope != models.ScopeBoth && row.CategoriaScope != variantScope {
			continue
		}
		if current == nil || current.Categoria != row.Categoria {
			grouped = append(grouped, models.MenuGroup{Categoria: row.Categoria, Itens: []models.MenuItem{}})
			current = &grouped[len(grouped)-1]
		}
		current.Itens = append(current.Itens, models.MenuItem{
			ID:               row.ID,
			Nome:             cleanItemName(row.Nome),
			Preco:            row.Preco,
			PrecoMeia:        row.PrecoMeia,
			AceitaMeiaPorcao: row.PrecoMeia != nil,
			Ingredientes:     row.Ingredientes,
		})
	}
	return grouped, nil
}

// trailing bracketed suffixes disambiguate weekday/weekend catalog twins and
// are never shown to guests
var bracketSuffix = regexp.MustCompile(`\s*\[.*?\]$`)

func cleanItemName(nome string) string {
	return strings.TrimSpace(bracketSuffix.ReplaceAllString(nome, ""))
}
