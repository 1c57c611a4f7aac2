package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comanda-go/internal/models"
)

// OrderService normalizes carts into priced orders and persists them
type OrderService interface {
	// CreateOrder validates and prices the cart, then writes the order header
	// and every line in a single transaction. Returns the hydrated order.
	CreateOrder(req models.CreateOrderRequest) (*models.Pedido, error)
	// GetOrder returns one hydrated order
	GetOrder(id int) (*models.Pedido, error)
	// ListOrders returns all orders, most recent first
	ListOrders() ([]*models.Pedido, error)
	// UpdateStatus sets a new status and returns the updated hydrated order
	UpdateStatus(id int, status string) (*models.Pedido, error)
}

type orderService struct {
	db   *gorm.DB
	menu MenuService
	now  func() time.Time
}

// NewOrderService creates a new instance of OrderService
func NewOrderService(db *gorm.DB, menu MenuService) OrderService {
	return &orderService{db: db, menu: menu, now: time.Now}
}

func (s *orderService) CreateOrder(req models.CreateOrderRequest) (*models.Pedido, error) {
	if req.Mesa <= 0 || len(req.Itens) == 0 {
		return nil, models.ErrInvalidOrder
	}

	lines := mergeLines(req.Itens)

	variantID := 0
	if card, err := s.menu.ResolveVariant("", s.now()); err == nil {
		variantID = card.ID
	} else {
		// Pricing still works through the any-listing lookup and the
		// client-supplied fallback.
		log.WithError(err).Warn("No menu variant resolved for order pricing")
	}

	pedido := models.Pedido{
		Mesa:        req.Mesa,
		Observacoes: req.Observacoes,
		Status:      models.StatusPendente,
	}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&pedido).Error; err != nil {
			return err
		}
		for _, line := range lines {
			item := s.priceLine(tx, variantID, line)
			item.PedidoID = pedido.ID
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("persisting order: %w", err)
	}

	return s.GetOrder(pedido.ID)
}

// priceLine resolves the unit price for one normalized cart line. The catalog
// listing for the resolved variant wins; an item missing there is looked up
// across all listings (weekday dishes ordered on a weekend); an item missing
// from the catalog entirely falls back to the client-supplied price.
func (s *orderService) priceLine(tx *gorm.DB, variantID int, line models.LineRequest) models.ItemPedido {
	quantidade := line.Quantidade
	if quantidade < 1 {
		quantidade = 1
	}

	preco := line.Preco
	if preco < 0 {
		preco = 0
	}
	if listing, ok := s.lookupListing(tx, variantID, line.Nome); ok {
		if line.Meia && listing.PrecoMeia != nil {
			preco = *listing.PrecoMeia
		} else {
			// Half requested without a half price falls back to the full
			// price; the kitchen decides portion size at the pass.
			preco = listing.Preco
		}
	}

	return models.ItemPedido{
		Nome:       line.Nome,
		Preco:      preco,
		Quantidade: quantidade,
		Meia:       line.Meia,
		Observacao: line.Observacao,
		Adicionar:  models.StringList(line.Adicionar),
		Retirar:    models.StringList(line.Retirar),
	}
}

func (s *orderService) lookupListing(tx *gorm.DB, variantID int, nome string) (models.ItemCardapio, bool) {
	base := func() *gorm.DB {
		return tx.Table("itens_cardapio ic").
			Select("ic.preco, ic.preco_meia").
			Joins("JOIN itens i ON i.id = ic.item_id").
			Where("i.nome = ?", nome)
	}

	var listing models.ItemCardapio
	if variantID > 0 {
		result := base().Where("ic.cardapio_id = ?", variantID).Limit(1).Scan(&listing)
		if result.Error == nil && result.RowsAffected > 0 {
			return listing, true
		}
	}

	listing = models.ItemCardapio{}
	result := base().Limit(1).Scan(&listing)
	if result.Error != nil || result.RowsAffected == 0 {
		return models.ItemCardapio{}, false
	}
	return listing, true
}

// mergeKey builds the identity of a cart line for deduplication: same item,
// same half flag, same observation and the same modifier sets regardless of
// list order.
func mergeKey(line models.LineRequest) string {
	adicionar := append([]string(nil), line.Adicionar...)
	retirar := append([]string(nil), line.Retirar...)
	sort.Strings(adicionar)
	sort.Strings(retirar)

	var b strings.Builder
	b.WriteString(line.Nome)
	b.WriteByte(0)
	if line.Meia {
		b.WriteByte(1)
	} else {
		b.WriteByte(2)
	}
	b.WriteByte(0)
	b.WriteString(line.Observacao)
	for _, a := range adicionar {
		b.WriteByte(0)
		b.WriteString("+" + a)
	}
	for _, r := range retirar {
		b.WriteByte(0)
		b.WriteString("-" + r)
	}
	return b.String()
}

// mergeLines collapses cart entries that are the same customization of the
// same item into one line with a summed quantity, preserving first-seen order.
func mergeLines(lines []models.LineRequest) []models.LineRequest {
	merged := make([]models.LineRequest, 0, len(lines))
	index := map[string]int{}
	for _, line := range lines {
		if line.Quantidade < 1 {
			line.Quantidade = 1
		}
		key := mergeKey(line)
		if i, ok := index[key]; ok {
			merged[i].Quantidade += line.Quantidade
			continue
		}
		index[key] = len(merged)
		merged = append(merged, line)
	}
	return merged
}

func (s *orderService) GetOrder(id int) (*models.Pedido, error) {
	var pedido models.Pedido
	if err := s.db.First(&pedido, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrOrderNotFound
		}
		return nil, err
	}

	itens, err := s.hydrateLines(id)
	if err != nil {
		return nil, err
	}
	pedido.Itens = itens
	return &pedido, nil
}

// lineRow carries one order line plus its best-effort catalog category
type lineRow struct {
	ID            int
	Nome          string
	Preco         float64
	Quantidade    int
	Meia          bool
	Observacao    string
	Adicionar     models.StringList
	Retirar       models.StringList
	CategoriaNome *string
	CategoriaKind *string
}

// hydrateLines reads the order's lines enriched with the category of the
// catalog item of the same name. Ad-hoc items that never existed in the
// catalog get an empty category.
func (s *orderService) hydrateLines(pedidoID int) ([]models.ItemPedido, error) {
	var rows []lineRow
	err := s.db.Table("itens_pedido ip").
		Select("ip.id, ip.nome, ip.preco, ip.quantidade, ip.meia, ip.observacao, ip.adicionar, ip.retirar, c.nome AS categoria_nome, c.kind AS categoria_kind").
		Joins("LEFT JOIN itens i ON i.nome = ip.nome").
		Joins("LEFT JOIN categorias c ON c.id = i.categoria_id").
		Where("ip.pedido_id = ?", pedidoID).
		Order("ip.id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	itens := make([]models.ItemPedido, 0, len(rows))
	for _, row := range rows {
		item := models.ItemPedido{
			ID:         row.ID,
			PedidoID:   pedidoID,
			Nome:       row.Nome,
			Preco:      row.Preco,
			Quantidade: row.Quantidade,
			Meia:       row.Meia,
			Observacao: row.Observacao,
			Adicionar:  row.Adicionar,
			Retirar:    row.Retirar,
		}
		if row.CategoriaNome != nil {
			item.CategoriaNome = *row.CategoriaNome
		}
		if row.CategoriaKind != nil {
			item.CategoriaKind = *row.CategoriaKind
		}
		itens = append(itens, item)
	}
	return itens, nil
}

func (s *orderService) ListOrders() ([]*models.Pedido, error) {
	var ids []int
	if err := s.db.Model(&models.Pedido{}).Order("id DESC").Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	pedidos := make([]*models.Pedido, 0, len(ids))
	for _, id := range ids {
		pedido, err := s.GetOrder(id)
		if err != nil {
			return nil, err
		}
		pedidos = append(pedidos, pedido)
	}
	return pedidos, nil
}

func (s *orderService) UpdateStatus(id int, status string) (*models.Pedido, error) {
	if !models.KnownStatus(status) {
		return nil, fmt.Errorf("%w: %q", models.ErrUnknownStatus, status)
	}

	result := s.db.Model(&models.Pedido{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "atualizado_em": s.now()})
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, models.ErrOrderNotFound
	}
	return s.GetOrder(id)
}
