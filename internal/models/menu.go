package models

import (
	"strconv"
	"strings"
	"time"
)

// Category scope values. Set at seed time so menu filtering never has to
// sniff category names for weekend markers.
const (
	ScopeWeekday = "weekday"
	ScopeWeekend = "weekend"
	ScopeBoth    = "both"
)

// Category kinds drive the receipt prefix for kitchen routing.
const (
	KindSnack    = "snack"
	KindALaCarte = "a_la_carte"
)

// Category groups menu items (e.g. PETISCOS, BEBIDAS)
type Category struct {
	ID    int    `json:"id" gorm:"primaryKey"`
	Nome  string `json:"nome" gorm:"uniqueIndex;not null"`
	Icone string `json:"icone,omitempty"`
	Scope string `json:"-" gorm:"default:both"`
	Kind  string `json:"-"`
}

// TableName keeps the table names the rest of the system expects
func (Category) TableName() string { return "categorias" }

// Cardapio is a named menu variant bound to a set of weekdays (0=Sunday..6=Saturday)
type Cardapio struct {
	ID          int    `json:"id" gorm:"primaryKey"`
	Nome        string `json:"nome" gorm:"not null"`
	Slug        string `json:"slug" gorm:"uniqueIndex;not null"`
	DiasValidos string `json:"dias_validos"`
}

func (Cardapio) TableName() string { return "cardapios" }

// Dias parses the comma-separated weekday list
func (c Cardapio) Dias() []int {
	var dias []int
	for _, part := range strings.Split(c.DiasValidos, ",") {
		d, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil || d < 0 || d > 6 {
			continue
		}
		dias = append(dias, d)
	}
	return dias
}

// CoversDay reports whether the variant is active on the given weekday
func (c Cardapio) CoversDay(day time.Weekday) bool {
	for _, d := range c.Dias() {
		if d == int(day) {
			return true
		}
	}
	return false
}

// Scope classifies the variant by the days it covers, for category filtering.
// A variant that only covers Saturday/Sunday is a weekend variant.
func (c Cardapio) Scope() string {
	dias := c.Dias()
	if len(dias) == 0 {
		return ScopeBoth
	}
	for _, d := range dias {
		if d != 0 && d != 6 {
			return ScopeWeekday
		}
	}
	return ScopeWeekend
}

// Item is a catalog dish. Name uniqueness is scoped to the category so the
// same dish can exist as distinct weekday and weekend rows with different prices.
type Item struct {
	ID           int        `json:"id" gorm:"primaryKey"`
	Nome         string     `json:"nome" gorm:"index:idx_itens_nome_categoria,unique;not null"`
	CategoriaID  int        `json:"categoria_id" gorm:"index:idx_itens_nome_categoria,unique;not null"`
	Ingredientes StringList `json:"ingredientes" gorm:"type:text"`
	Descricao    string     `json:"descricao"`
}

func (Item) TableName() string { return "itens" }

// ItemCardapio binds an item to a variant with its price and display order.
// PrecoMeia present means the item accepts a half portion on this variant.
type ItemCardapio struct {
	ID         int      `json:"id" gorm:"primaryKey"`
	CardapioID int      `json:"cardapio_id" gorm:"index;not null"`
	ItemID     int      `json:"item_id" gorm:"index;not null"`
	Preco      float64  `json:"preco" gorm:"not null"`
	PrecoMeia  *float64 `json:"preco_meia"`
	Ordem      int      `json:"ordem"`
	Ativo      bool     `json:"ativo" gorm:"default:true"`
}

func (ItemCardapio) TableName() string { return "itens_cardapio" }

// MenuItem is one entry of the grouped menu response
type MenuItem struct {
	ID               int      `json:"id"`
	Nome             string   `json:"nome"`
	Preco            float64  `json:"preco"`
	PrecoMeia        *float64 `json:"preco_meia"`
	AceitaMeiaPorcao bool     `json:"aceita_meia_porcao"`
	Ingredientes     []string `json:"ingredientes"`
}

// MenuGroup is a category with its items, in display order
type MenuGroup struct {
	Categoria string     `json:"categoria"`
	Itens     []MenuItem `json:"itens"`
}
