package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Order status values. Transitions are not constrained to a state machine;
// any known status may follow any other.
const (
	StatusPendente  = "pendente"
	StatusEmPreparo = "em preparo"
	StatusPronto    = "pronto"
	StatusEntregue  = "entregue"
	StatusCancelado = "cancelado"
)

// KnownStatus reports whether s is one of the accepted order statuses
func KnownStatus(s string) bool {
	switch s {
	case StatusPendente, StatusEmPreparo, StatusPronto, StatusEntregue, StatusCancelado:
		return true
	}
	return false
}

// Pedido is a persisted table order
type Pedido struct {
	ID           int          `json:"id" gorm:"primaryKey"`
	Mesa         int          `json:"mesa" gorm:"not null"`
	Observacoes  string       `json:"observacoes"`
	Status       string       `json:"status" gorm:"default:pendente"`
	CriadoEm     time.Time    `json:"criado_em" gorm:"autoCreateTime"`
	AtualizadoEm time.Time    `json:"atualizado_em" gorm:"autoUpdateTime"`
	Itens        []ItemPedido `json:"itens" gorm:"foreignKey:PedidoID;constraint:OnDelete:CASCADE"`
}

func (Pedido) TableName() string { return "pedidos" }

// ItemPedido is one priced line of an order. Nome and Preco are a snapshot
// taken at order time and are never recomputed from the catalog.
type ItemPedido struct {
	ID         int        `json:"id" gorm:"primaryKey"`
	PedidoID   int        `json:"-" gorm:"index;not null"`
	Nome       string     `json:"nome" gorm:"not null"`
	Preco      float64    `json:"preco" gorm:"not null"`
	Quantidade int        `json:"quantidade" gorm:"default:1;check:quantidade > 0"`
	Meia       bool       `json:"meia"`
	Observacao string     `json:"observacao"`
	Adicionar  StringList `json:"adicionar" gorm:"type:text"`
	Retirar    StringList `json:"retirar" gorm:"type:text"`

	// Filled by the hydration join back to the catalog; empty for ad-hoc items.
	CategoriaNome string `json:"categoria_nome" gorm:"-"`
	CategoriaKind string `json:"-" gorm:"-"`
}

func (ItemPedido) TableName() string { return "itens_pedido" }

// StringList stores an ordered list of strings as a JSON array in a TEXT column
type StringList []string

// Value implements driver.Valuer
func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Malformed or empty stored values decode to an
// empty list rather than failing the whole row read.
func (l *StringList) Scan(value any) error {
	var raw []byte
	switch v := value.(type) {
	case nil:
		*l = StringList{}
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("cannot scan %T into StringList", value)
	}
	if len(raw) == 0 {
		*l = StringList{}
		return nil
	}
	var parsed []string
	if err := json.Unmarshal(raw, &parsed); err != nil {
		*l = StringList{}
		return nil
	}
	*l = parsed
	return nil
}

// LineRequest is the single canonical shape for an inbound cart line. Every
// client variant is bound into it at the API boundary and validated before any
// business logic runs.
type LineRequest struct {
	Nome       string   `json:"nome" binding:"required"`
	Preco      float64  `json:"preco"`
	Quantidade int      `json:"quantidade"`
	Meia       bool     `json:"meia"`
	Observacao string   `json:"observacao"`
	Adicionar  []string `json:"adicionar"`
	Retirar    []string `json:"retirar"`
}

// CreateOrderRequest is the POST /api/pedidos payload
type CreateOrderRequest struct {
	Mesa        int           `json:"mesa"`
	Itens       []LineRequest `json:"itens"`
	Observacoes string        `json:"observacoes"`
}

// UpdateStatusRequest is the PUT /api/pedidos/:id/status payload
type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}
