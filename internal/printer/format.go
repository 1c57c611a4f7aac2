package printer

import (
	"fmt"
	"strings"
	"time"

	"comanda-go/internal/models"
)

const (
	headerBanner  = "==== ORDER RECEIVED ===="
	separatorLine = "-------------------------"
	closingBanner = "========================="
	timeLayout    = "02/01/2006 15:04:05"
)

// FormatOrder renders a persisted order as the kitchen receipt. Each line is
// expanded into quantity separate blocks so staff can tick off every plate.
func FormatOrder(pedido *models.Pedido) string {
	var linhas []string
	add := func(s string) { linhas = append(linhas, sanitize(s)) }
	blank := func() { linhas = append(linhas, "") }

	add(headerBanner)
	add(fmt.Sprintf("Order #%d", pedido.ID))
	add("Date: " + pedido.CriadoEm.Format(timeLayout))
	add(separatorLine)
	add(fmt.Sprintf("Table: %d", pedido.Mesa))

	for _, item := range pedido.Itens {
		add(separatorLine)
		nome := strings.ToUpper(item.Nome)
		if item.Meia {
			nome += " (HALF)"
		}
		qtd := item.Quantidade
		if qtd < 1 {
			qtd = 1
		}
		for i := 0; i < qtd; i++ {
			add(categoryPrefix(item.CategoriaKind) + nome)
			for _, extra := range item.Adicionar {
				add("  + ADD " + extra)
			}
			for _, removed := range item.Retirar {
				add("  - WITHOUT " + removed)
			}
			if strings.TrimSpace(item.Observacao) != "" {
				for _, obs := range splitObservation(item.Observacao) {
					add("  OBS: " + obs)
				}
			}
			blank()
		}
	}

	if strings.TrimSpace(pedido.Observacoes) != "" {
		add(separatorLine)
		add("OBS:")
		for _, obs := range splitObservation(pedido.Observacoes) {
			add(obs)
		}
		blank()
	}

	add(closingBanner)
	return strings.Join(linhas, "\n")
}

// FormatTestPage renders the page printed by the printer test endpoint
func FormatTestPage(now time.Time) string {
	linhas := []string{
		"=== PRINTER TEST ===",
		"Comanda",
		"Date: " + now.Format(timeLayout),
		separatorLine,
		"If you can read this, printing works.",
		closingBanner,
		" ",
	}
	return strings.Join(linhas, "\n")
}

func categoryPrefix(kind string) string {
	switch kind {
	case models.KindSnack:
		return "SNACK: "
	case models.KindALaCarte:
		return "A LA CARTE: "
	}
	return ""
}

func splitObservation(obs string) []string {
	return strings.Split(strings.ReplaceAll(obs, "\r\n", "\n"), "\n")
}

// sanitize strips the ASCII control characters that confuse the printer
// firmware (0x00-0x08, 0x0B-0x0C, 0x0E-0x1F), keeping tab and line breaks.
func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return -1
		}
		return r
	}, s)
}
