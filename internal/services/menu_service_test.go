package services

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"comanda-go/internal/database"
	"comanda-go/internal/models"
)

// reference dates: 2025-06-01 is a Sunday
var (
	sunday   = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	monday   = sunday.AddDate(0, 0, 1)
	saturday = sunday.AddDate(0, 0, 6)
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

type fixture struct {
	semana models.Cardapio
	fds    models.Cardapio
}

func createCategory(t *testing.T, db *gorm.DB, nome, scope, kind string) models.Category {
	t.Helper()
	cat := models.Category{Nome: nome, Scope: scope, Kind: kind}
	require.NoError(t, db.Create(&cat).Error)
	return cat
}

func createListing(t *testing.T, db *gorm.DB, card models.Cardapio, cat models.Category, nome string, preco float64, precoMeia *float64, ordem int) models.Item {
	t.Helper()
	item := models.Item{Nome: nome, CategoriaID: cat.ID}
	err := db.Where(models.Item{Nome: nome, CategoriaID: cat.ID}).FirstOrCreate(&item).Error
	require.NoError(t, err)
	listing := models.ItemCardapio{
		CardapioID: card.ID,
		ItemID:     item.ID,
		Preco:      preco,
		PrecoMeia:  precoMeia,
		Ordem:      ordem,
		Ativo:      true,
	}
	require.NoError(t, db.Create(&listing).Error)
	return item
}

func half(v float64) *float64 { return &v }

// seedFixture builds a small two-variant catalog:
//   - PETISCOS (weekday, snack): FRITAS 28.00 / half 16.80
//   - MASSAS (weekday): PENNE 24.90 — deliberately also listed on the weekend
//     card to exercise the category scope filter
//   - MASSAS FDS (weekend): PENNE [FDS] 32.90
//   - BEBIDAS (both): AGUA MINERAL 4.00 on both cards
//   - PRATOS A LA CARTE (weekend, a la carte): PARMEGIANA DE BOI 98.00 / half 58.80
func seedFixture(t *testing.T, db *gorm.DB) fixture {
	t.Helper()
	semana := models.Cardapio{Nome: "SEMANA", Slug: "semana", DiasValidos: "1,2,3,4,5"}
	fds := models.Cardapio{Nome: "FDS", Slug: "fds", DiasValidos: "6,0"}
	require.NoError(t, db.Create(&semana).Error)
	require.NoError(t, db.Create(&fds).Error)

	petiscos := createCategory(t, db, "PETISCOS", models.ScopeWeekday, models.KindSnack)
	massas := createCategory(t, db, "MASSAS", models.ScopeWeekday, "")
	massasFds := createCategory(t, db, "MASSAS FDS", models.ScopeWeekend, "")
	bebidas := createCategory(t, db, "BEBIDAS", models.ScopeBoth, "")
	aLaCarte := createCategory(t, db, "PRATOS A LA CARTE", models.ScopeWeekend, models.KindALaCarte)

	createListing(t, db, semana, petiscos, "FRITAS", 28.00, half(16.80), 1)
	penne := createListing(t, db, semana, massas, "PENNE", 24.90, nil, 1)
	createListing(t, db, fds, massasFds, "PENNE [FDS]", 32.90, nil, 1)
	createListing(t, db, semana, bebidas, "AGUA MINERAL", 4.00, nil, 1)
	createListing(t, db, fds, bebidas, "AGUA MINERAL", 4.00, nil, 1)
	createListing(t, db, fds, aLaCarte, "PARMEGIANA DE BOI", 98.00, half(58.80), 1)

	// leaked weekday listing on the weekend card; the scope filter must hide it
	require.NoError(t, db.Create(&models.ItemCardapio{
		CardapioID: fds.ID, ItemID: penne.ID, Preco: 24.90, Ordem: 9, Ativo: true,
	}).Error)

	return fixture{semana: semana, fds: fds}
}

func TestResolveVariantCoversAllWeekdays(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	seen := map[int]int{}
	for offset := 0; offset < 7; offset++ {
		date := sunday.AddDate(0, 0, offset)
		variant, err := service.ResolveVariant("", date)
		require.NoError(t, err, "weekday %d must resolve", offset)
		seen[int(date.Weekday())]++

		if offset == 0 || offset == 6 {
			assert.Equal(t, fix.fds.ID, variant.ID)
		} else {
			assert.Equal(t, fix.semana.ID, variant.ID)
		}
	}

	// the weekday sets partition {0..6}: every day covered exactly once
	union := map[int]int{}
	for _, card := range []models.Cardapio{fix.semana, fix.fds} {
		for _, d := range card.Dias() {
			union[d]++
		}
	}
	for d := 0; d < 7; d++ {
		assert.Equal(t, 1, union[d], "weekday %d must belong to exactly one variant", d)
	}
	assert.Len(t, seen, 7)
}

func TestResolveVariantExplicitSlugWins(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	variant, err := service.ResolveVariant("fds", monday)
	require.NoError(t, err)
	assert.Equal(t, fix.fds.ID, variant.ID)
}

func TestResolveVariantUnknownSlugFallsBackToDate(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	variant, err := service.ResolveVariant("brunch", saturday)
	require.NoError(t, err)
	assert.Equal(t, fix.fds.ID, variant.ID)
}

func TestResolveVariantNotConfigured(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Cardapio{Nome: "SEMANA", Slug: "semana", DiasValidos: "1,2,3,4,5"}).Error)
	service := NewMenuService(db)

	_, err := service.ResolveVariant("", saturday)
	assert.ErrorIs(t, err, models.ErrMenuNotConfigured)
}

func TestGetMenuWeekendSuppressesWeekdayCategories(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	menu, err := service.GetMenu(fix.fds.ID)
	require.NoError(t, err)

	categorias := make([]string, 0, len(menu))
	for _, group := range menu {
		categorias = append(categorias, group.Categoria)
	}
	assert.NotContains(t, categorias, "MASSAS", "weekday-only category must be hidden on the weekend card")
	assert.NotContains(t, categorias, "PETISCOS")
	assert.Contains(t, categorias, "MASSAS FDS")
	assert.Contains(t, categorias, "BEBIDAS")
	assert.Contains(t, categorias, "PRATOS A LA CARTE")
}

func TestGetMenuWeekdaySuppressesWeekendCategories(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	menu, err := service.GetMenu(fix.semana.ID)
	require.NoError(t, err)

	for _, group := range menu {
		assert.NotEqual(t, "MASSAS FDS", group.Categoria)
		assert.NotEqual(t, "PRATOS A LA CARTE", group.Categoria)
	}
}

func TestGetMenuDerivedFieldsAndNameCleanup(t *testing.T) {
	db := setupTestDB(t)
	fix := seedFixture(t, db)
	service := NewMenuService(db)

	menu, err := service.GetMenu(fix.semana.ID)
	require.NoError(t, err)

	byName := map[string]models.MenuItem{}
	for _, group := range menu {
		for _, item := range group.Itens {
			byName[item.Nome] = item
		}
	}

	fritas, ok := byName["FRITAS"]
	require.True(t, ok)
	assert.True(t, fritas.AceitaMeiaPorcao)
	require.NotNil(t, fritas.PrecoMeia)
	assert.InDelta(t, 16.80, *fritas.PrecoMeia, 0.001)
	assert.InDelta(t, 28.00, fritas.Preco, 0.001)

	penne, ok := byName["PENNE"]
	require.True(t, ok)
	assert.False(t, penne.AceitaMeiaPorcao)
	assert.Nil(t, penne.PrecoMeia)

	// weekend card still serves the cleaned display name
	weekendMenu, err := service.GetMenu(fix.fds.ID)
	require.NoError(t, err)
	var found bool
	for _, group := range weekendMenu {
		if group.Categoria != "MASSAS FDS" {
			continue
		}
		for _, item := range group.Itens {
			if item.Nome == "PENNE" {
				found = true
				assert.InDelta(t, 32.90, item.Preco, 0.001)
			}
		}
	}
	assert.True(t, found, "bracketed suffix must be stripped from the display name")
}

func TestGetMenuUnknownVariant(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := NewMenuService(db)

	_, err := service.GetMenu(9999)
	assert.ErrorIs(t, err, models.ErrVariantNotFound)
}
