package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"comanda-go/internal/models"
)

func newTestOrderService(t *testing.T, db *gorm.DB, clock time.Time) OrderService {
	t.Helper()
	service := NewOrderService(db, NewMenuService(db)).(*orderService)
	service.now = func() time.Time { return clock }
	return service
}

func TestCreateOrderHalfPortionPricing(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, saturday)

	pedido, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 5,
		Itens: []models.LineRequest{{
			Nome:       "PARMEGIANA DE BOI",
			Meia:       true,
			Quantidade: 2,
			Adicionar:  []string{"QUEIJO EXTRA"},
			Retirar:    []string{"CEBOLA"},
		}},
	})
	require.NoError(t, err)

	assert.Equal(t, 5, pedido.Mesa)
	assert.Equal(t, models.StatusPendente, pedido.Status)
	require.Len(t, pedido.Itens, 1)
	line := pedido.Itens[0]
	assert.InDelta(t, 58.80, line.Preco, 0.001)
	assert.Equal(t, 2, line.Quantidade)
	assert.True(t, line.Meia)
	assert.Equal(t, models.StringList{"QUEIJO EXTRA"}, line.Adicionar)
	assert.Equal(t, models.StringList{"CEBOLA"}, line.Retirar)
}

func TestCreateOrderHalfWithoutHalfPriceFallsBackToFull(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	pedido, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa:  2,
		Itens: []models.LineRequest{{Nome: "PENNE", Meia: true}},
	})
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 1)
	assert.InDelta(t, 24.90, pedido.Itens[0].Preco, 0.001)
	assert.True(t, pedido.Itens[0].Meia)
}

func TestCreateOrderUnknownItemUsesClientPrice(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	pedido, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 3,
		Itens: []models.LineRequest{
			{Nome: "ITEM EXTRA", Preco: 12.50},
			{Nome: "ITEM SEM PRECO"},
		},
	})
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 2)
	assert.InDelta(t, 12.50, pedido.Itens[0].Preco, 0.001)
	assert.Zero(t, pedido.Itens[1].Preco)
	assert.Empty(t, pedido.Itens[1].CategoriaNome)
}

func TestCreateOrderWeekdayItemPricedOnWeekend(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, saturday)

	// FRITAS is only listed on the weekday card; the catalog still wins over
	// the client-supplied price.
	pedido, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa:  1,
		Itens: []models.LineRequest{{Nome: "FRITAS", Preco: 1.00}},
	})
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 1)
	assert.InDelta(t, 28.00, pedido.Itens[0].Preco, 0.001)
}

func TestCreateOrderQuantityCoercion(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	pedido, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa:  4,
		Itens: []models.LineRequest{{Nome: "PENNE", Quantidade: 0}},
	})
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 1)
	assert.Equal(t, 1, pedido.Itens[0].Quantidade)
}

func TestCreateOrderValidation(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	_, err := service.CreateOrder(models.CreateOrderRequest{Mesa: 1})
	assert.ErrorIs(t, err, models.ErrInvalidOrder)

	_, err = service.CreateOrder(models.CreateOrderRequest{
		Itens: []models.LineRequest{{Nome: "PENNE"}},
	})
	assert.ErrorIs(t, err, models.ErrInvalidOrder)

	var count int64
	require.NoError(t, db.Model(&models.Pedido{}).Count(&count).Error)
	assert.Zero(t, count, "no order row may exist after rejected submissions")
}

func TestMergeLines(t *testing.T) {
	base := models.LineRequest{
		Nome:       "FRITAS",
		Meia:       true,
		Observacao: "bem passada",
		Adicionar:  []string{"QUEIJO", "BACON"},
		Retirar:    []string{"CEBOLA"},
	}

	t.Run("identical lines merge with summed quantity", func(t *testing.T) {
		other := base
		other.Adicionar = []string{"BACON", "QUEIJO"} // set equality, not list order
		merged := mergeLines([]models.LineRequest{base, other})
		require.Len(t, merged, 1)
		assert.Equal(t, 2, merged[0].Quantidade)
	})

	t.Run("different observation stays distinct", func(t *testing.T) {
		other := base
		other.Observacao = "mal passada"
		assert.Len(t, mergeLines([]models.LineRequest{base, other}), 2)
	})

	t.Run("different half flag stays distinct", func(t *testing.T) {
		other := base
		other.Meia = false
		assert.Len(t, mergeLines([]models.LineRequest{base, other}), 2)
	})

	t.Run("different modifier set stays distinct", func(t *testing.T) {
		other := base
		other.Retirar = []string{"CEBOLA", "TOMATE"}
		assert.Len(t, mergeLines([]models.LineRequest{base, other}), 2)
	})

	t.Run("quantities are coerced before summing", func(t *testing.T) {
		first := base
		first.Quantidade = 0
		second := base
		second.Quantidade = 3
		merged := mergeLines([]models.LineRequest{first, second})
		require.Len(t, merged, 1)
		assert.Equal(t, 4, merged[0].Quantidade)
	})
}

func TestCreateOrderIsAtomic(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	// Force the line insert to fail after the header insert succeeded.
	require.NoError(t, db.Migrator().DropTable(&models.ItemPedido{}))

	_, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa:  7,
		Itens: []models.LineRequest{{Nome: "PENNE"}},
	})
	require.Error(t, err)

	var count int64
	require.NoError(t, db.Model(&models.Pedido{}).Count(&count).Error)
	assert.Zero(t, count, "header insert must roll back with the failed line")
}

func TestGetOrderHydratesCategories(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	created, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 8,
		Itens: []models.LineRequest{
			{Nome: "FRITAS"},
			{Nome: "ITEM AVULSO", Preco: 5.00},
		},
	})
	require.NoError(t, err)

	pedido, err := service.GetOrder(created.ID)
	require.NoError(t, err)
	require.Len(t, pedido.Itens, 2)
	assert.Equal(t, "PETISCOS", pedido.Itens[0].CategoriaNome)
	assert.Equal(t, models.KindSnack, pedido.Itens[0].CategoriaKind)
	assert.Empty(t, pedido.Itens[1].CategoriaNome, "ad-hoc item must hydrate with an empty category")
}

func TestGetOrderNotFound(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	_, err := service.GetOrder(404)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	first, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 1, Itens: []models.LineRequest{{Nome: "PENNE"}},
	})
	require.NoError(t, err)
	second, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 2, Itens: []models.LineRequest{{Nome: "FRITAS"}},
	})
	require.NoError(t, err)

	pedidos, err := service.ListOrders()
	require.NoError(t, err)
	require.Len(t, pedidos, 2)
	assert.Equal(t, second.ID, pedidos[0].ID)
	assert.Equal(t, first.ID, pedidos[1].ID)
}

func TestUpdateStatus(t *testing.T) {
	db := setupTestDB(t)
	seedFixture(t, db)
	service := newTestOrderService(t, db, monday)

	created, err := service.CreateOrder(models.CreateOrderRequest{
		Mesa: 6, Itens: []models.LineRequest{{Nome: "PENNE"}},
	})
	require.NoError(t, err)

	updated, err := service.UpdateStatus(created.ID, models.StatusPronto)
	require.NoError(t, err)
	assert.Equal(t, models.StatusPronto, updated.Status)
	require.Len(t, updated.Itens, 1, "updated order must come back hydrated")

	_, err = service.UpdateStatus(created.ID, "finalizado")
	assert.ErrorIs(t, err, models.ErrUnknownStatus)

	_, err = service.UpdateStatus(9999, models.StatusPronto)
	assert.ErrorIs(t, err, models.ErrOrderNotFound)
}
