package database

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"comanda-go/internal/models"
)

type seedItem struct {
	Nome         string
	Preco        float64
	PrecoMeia    *float64
	Ingredientes []string
}

func meia(v float64) *float64 { return &v }

// SeedIfEmpty populates the catalog with the restaurant's menu the first time
// the database is created. An already-populated catalog is left untouched.
func SeedIfEmpty(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Debug("Catalog already seeded")
		return nil
	}

	log.Info("Empty catalog, seeding initial menu data")
	return db.Transaction(func(tx *gorm.DB) error {
		semana, err := ensureCardapio(tx, "SEMANA", "semana", "1,2,3,4,5")
		if err != nil {
			return err
		}
		fds, err := ensureCardapio(tx, "FDS", "fds", "6,0")
		if err != nil {
			return err
		}

		categorias := []models.Category{
			{Nome: "PRATOS EXECUTIVOS", Scope: models.ScopeWeekday},
			{Nome: "MASSAS", Scope: models.ScopeWeekday},
			{Nome: "PETISCOS", Scope: models.ScopeWeekday, Kind: models.KindSnack},
			{Nome: "ADICIONAIS", Scope: models.ScopeBoth},
			{Nome: "BEBIDAS", Scope: models.ScopeBoth},
			{Nome: "SOBREMESAS", Scope: models.ScopeBoth},
			{Nome: "PRATOS A LA CARTE", Scope: models.ScopeWeekend, Kind: models.KindALaCarte},
			{Nome: "PETISCOS FDS", Scope: models.ScopeWeekend, Kind: models.KindSnack},
			{Nome: "MASSAS FDS", Scope: models.ScopeWeekend},
			{Nome: "PRATOS KIDS", Scope: models.ScopeWeekend},
		}
		catIDs := map[string]int{}
		for _, c := range categorias {
			id, err := ensureCategoria(tx, c)
			if err != nil {
				return err
			}
			catIDs[c.Nome] = id
		}

		basePrato := []string{"ARROZ", "FEIJAO", "FRITAS", "SALADA", "CEBOLA", "TOMATE", "ALFACE", "PROTEINA"}

		executivos := []seedItem{
			{Nome: "PRATO DO DIA", Preco: 22.90, Ingredientes: basePrato},
			{Nome: "FEIJOADA", Preco: 24.90, Ingredientes: basePrato},
			{Nome: "EXEC FRANGO GRELHADO", Preco: 24.90, Ingredientes: basePrato},
			{Nome: "EXEC FRANGO A MILANESA", Preco: 26.90, Ingredientes: basePrato},
			{Nome: "EXEC FRANGO A PARMEGIANA", Preco: 28.90, Ingredientes: basePrato},
			{Nome: "EXEC PORCO GRELHADO", Preco: 25.90, Ingredientes: basePrato},
			{Nome: "EXEC BOI GRELHADO", Preco: 31.90, Ingredientes: basePrato},
			{Nome: "EXEC BOI A MILANESA", Preco: 33.90, Ingredientes: basePrato},
			{Nome: "EXEC BOI A PARMEGIANA", Preco: 35.90, Ingredientes: basePrato},
			{Nome: "EXEC TILAPIA GRELHADA", Preco: 31.90, Ingredientes: basePrato},
			{Nome: "EXEC DE FIGADO", Preco: 24.90, Ingredientes: basePrato},
		}
		if err := ensureListagem(tx, semana, catIDs["PRATOS EXECUTIVOS"], executivos); err != nil {
			return err
		}

		massas := []seedItem{
			{Nome: "PENNE", Preco: 24.90, Ingredientes: []string{"MASSA"}},
			{Nome: "TALHARIM", Preco: 24.90, Ingredientes: []string{"MASSA"}},
			{Nome: "ESPAGUETE", Preco: 24.90, Ingredientes: []string{"MASSA"}},
		}
		if err := ensureListagem(tx, semana, catIDs["MASSAS"], massas); err != nil {
			return err
		}

		petiscos := []seedItem{
			{Nome: "TORRESMO 100G", Preco: 8.49},
			{Nome: "BOLINHO DE BACALHAU", Preco: 39.00, PrecoMeia: meia(23.90)},
			{Nome: "CAMARAO EMPANADO", Preco: 39.00, PrecoMeia: meia(23.90)},
			{Nome: "CONTRA FILE COM FRITAS", Preco: 49.00, PrecoMeia: meia(29.90)},
			{Nome: "FRITAS", Preco: 28.00, PrecoMeia: meia(16.80)},
			{Nome: "FRITAS COM LINGUICA", Preco: 34.00, PrecoMeia: meia(20.40)},
			{Nome: "ISCA DE TILAPIA", Preco: 49.00, PrecoMeia: meia(29.90)},
			{Nome: "PROVOLONE NA PEDRA", Preco: 31.00, PrecoMeia: meia(18.60)},
		}
		if err := ensureListagem(tx, semana, catIDs["PETISCOS"], petiscos); err != nil {
			return err
		}

		adicionais := []seedItem{
			{Nome: "OVO FRITO", Preco: 3.00},
			{Nome: "OMELETE SIMPLES", Preco: 12.00, Ingredientes: []string{"2 OVOS"}},
			{Nome: "OMELETE", Preco: 15.00, Ingredientes: []string{"QUEIJO", "CEBOLA", "TOMATE", "3 OVOS"}},
			{Nome: "FRITAS ADICIONAL", Preco: 10.00},
			{Nome: "BIFE FRANGO GRELHADO", Preco: 13.90},
			{Nome: "BIFE DE BOI GRELHADO", Preco: 15.90},
		}
		bebidas := []seedItem{
			{Nome: "REFRIGERANTE LATA", Preco: 6.00},
			{Nome: "SUCO NATURAL", Preco: 9.00},
			{Nome: "AGUA MINERAL", Preco: 4.00},
			{Nome: "AGUA COM GAS", Preco: 5.00},
		}
		sobremesas := []seedItem{
			{Nome: "PUDIM", Preco: 10.00},
			{Nome: "MOUSSE DE MARACUJA", Preco: 9.00},
		}

		// Categories that apply to both variants are listed on both cards.
		for _, cardID := range []int{semana, fds} {
			if err := ensureListagem(tx, cardID, catIDs["ADICIONAIS"], adicionais); err != nil {
				return err
			}
			if err := ensureListagem(tx, cardID, catIDs["BEBIDAS"], bebidas); err != nil {
				return err
			}
			if err := ensureListagem(tx, cardID, catIDs["SOBREMESAS"], sobremesas); err != nil {
				return err
			}
		}

		aLaCarte := []seedItem{
			{Nome: "PARMEGIANA DE FRANGO", Preco: 86.00, PrecoMeia: meia(51.60)},
			{Nome: "FILE DE FRANGO C/ CHAMPIGNON", Preco: 90.00, PrecoMeia: meia(54.00)},
			{Nome: "PARMEGIANA DE BOI", Preco: 98.00, PrecoMeia: meia(58.80)},
			{Nome: "CONTRA FILE C/ FRITAS", Preco: 92.00, PrecoMeia: meia(55.20)},
			{Nome: "FILE MIGNON C/ FRITAS", Preco: 116.00, PrecoMeia: meia(69.60)},
			{Nome: "FILE MIGNON AO MOLHO MADEIRA", Preco: 112.00, PrecoMeia: meia(67.20)},
			{Nome: "COSTELA DE BOI", Preco: 90.00, PrecoMeia: meia(54.00)},
			{Nome: "LOMBO A MINEIRA", Preco: 84.00, PrecoMeia: meia(50.40)},
			{Nome: "COSTELINHA DE PORCO", Preco: 82.00, PrecoMeia: meia(49.20)},
		}
		if err := ensureListagem(tx, fds, catIDs["PRATOS A LA CARTE"], aLaCarte); err != nil {
			return err
		}

		petiscosFds := []seedItem{
			{Nome: "TORRESMO TIRA [FDS]", Preco: 29.00, PrecoMeia: meia(17.40)},
			{Nome: "BOLINHO DE BACALHAU [FDS]", Preco: 49.00, PrecoMeia: meia(29.40)},
			{Nome: "ISCA DE TILAPIA [FDS]", Preco: 59.00, PrecoMeia: meia(35.40)},
			{Nome: "MOELINHA [FDS]", Preco: 39.00, PrecoMeia: meia(23.40)},
		}
		if err := ensureListagem(tx, fds, catIDs["PETISCOS FDS"], petiscosFds); err != nil {
			return err
		}

		massasFds := []seedItem{
			{Nome: "PENNE [FDS]", Preco: 32.90, Ingredientes: []string{"MASSA"}},
			{Nome: "TALHARIM [FDS]", Preco: 32.90, Ingredientes: []string{"MASSA"}},
		}
		if err := ensureListagem(tx, fds, catIDs["MASSAS FDS"], massasFds); err != nil {
			return err
		}

		kids := []seedItem{
			{Nome: "PRATO KIDS FRANGO", Preco: 34.00},
			{Nome: "PRATO KIDS BOI", Preco: 38.00},
		}
		if err := ensureListagem(tx, fds, catIDs["PRATOS KIDS"], kids); err != nil {
			return err
		}

		log.Info("Menu seed completed")
		return nil
	})
}

func ensureCardapio(db *gorm.DB, nome, slug, diasValidos string) (int, error) {
	card := models.Cardapio{Nome: nome, Slug: slug, DiasValidos: diasValidos}
	if err := db.Where(models.Cardapio{Slug: slug}).FirstOrCreate(&card).Error; err != nil {
		return 0, err
	}
	return card.ID, nil
}

func ensureCategoria(db *gorm.DB, cat models.Category) (int, error) {
	existing := models.Category{}
	err := db.Where(models.Category{Nome: cat.Nome}).
		Attrs(models.Category{Scope: cat.Scope, Kind: cat.Kind, Icone: cat.Icone}).
		FirstOrCreate(&existing).Error
	if err != nil {
		return 0, err
	}
	return existing.ID, nil
}

func ensureListagem(db *gorm.DB, cardapioID, categoriaID int, itens []seedItem) error {
	for ordem, it := range itens {
		item := models.Item{
			Nome:         it.Nome,
			CategoriaID:  categoriaID,
			Ingredientes: models.StringList(it.Ingredientes),
		}
		err := db.Where(models.Item{Nome: it.Nome, CategoriaID: categoriaID}).
			FirstOrCreate(&item).Error
		if err != nil {
			return err
		}

		listing := models.ItemCardapio{
			CardapioID: cardapioID,
			ItemID:     item.ID,
			Preco:      it.Preco,
			PrecoMeia:  it.PrecoMeia,
			Ordem:      ordem + 1,
			Ativo:      true,
		}
		err = db.Where(models.ItemCardapio{CardapioID: cardapioID, ItemID: item.ID}).
			Attrs(listing).
			FirstOrCreate(&models.ItemCardapio{}).Error
		if err != nil {
			return err
		}
	}
	return nil
}
