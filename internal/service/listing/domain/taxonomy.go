// internal/service/listing/domain/taxonomy.go
package domain

// Subcategory is a leaf of the closed listing taxonomy.
type Subcategory struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

type Category struct {
	Key           string        `json:"key"`
	Label         string        `json:"label"`
	Subcategories []Subcategory `json:"subcategories"`
}

// Taxonomy is the fixed set of categories, in display order.
var Taxonomy = []Category{
	{Key: "imoveis", Label: "Imóveis", Subcategories: []Subcategory{
		{"venda_casa", "Casa para Venda"},
		{"venda_apto", "Apartamento para Venda"},
		{"venda_lote", "Lote para Venda"},
		{"aluguel_casa", "Casa para Aluguel"},
		{"aluguel_apto", "Apartamento para Aluguel"},
		{"aluguel_lote", "Lote para Aluguel"},
	}},
	{Key: "veiculos", Label: "Veículos", Subcategories: []Subcategory{
		{"carros", "Carros"},
		{"motos", "Motos"},
		{"outros_veiculos", "Outros Veículos"},
	}},
	{Key: "para_casa", Label: "Para Casa", Subcategories: []Subcategory{
		{"moveis", "Móveis"},
		{"eletrodomesticos", "Eletrodomésticos"},
		{"decoracao", "Decoração"},
	}},
	{Key: "servicos", Label: "Serviços", Subcategories: []Subcategory{
		{"reformas_reparos", "Reformas e Reparos"},
		{"aulas_cursos", "Aulas e Cursos"},
		{"saude_bem_estar", "Saúde e Bem-estar"},
		{"eventos", "Eventos"},
		{"outros_servicos", "Outros Serviços"},
	}},
	{Key: "eletronicos", Label: "Eletrônicos", Subcategories: []Subcategory{
		{"celulares", "Celulares"},
		{"computadores", "Computadores"},
		{"outros_eletronicos", "Outros Eletrônicos"},
	}},
	{Key: "moda_beleza", Label: "Moda e Beleza", Subcategories: []Subcategory{
		{"roupas", "Roupas"},
		{"acessorios", "Acessórios"},
		{"cosmeticos", "Cosméticos"},
	}},
	{Key: "bebes_criancas", Label: "Bebês e Crianças", Subcategories: []Subcategory{
		{"roupas_bebes", "Roupas de Bebê"},
		{"brinquedos", "Brinquedos"},
		{"carrinhos_bebe", "Carrinhos de Bebê"},
		{"moveis_infantis", "Móveis Infantis"},
		{"livros_infantis", "Livros Infantis"},
		{"artigos_bebe", "Artigos para Bebê"},
	}},
}

var (
	categoryIndex    = map[string]*Category{}
	subcategoryLabel = map[string]string{}
)

func init() {
	for i := range Taxonomy {
		c := &Taxonomy[i]
		categoryIndex[c.Key] = c
		for _, s := range c.Subcategories {
			subcategoryLabel[s.Key] = s.Label
		}
	}
}

// CategoryLabel falls back to the key for unknown categories.
func CategoryLabel(key string) string {
	if c, ok := categoryIndex[key]; ok {
		return c.Label
	}
	return key
}

func SubcategoryLabel(key string) string {
	if l, ok := subcategoryLabel[key]; ok {
		return l
	}
	return key
}

// BelongsTo reports whether sub is a subcategory of category.
func BelongsTo(category, sub string) bool {
	c, ok := categoryIndex[category]
	if !ok {
		return false
	}
	for _, s := range c.Subcategories {
		if s.Key == sub {
			return true
		}
	}
	return false
}
