package models

// DefaultCategory is a category every new user starts with.
type DefaultCategory struct {
	Name  string
	Order int
}

// DefaultCategories are seeded for each user on registration.
var DefaultCategories = []DefaultCategory{
	{Name: "Sala de Estar", Order: 1},
	{Name: "Cozinha", Order: 2},
	{Name: "Quarto", Order: 3},
	{Name: "Banheiro", Order: 4},
	{Name: "Escritório", Order: 5},
	{Name: "Área Externa", Order: 6},
	{Name: "Eletrônicos", Order: 7},
	{Name: "Decoração", Order: 8},
	{Name: "Armazenamento", Order: 9},
	{Name: "Outros", Order: 10},
}

// DefaultSuggestion is a system-wide autocomplete entry.
type DefaultSuggestion struct {
	Name     string
	Category string
}

// DefaultSuggestions are the system suggestions seeded by the admin endpoint
// and the CLI.
var DefaultSuggestions = []DefaultSuggestion{
	// Sala de Estar
	{Name: "Sofá", Category: "Sala de Estar"},
	{Name: "Mesa de Centro", Category: "Sala de Estar"},
	{Name: "Rack de TV", Category: "Sala de Estar"},
	{Name: "Estante", Category: "Sala de Estar"},
	{Name: "Tapete", Category: "Sala de Estar"},
	{Name: "Luminária de Chão", Category: "Sala de Estar"},
	{Name: "Cortinas", Category: "Sala de Estar"},
	{Name: "Almofadas", Category: "Sala de Estar"},

	// Cozinha
	{Name: "Geladeira", Category: "Cozinha"},
	{Name: "Micro-ondas", Category: "Cozinha"},
	{Name: "Torradeira", Category: "Cozinha"},
	{Name: "Cafeteira", Category: "Cozinha"},
	{Name: "Liquidificador", Category: "Cozinha"},
	{Name: "Jogo de Panelas", Category: "Cozinha"},
	{Name: "Jogo de Facas", Category: "Cozinha"},
	{Name: "Tábua de Corte", Category: "Cozinha"},
	{Name: "Jogo de Pratos", Category: "Cozinha"},
	{Name: "Jogo de Talheres", Category: "Cozinha"},
	{Name: "Lixeira", Category: "Cozinha"},
	{Name: "Porta Papel Toalha", Category: "Cozinha"},

	// Quarto
	{Name: "Cama", Category: "Quarto"},
	{Name: "Colchão", Category: "Quarto"},
	{Name: "Travesseiros", Category: "Quarto"},
	{Name: "Jogo de Cama", Category: "Quarto"},
	{Name: "Cômoda", Category: "Quarto"},
	{Name: "Criado-Mudo", Category: "Quarto"},
	{Name: "Guarda-Roupa", Category: "Quarto"},
	{Name: "Abajur", Category: "Quarto"},
	{Name: "Despertador", Category: "Quarto"},

	// Banheiro
	{Name: "Cortina de Box", Category: "Banheiro"},
	{Name: "Toalhas de Banho", Category: "Banheiro"},
	{Name: "Tapete de Banheiro", Category: "Banheiro"},
	{Name: "Escova Sanitária", Category: "Banheiro"},
	{Name: "Saboneteira", Category: "Banheiro"},
	{Name: "Porta Escova de Dentes", Category: "Banheiro"},
	{Name: "Espelho de Banheiro", Category: "Banheiro"},
	{Name: "Cesto de Roupa Suja", Category: "Banheiro"},

	// Escritório
	{Name: "Escrivaninha", Category: "Escritório"},
	{Name: "Cadeira de Escritório", Category: "Escritório"},
	{Name: "Monitor", Category: "Escritório"},
	{Name: "Luminária de Mesa", Category: "Escritório"},
	{Name: "Arquivo", Category: "Escritório"},
	{Name: "Impressora", Category: "Escritório"},
	{Name: "Organizador de Mesa", Category: "Escritório"},

	// Eletrônicos
	{Name: "TV", Category: "Eletrônicos"},
	{Name: "Caixas de Som", Category: "Eletrônicos"},
	{Name: "Roteador", Category: "Eletrônicos"},
	{Name: "Filtro de Linha", Category: "Eletrônicos"},
	{Name: "Central de Automação", Category: "Eletrônicos"},
	{Name: "Aspirador de Pó", Category: "Eletrônicos"},
	{Name: "Purificador de Ar", Category: "Eletrônicos"},
	{Name: "Ventilador", Category: "Eletrônicos"},

	// Decoração
	{Name: "Quadros", Category: "Decoração"},
	{Name: "Porta-Retratos", Category: "Decoração"},
	{Name: "Vasos", Category: "Decoração"},
	{Name: "Velas", Category: "Decoração"},
	{Name: "Plantas", Category: "Decoração"},
	{Name: "Espelho Decorativo", Category: "Decoração"},
	{Name: "Relógio de Parede", Category: "Decoração"},

	// Armazenamento
	{Name: "Caixas Organizadoras", Category: "Armazenamento"},
	{Name: "Organizador de Armário", Category: "Armazenamento"},
	{Name: "Sapateira", Category: "Armazenamento"},
	{Name: "Cabides", Category: "Armazenamento"},
	{Name: "Divisores de Gaveta", Category: "Armazenamento"},
	{Name: "Sacos à Vácuo", Category: "Armazenamento"},

	// Área Externa
	{Name: "Capacho", Category: "Área Externa"},
	{Name: "Móveis de Varanda", Category: "Área Externa"},
	{Name: "Churrasqueira", Category: "Área Externa"},
	{Name: "Mangueira de Jardim", Category: "Área Externa"},
	{Name: "Iluminação Externa", Category: "Área Externa"},
	{Name: "Vasos para Plantas", Category: "Área Externa"},

	// Outros
	{Name: "Kit de Primeiros Socorros", Category: "Outros"},
	{Name: "Caixa de Ferramentas", Category: "Outros"},
	{Name: "Extintor de Incêndio", Category: "Outros"},
	{Name: "Pilhas", Category: "Outros"},
	{Name: "Lâmpadas", Category: "Outros"},
	{Name: "Extensão Elétrica", Category: "Outros"},
}
