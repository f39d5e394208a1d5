package transaction

import "strings"

// Category is a fixed spending bucket assigned at ingestion time.
type Category string

const (
	CategoryFoodDelivery  Category = "Food & Delivery"
	CategoryTransport     Category = "Transport"
	CategorySubscriptions Category = "Subscriptions"
	CategoryHealth        Category = "Health"
	CategorySupermarket   Category = "Supermarket"
	CategoryShopping      Category = "Shopping"
	CategoryHousingBills  Category = "Housing & Bills"
	CategoryIncome        Category = "Income"
	CategoryInvestments   Category = "Investments"
	CategoryOther         Category = "Other"
)

type categoryKeywords struct {
	category Category
	keywords []string
}

// categoryRules maps each category to the lowercase substrings that select it.
// Order matters: classification walks the slice and the first category with a
// matching keyword wins, so the result is deterministic for descriptions that
// would match more than one bucket (e.g. "uber eats" is Food & Delivery, not
// Transport).
var categoryRules = []categoryKeywords{
	{CategoryFoodDelivery, []string{
		"ifood", "rappi", "uber eats", "mcdonalds", "subway",
		"restaurante", "padaria", "lanchonete", "burger", "pizza",
	}},
	{CategoryTransport, []string{
		"uber", "99", "taxi", "metro", "combustivel", "posto",
		"shell", "ipiranga", "gasolina", "estacionamento",
	}},
	{CategorySubscriptions, []string{
		"netflix", "spotify", "amazon prime", "youtube", "steam",
		"adobe", "globoplay", "disney", "hbo",
	}},
	{CategoryHealth, []string{
		"farmacia", "drogasil", "ultrafarma", "medico", "hospital",
		"clinica", "plano de saude", "dentista",
	}},
	{CategorySupermarket, []string{
		"mercado", "supermercado", "atacado", "carrefour", "extra",
		"pao de acucar", "assai", "hortifruti",
	}},
	{CategoryShopping, []string{
		"amazon", "shopee", "mercado livre", "magazine", "americanas",
		"renner", "zara", "riachuelo", "c&a",
	}},
	{CategoryHousingBills, []string{
		"aluguel", "condominio", "energia", "agua", "gas", "internet",
		"tim", "vivo", "claro", "oi", "luz",
	}},
	{CategoryIncome, []string{
		"salario", "pagamento", "deposito", "transferencia recebida",
		"pix recebido", "credito em conta",
	}},
	{CategoryInvestments, []string{
		"investimento", "corretora", "xp", "clear", "rico",
		"btg", "nuinvest", "tesouro",
	}},
}

// Classify assigns a category from the transaction description and optional
// merchant name. Matching is case-insensitive and substring-based; no match
// yields CategoryOther. It is a total, pure function.
func Classify(description, merchant string) Category {
	text := strings.ToLower(description + " " + merchant)
	for _, rule := range categoryRules {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category
			}
		}
	}
	return CategoryOther
}
