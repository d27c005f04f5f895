package extract

import (
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

// defaultVocabulary holds singular and plural bakery nouns.
var defaultVocabulary = []string{
	"cake", "cakes", "cupcake", "cupcakes", "cheesecake", "cheesecakes",
	"brownie", "brownies", "cookie", "cookies", "biscuit", "biscuits",
	"macaron", "macarons", "khari",
	"bread", "breads", "sourdough", "baguette", "baguettes", "bagel", "bagels",
	"loaf", "loaves", "bun", "buns", "roll", "rolls",
	"pastry", "pastries", "croissant", "croissants", "muffin", "muffins",
	"donut", "donuts", "doughnut", "doughnuts", "tart", "tarts",
	"pie", "pies", "scone", "scones", "danish",
	"pizza", "pizzas", "quiche", "sandwich", "sandwiches", "puff", "puffs",
	"gift", "gifts", "hamper", "hampers",
}

// DefaultVocabulary returns a copy of the built-in term list.
func DefaultVocabulary() []string {
	out := make([]string, len(defaultVocabulary))
	copy(out, defaultVocabulary)
	return out
}

// DefaultCategories returns the built-in categories in precedence order.
// Some terms appear in more than one list; the earlier category claims them.
func DefaultCategories() []model.Category {
	return []model.Category{
		{Name: "Cakes", Keywords: []string{
			"cake", "cakes", "cupcake", "cupcakes", "cheesecake", "cheesecakes", "brownie", "brownies",
		}},
		{Name: "Breads", Keywords: []string{
			"bread", "breads", "sourdough", "baguette", "baguettes", "bagel", "bagels",
			"loaf", "loaves", "bun", "buns", "roll", "rolls",
		}},
		{Name: "Cookies", Keywords: []string{
			"cookie", "cookies", "biscuit", "biscuits", "macaron", "macarons", "khari", "brownie", "brownies",
		}},
		{Name: "Pastries", Keywords: []string{
			"pastry", "pastries", "croissant", "croissants", "muffin", "muffins", "donut", "donuts",
			"doughnut", "doughnuts", "tart", "tarts", "pie", "pies", "scone", "scones", "danish",
			"puff", "puffs", "cupcake", "cupcakes", "khari",
		}},
		{Name: "Savory", Keywords: []string{
			"pizza", "pizzas", "quiche", "sandwich", "sandwiches", "puff", "puffs",
		}},
		{Name: "Gifts", Keywords: []string{
			"gift", "gifts", "hamper", "hampers",
		}},
	}
}

// normalizeTerms lowercases, trims and de-duplicates terms, keeping order.
func normalizeTerms(terms []string) []string {
	seen := make(map[string]bool, len(terms))
	out := make([]string, 0, len(terms))
	for _, t := range terms {
		t = strings.Join(strings.Fields(strings.ToLower(t)), " ")
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
