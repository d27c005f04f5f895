package extract

import (
	"strings"

	"github.com/nao1215/bakeryscan/internal/model"
)

// seasonalTriggers map an occasion phrase to a suggested offer label.
var seasonalTriggers = []model.SeasonalSpecial{
	{Trigger: "christmas", Label: "Festive Cakes"},
	{Trigger: "valentine", Label: "Valentine Offers"},
	{Trigger: "new year", Label: "New Year Treats"},
	{Trigger: "easter", Label: "Easter Hot Cross Buns"},
	{Trigger: "diwali", Label: "Diwali Sweet Boxes"},
	{Trigger: "halloween", Label: "Halloween Treats"},
	{Trigger: "thanksgiving", Label: "Thanksgiving Pies"},
	{Trigger: "mother's day", Label: "Mother's Day Hampers"},
}

// SeasonalSpecials returns the occasions mentioned in text, in the fixed
// trigger order. Matching is a case-insensitive substring test, so
// "valentine's" matches "valentine".
func SeasonalSpecials(text string) []model.SeasonalSpecial {
	lower := strings.ToLower(text)
	out := make([]model.SeasonalSpecial, 0)
	for _, s := range seasonalTriggers {
		if strings.Contains(lower, s.Trigger) {
			out = append(out, s)
		}
	}
	return out
}
