package batch

import (
	"encoding/json"

	"GluviaAdmin/internal/cli/model"
)

func ptr(v float64) *float64 { return &v }

// TemplateFoods is the example array behind Template.
func TemplateFoods() []model.FoodDraft {
	return []model.FoodDraft{
		{
			LocalName:     "Ugali",
			CanonicalName: "maize meal porridge (stiff)",
			Category:      "staples",
			Affordability: "low",
			Description:   "Stiff maize porridge",
			Region:        "East Africa",
			Nutrients: model.Nutrients{
				Calories:      120,
				Carbs:         26,
				Protein:       2.5,
				Fat:           0.5,
				Fibre:         1.8,
				GlycemicIndex: ptr(68),
			},
			PortionSizes: []model.PortionSize{
				{Name: "1 cup", Grams: 240, Carbs: ptr(62)},
				{Name: "1 palm-sized piece", Grams: 120},
			},
		},
		{
			LocalName:     "Sukuma wiki",
			CanonicalName: "collard greens (cooked)",
			Category:      "vegetables",
			Affordability: "medium",
			Nutrients: model.Nutrients{
				Calories: 33,
				Carbs:    5.4,
				Protein:  2.7,
				Fat:      0.7,
				Fibre:    4,
			},
			PortionSizes: []model.PortionSize{
				{Name: "1 cup", Grams: 190},
			},
		},
	}
}

// Template returns the downloadable JSON template of a batch upload.
func Template() []byte {
	b, err := json.MarshalIndent(TemplateFoods(), "", "  ")
	if err != nil {
		panic(err)
	}
	return append(b, '\n')
}
