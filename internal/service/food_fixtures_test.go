package service

import "GluviaAdmin/internal/model"

func nutrients() model.Nutrients {
	return model.Nutrients{Calories: 360, Carbs: 79, Protein: 8, Fat: 1, Fibre: 3}
}

func portionList() []model.PortionSize {
	return []model.PortionSize{{Name: "cup", Grams: 150}}
}
