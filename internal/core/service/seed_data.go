package service

import (
	"github.com/shopspring/decimal"

	"github.com/rl1809/checkout/internal/core/domain"
)

var sampleProducts = []domain.Product{
	{
		Name:        "Converse Chuck Taylor All Star II Hi",
		Description: "The iconic Chuck Taylor All Star returns with premium materials and enhanced comfort. Features a lugged outsole, padded non-slip tongue, and micro-suede lining for all-day comfort.",
		Price:       decimal.RequireFromString("75.00"),
		Image:       "https://www.converse.in/media/catalog/product/1/6/162050c_a_107x1.jpg",
		Inventory:   50,
		Variants: []domain.VariantGroup{
			{
				Name:  "color",
				Value: "Color",
				Options: []domain.VariantOption{
					{Label: "Black", Value: "black", InStock: true, Image: "https://www.converse.in/media/catalog/product/1/6/162050c_a_107x1.jpg"},
					{Label: "White", Value: "white", InStock: true, Image: "https://www.converse.in/media/catalog/product/1/3/132169c_a_08x1.jpg"},
					{Label: "Red", Value: "red", InStock: true, Image: "https://www.converse.in/media/catalog/product/m/9/m9621c_01.jpg"},
					{Label: "Navy", Value: "navy", InStock: false, Image: "https://www.converse.in/media/catalog/product/a/0/a07434c_a_107x1.jpg"},
				},
			},
			{
				Name:  "size",
				Value: "Size",
				Options: []domain.VariantOption{
					{Label: "7", Value: "7", InStock: true},
					{Label: "8", Value: "8", InStock: true},
					{Label: "9", Value: "9", InStock: true},
					{Label: "10", Value: "10", InStock: true},
					{Label: "11", Value: "11", InStock: false},
				},
			},
		},
	},
}
