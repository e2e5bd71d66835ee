package views

import (
	"time"

	"github.com/kendall-kelly/tailoring-orders-portal/models"
)

const testToken = "token-abc"

func pendingMaleOrder(id string) models.Order {
	return models.Order{
		ID:        id,
		Status:    models.StatusPending,
		Gender:    models.GenderMale,
		OrderDate: time.Date(2024, time.May, 1, 10, 0, 0, 0, time.UTC),
		Customer:  models.Customer{Name: "Ada", Email: "ada@example.com", Contact: "555-0100"},
		Location:  &models.Coordinates{Latitude: 6.9271, Longitude: 79.8612},

		DeliveryLocation: "12 Galle Road, Colombo",
		Garment: models.Garment{
			FabricType: "wool",
			Color:      "navy",
			Fit:        "slim",
			Sizing:     models.StandardSizing(models.SizeM),
		},
		Style: models.MaleStyle{
			CollarStyle: "spread",
			CuffType:    "barrel",
			PocketStyle: "flap",
			TrouserFit:  "slim",
			JacketStyle: "blazer",
			ButtonCount: 2,
		},
	}
}

func pendingUnisexOrder(id string) models.Order {
	return models.Order{
		ID:               id,
		Status:           models.StatusPending,
		Gender:           models.GenderUnisex,
		Customer:         models.Customer{Name: "Sam", Email: "sam@example.com", Contact: "555-0101"},
		DeliveryLocation: "1 Main Street",
		Garment: models.Garment{
			FabricType: "cotton",
			Color:      "teal",
			Fit:        "regular",
			Sizing:     models.CustomSizing(models.Measurements{Chest: 40, Waist: 32.5, Length: 30, Shoulder: 18}),
		},
		Style: models.UnisexStyle{},
	}
}

func deliveredFemaleOrder(id string) models.Order {
	return models.Order{
		ID:       id,
		Status:   models.StatusDelivered,
		Gender:   models.GenderFemale,
		Customer: models.Customer{Name: "Lin"},
		Style:    models.FemaleStyle{Neckline: "round"},
	}
}
