package pricing

import (
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func buildCatalog() (*Catalog, models.Category, models.Combo) {
	optExtra := models.CustomizeOption{ID: primitive.NewObjectID(), Title: "Extra Cheese", PriceAddOn: 30}
	optButter := models.CustomizeOption{ID: primitive.NewObjectID(), Title: "Butter", PriceAddOn: 15}

	toppings := models.CustomizeCategory{
		ID:            primitive.NewObjectID(),
		Title:         "Toppings",
		AllowMultiple: true,
		Limit:         2,
		Options:       []models.CustomizeOption{optExtra, optButter},
	}
	size := models.CustomizeCategory{
		ID:            primitive.NewObjectID(),
		Title:         "Size",
		AllowMultiple: false,
		Limit:         3, // ignored when AllowMultiple is false
		Options: []models.CustomizeOption{
			{ID: primitive.NewObjectID(), Title: "Large", PriceAddOn: 40},
			{ID: primitive.NewObjectID(), Title: "Regular", PriceAddOn: 0},
		},
	}

	paneer := models.Dish{
		ID:                  primitive.NewObjectID(),
		Title:               "Paneer Tikka",
		ThalPrice:           120,
		NormalPrice:         150,
		Diet:                models.DietVeg,
		IsActive:            true,
		CustomizeCategories: []models.CustomizeCategory{toppings, size},
	}
	chicken := models.Dish{
		ID:          primitive.NewObjectID(),
		Title:       "Chicken Curry",
		ThalPrice:   180,
		NormalPrice: 220,
		Diet:        models.DietNonveg,
		IsActive:    true,
	}
	retired := models.Dish{
		ID:          primitive.NewObjectID(),
		Title:       "Old Special",
		ThalPrice:   99,
		NormalPrice: 99,
		Diet:        models.DietJain,
		IsActive:    false,
	}

	category := models.Category{
		ID:       primitive.NewObjectID(),
		Title:    "Mains",
		IsActive: true,
		Dishes:   []models.Dish{paneer, chicken, retired},
	}
	combo := models.Combo{
		ID:       primitive.NewObjectID(),
		Title:    "Family Feast",
		Amount:   450,
		Diet:     models.DietVeg,
		IsActive: true,
	}

	catalog := &Catalog{
		Categories: map[primitive.ObjectID]models.Category{category.ID: category},
		Combos:     map[primitive.ObjectID]models.Combo{combo.ID: combo},
	}
	return catalog, category, combo
}

func TestPriceCartDerivesAmountsFromCatalog(t *testing.T) {
	catalog, category, _ := buildCatalog()
	paneer := category.Dishes[0]
	toppings := paneer.CustomizeCategories[0]

	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes: []DishSelection{{
				DishID:   paneer.ID,
				Quantity: 2,
				Customizations: []CustomizationSelection{{
					CategoryID: toppings.ID,
					OptionIDs:  []primitive.ObjectID{toppings.Options[0].ID},
				}},
			}},
		}},
	}

	priced, err := PriceCart(catalog, cart, TierNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// (150 unit + 30 add-on) * 2
	if priced.Total != 360 {
		t.Fatalf("expected total 360, got %v", priced.Total)
	}
	if len(priced.Items) != 1 {
		t.Fatalf("expected one priced line, got %d", len(priced.Items))
	}
	item := priced.Items[0]
	if item.UnitPrice != 150 || item.Quantity != 2 {
		t.Fatalf("expected unit 150 x2 snapshot, got %v x%d", item.UnitPrice, item.Quantity)
	}
	if len(item.Customizations) != 1 || item.Customizations[0].PriceAddOn != 30 {
		t.Fatalf("expected add-on snapshot of 30, got %+v", item.Customizations)
	}
}

func TestPriceCartThalTierUsesThalPrice(t *testing.T) {
	catalog, category, _ := buildCatalog()
	paneer := category.Dishes[0]

	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes:     []DishSelection{{DishID: paneer.ID, Quantity: 1}},
		}},
	}

	priced, err := PriceCart(catalog, cart, TierThal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if priced.Total != 120 {
		t.Fatalf("expected thal price 120, got %v", priced.Total)
	}
}

func TestPriceCartCombosAddToTotal(t *testing.T) {
	catalog, _, combo := buildCatalog()

	cart := Cart{Combos: []ComboSelection{{ComboID: combo.ID, Quantity: 2}}}
	priced, err := PriceCart(catalog, cart, TierNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if priced.Total != 900 {
		t.Fatalf("expected combo total 900, got %v", priced.Total)
	}
	if priced.AllVeg != true {
		t.Fatal("veg combo should keep AllVeg true")
	}
	if priced.IsJain {
		t.Fatal("non-Jain combo should clear IsJain")
	}
}

func TestPriceCartDietFlags(t *testing.T) {
	catalog, category, _ := buildCatalog()
	paneer, chicken := category.Dishes[0], category.Dishes[1]

	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes: []DishSelection{
				{DishID: paneer.ID, Quantity: 1},
				{DishID: chicken.ID, Quantity: 1},
			},
		}},
	}
	priced, err := PriceCart(catalog, cart, TierNormal)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if priced.AllVeg {
		t.Fatal("cart with a non-veg dish must not be AllVeg")
	}
	if priced.IsJain {
		t.Fatal("cart with non-Jain dishes must not be IsJain")
	}
}

func TestPriceCartEmptyCart(t *testing.T) {
	catalog, _, _ := buildCatalog()
	var invalid InvalidSelectionError
	_, err := PriceCart(catalog, Cart{}, TierNormal)
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError for empty cart, got %v", err)
	}
}

func TestPriceCartUnknownDish(t *testing.T) {
	catalog, category, _ := buildCatalog()
	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes:     []DishSelection{{DishID: primitive.NewObjectID(), Quantity: 1}},
		}},
	}
	var notFound NotFoundError
	_, err := PriceCart(catalog, cart, TierNormal)
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
	if notFound.Kind != "dish" {
		t.Fatalf("expected dish not-found, got kind %q", notFound.Kind)
	}
}

func TestPriceCartInactiveDishRejected(t *testing.T) {
	catalog, category, _ := buildCatalog()
	retired := category.Dishes[2]
	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes:     []DishSelection{{DishID: retired.ID, Quantity: 1}},
		}},
	}
	var notFound NotFoundError
	if _, err := PriceCart(catalog, cart, TierNormal); !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError for inactive dish, got %v", err)
	}
}

func TestPriceCartCustomizationLimit(t *testing.T) {
	catalog, category, _ := buildCatalog()
	paneer := category.Dishes[0]
	size := paneer.CustomizeCategories[1] // AllowMultiple=false

	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes: []DishSelection{{
				DishID:   paneer.ID,
				Quantity: 1,
				Customizations: []CustomizationSelection{{
					CategoryID: size.ID,
					OptionIDs:  []primitive.ObjectID{size.Options[0].ID, size.Options[1].ID},
				}},
			}},
		}},
	}

	var limitErr LimitExceededError
	_, err := PriceCart(catalog, cart, TierNormal)
	if !errors.As(err, &limitErr) {
		t.Fatalf("expected LimitExceededError, got %v", err)
	}
	if limitErr.Limit != 1 || limitErr.Selected != 2 {
		t.Fatalf("single-select category must enforce limit 1, got %+v", limitErr)
	}
}

func TestPriceCartUnknownCustomizationOption(t *testing.T) {
	catalog, category, _ := buildCatalog()
	paneer := category.Dishes[0]
	toppings := paneer.CustomizeCategories[0]

	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes: []DishSelection{{
				DishID:   paneer.ID,
				Quantity: 1,
				Customizations: []CustomizationSelection{{
					CategoryID: toppings.ID,
					OptionIDs:  []primitive.ObjectID{primitive.NewObjectID()},
				}},
			}},
		}},
	}

	var invalid InvalidSelectionError
	if _, err := PriceCart(catalog, cart, TierNormal); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError, got %v", err)
	}
}

func TestPriceCartZeroQuantity(t *testing.T) {
	catalog, category, _ := buildCatalog()
	cart := Cart{
		Categories: []CategorySelection{{
			CategoryID: category.ID,
			Dishes:     []DishSelection{{DishID: category.Dishes[0].ID, Quantity: 0}},
		}},
	}
	var invalid InvalidSelectionError
	if _, err := PriceCart(catalog, cart, TierNormal); !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidSelectionError for zero quantity, got %v", err)
	}
}
