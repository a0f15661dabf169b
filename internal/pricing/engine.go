package pricing

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// Tier selects which catalog sale price applies to a cart.
type Tier string

const (
	TierThal   Tier = "thal"
	TierNormal Tier = "normal"
)

// CustomizationSelection is the client's pick inside one customize category.
type CustomizationSelection struct {
	CategoryID primitive.ObjectID
	OptionIDs  []primitive.ObjectID
}

// DishSelection is one requested dish with its customizations.
type DishSelection struct {
	DishID         primitive.ObjectID
	Quantity       int
	Customizations []CustomizationSelection
}

// CategorySelection groups requested dishes under their catalog category.
type CategorySelection struct {
	CategoryID primitive.ObjectID
	Dishes     []DishSelection
}

// ComboSelection is one requested combo meal.
type ComboSelection struct {
	ComboID  primitive.ObjectID
	Quantity int
}

// Cart is the client's full selection, prices omitted. All amounts are
// re-derived from the catalog; nothing monetary is trusted from the client.
type Cart struct {
	Categories []CategorySelection
	Combos     []ComboSelection
}

// PricedCart is the authoritative, fully priced result.
type PricedCart struct {
	Items  []models.OrderItem
	Combos []models.OrderCombo
	Total  float64
	IsJain bool
	AllVeg bool
}

// Catalog holds the batch-fetched catalog records a cart references.
type Catalog struct {
	Categories map[primitive.ObjectID]models.Category
	Combos     map[primitive.ObjectID]models.Combo
}

// NotFoundError reports a cart reference to a catalog record that does not
// exist (or is inactive).
type NotFoundError struct {
	Kind string
	ID   primitive.ObjectID
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID.Hex())
}

// InvalidSelectionError reports an unknown customize category or option, or
// an otherwise malformed selection.
type InvalidSelectionError struct {
	Reason string
}

func (e InvalidSelectionError) Error() string {
	return e.Reason
}

// LimitExceededError reports more options selected than a customize category
// allows.
type LimitExceededError struct {
	Category string
	Limit    int
	Selected int
}

func (e LimitExceededError) Error() string {
	return fmt.Sprintf("customization %q allows %d option(s), got %d", e.Category, e.Limit, e.Selected)
}

// LoadCatalog batch-fetches every category and combo the cart references,
// one $in query per collection.
func LoadCatalog(ctx context.Context, db *mongo.Database, cart Cart) (*Catalog, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	catalog := &Catalog{
		Categories: make(map[primitive.ObjectID]models.Category),
		Combos:     make(map[primitive.ObjectID]models.Combo),
	}

	categoryIDs := make([]primitive.ObjectID, 0, len(cart.Categories))
	for _, sel := range cart.Categories {
		categoryIDs = append(categoryIDs, sel.CategoryID)
	}
	if len(categoryIDs) > 0 {
		cursor, err := db.Collection("categories").Find(ctx, bson.M{
			"_id":      bson.M{"$in": categoryIDs},
			"isActive": true,
		})
		if err != nil {
			return nil, err
		}
		var categories []models.Category
		if err := cursor.All(ctx, &categories); err != nil {
			return nil, err
		}
		for _, cat := range categories {
			catalog.Categories[cat.ID] = cat
		}
	}

	comboIDs := make([]primitive.ObjectID, 0, len(cart.Combos))
	for _, sel := range cart.Combos {
		comboIDs = append(comboIDs, sel.ComboID)
	}
	if len(comboIDs) > 0 {
		cursor, err := db.Collection("combos").Find(ctx, bson.M{
			"_id":      bson.M{"$in": comboIDs},
			"isActive": true,
		})
		if err != nil {
			return nil, err
		}
		var combos []models.Combo
		if err := cursor.All(ctx, &combos); err != nil {
			return nil, err
		}
		for _, combo := range combos {
			catalog.Combos[combo.ID] = combo
		}
	}

	return catalog, nil
}

// PriceCart re-derives every line amount from the catalog and validates the
// customization selections. Pure: no I/O, no mutation of its inputs.
func PriceCart(catalog *Catalog, cart Cart, tier Tier) (*PricedCart, error) {
	if len(cart.Categories) == 0 && len(cart.Combos) == 0 {
		return nil, InvalidSelectionError{Reason: "cart is empty"}
	}

	priced := &PricedCart{IsJain: true, AllVeg: true}

	for _, catSel := range cart.Categories {
		category, ok := catalog.Categories[catSel.CategoryID]
		if !ok {
			return nil, NotFoundError{Kind: "category", ID: catSel.CategoryID}
		}

		for _, dishSel := range catSel.Dishes {
			if dishSel.Quantity <= 0 {
				return nil, InvalidSelectionError{Reason: "quantity must be greater than zero"}
			}

			dish, ok := findDish(category, dishSel.DishID)
			if !ok {
				return nil, NotFoundError{Kind: "dish", ID: dishSel.DishID}
			}

			customizations, addOnTotal, err := priceCustomizations(dish, dishSel.Customizations)
			if err != nil {
				return nil, err
			}

			unitPrice := dishPrice(dish, tier)
			lineAmount := unitPrice*float64(dishSel.Quantity) + addOnTotal*float64(dishSel.Quantity)

			priced.Items = append(priced.Items, models.OrderItem{
				CategoryID:     category.ID,
				DishID:         dish.ID,
				Title:          dish.Title,
				Diet:           dish.Diet,
				UnitPrice:      unitPrice,
				Quantity:       dishSel.Quantity,
				Customizations: customizations,
			})
			priced.Total += lineAmount

			if dish.Diet != models.DietJain {
				priced.IsJain = false
			}
			if dish.Diet == models.DietNonveg {
				priced.AllVeg = false
			}
		}
	}

	for _, comboSel := range cart.Combos {
		if comboSel.Quantity <= 0 {
			return nil, InvalidSelectionError{Reason: "quantity must be greater than zero"}
		}

		combo, ok := catalog.Combos[comboSel.ComboID]
		if !ok {
			return nil, NotFoundError{Kind: "combo", ID: comboSel.ComboID}
		}

		amount := combo.Amount * float64(comboSel.Quantity)
		priced.Combos = append(priced.Combos, models.OrderCombo{
			ComboID:  combo.ID,
			Title:    combo.Title,
			Quantity: comboSel.Quantity,
			Amount:   amount,
		})
		priced.Total += amount

		if combo.Diet != models.DietJain {
			priced.IsJain = false
		}
		if combo.Diet == models.DietNonveg {
			priced.AllVeg = false
		}
	}

	return priced, nil
}

func findDish(category models.Category, dishID primitive.ObjectID) (models.Dish, bool) {
	for _, dish := range category.Dishes {
		if dish.ID == dishID && dish.IsActive {
			return dish, true
		}
	}
	return models.Dish{}, false
}

func dishPrice(dish models.Dish, tier Tier) float64 {
	if tier == TierThal {
		return dish.ThalPrice
	}
	return dish.NormalPrice
}

func priceCustomizations(dish models.Dish, selections []CustomizationSelection) ([]models.OrderCustomization, float64, error) {
	var out []models.OrderCustomization
	var addOnTotal float64

	for _, sel := range selections {
		category, ok := findCustomizeCategory(dish, sel.CategoryID)
		if !ok {
			return nil, 0, InvalidSelectionError{
				Reason: fmt.Sprintf("dish %q has no customization category %s", dish.Title, sel.CategoryID.Hex()),
			}
		}

		limit := category.Limit
		if !category.AllowMultiple {
			limit = 1
		}
		if len(sel.OptionIDs) > limit {
			return nil, 0, LimitExceededError{
				Category: category.Title,
				Limit:    limit,
				Selected: len(sel.OptionIDs),
			}
		}

		for _, optionID := range sel.OptionIDs {
			option, ok := findCustomizeOption(category, optionID)
			if !ok {
				return nil, 0, InvalidSelectionError{
					Reason: fmt.Sprintf("customization %q has no option %s", category.Title, optionID.Hex()),
				}
			}

			out = append(out, models.OrderCustomization{
				CategoryID: category.ID,
				Title:      category.Title,
				OptionID:   option.ID,
				Option:     option.Title,
				PriceAddOn: option.PriceAddOn,
			})
			addOnTotal += option.PriceAddOn
		}
	}

	return out, addOnTotal, nil
}

func findCustomizeCategory(dish models.Dish, id primitive.ObjectID) (models.CustomizeCategory, bool) {
	for _, category := range dish.CustomizeCategories {
		if category.ID == id {
			return category, true
		}
	}
	return models.CustomizeCategory{}, false
}

func findCustomizeOption(category models.CustomizeCategory, id primitive.ObjectID) (models.CustomizeOption, bool) {
	for _, option := range category.Options {
		if option.ID == id {
			return option, true
		}
	}
	return models.CustomizeOption{}, false
}
