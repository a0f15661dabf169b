package kitchen

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func testKitchens() []models.Kitchen {
	return []models.Kitchen{
		{ID: primitive.NewObjectID(), Name: "veg-local", VegOnly: true, Pincodes: []string{"400001"}},
		{ID: primitive.NewObjectID(), Name: "veg-master", VegOnly: true, MasterKitchen: true},
		{ID: primitive.NewObjectID(), Name: "nonveg-local", VegOnly: false, Pincodes: []string{"400002"}},
		{ID: primitive.NewObjectID(), Name: "nonveg-master", VegOnly: false, MasterKitchen: true},
	}
}

func TestRouteVegOrderPrefersPincodeMatch(t *testing.T) {
	k, err := Route(testKitchens(), "400001", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Name != "veg-local" {
		t.Fatalf("expected veg-local, got %q", k.Name)
	}
}

func TestRouteVegOrderFallsBackToVegMaster(t *testing.T) {
	k, err := Route(testKitchens(), "500099", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Name != "veg-master" {
		t.Fatalf("expected veg-master, got %q", k.Name)
	}
}

func TestRouteNonvegOrderPrefersNonvegPincodeMatch(t *testing.T) {
	k, err := Route(testKitchens(), "400002", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Name != "nonveg-local" {
		t.Fatalf("expected nonveg-local, got %q", k.Name)
	}
}

func TestRouteNonvegOrderNeverHitsVegOnlyKitchen(t *testing.T) {
	kitchens := []models.Kitchen{
		{ID: primitive.NewObjectID(), Name: "veg-local", VegOnly: true, Pincodes: []string{"400003"}},
		{ID: primitive.NewObjectID(), Name: "nonveg-master", VegOnly: false, MasterKitchen: true},
	}
	k, err := Route(kitchens, "400003", false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Name != "nonveg-master" {
		t.Fatalf("non-veg order must skip veg-only coverage, got %q", k.Name)
	}
}

func TestRouteAnyMasterAsLastResort(t *testing.T) {
	kitchens := []models.Kitchen{
		{ID: primitive.NewObjectID(), Name: "nonveg-master", VegOnly: false, MasterKitchen: true},
	}
	k, err := Route(kitchens, "400001", true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if k.Name != "nonveg-master" {
		t.Fatalf("expected fallback to the only master kitchen, got %q", k.Name)
	}
}

func TestRouteNoMatchRejects(t *testing.T) {
	kitchens := []models.Kitchen{
		{ID: primitive.NewObjectID(), Name: "veg-local", VegOnly: true, Pincodes: []string{"400001"}},
	}
	if _, err := Route(kitchens, "999999", false); err != ErrNoKitchen {
		t.Fatalf("expected ErrNoKitchen, got %v", err)
	}
}

func TestRouteEmptyKitchenList(t *testing.T) {
	if _, err := Route(nil, "400001", true); err != ErrNoKitchen {
		t.Fatalf("expected ErrNoKitchen for empty list, got %v", err)
	}
}
