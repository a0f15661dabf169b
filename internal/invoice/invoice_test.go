package invoice

import (
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

func TestRenderIncludesLinesAndTotal(t *testing.T) {
	order := models.Order{
		ID:      primitive.NewObjectID(),
		Contact: models.OrderContact{Name: "Asha", Email: "asha@example.com"},
		Delivery: models.OrderDelivery{
			Address: "12 MG Road",
			Pincode: "400001",
		},
		Items: []models.OrderItem{{
			Title:     "Paneer Tikka",
			UnitPrice: 150,
			Quantity:  2,
			Customizations: []models.OrderCustomization{{
				Title:      "Toppings",
				Option:     "Extra Cheese",
				PriceAddOn: 30,
			}},
		}},
		Combos: []models.OrderCombo{{
			Title:    "Family Feast",
			Quantity: 1,
			Amount:   450,
		}},
		TotalAmount: 810,
		PaymentMode: models.PaymentModeSplit,
	}

	body := Render(order)

	for _, want := range []string{
		"Paneer Tikka",
		"Extra Cheese",
		"Family Feast (combo)",
		"Total: 810.00",
		"Payment mode: split",
		"12 MG Road",
	} {
		if !strings.Contains(body, want) {
			t.Fatalf("invoice body missing %q:\n%s", want, body)
		}
	}
}

func TestMailerDisabledWithoutHost(t *testing.T) {
	m := NewMailer("", "587", "", "", "orders@localhost")
	if m.Enabled() {
		t.Fatal("mailer without an SMTP host must report disabled")
	}
	// Must be a no-op, not a dial attempt.
	m.SendOrderInvoice(models.Order{Contact: models.OrderContact{Email: "a@b.com"}})
}

func TestMailerSkipsOrdersWithoutEmail(t *testing.T) {
	m := NewMailer("smtp.example.com", "587", "", "", "orders@localhost")
	if !m.Enabled() {
		t.Fatal("configured mailer should report enabled")
	}
	m.SendOrderInvoice(models.Order{})
}
