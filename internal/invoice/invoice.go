// Package invoice renders order invoices and mails them to the customer.
// Everything here runs fire-and-forget after placement; failures are logged
// and never affect the order.
package invoice

import (
	"fmt"
	"log"
	"net/smtp"
	"strings"

	"github.com/PremPMehta/food-del-be-sub000/internal/models"
)

// Mailer sends rendered invoices.
type Mailer struct {
	host string
	port string
	user string
	pass string
	from string
}

func NewMailer(host, port, user, pass, from string) *Mailer {
	return &Mailer{host: host, port: port, user: user, pass: pass, from: from}
}

// Enabled reports whether SMTP is configured; SendOrderInvoice is a no-op
// otherwise.
func (m *Mailer) Enabled() bool {
	return m != nil && m.host != ""
}

// SendOrderInvoice renders and mails the invoice for a placed order.
// Intended to be called in a goroutine; it only logs on failure.
func (m *Mailer) SendOrderInvoice(order models.Order) {
	if !m.Enabled() || order.Contact.Email == "" {
		return
	}

	body := Render(order)
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + order.Contact.Email,
		fmt.Sprintf("Subject: Your order %s", order.ID.Hex()),
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.pass, m.host)
	}

	addr := m.host + ":" + m.port
	if err := smtp.SendMail(addr, auth, m.from, []string{order.Contact.Email}, []byte(msg)); err != nil {
		log.Println("[INVOICE] [ERROR] send failed for order", order.ID.Hex(), ":", err)
		return
	}
	log.Println("[INVOICE] [INFO] invoice mailed for order", order.ID.Hex())
}

// Render produces the plain-text invoice body for an order.
func Render(order models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Invoice for order %s\n", order.ID.Hex())
	fmt.Fprintf(&b, "Customer: %s\n", order.Contact.Name)
	fmt.Fprintf(&b, "Deliver to: %s (%s)\n\n", order.Delivery.Address, order.Delivery.Pincode)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "%-30s x%d  %10.2f\n", item.Title, item.Quantity, item.UnitPrice*float64(item.Quantity))
		for _, cust := range item.Customizations {
			fmt.Fprintf(&b, "  + %s: %s  %10.2f\n", cust.Title, cust.Option, cust.PriceAddOn*float64(item.Quantity))
		}
	}
	for _, combo := range order.Combos {
		fmt.Fprintf(&b, "%-30s x%d  %10.2f\n", combo.Title+" (combo)", combo.Quantity, combo.Amount)
	}

	fmt.Fprintf(&b, "\nTotal: %.2f\n", order.TotalAmount)
	fmt.Fprintf(&b, "Payment mode: %s\n", order.PaymentMode)
	return b.String()
}
