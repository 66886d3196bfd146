package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/model"
)

var confirmationHTML = template.Must(template.New("confirmation").Parse(`<h1>Thank you for your order, {{.ShippingAddress.FirstName}}!</h1>
<p>Order <strong>{{.ID}}</strong> has been placed and will be paid on delivery.</p>
<table>
{{range .Items}}<tr><td>{{.Name}}{{if .Size}} ({{.Size}}){{end}} &times; {{.Quantity}}</td><td>${{.Price.StringFixed 2}}</td></tr>
{{end}}</table>
<p>Subtotal: ${{.Subtotal.StringFixed 2}}<br>Shipping: ${{.Shipping.StringFixed 2}}<br>Tax: ${{.Tax.StringFixed 2}}<br><strong>Total: ${{.Total.StringFixed 2}}</strong></p>
<p>Shipping to {{.ShippingAddress.Street}}, {{.ShippingAddress.City}}, {{.ShippingAddress.State}} {{.ShippingAddress.Zip}}</p>
`))

// OrderConfirmation renders the customer mail for a placed order.
func OrderConfirmation(o *model.Order) (Message, error) {
	var html bytes.Buffer
	if err := confirmationHTML.Execute(&html, o); err != nil {
		return Message{}, err
	}

	var text strings.Builder
	fmt.Fprintf(&text, "Thank you for your order, %s!\n\n", o.ShippingAddress.FirstName)
	fmt.Fprintf(&text, "Order %s\n", o.ID)
	for _, it := range o.Items {
		fmt.Fprintf(&text, "- %s x%d  $%s\n", it.Name, it.Quantity, it.Price.StringFixed(2))
	}
	fmt.Fprintf(&text, "\nTotal: $%s\n", o.Total.StringFixed(2))

	return Message{
		ToName:  strings.TrimSpace(o.ShippingAddress.FirstName + " " + o.ShippingAddress.LastName),
		ToEmail: o.Email,
		Subject: "Your Frameshop order " + shortID(o.ID),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return "#" + strings.ToUpper(id[:8])
	}
	return "#" + strings.ToUpper(id)
}
