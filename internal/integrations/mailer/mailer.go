package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"comercio-backend/config"
	"comercio-backend/internal/database/models"
)

var orderConfirmationTmpl = template.Must(template.New("orderConfirmation").Parse(`
<h2>Order {{.OrderNumber}} confirmed</h2>
<p>Status: {{.Status}}</p>
<table border="1" cellpadding="4" cellspacing="0">
  <tr><th>Product</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
  {{range .Items}}
  <tr>
    <td>{{if .Product}}{{.Product.Name}}{{else}}#{{.ProductID}}{{end}}</td>
    <td>{{.Quantity}}</td>
    <td>{{.UnitPrice}}</td>
    <td>{{.TotalPrice}}</td>
  </tr>
  {{end}}
</table>
<p><strong>Total: {{.TotalAmount}}</strong></p>
`))

type Mailer struct {
	cfg    config.MailConfig
	dialer *gomail.Dialer
}

func New(cfg config.MailConfig) *Mailer {
	return &Mailer{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (m *Mailer) SendOrderConfirmation(to string, order *models.PurchaseOrder) error {
	var body bytes.Buffer
	if err := orderConfirmationTmpl.Execute(&body, order); err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Order %s confirmation", order.OrderNumber))
	msg.SetBody("text/html", body.String())

	return m.dialer.DialAndSend(msg)
}
