package notifier

import (
	"context"
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"

	"github.com/kashvicrafts/storefront-api/internal/config"
)

// SMTPSender delivers mail directly over SMTP. It is used in deployments
// that run without the HTTP notification collaborator.
type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(cfg config.SMTPConfig) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *SMTPSender) SendConfirmation(_ context.Context, mail ConfirmationMail) error {
	return s.send(mail.To, mail.Subject, renderConfirmationHTML(mail))
}

func (s *SMTPSender) SendMail(_ context.Context, mail Mail) error {
	return s.send(mail.To, mail.Subject, mail.HTML)
}

func (s *SMTPSender) send(to, subject, htmlBody string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return s.dialer.DialAndSend(msg)
}

func renderConfirmationHTML(mail ConfirmationMail) string {
	var b strings.Builder

	fmt.Fprintf(&b, "<p>Hi %s,</p>", mail.Name)

	if mail.Order != nil {
		fmt.Fprintf(&b, "<p>Thank you for your inquiry. Your order total is ₹%.2f.</p>", mail.Order.TotalPrice)
		b.WriteString("<ul>")
		for _, item := range mail.Order.Items {
			fmt.Fprintf(&b, "<li>%s x %d: ₹%.2f</li>", item.ProductName, item.Quantity, item.Price)
		}
		b.WriteString("</ul>")
	} else {
		b.WriteString("<p>Welcome aboard.</p>")
	}

	if mail.ShippingAddress != nil {
		fmt.Fprintf(&b, "<p>Shipping to: %s, %s, %s %s</p>",
			mail.ShippingAddress.AddressLine1,
			mail.ShippingAddress.City,
			mail.ShippingAddress.State,
			mail.ShippingAddress.Pincode,
		)
	}

	if mail.PasswordResetLink != "" {
		fmt.Fprintf(&b, `<p>Set your password: <a href="%s">%s</a></p>`,
			mail.PasswordResetLink, mail.PasswordResetLink)
	}

	return b.String()
}
