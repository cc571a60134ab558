package utils

import (
	"bytes"
	"fmt"
	"log"
	"os"

	"krc_coffee_backend/internal/models"

	"github.com/wneessen/go-mail"
)

func SendEmail(to, subject, htmlBody string, pdfAttachment []byte) error {
	msg := mail.NewMsg()

	if err := msg.From(os.Getenv("SMTP_FROM")); err != nil {
		return err
	}
	if err := msg.To(to); err != nil {
		return err
	}
	msg.Subject(subject)
	msg.SetBodyString(mail.TypeTextHTML, htmlBody)

	if pdfAttachment != nil {
		msg.AttachReader("krc_invoice.pdf", bytes.NewReader(pdfAttachment))
	}

	client, err := mail.NewClient(os.Getenv("SMTP_HOST"),
		mail.WithPort(587),
		mail.WithSMTPAuth(mail.SMTPAuthLogin),
		mail.WithUsername(os.Getenv("SMTP_USERNAME")),
		mail.WithPassword(os.Getenv("SMTP_PASSWORD")),
		mail.WithTLSPolicy(mail.TLSMandatory),
	)
	if err != nil {
		return err
	}

	log.Println("📤 Sending email to", to)
	return client.DialAndSend(msg)
}

// SendOrderStatusEmail notifies the customer of an order status change
func SendOrderStatusEmail(order models.Order, userEmail string, newStatus string) error {
	subject := getStatusEmailSubject(newStatus)
	html := generateStatusEmailHTML(order, newStatus)

	if err := SendEmail(userEmail, subject, html, nil); err != nil {
		log.Printf("❌ Status email error: %v", err)
		return err
	}

	log.Printf("📧 Status email sent: %s → %s", newStatus, userEmail)
	return nil
}

func getStatusEmailSubject(status string) string {
	switch status {
	case models.StatusProcessing:
		return "☕ Your order is being prepared - KRC! Coffee"
	case models.StatusShipped:
		return "📦 Your order has shipped - KRC! Coffee"
	case models.StatusDelivered:
		return "🎉 Your order has been delivered - KRC! Coffee"
	case models.StatusCancelled:
		return "❌ Order cancelled - KRC! Coffee"
	default:
		return "📋 Order update - KRC! Coffee"
	}
}

func generateStatusEmailHTML(order models.Order, status string) string {
	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <style>
        body { font-family: Arial, sans-serif; line-height: 1.6; color: #333; }
        .container { max-width: 600px; margin: 0 auto; padding: 20px; }
        .header { background: #4b2e19; color: white; padding: 30px; text-align: center; border-radius: 10px 10px 0 0; }
        .content { background: #f9f9f9; padding: 30px; border-radius: 0 0 10px 10px; }
        .info-box { background: white; padding: 20px; border-radius: 8px; margin: 20px 0; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <h1>KRC! Coffee</h1>
        </div>
        <div class="content">
            <p>%s</p>
            <div class="info-box">
                <h3>Order details</h3>
                <p><strong>Order:</strong> #%s</p>
                <p><strong>Total:</strong> ₹%.2f</p>
                <p><strong>Status:</strong> %s</p>
            </div>
            <p>Questions? Our support team is available 7 days a week.</p>
        </div>
    </div>
</body>
</html>
`, getStatusMessage(status), order.ID.String()[:8], order.TotalPrice, status)
}

func getStatusMessage(status string) string {
	switch status {
	case models.StatusProcessing:
		return "Your order is being prepared by our roastery team."
	case models.StatusShipped:
		return "Good news! Your order has shipped and is on its way to you."
	case models.StatusDelivered:
		return "Your order has been delivered. Enjoy your coffee!"
	case models.StatusCancelled:
		return "Your order has been cancelled. If you have questions, please contact us."
	default:
		return "The status of your order has been updated."
	}
}

// SendWelcomeEmail greets a newly registered customer
func SendWelcomeEmail(userEmail, userName string) error {
	subject := "🎉 Welcome to KRC! Coffee"

	html := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head><meta charset="UTF-8"></head>
<body style="font-family: Arial, sans-serif; color: #333;">
    <div style="max-width: 600px; margin: 0 auto; padding: 20px;">
        <h1 style="color: #4b2e19;">Welcome %s!</h1>
        <p>Thanks for joining KRC! Coffee, your new home for freshly roasted beans.</p>
        <ul>
            <li>✅ Earn reward points on every order</li>
            <li>✅ Exclusive coupon codes</li>
            <li>✅ Cash on Delivery available</li>
        </ul>
    </div>
</body>
</html>
`, userName)

	return SendEmail(userEmail, subject, html, nil)
}
