package utils

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/skip2/go-qrcode"

	"krc_coffee_backend/internal/models"
)

// GenerateTrackingQR encodes the order tracking URL as a base64 PNG,
// ready to drop into an <img src="...">
func GenerateTrackingQR(orderID string) (string, error) {
	baseURL := os.Getenv("FRONTEND_URL")
	if baseURL == "" {
		baseURL = "http://localhost:5173"
	}

	png, err := qrcode.Encode(fmt.Sprintf("%s/orders/%s", baseURL, orderID), qrcode.Medium, 256)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}

// BuildInvoiceHTML renders the invoice document for an order
func BuildInvoiceHTML(order models.Order, qrBase64 string) string {
	var rows strings.Builder
	for _, item := range order.Items {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td>%s</td>
				<td>%d</td>
				<td>₹%.2f</td>
				<td>₹%.2f</td>
			</tr>`, item.Name, item.Quantity, item.Price, item.Price*float64(item.Quantity)))
	}

	discountRow := ""
	if order.Discount > 0 {
		discountRow = fmt.Sprintf(`<p><strong>Discount (%s):</strong> −₹%.2f</p>`, order.CouponCode, order.Discount)
	}

	return fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
	<meta charset="UTF-8">
	<style>
		body { font-family: Arial, sans-serif; color: #333; padding: 40px; }
		h1 { color: #4b2e19; }
		table { width: 100%%; border-collapse: collapse; margin: 20px 0; }
		th, td { border: 1px solid #ddd; padding: 8px; text-align: left; }
		th { background: #f5f0eb; }
	</style>
</head>
<body>
	<h1>KRC! Coffee - Invoice</h1>
	<p><strong>Order:</strong> #%s</p>
	<p><strong>Date:</strong> %s</p>
	<p><strong>Ship to:</strong> %s, %s, %s %s</p>
	<table>
		<tr><th>Item</th><th>Qty</th><th>Unit price</th><th>Total</th></tr>
		%s
	</table>
	%s
	<p><strong>Total:</strong> ₹%.2f</p>
	<p><strong>Payment:</strong> %s</p>
	<img src="%s" width="128" height="128" alt="tracking QR">
	<p>Scan to track your order.</p>
</body>
</html>
`, order.ID.String()[:8], order.CreatedAt.Format("02 Jan 2006"),
		order.Shipping.Name, order.Shipping.Address, order.Shipping.City, order.Shipping.Pincode,
		rows.String(), discountRow, order.TotalPrice, order.PaymentMethod, qrBase64)
}

// RenderInvoicePDF prints the invoice HTML to PDF with headless Chrome
func RenderInvoicePDF(html string) ([]byte, error) {
	ctx, cancel := chromedp.NewContext(context.Background())
	defer cancel()

	ctx, cancel = context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	dataURL := "data:text/html;base64," + base64.StdEncoding.EncodeToString([]byte(html))

	var pdfBuf []byte
	err := chromedp.Run(ctx,
		chromedp.Navigate(dataURL),
		chromedp.WaitVisible("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			buf, _, err := page.PrintToPDF().WithPrintBackground(true).Do(ctx)
			if err != nil {
				return err
			}
			pdfBuf = buf
			return nil
		}),
	)
	if err != nil {
		return nil, err
	}

	return pdfBuf, nil
}
