package messaging

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"amber-storefront/internal/domain"

	"github.com/shopspring/decimal"
)

// PaymentMethod is how the customer intends to pay
type PaymentMethod string

const (
	PaymentQR       PaymentMethod = "qr"
	PaymentCard     PaymentMethod = "card"
	PaymentWhatsApp PaymentMethod = "whatsapp"
)

const (
	DefaultBusinessName = "AMBER INFUSIÓN"
	DefaultCurrency     = "Bs"
)

// OrderMessage is everything that goes into the order text
type OrderMessage struct {
	BusinessName   string
	Currency       string
	OrderID        string
	Customer       *domain.User
	Items          []domain.CartItem
	Total          decimal.Decimal
	Address        string
	AdditionalInfo string
	PaymentMethod  PaymentMethod
	PlacedAt       time.Time
}

// FormatOrderMessage renders the order as WhatsApp-flavoured markdown.
func FormatOrderMessage(m OrderMessage) string {
	business := m.BusinessName
	if business == "" {
		business = DefaultBusinessName
	}
	currency := m.Currency
	if currency == "" {
		currency = DefaultCurrency
	}
	money := func(d decimal.Decimal) string {
		return currency + d.StringFixed(2)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🛒 *NUEVO PEDIDO -%s*\n\n", business)

	if m.OrderID != "" {
		fmt.Fprintf(&b, "📋 *ID DEL PEDIDO:* %s\n\n", m.OrderID)
	}

	if u := m.Customer; u != nil {
		b.WriteString("👤 *DATOS DEL CLIENTE:*\n")
		fmt.Fprintf(&b, "• Nombre: %s\n", u.FullName())
		fmt.Fprintf(&b, "• Email: %s\n", u.Email)
		if u.Phone != "" {
			fmt.Fprintf(&b, "• Teléfono: %s\n", u.Phone)
		}
		b.WriteString("\n")
	}

	b.WriteString("📋 *PRODUCTOS:*\n")
	for i, item := range m.Items {
		fmt.Fprintf(&b, "%d. %s\n", i+1, item.Name)
		fmt.Fprintf(&b, "   • Presentación: %s\n", item.Pack)
		fmt.Fprintf(&b, "   • Cantidad: %d\n", item.Quantity)
		fmt.Fprintf(&b, "   • Precio unitario: %s\n", money(item.Price))
		fmt.Fprintf(&b, "   • Subtotal: %s\n\n", money(item.Subtotal()))
	}

	fmt.Fprintf(&b, "💰 *TOTAL: %s*\n\n", money(m.Total))

	b.WriteString("📍 *DIRECCIÓN DE ENTREGA:*\n")
	b.WriteString(m.Address + "\n")
	if info := strings.TrimSpace(m.AdditionalInfo); info != "" {
		fmt.Fprintf(&b, "Información adicional: %s\n", m.AdditionalInfo)
	}
	b.WriteString("\n")

	b.WriteString("💳 *MÉTODO DE PAGO:*\n")
	b.WriteString(paymentLabel(m.PaymentMethod))
	b.WriteString("\n\n")

	placedAt := m.PlacedAt
	if placedAt.IsZero() {
		placedAt = time.Now()
	}
	b.WriteString("⏰ *Fecha del pedido:* " + placedAt.Format("2/1/2006, 15:04:05"))
	b.WriteString("\n\n")
	b.WriteString("✅ *Por favor confirma la recepción de este pedido*")

	return b.String()
}

func paymentLabel(method PaymentMethod) string {
	switch method {
	case PaymentQR:
		return "📱 Pago con QR"
	case PaymentCard:
		return "💳 Tarjeta de crédito"
	default:
		return "📱 WhatsApp"
	}
}

// Link is a deep link with its browser fallback
type Link struct {
	App string `json:"app"`
	Web string `json:"web"`
}

// Links builds the WhatsApp app and web URLs for sending text to phone.
func Links(phone, text string) Link {
	encoded := encodeComponent(text)
	return Link{
		App: "whatsapp://send?phone=" + phone + "&text=" + encoded,
		Web: "https://wa.me/" + phone + "?text=" + encoded,
	}
}

// encodeComponent escapes like a URI component: spaces become %20.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

var nonDigits = regexp.MustCompile(`\D`)

// ValidatePhoneNumber reports whether phone holds 10 to 15 digits once
// separators are stripped.
func ValidatePhoneNumber(phone string) bool {
	digits := nonDigits.ReplaceAllString(phone, "")
	return len(digits) >= 10 && len(digits) <= 15
}
