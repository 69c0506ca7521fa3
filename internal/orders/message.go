package orders

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// Formatter turns a record into the confirmation message and the outbound
// messaging link.
type Formatter struct {
	MessagingHost  string // e.g. wa.me
	Handle         string // destination handle, injected from config
	CurrencyPrefix string
}

// Confirmation is the output of Formatter.Format.
type Confirmation struct {
	Message string `json:"message"`
	Link    string `json:"link"`
}

func NewFormatter(host, handle, currency string) Formatter {
	return Formatter{MessagingHost: host, Handle: handle, CurrencyPrefix: currency}
}

func (f Formatter) Format(r OrderRecord) Confirmation {
	msg := f.Message(r)
	return Confirmation{Message: msg, Link: f.Link(msg)}
}

func (f Formatter) Message(r OrderRecord) string {
	var b strings.Builder
	b.WriteString("*Cake Order Confirmation*\n")
	fmt.Fprintf(&b, "Customer Name: %s\n", r.CustomerName)
	fmt.Fprintf(&b, "Occasion: %s\n", r.Occasion)
	fmt.Fprintf(&b, "Cake Flavor: %s\n", r.CakeFlavor)
	fmt.Fprintf(&b, "Cake Size: %s\n", r.CakeSize)
	fmt.Fprintf(&b, "Decoration Details: %s\n", r.DecorationDetails)
	fmt.Fprintf(&b, "Pickup Date: %s\n", r.PickupDate)
	fmt.Fprintf(&b, "Total Price: %s\n", f.money(r.TotalPrice))
	fmt.Fprintf(&b, "Amount Payable Today: %s\n", f.money(r.AmountPaidToday))
	fmt.Fprintf(&b, "Amount Payable While Pickup: %s\n", f.money(r.AmountDueAtPickup))
	b.WriteString("\nPlease confirm this order.")
	return b.String()
}

// Link builds https://<host>/<handle>?text=<message>.
func (f Formatter) Link(message string) string {
	return "https://" + f.MessagingHost + "/" + url.PathEscape(f.Handle) + "?text=" + EncodeText(message)
}

func (f Formatter) money(d decimal.Decimal) string {
	return f.CurrencyPrefix + d.StringFixed(2)
}

// EncodeText percent-encodes s for a query value, spaces as %20.
func EncodeText(s string) string {
	// QueryEscape sudah meng-escape '+' jadi %2B, jadi sisa '+' pasti spasi.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// DecodeLinkMessage returns the decoded text parameter of a messaging link.
func DecodeLinkMessage(link string) (string, error) {
	u, err := url.Parse(link)
	if err != nil {
		return "", fmt.Errorf("parse link: %w", err)
	}
	q, err := url.ParseQuery(u.RawQuery)
	if err != nil {
		return "", fmt.Errorf("parse query: %w", err)
	}
	if !q.Has("text") {
		return "", fmt.Errorf("link has no text parameter")
	}
	return q.Get("text"), nil
}
