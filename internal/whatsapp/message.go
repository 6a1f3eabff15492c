package whatsapp

import (
	"fmt"
	"strings"

	"flipsip/internal/models"
)

const separator = "--------------------------"

// FormatOrderMessage renders the order fields as the text block sent to store
// administrators. Values are inserted verbatim. Optional address lines are
// left out entirely when blank; other optional values fall back to "None",
// or "Any" for the delivery time.
func FormatOrderMessage(f models.OrderFields) string {
	var b strings.Builder

	b.WriteString("*FlipSip Order*\n")
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "*Name*: %s\n", f.FullName)
	fmt.Fprintf(&b, "*Email*: %s\n", f.Email)
	fmt.Fprintf(&b, "*Phone*: %s\n", f.Phone)
	fmt.Fprintf(&b, "*Alt Phone*: %s\n", orDefault(f.AltPhone, "None"))
	fmt.Fprintf(&b, "*Address*: %s\n", f.Address1)
	if f.Address2 != "" {
		b.WriteString(f.Address2 + "\n")
	}
	if f.Landmark != "" {
		fmt.Fprintf(&b, "Landmark: %s\n", f.Landmark)
	}
	fmt.Fprintf(&b, "%s, %s, %s, %s\n", f.City, f.State, f.Pincode, f.Country)
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "*Delivery Time*: %s\n", orDefault(f.DeliveryTime, "Any"))
	fmt.Fprintf(&b, "*Instructions*: %s\n", orDefault(f.SpecialInstructions, "None"))
	fmt.Fprintf(&b, "*Gift Message*: %s\n", orDefault(f.GiftMessage, "None"))
	b.WriteString(separator + "\n")
	fmt.Fprintf(&b, "*Bottle Size*: %s\n", f.Size)
	fmt.Fprintf(&b, "*Quantity*: %d\n", f.Quantity)
	fmt.Fprintf(&b, "*Personalization*: %s\n", orDefault(f.Personalize, "None"))

	return b.String()
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
