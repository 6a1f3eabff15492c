package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Quantity is an order quantity that decodes from either a JSON number or a
// numeric string, so {"quantity": 3} and {"quantity": "3"} are equivalent.
// Null and the empty string decode to zero, which validation treats as missing.
type Quantity int

// UnmarshalJSON implements json.Unmarshaler.
func (q *Quantity) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*q = 0
		return nil
	}

	raw := string(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("quantity: %w", err)
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*q = 0
			return nil
		}
	}

	n, err := strconv.Atoi(raw)
	if err != nil {
		f, ferr := strconv.ParseFloat(raw, 64)
		if ferr != nil || f != float64(int(f)) {
			return fmt.Errorf("quantity %q is not a whole number", raw)
		}
		n = int(f)
	}
	*q = Quantity(n)
	return nil
}

// OrderFields is the set of attributes a customer submits with one order.
// Fields tagged required must be non-empty; everything else is optional and
// may be left blank.
type OrderFields struct {
	FullName string `json:"fullName" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	AltPhone string `json:"altPhone,omitempty"`

	Address1 string `json:"address1" validate:"required"`
	Address2 string `json:"address2,omitempty"`
	Landmark string `json:"landmark,omitempty"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	Pincode  string `json:"pincode" validate:"required"`
	Country  string `json:"country,omitempty"`

	DeliveryTime        string `json:"deliveryTime,omitempty"`
	SpecialInstructions string `json:"specialInstructions,omitempty"`
	GiftMessage         string `json:"giftMessage,omitempty"`
	PromoCode           string `json:"promoCode,omitempty"`

	Size        Size     `json:"size" validate:"required,oneof=1L 750ml 500ml"`
	Quantity    Quantity `json:"quantity" validate:"required,min=1"`
	Personalize string   `json:"personalize,omitempty"`
}

// ToOrder maps the submitted fields onto a new order owned by userID. Blank
// optional fields become NULL columns. The promo code is not stored.
func (f OrderFields) ToOrder(userID string) *Order {
	return &Order{
		UserID:              userID,
		FullName:            f.FullName,
		Email:               f.Email,
		Phone:               f.Phone,
		AltPhone:            optional(f.AltPhone),
		Address1:            f.Address1,
		Address2:            optional(f.Address2),
		Landmark:            optional(f.Landmark),
		City:                f.City,
		State:               f.State,
		Pincode:             f.Pincode,
		Country:             f.Country,
		DeliveryTime:        optional(f.DeliveryTime),
		SpecialInstructions: optional(f.SpecialInstructions),
		GiftMessage:         optional(f.GiftMessage),
		Size:                f.Size,
		Quantity:            int(f.Quantity),
		Personalize:         optional(f.Personalize),
		Status:              OrderStatusPlaced,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
