package models

import "time"

// OrderStatus is the delivery status of an order. Transitions are owned by
// store administrators; nothing here enforces an ordering between values.
type OrderStatus string

const (
	OrderStatusPlaced          OrderStatus = "PLACED"
	OrderStatusPacked          OrderStatus = "PACKED"
	OrderStatusInTransit       OrderStatus = "IN_TRANSIT"
	OrderStatusDelivered       OrderStatus = "DELIVERED"
	OrderStatusFailedInTransit OrderStatus = "FAILED_IN_TRANSIT"
	OrderStatusFailedDelivery  OrderStatus = "FAILED_DELIVERY"
)

// Valid reports whether s is one of the known statuses.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPlaced, OrderStatusPacked, OrderStatusInTransit,
		OrderStatusDelivered, OrderStatusFailedInTransit, OrderStatusFailedDelivery:
		return true
	}
	return false
}

// Size is the bottle size of an order.
type Size string

const (
	Size1L    Size = "1L"
	Size750ml Size = "750ml"
	Size500ml Size = "500ml"
)

// Order represents a delivery order placed by a user.
type Order struct {
	ID                  string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID              string      `json:"userId" gorm:"index;type:varchar(36);not null"`
	FullName            string      `json:"fullName" gorm:"not null"`
	Email               string      `json:"email" gorm:"not null"`
	Phone               string      `json:"phone" gorm:"not null"`
	AltPhone            *string     `json:"altPhone"`
	Address1            string      `json:"address1" gorm:"not null"`
	Address2            *string     `json:"address2"`
	Landmark            *string     `json:"landmark"`
	City                string      `json:"city" gorm:"not null"`
	State               string      `json:"state" gorm:"not null"`
	Pincode             string      `json:"pincode" gorm:"not null"`
	Country             string      `json:"country"`
	DeliveryTime        *string     `json:"deliveryTime"`
	SpecialInstructions *string     `json:"specialInstructions"`
	GiftMessage         *string     `json:"giftMessage"`
	Size                Size        `json:"size" gorm:"type:varchar(8);not null"`
	Quantity            int         `json:"quantity" gorm:"not null"`
	Personalize         *string     `json:"personalize"`
	Status              OrderStatus `json:"status" gorm:"type:varchar(32);default:PLACED;not null"`
	FailureReason       *string     `json:"failureReason"`
	CreatedAt           time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt           time.Time   `json:"updatedAt"`
}
