package models

import "time"

// User represents a storefront customer. Email is the stable external identity.
type User struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Email     string    `json:"email" gorm:"uniqueIndex;type:varchar(255);not null"`
	Name      string    `json:"name" gorm:"type:varchar(255)"`
	Image     *string   `json:"image"`
	Phone     *string   `json:"phone" gorm:"type:varchar(32)"`
	Orders    []Order   `json:"orders,omitempty" gorm:"foreignKey:UserID"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Principal is the authenticated caller of an operation. The zero value means
// there is no session.
type Principal struct {
	Email string
}

// Authenticated reports whether the principal carries an identity.
func (p Principal) Authenticated() bool {
	return p.Email != ""
}
