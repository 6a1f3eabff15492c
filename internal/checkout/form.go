package checkout

import "flipsip/internal/models"

// Form holds the order being edited. Name, email and phone belong to the
// customer and survive Reset; everything else is per order.
type Form struct {
	models.OrderFields
}

// NewForm returns a form prefilled from user, which may be nil.
func NewForm(user *models.User, country string) *Form {
	f := &Form{}
	f.Country = country
	if user != nil {
		f.FullName = user.Name
		f.Email = user.Email
		if user.Phone != nil {
			f.Phone = *user.Phone
		}
	}
	f.Reset()
	return f
}

// Valid reports whether every required field is filled in. Submission is
// only possible while it holds.
func (f *Form) Valid() bool {
	return f.FullName != "" &&
		f.Email != "" &&
		f.Phone != "" &&
		f.Address1 != "" &&
		f.City != "" &&
		f.State != "" &&
		f.Pincode != "" &&
		f.Size != "" &&
		f.Quantity != 0
}

// Reset clears the per-order fields and restores the default size and
// quantity. Name, email, phone and country are kept.
func (f *Form) Reset() {
	keep := f.OrderFields
	f.OrderFields = models.OrderFields{
		FullName: keep.FullName,
		Email:    keep.Email,
		Phone:    keep.Phone,
		Country:  keep.Country,
		Size:     models.Size1L,
		Quantity: 1,
	}
}
