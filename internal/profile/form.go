// Package profile manages a customer's account details and saved items.
package profile

import (
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/go-playground/validator/v10"
)

type Form struct {
	FirstName string        `json:"first_name" validate:"max=100"`
	LastName  string        `json:"last_name" validate:"max=100"`
	Email     string        `json:"email" validate:"required,email"`
	Phone     string        `json:"phone" validate:"omitempty,min=7,max=20"`
	Address   model.Address `json:"address"`
}

func (f *Form) SetFirstName(v string) { f.FirstName = strings.TrimSpace(v) }
func (f *Form) SetLastName(v string)  { f.LastName = strings.TrimSpace(v) }
func (f *Form) SetEmail(v string)     { f.Email = strings.ToLower(strings.TrimSpace(v)) }
func (f *Form) SetPhone(v string)     { f.Phone = strings.TrimSpace(v) }

// SetAddress trims every address line.
func (f *Form) SetAddress(a model.Address) {
	f.Address = model.Address{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Street:    strings.TrimSpace(a.Street),
		City:      strings.TrimSpace(a.City),
		State:     strings.TrimSpace(a.State),
		Zip:       strings.TrimSpace(a.Zip),
	}
}

func (f *Form) Normalize() {
	f.SetFirstName(f.FirstName)
	f.SetLastName(f.LastName)
	f.SetEmail(f.Email)
	f.SetPhone(f.Phone)
	f.SetAddress(f.Address)
}

func (f *Form) Validate(v *validator.Validate) error {
	return v.Struct(f)
}
