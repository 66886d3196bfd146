// Package checkout turns a cart and a shipping form into a placed order.
package checkout

import (
	"strings"

	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/go-playground/validator/v10"
)

// Form is the shipping information collected at checkout.
type Form struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"required,min=7,max=20"`
	Street    string `json:"street" validate:"required,max=200"`
	City      string `json:"city" validate:"required,max=100"`
	State     string `json:"state" validate:"required,max=100"`
	Zip       string `json:"zip" validate:"required,max=10"`
}

func (f *Form) SetFirstName(v string) { f.FirstName = strings.TrimSpace(v) }
func (f *Form) SetLastName(v string)  { f.LastName = strings.TrimSpace(v) }
func (f *Form) SetEmail(v string)     { f.Email = strings.ToLower(strings.TrimSpace(v)) }
func (f *Form) SetPhone(v string)     { f.Phone = strings.TrimSpace(v) }
func (f *Form) SetStreet(v string)    { f.Street = strings.TrimSpace(v) }
func (f *Form) SetCity(v string)      { f.City = strings.TrimSpace(v) }
func (f *Form) SetState(v string)     { f.State = strings.TrimSpace(v) }
func (f *Form) SetZip(v string)       { f.Zip = strings.TrimSpace(v) }

func (f *Form) Normalize() {
	f.SetFirstName(f.FirstName)
	f.SetLastName(f.LastName)
	f.SetEmail(f.Email)
	f.SetPhone(f.Phone)
	f.SetStreet(f.Street)
	f.SetCity(f.City)
	f.SetState(f.State)
	f.SetZip(f.Zip)
}

func (f *Form) Validate(v *validator.Validate) error {
	return v.Struct(f)
}

// Prefill copies a saved profile into the empty fields of the form.
func (f *Form) Prefill(p *model.Profile) {
	fill := func(dst *string, v string) {
		if *dst == "" {
			*dst = v
		}
	}
	fill(&f.FirstName, p.FirstName)
	fill(&f.LastName, p.LastName)
	fill(&f.Email, p.Email)
	fill(&f.Phone, p.Phone)
	fill(&f.Street, p.Address.Street)
	fill(&f.City, p.Address.City)
	fill(&f.State, p.Address.State)
	fill(&f.Zip, p.Address.Zip)
}

func (f *Form) Address() model.Address {
	return model.Address{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Street:    f.Street,
		City:      f.City,
		State:     f.State,
		Zip:       f.Zip,
	}
}
