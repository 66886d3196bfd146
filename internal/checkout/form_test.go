package checkout

import (
	"testing"

	"github.com/fekuna/frameshop-storefront/internal/model"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validForm() Form {
	return Form{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+1 555 0100",
		Street:    "12 Analytical Way",
		City:      "Portland",
		State:     "OR",
		Zip:       "97201",
	}
}

func TestFormSettersNormalize(t *testing.T) {
	var f Form
	f.SetFirstName("  Ada ")
	f.SetEmail(" Ada@Example.COM ")
	f.SetZip(" 97201\n")

	assert.Equal(t, "Ada", f.FirstName)
	assert.Equal(t, "ada@example.com", f.Email)
	assert.Equal(t, "97201", f.Zip)
}

func TestFormValidate(t *testing.T) {
	v := validator.New()

	f := validForm()
	require.NoError(t, f.Validate(v))

	f.Email = "not-an-email"
	f.City = ""
	err := f.Validate(v)
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	fields := []string{verrs[0].Field(), verrs[1].Field()}
	assert.ElementsMatch(t, []string{"Email", "City"}, fields)
}

func TestPrefillKeepsEnteredValues(t *testing.T) {
	f := Form{FirstName: "Augusta", City: "London"}
	f.Prefill(&model.Profile{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Address:   model.Address{City: "Portland", Zip: "97201"},
	})

	assert.Equal(t, "Augusta", f.FirstName)
	assert.Equal(t, "Lovelace", f.LastName)
	assert.Equal(t, "London", f.City)
	assert.Equal(t, "97201", f.Zip)
	assert.Equal(t, "Lovelace", f.Address().LastName)
}
