package dto

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CategoryForm is the admin category editor's state.
type CategoryForm struct {
	Name         string `json:"name" validate:"required,max=100"`
	Slug         string `json:"slug" validate:"omitempty,max=100,slug"`
	Description  string `json:"description" validate:"max=500"`
	DisplayOrder int    `json:"display_order" validate:"gte=0"`
}

var (
	slugPattern = regexp.MustCompile(`^[a-z0-9]+(?:-[a-z0-9]+)*$`)
	nonSlug     = regexp.MustCompile(`[^a-z0-9]+`)
)

func (f *CategoryForm) SetName(v string)        { f.Name = strings.TrimSpace(v) }
func (f *CategoryForm) SetSlug(v string)        { f.Slug = strings.ToLower(strings.TrimSpace(v)) }
func (f *CategoryForm) SetDescription(v string) { f.Description = strings.TrimSpace(v) }

func (f *CategoryForm) SetDisplayOrder(n int) {
	if n < 0 {
		n = 0
	}
	f.DisplayOrder = n
}

// Normalize trims input and derives the slug from the name when none was given.
func (f *CategoryForm) Normalize() {
	f.SetName(f.Name)
	f.SetSlug(f.Slug)
	f.SetDescription(f.Description)
	if f.Slug == "" {
		f.Slug = Slugify(f.Name)
	}
}

func (f *CategoryForm) Validate(v *validator.Validate) error {
	return v.Struct(f)
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(nonSlug.ReplaceAllString(strings.ToLower(s), "-"), "-")
}

// RegisterValidations adds the "slug" tag to v.
func RegisterValidations(v *validator.Validate) error {
	return v.RegisterValidation("slug", func(fl validator.FieldLevel) bool {
		return slugPattern.MatchString(fl.Field().String())
	})
}
