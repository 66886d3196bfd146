package dto

import (
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// ProductForm is the admin product editor's state. Setters normalise input;
// Validate enforces what the backend would otherwise reject.
type ProductForm struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=2000"`
	Price       decimal.Decimal `json:"price"`
	CategoryID  string          `json:"category_id"`
	Material    string          `json:"material" validate:"omitempty,oneof=Wood Metal Acrylic Canvas"`
	Dimensions  string          `json:"dimensions"`
	Stock       int             `json:"stock" validate:"gte=0"`
	ImageURL    string          `json:"image_url" validate:"omitempty,url"`
	IsActive    bool            `json:"is_active"`
	IsFeatured  bool            `json:"is_featured"`
}

func NewProductForm() ProductForm {
	return ProductForm{IsActive: true}
}

func (f *ProductForm) SetName(v string)        { f.Name = strings.TrimSpace(v) }
func (f *ProductForm) SetDescription(v string) { f.Description = strings.TrimSpace(v) }
func (f *ProductForm) SetCategory(id string)   { f.CategoryID = strings.TrimSpace(id) }
func (f *ProductForm) SetMaterial(v string)    { f.Material = strings.TrimSpace(v) }
func (f *ProductForm) SetDimensions(v string)  { f.Dimensions = strings.TrimSpace(v) }
func (f *ProductForm) SetImageURL(v string)    { f.ImageURL = strings.TrimSpace(v) }

// SetPrice parses a user-entered amount, rounding to cents.
func (f *ProductForm) SetPrice(v string) error {
	d, err := decimal.NewFromString(strings.TrimSpace(v))
	if err != nil {
		return err
	}
	f.Price = d.Round(2)
	return nil
}

func (f *ProductForm) SetStock(n int) {
	if n < 0 {
		n = 0
	}
	f.Stock = n
}

// Normalize trims every text field, as if each had gone through its setter.
func (f *ProductForm) Normalize() {
	f.SetName(f.Name)
	f.SetDescription(f.Description)
	f.SetCategory(f.CategoryID)
	f.SetMaterial(f.Material)
	f.SetDimensions(f.Dimensions)
	f.SetImageURL(f.ImageURL)
	f.Price = f.Price.Round(2)
}

func (f *ProductForm) Validate(v *validator.Validate) error {
	if err := v.Struct(f); err != nil {
		return err
	}
	if !f.Price.IsPositive() {
		return ErrPriceNotPositive
	}
	return nil
}
