package model

type Category struct {
	BaseModel
	Name         string  `db:"name" json:"name"`
	Slug         string  `db:"slug" json:"slug"`
	Description  *string `db:"description" json:"description"`
	DisplayOrder int     `db:"display_order" json:"display_order"`
}
