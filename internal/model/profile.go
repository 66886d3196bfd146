package model

type Profile struct {
	ID        string  `db:"id" json:"id"` // auth user id
	FirstName string  `db:"first_name" json:"first_name"`
	LastName  string  `db:"last_name" json:"last_name"`
	Email     string  `db:"email" json:"email"`
	Phone     string  `db:"phone" json:"phone"`
	Address   Address `db:"address" json:"address"`
}

type SavedItem struct {
	BaseModel
	UserID    string `db:"user_id" json:"user_id"`
	ProductID string `db:"product_id" json:"product_id"`
}

type UserRole struct {
	UserID string `db:"user_id" json:"user_id"`
	Role   string `db:"role" json:"role"`
}

const RoleAdmin = "admin"
