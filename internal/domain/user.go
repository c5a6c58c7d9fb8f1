package domain

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleSales   Role = "sales"
)

type StaffUser struct {
	ID     string `db:"id" json:"id"`
	Email  string `db:"email" json:"email"`
	Name   string `db:"name" json:"name"`
	Hash   string `db:"password_hash" json:"-"`
	Role   Role   `db:"role" json:"role"`
	Active bool   `db:"is_active" json:"is_active"`
}

func (u *StaffUser) GetID() string { return u.ID }
