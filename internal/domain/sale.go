package domain

import "github.com/shopspring/decimal"

type SaleStatus string

const (
	SaleStatusPending   SaleStatus = "pending"
	SaleStatusCompleted SaleStatus = "completed"
	SaleStatusCancelled SaleStatus = "cancelled"
)

// CartLine is one requested line of a sale attempt. At most one of
// ProductID and ServiceID is set; neither means a free-form line.
type CartLine struct {
	ProductID string          `json:"product_id,omitempty"`
	ServiceID string          `json:"service_id,omitempty"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type Sale struct {
	ID            string          `db:"id" json:"id"`
	SaleNumber    string          `db:"sale_number" json:"sale_number"`
	StaffUserID   string          `db:"staff_user_id" json:"staff_user_id"`
	CustomerName  string          `db:"customer_name" json:"customer_name,omitempty"`
	CustomerPhone string          `db:"customer_phone" json:"customer_phone,omitempty"`
	Subtotal      decimal.Decimal `db:"subtotal" json:"subtotal"`
	Tax           decimal.Decimal `db:"tax" json:"tax"`
	Discount      decimal.Decimal `db:"discount" json:"discount"`
	Total         decimal.Decimal `db:"total" json:"total"`
	Status        SaleStatus      `db:"status" json:"status"`
	Notes         string          `db:"notes" json:"notes,omitempty"`
	CreatedAt     string          `db:"created_at" json:"created_at"`

	Items []SaleItem `db:"-" json:"items,omitempty"`
}

// SaleItem snapshots name and unit price at sale time; it does not follow
// later catalog edits.
type SaleItem struct {
	ID        string          `db:"id" json:"id"`
	SaleID    string          `db:"sale_id" json:"sale_id"`
	ProductID *string         `db:"product_id" json:"product_id,omitempty"`
	ServiceID *string         `db:"service_id" json:"service_id,omitempty"`
	Name      string          `db:"name" json:"name"`
	Quantity  int             `db:"quantity" json:"quantity"`
	UnitPrice decimal.Decimal `db:"unit_price" json:"unit_price"`
	Total     decimal.Decimal `db:"total" json:"total"`
	Position  int             `db:"position" json:"position"`
}

const (
	MovementSale       = "sale"
	MovementAdjustment = "adjustment"
)

// StockMovement records one applied stock delta.
type StockMovement struct {
	ID                string  `db:"id" json:"id"`
	ProductID         string  `db:"product_id" json:"product_id"`
	Delta             int     `db:"delta" json:"delta"`
	Reason            string  `db:"reason" json:"reason"`
	Note              string  `db:"note" json:"note,omitempty"`
	SaleID            *string `db:"sale_id" json:"sale_id,omitempty"`
	StaffUserID       string  `db:"staff_user_id" json:"staff_user_id"`
	ResultingQuantity int     `db:"resulting_quantity" json:"resulting_quantity"`
	CreatedAt         string  `db:"created_at" json:"created_at"`
}
