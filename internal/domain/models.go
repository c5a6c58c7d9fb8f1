package domain

import "github.com/shopspring/decimal"

// Category is the fixed catalog-category set shared by products and services.
type Category string

const (
	CategoryAccessories Category = "accessories"
	CategoryBeauty      Category = "beauty"
	CategoryElectronics Category = "electronics"
	CategoryFood        Category = "food"
	CategoryHousehold   Category = "household"
	CategoryOther       Category = "other"
)

const DefaultLowStockThreshold = 10

type Product struct {
	ID                string              `db:"id" json:"id"`
	Name              string              `db:"name" json:"name"`
	SKU               *string             `db:"sku" json:"sku,omitempty"`
	Category          Category            `db:"category" json:"category"`
	Price             decimal.Decimal     `db:"price" json:"price"`
	CostPrice         decimal.NullDecimal `db:"cost_price" json:"cost_price"`
	StockQuantity     int                 `db:"stock_quantity" json:"stock_quantity"`
	LowStockThreshold int                 `db:"low_stock_threshold" json:"low_stock_threshold"`
	Active            bool                `db:"is_active" json:"is_active"`
	CreatedAt         string              `db:"created_at" json:"created_at"`
	UpdatedAt         string              `db:"updated_at" json:"updated_at,omitempty"`
}

type Service struct {
	ID        string          `db:"id" json:"id"`
	Name      string          `db:"name" json:"name"`
	Category  Category        `db:"category" json:"category"`
	Price     decimal.Decimal `db:"price" json:"price"`
	Duration  string          `db:"duration" json:"duration"`
	Active    bool            `db:"is_active" json:"is_active"`
	CreatedAt string          `db:"created_at" json:"created_at"`
}

type Availability struct {
	ProductID string `json:"product_id"`
	Status    string `json:"status"` // IN_STOCK | LOW_STOCK | OUT_OF_STOCK
	Qty       int    `json:"qty"`
}

const (
	StockIn  = "IN_STOCK"
	StockLow = "LOW_STOCK"
	StockOut = "OUT_OF_STOCK"
)
