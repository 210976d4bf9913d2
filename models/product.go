package models

import "time"

// Product is a locally cached catalog entry. The cache mirrors the remote
// catalog; it is not the source of truth.
type Product struct {
	ID            string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	Barcode       string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"barcode"`
	Name          string    `gorm:"type:varchar(255);not null" json:"name"`
	Price         float64   `gorm:"type:decimal(12,2);not null" json:"price"`
	StockQuantity int       `json:"stock_quantity"`
	TaxRate       float64   `gorm:"type:decimal(5,4)" json:"tax_rate"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func (Product) TableName() string {
	return "catalog_entries"
}
