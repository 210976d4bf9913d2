package models

import "time"

// Invoice is a transaction record created locally at checkout time.
// Synced starts false and flips to true exactly once, when the reconciler
// gets the remote store's acknowledgment. It never goes back.
type Invoice struct {
	ID             string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	BillNumber     string    `gorm:"type:varchar(64);not null" json:"bill_number"`
	TotalAmount    float64   `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	TaxAmount      float64   `gorm:"type:decimal(12,2)" json:"tax_amount"`
	DiscountAmount float64   `gorm:"type:decimal(12,2)" json:"discount_amount"`
	ItemsData      string    `gorm:"type:text" json:"items_data"`
	CustomerName   string    `gorm:"type:varchar(255)" json:"customer_name"`
	CustomerPhone  string    `gorm:"type:varchar(32)" json:"customer_phone"`
	Synced         bool      `gorm:"not null;default:false" json:"synced"`
	CreatedAt      time.Time `json:"created_at"`
}

func (Invoice) TableName() string {
	return "transaction_records"
}

// InvoiceItem is one checkout line, serialized into Invoice.ItemsData.
type InvoiceItem struct {
	ProductID string  `json:"product_id"`
	Barcode   string  `json:"barcode"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Quantity  int     `json:"quantity"`
	TaxRate   float64 `json:"tax_rate"`
}
