package models

import "time"

// Invoice is the fiscal document attached to an order, exactly one per order.
// Number is unique across the table and matches INV-<year>-<8 hex upper>.
// PDFPath may be empty only between row creation and document rendering; the
// regenerate operation recovers invoices stranded in that state.
type Invoice struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	OrderID     uint       `json:"order_id" gorm:"uniqueIndex;not null"`
	Number      string     `json:"invoice_number" gorm:"uniqueIndex;size:50;not null"`
	IssuedAt    time.Time  `json:"issued_at" gorm:"not null"`
	PDFPath     string     `json:"pdf_url" gorm:"type:text"`
	Cancelled   bool       `json:"cancelled" gorm:"not null;default:false"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
}
