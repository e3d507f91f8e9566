package models

import "github.com/shopspring/decimal"

// PurchaseOrder is a row of purchase_orders.
type PurchaseOrder struct {
	PurchaseOrderID string          `db:"purchase_order_id"`
	AccountID       string          `db:"account_id"`
	VendorID        *string         `db:"vendor_id"`
	Reference       string          `db:"reference"`
	Amount          decimal.Decimal `db:"amount"`
	NetAmount       decimal.Decimal `db:"net_amount"`
	Status          string          `db:"status"`
	AuditFields
}

// Payment is a row of payments.
type Payment struct {
	PaymentID       string          `db:"payment_id"`
	AccountID       string          `db:"account_id"`
	Reference       string          `db:"reference"`
	Amount          decimal.Decimal `db:"amount"`
	ApprovedAmount  decimal.Decimal `db:"approved_amount"`
	Status          string          `db:"status"`
	RejectionReason *string         `db:"rejection_reason"`
	AuditFields
}
