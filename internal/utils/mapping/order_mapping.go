package mapping

import (
	"github.com/SscSPs/trade_credit_ledger/internal/core/domain"
	"github.com/SscSPs/trade_credit_ledger/internal/models"
)

// ToModelPurchaseOrder converts a domain PurchaseOrder to a model PurchaseOrder
func ToModelPurchaseOrder(d domain.PurchaseOrder) models.PurchaseOrder {
	return models.PurchaseOrder{
		PurchaseOrderID: d.PurchaseOrderID,
		AccountID:       d.AccountID,
		VendorID:        toNullable(d.VendorID),
		Reference:       d.Reference,
		Amount:          d.Amount,
		NetAmount:       d.NetAmount,
		Status:          string(d.Status),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPurchaseOrder converts a model PurchaseOrder to a domain PurchaseOrder
func ToDomainPurchaseOrder(m models.PurchaseOrder) domain.PurchaseOrder {
	return domain.PurchaseOrder{
		PurchaseOrderID: m.PurchaseOrderID,
		AccountID:       m.AccountID,
		VendorID:        fromNullable(m.VendorID),
		Reference:       m.Reference,
		Amount:          m.Amount,
		NetAmount:       m.NetAmount,
		Status:          domain.PurchaseOrderStatus(m.Status),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}

// ToModelPayment converts a domain Payment to a model Payment
func ToModelPayment(d domain.Payment) models.Payment {
	return models.Payment{
		PaymentID:       d.PaymentID,
		AccountID:       d.AccountID,
		Reference:       d.Reference,
		Amount:          d.Amount,
		ApprovedAmount:  d.ApprovedAmount,
		Status:          string(d.Status),
		RejectionReason: toNullable(d.RejectionReason),
		AuditFields:     ToModelAuditFields(d.AuditFields),
	}
}

// ToDomainPayment converts a model Payment to a domain Payment
func ToDomainPayment(m models.Payment) domain.Payment {
	return domain.Payment{
		PaymentID:       m.PaymentID,
		AccountID:       m.AccountID,
		Reference:       m.Reference,
		Amount:          m.Amount,
		ApprovedAmount:  m.ApprovedAmount,
		Status:          domain.PaymentStatus(m.Status),
		RejectionReason: fromNullable(m.RejectionReason),
		AuditFields:     ToDomainAuditFields(m.AuditFields),
	}
}
