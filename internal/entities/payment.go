package entities

import "time"

// GatewayOrder is the transaction the payment bridge submits to Midtrans Snap.
type GatewayOrder struct {
	OrderID       string
	GrossAmount   int
	SlotPrice     int
	Fee           int
	ItemID        string
	ItemName      string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
	FinishURL     string
}

// GatewayStatus is the authoritative transaction state reported by the gateway.
type GatewayStatus struct {
	OrderID           string
	TransactionStatus string
	SettlementTime    *time.Time
}

// PaymentNotification is the asynchronous webhook payload sent by Midtrans.
type PaymentNotification struct {
	OrderID           string `json:"order_id"`
	TransactionStatus string `json:"transaction_status"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SettlementTime    string `json:"settlement_time"`
	SignatureKey      string `json:"signature_key"`
}

type PaymentRequest struct {
	UserID     string `json:"userId"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	FieldID    string `json:"fieldId"`
	TimeSlotID string `json:"timeSlotId"`
	Date       string `json:"date"`
	Price      int    `json:"price"`
	VenueName  string `json:"venueName"`
	FieldName  string `json:"fieldName"`
}

type PaymentSessionResponse struct {
	Success   bool   `json:"success"`
	SnapToken string `json:"snapToken"`
	OrderID   string `json:"orderId"`
}
