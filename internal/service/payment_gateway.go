package service

import (
	"fmt"
	"time"

	"github.com/SiEncan/ArenaKu/internal/entities"
	"github.com/midtrans/midtrans-go"
	"github.com/midtrans/midtrans-go/coreapi"
	"github.com/midtrans/midtrans-go/snap"
)

// PaymentGateway abstracts the hosted-checkout provider so the payment flow
// can be exercised without network calls.
type PaymentGateway interface {
	CreateTransaction(order entities.GatewayOrder) (snapToken string, err error)
	TransactionStatus(orderID string) (*entities.GatewayStatus, error)
}

// MidtransGateway talks to Midtrans Snap (session creation) and the Core API
// (status reconciliation).
type MidtransGateway struct {
	snap snap.Client
	core coreapi.Client
}

func NewMidtransGateway(serverKey string, production bool) *MidtransGateway {
	env := midtrans.Sandbox
	if production {
		env = midtrans.Production
	}
	g := &MidtransGateway{}
	g.snap.New(serverKey, env)
	g.core.New(serverKey, env)
	return g
}

func (g *MidtransGateway) CreateTransaction(order entities.GatewayOrder) (string, error) {
	req := &snap.Request{
		TransactionDetails: midtrans.TransactionDetails{
			OrderID:  order.OrderID,
			GrossAmt: int64(order.GrossAmount),
		},
		Items: &[]midtrans.ItemDetails{
			{
				ID:           order.ItemID,
				Price:        int64(order.SlotPrice),
				Qty:          1,
				Name:         order.ItemName,
				Category:     "Booking",
				MerchantName: "ArenaKu",
			},
			{
				ID:           "transaction_fee",
				Price:        int64(order.Fee),
				Qty:          1,
				Name:         "Biaya Transaksi",
				Category:     "Transaction Fee",
				MerchantName: "ArenaKu",
			},
		},
		CustomerDetail: &midtrans.CustomerDetails{
			FName: order.CustomerName,
			Email: order.CustomerEmail,
			Phone: order.CustomerPhone,
		},
		Callbacks: &snap.Callbacks{Finish: order.FinishURL},
	}

	resp, merr := g.snap.CreateTransaction(req)
	if merr != nil {
		return "", fmt.Errorf("midtrans snap transaction failed: %w", merr)
	}
	return resp.Token, nil
}

func (g *MidtransGateway) TransactionStatus(orderID string) (*entities.GatewayStatus, error) {
	resp, merr := g.core.CheckTransaction(orderID)
	if merr != nil {
		return nil, fmt.Errorf("midtrans status check failed: %w", merr)
	}

	status := &entities.GatewayStatus{
		OrderID:           resp.OrderID,
		TransactionStatus: resp.TransactionStatus,
	}
	if t, err := time.Parse("2006-01-02 15:04:05", resp.SettlementTime); err == nil {
		status.SettlementTime = &t
	}
	return status, nil
}
