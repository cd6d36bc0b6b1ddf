package services

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
	razorpayUtils "github.com/razorpay/razorpay-go/utils"

	appConfig "github.com/balarcrens/helpyzo-api/config"
)

// PaymentGateway defines the interface for online payment operations.
// This interface allows for easier testing by mocking gateway interactions.
type PaymentGateway interface {
	// CreateOrder registers a payment order with the gateway for the given
	// amount (in rupees) and returns the gateway order ID.
	CreateOrder(amount float64, receipt string) (string, error)

	// VerifySignature checks the checkout callback signature for an order/payment pair.
	VerifySignature(orderID, paymentID, signature string) bool
}

// RazorpayGateway implements PaymentGateway using the Razorpay SDK
type RazorpayGateway struct {
	client    *razorpay.Client
	keySecret string
}

var paymentGatewayInstance PaymentGateway

// InitPaymentGateway initializes the Razorpay-backed payment gateway
func InitPaymentGateway() PaymentGateway {
	cfg := appConfig.GetConfig()
	paymentGatewayInstance = &RazorpayGateway{
		client:    razorpay.NewClient(cfg.RazorpayKeyID, cfg.RazorpayKeySecret),
		keySecret: cfg.RazorpayKeySecret,
	}
	return paymentGatewayInstance
}

// GetPaymentGateway returns the initialized payment gateway instance
func GetPaymentGateway() PaymentGateway {
	return paymentGatewayInstance
}

// SetPaymentGateway sets the payment gateway instance (primarily for testing)
func SetPaymentGateway(gateway PaymentGateway) {
	paymentGatewayInstance = gateway
}

// CreateOrder creates a new order in Razorpay. Razorpay amounts are in paise.
func (g *RazorpayGateway) CreateOrder(amount float64, receipt string) (string, error) {
	data := map[string]interface{}{
		"amount":   int64(amount * 100),
		"currency": "INR",
		"receipt":  receipt,
	}

	order, err := g.client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create payment order: %w", err)
	}

	orderID, ok := order["id"].(string)
	if !ok {
		return "", fmt.Errorf("payment order response missing id")
	}
	return orderID, nil
}

// VerifySignature verifies the authenticity of a Razorpay checkout signature
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	params := map[string]interface{}{
		"razorpay_order_id":   orderID,
		"razorpay_payment_id": paymentID,
	}
	return razorpayUtils.VerifyPaymentSignature(params, signature, g.keySecret)
}

// NewPaymentReceipt generates a unique receipt reference for a payment order
func NewPaymentReceipt(bookingNumber string) string {
	return fmt.Sprintf("%s-%s", bookingNumber, uuid.NewString()[:8])
}
