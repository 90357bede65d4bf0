package utils

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrGatewayDisabled is returned when no Stripe secret key is configured.
var ErrGatewayDisabled = errors.New("payment gateway is not configured")

// PaymentIntent is the subset of Stripe's payment intent the client needs.
type PaymentIntent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type stripeError struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// PaymentGateway creates Stripe payment intents over the REST API.
type PaymentGateway struct {
	client    *resty.Client
	secretKey string
}

func NewPaymentGateway(baseURL, secretKey string) *PaymentGateway {
	client := resty.New().
		SetBaseURL(baseURL).
		SetAuthToken(secretKey).
		SetTimeout(15 * time.Second)
	return &PaymentGateway{client: client, secretKey: secretKey}
}

// CreatePaymentIntent asks Stripe for a card payment intent of price in the given currency.
func (g *PaymentGateway) CreatePaymentIntent(ctx context.Context, price float64, currency string) (*PaymentIntent, error) {
	if g == nil || g.secretKey == "" {
		return nil, ErrGatewayDisabled
	}

	// Stripe amounts are in the smallest currency unit.
	amount := int64(math.Round(price * 100))

	intent := &PaymentIntent{}
	failure := &stripeError{}
	resp, err := g.client.R().
		SetContext(ctx).
		SetFormData(map[string]string{
			"amount":                 strconv.FormatInt(amount, 10),
			"currency":               currency,
			"payment_method_types[]": "card",
		}).
		SetResult(intent).
		SetError(failure).
		Post("/v1/payment_intents")
	if err != nil {
		return nil, fmt.Errorf("stripe request: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("stripe returned %d: %s", resp.StatusCode(), failure.Error.Message)
	}

	return intent, nil
}
