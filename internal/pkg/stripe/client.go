package stripe

import (
	"fmt"

	stripeSDK "github.com/stripe/stripe-go/v82"

	"github.com/tutorbase/billing-backend-go/internal/config"
)

// Client wraps the official Stripe SDK
type Client struct {
	sdk      *stripeSDK.Client
	currency string
}

// NewClient creates a new Stripe client using the official SDK
func NewClient(cfg config.StripeConfig) *Client {
	return &Client{
		sdk:      stripeSDK.NewClient(cfg.SecretKey, nil),
		currency: "usd",
	}
}

// APIError represents a Stripe API error
type APIError struct {
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("stripe API error [%s]: %s", e.Code, e.Message)
}

// wrapErr converts SDK errors into APIError so callers never depend on SDK
// error types.
func wrapErr(err error) error {
	if err == nil {
		return nil
	}
	if stripeErr, ok := err.(*stripeSDK.Error); ok {
		return &APIError{Code: string(stripeErr.Code), Message: stripeErr.Msg}
	}
	return err
}
