package stripe

import (
	"context"
	"fmt"
	"strings"

	stripeSDK "github.com/stripe/stripe-go/v82"
)

// CreateInvoice drafts a one-item invoice for the customer, applies the
// coupon reference when present, finalizes it and returns the invoice ID.
// The invoice is not collected here; ChargeInvoice does that explicitly.
func (c *Client) CreateInvoice(ctx context.Context, customerRef string, amountCents int64, description, discountRef string) (string, error) {
	createParams := &stripeSDK.InvoiceCreateParams{
		Customer:         stripeSDK.String(customerRef),
		Currency:         stripeSDK.String(c.currency),
		Description:      stripeSDK.String(description),
		AutoAdvance:      stripeSDK.Bool(false),
		CollectionMethod: stripeSDK.String(string(stripeSDK.InvoiceCollectionMethodChargeAutomatically)),
	}
	if discountRef != "" {
		createParams.Discounts = []*stripeSDK.InvoiceCreateDiscountParams{
			{Coupon: stripeSDK.String(discountRef)},
		}
	}

	draft, err := c.sdk.V1Invoices.Create(ctx, createParams)
	if err != nil {
		return "", fmt.Errorf("failed to create invoice: %w", wrapErr(err))
	}

	_, err = c.sdk.V1InvoiceItems.Create(ctx, &stripeSDK.InvoiceItemCreateParams{
		Customer:    stripeSDK.String(customerRef),
		Invoice:     stripeSDK.String(draft.ID),
		Amount:      stripeSDK.Int64(amountCents),
		Currency:    stripeSDK.String(c.currency),
		Description: stripeSDK.String(description),
	})
	if err != nil {
		return "", fmt.Errorf("failed to add invoice item: %w", wrapErr(err))
	}

	finalized, err := c.sdk.V1Invoices.FinalizeInvoice(ctx, draft.ID, &stripeSDK.InvoiceFinalizeInvoiceParams{
		AutoAdvance: stripeSDK.Bool(false),
	})
	if err != nil {
		return "", fmt.Errorf("failed to finalize invoice: %w", wrapErr(err))
	}

	return finalized.ID, nil
}

// ChargeInvoice collects a finalized invoice from the customer's default
// payment method.
func (c *Client) ChargeInvoice(ctx context.Context, invoiceRef string) error {
	_, err := c.sdk.V1Invoices.Pay(ctx, invoiceRef, &stripeSDK.InvoicePayParams{})
	if err != nil {
		return fmt.Errorf("failed to pay invoice: %w", wrapErr(err))
	}
	return nil
}

// Transfer moves funds from the platform balance to a connected account and
// returns the transfer ID.
func (c *Client) Transfer(ctx context.Context, subAccountRef string, amountCents int64, currency string) (string, error) {
	transfer, err := c.sdk.V1Transfers.Create(ctx, &stripeSDK.TransferCreateParams{
		Amount:      stripeSDK.Int64(amountCents),
		Currency:    stripeSDK.String(strings.ToLower(currency)),
		Destination: stripeSDK.String(subAccountRef),
	})
	if err != nil {
		return "", fmt.Errorf("failed to create transfer: %w", wrapErr(err))
	}
	return transfer.ID, nil
}

// Payout sends funds from the connected account's balance to its default
// external bank account and returns the payout ID.
func (c *Client) Payout(ctx context.Context, subAccountRef string, amountCents int64, currency string) (string, error) {
	params := &stripeSDK.PayoutCreateParams{
		Amount:   stripeSDK.Int64(amountCents),
		Currency: stripeSDK.String(strings.ToLower(currency)),
	}
	params.SetStripeAccount(subAccountRef)

	payout, err := c.sdk.V1Payouts.Create(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to create payout: %w", wrapErr(err))
	}
	return payout.ID, nil
}
