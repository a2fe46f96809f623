package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dopeeycode/brandfuse-api/config"

	"github.com/rs/zerolog/log"
)

// CheckoutSession is the subset of a Stripe checkout session the service
// needs: the session id and the hosted payment page URL.
type CheckoutSession struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CheckoutCreator creates a hosted checkout session for a report. Implemented
// by CheckoutClient; faked in tests.
type CheckoutCreator interface {
	CreateSession(ctx context.Context, brandName, reportID string) (*CheckoutSession, error)
}

// CheckoutClient talks to the Stripe checkout sessions API. Requests are
// form-encoded per the Stripe wire format; authentication is the secret key
// as a bearer token.
type CheckoutClient struct {
	secretKey   string
	endpoint    string
	priceAmount int64
	currency    string
	productName string
	frontendURL string
	httpClient  *http.Client
}

// NewCheckoutClient creates a Stripe checkout client
func NewCheckoutClient(cfg config.BillingConfig) *CheckoutClient {
	return &CheckoutClient{
		secretKey:   cfg.StripeSecretKey,
		endpoint:    cfg.StripeEndpoint,
		priceAmount: cfg.PriceAmount,
		currency:    cfg.Currency,
		productName: cfg.ProductName,
		frontendURL: cfg.FrontendURL,
		httpClient: &http.Client{
			Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second,
		},
	}
}

// CreateSession creates a one-off card payment session tagged with the
// report id as correlation metadata, so the completion webhook can find the
// report it pays for.
func (c *CheckoutClient) CreateSession(ctx context.Context, brandName, reportID string) (*CheckoutSession, error) {
	form := url.Values{}
	form.Set("mode", "payment")
	form.Set("payment_method_types[0]", "card")
	form.Set("line_items[0][price_data][currency]", c.currency)
	form.Set("line_items[0][price_data][product_data][name]", c.productName)
	form.Set("line_items[0][price_data][unit_amount]", strconv.FormatInt(c.priceAmount, 10))
	form.Set("line_items[0][quantity]", "1")
	form.Set("metadata[reportId]", reportID)
	form.Set("success_url", fmt.Sprintf("%s/success?reportId=%s", c.frontendURL, url.QueryEscape(reportID)))
	form.Set("cancel_url", c.frontendURL+"/cancel")

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.endpoint+"/v1/checkout/sessions", strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		log.Error().Err(err).Str("report_id", reportID).Msg("Checkout session request failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Error().
			Int("status", resp.StatusCode).
			Str("report_id", reportID).
			Msg("Checkout session creation returned non-200 status")
		return nil, errors.New("billing backend returned status " + resp.Status)
	}

	var session CheckoutSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, err
	}

	log.Info().
		Str("report_id", reportID).
		Str("session_id", session.ID).
		Str("brand_name", brandName).
		Msg("Checkout session created")
	return &session, nil
}
