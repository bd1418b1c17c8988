package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"time"

	"divyajyotisha/models"

	"go.uber.org/zap"
)

// PaytmConfig carries the wallet gateway's merchant credentials.
type PaytmConfig struct {
	MerchantID   string
	MerchantKey  string
	Website      string
	IndustryType string
	ChannelID    string
	BaseURL      string
	CallbackURL  string
}

// PaytmProvider integrates the checksum-callback wallet gateway. The gateway
// posts the transaction outcome back with a CHECKSUMHASH computed over the
// remaining fields using the merchant key.
type PaytmProvider struct {
	cfg    PaytmConfig
	client *http.Client
	logger *zap.Logger
}

func NewPaytmProvider(cfg PaytmConfig, logger *zap.Logger) *PaytmProvider {
	return &PaytmProvider{
		cfg:    cfg,
		client: &http.Client{Timeout: 10 * time.Second},
		logger: logger,
	}
}

func (p *PaytmProvider) Name() string { return "paytm" }

func (p *PaytmProvider) CreateIntent(ctx context.Context, req models.PaymentIntentRequest) (*models.PaymentIntent, error) {
	params := map[string]string{
		"MID":              p.cfg.MerchantID,
		"ORDER_ID":         req.OrderID,
		"CUST_ID":          req.CustomerEmail,
		"TXN_AMOUNT":       strconv.FormatFloat(req.Amount, 'f', 2, 64),
		"CHANNEL_ID":       p.cfg.ChannelID,
		"WEBSITE":          p.cfg.Website,
		"INDUSTRY_TYPE_ID": p.cfg.IndustryType,
		"CALLBACK_URL":     p.cfg.CallbackURL,
		"EMAIL":            req.CustomerEmail,
		"MOBILE_NO":        req.CustomerPhone,
		"CUSTOMER_NAME":    req.CustomerName,
		"CUSTOM_FIELD1":    req.AstrologerName,
		"CUSTOM_FIELD2":    req.PackageName,
		"CUSTOM_FIELD3":    "Astrology Consultation",
	}
	params["CHECKSUMHASH"] = p.sign(params)

	return &models.PaymentIntent{
		OrderID:     req.OrderID,
		Provider:    p.Name(),
		Params:      params,
		RedirectURL: p.cfg.BaseURL + "/theia/processTransaction",
	}, nil
}

// sign computes the checksum over the payload: parameters sorted by key,
// joined key=value with '&', HMAC-SHA256 under the merchant key, hex.
// CHECKSUMHASH itself is excluded from the signed material.
func (p *PaytmProvider) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k == "CHECKSUMHASH" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	mac := hmac.New(sha256.New, []byte(p.cfg.MerchantKey))
	mac.Write([]byte(strings.Join(pairs, "&")))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature recomputes the checksum from the untrusted payload and
// compares it in constant time with the one the gateway supplied. The
// signature argument is ignored: this gateway embeds CHECKSUMHASH in the
// payload itself.
func (p *PaytmProvider) VerifySignature(payload []byte, _ string) error {
	params, err := decodeParams(payload)
	if err != nil {
		return err
	}
	supplied := params["CHECKSUMHASH"]
	if supplied == "" {
		return ErrBadSignature
	}
	expected := p.sign(params)
	if !hmac.Equal([]byte(expected), []byte(supplied)) {
		return ErrBadSignature
	}
	return nil
}

// ParseResult applies the gateway's fixed status lookup. Unknown codes map
// to FAILED rather than PENDING so a signed-but-unexpected payload cannot
// park a booking in limbo.
func (p *PaytmProvider) ParseResult(payload []byte) (*models.PaymentResult, error) {
	params, err := decodeParams(payload)
	if err != nil {
		return nil, err
	}

	amount, _ := strconv.ParseFloat(params["TXNAMOUNT"], 64)
	result := &models.PaymentResult{
		OrderID:       params["ORDERID"],
		TransactionID: params["TXNID"],
		Amount:        amount,
		ResponseCode:  params["RESPCODE"],
		Message:       params["RESPMSG"],
	}
	if result.OrderID == "" {
		return nil, fmt.Errorf("payload missing ORDERID")
	}

	switch {
	case params["STATUS"] == "TXN_SUCCESS" && params["RESPCODE"] == "01":
		result.Status = models.PaymentSuccess
		if result.Message == "" {
			result.Message = "Payment successful"
		}
	case params["STATUS"] == "PENDING":
		result.Status = models.PaymentPending
		result.Message = "Payment pending"
	default:
		result.Status = models.PaymentFailed
		if result.Message == "" {
			result.Message = "Payment failed"
		}
	}
	return result, nil
}

func (p *PaytmProvider) FetchStatus(ctx context.Context, booking *models.Booking) (string, error) {
	body := map[string]string{
		"MID":     p.cfg.MerchantID,
		"ORDERID": booking.OrderID,
	}
	body["CHECKSUMHASH"] = p.sign(body)

	raw, err := json.Marshal(body)
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/order/status", bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("status query failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	result, err := p.ParseResult(payload)
	if err != nil {
		return "", err
	}
	return result.Status, nil
}

func (p *PaytmProvider) Refund(ctx context.Context, booking *models.Booking) error {
	body := map[string]string{
		"MID":          p.cfg.MerchantID,
		"ORDERID":      booking.OrderID,
		"TXNID":        booking.TransactionID,
		"REFUNDAMOUNT": strconv.FormatFloat(booking.PaymentAmount, 'f', 2, 64),
		"TXNTYPE":      "REFUND",
	}
	body["CHECKSUMHASH"] = p.sign(body)

	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.cfg.BaseURL+"/refund/apply", bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return fmt.Errorf("refund request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("refund rejected with status %d", resp.StatusCode)
	}
	p.logger.Info("refund accepted", zap.String("orderId", booking.OrderID))
	return nil
}

func decodeParams(payload []byte) (map[string]string, error) {
	var params map[string]string
	if err := json.Unmarshal(payload, &params); err != nil {
		return nil, fmt.Errorf("malformed gateway payload: %w", err)
	}
	return params, nil
}
