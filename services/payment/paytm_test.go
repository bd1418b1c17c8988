package payment

import (
	"context"
	"encoding/json"
	"testing"

	"divyajyotisha/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestPaytm() *PaytmProvider {
	return NewPaytmProvider(PaytmConfig{
		MerchantID:   "TESTMID",
		MerchantKey:  "test-merchant-key",
		Website:      "WEBSTAGING",
		IndustryType: "Retail",
		ChannelID:    "WEB",
		BaseURL:      "https://securegw-stage.paytm.in",
		CallbackURL:  "https://example.com/api/payment/callback",
	}, zap.NewNop())
}

func signedPayload(t *testing.T, p *PaytmProvider, params map[string]string) []byte {
	t.Helper()
	params["CHECKSUMHASH"] = p.sign(params)
	raw, err := json.Marshal(params)
	require.NoError(t, err)
	return raw
}

func TestPaytmVerifySignature(t *testing.T) {
	p := newTestPaytm()

	t.Run("accepts a correctly signed payload", func(t *testing.T) {
		payload := signedPayload(t, p, map[string]string{
			"ORDERID": "ORD-1",
			"STATUS":  "TXN_SUCCESS",
		})
		assert.NoError(t, p.VerifySignature(payload, ""))
	})

	t.Run("rejects a tampered payload", func(t *testing.T) {
		params := map[string]string{
			"ORDERID":   "ORD-1",
			"STATUS":    "TXN_SUCCESS",
			"TXNAMOUNT": "1500.00",
		}
		payload := signedPayload(t, p, params)

		var decoded map[string]string
		require.NoError(t, json.Unmarshal(payload, &decoded))
		decoded["TXNAMOUNT"] = "1.00"
		tampered, err := json.Marshal(decoded)
		require.NoError(t, err)

		assert.ErrorIs(t, p.VerifySignature(tampered, ""), ErrBadSignature)
	})

	t.Run("rejects a missing checksum", func(t *testing.T) {
		raw, err := json.Marshal(map[string]string{"ORDERID": "ORD-1"})
		require.NoError(t, err)
		assert.ErrorIs(t, p.VerifySignature(raw, ""), ErrBadSignature)
	})

	t.Run("rejects a checksum under a different key", func(t *testing.T) {
		other := newTestPaytm()
		other.cfg.MerchantKey = "some-other-key"
		payload := signedPayload(t, other, map[string]string{"ORDERID": "ORD-1"})
		assert.ErrorIs(t, p.VerifySignature(payload, ""), ErrBadSignature)
	})
}

func TestPaytmParseResult(t *testing.T) {
	p := newTestPaytm()

	cases := []struct {
		name       string
		status     string
		respCode   string
		wantStatus string
	}{
		{"success with code 01", "TXN_SUCCESS", "01", models.PaymentSuccess},
		{"success status with wrong code", "TXN_SUCCESS", "99", models.PaymentFailed},
		{"pending", "PENDING", "", models.PaymentPending},
		{"failure", "TXN_FAILURE", "227", models.PaymentFailed},
		{"unknown status", "SOMETHING_NEW", "00", models.PaymentFailed},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := json.Marshal(map[string]string{
				"ORDERID":   "ORD-9",
				"TXNID":     "TXN-9",
				"TXNAMOUNT": "1500.00",
				"STATUS":    tc.status,
				"RESPCODE":  tc.respCode,
			})
			require.NoError(t, err)

			result, err := p.ParseResult(raw)
			require.NoError(t, err)
			assert.Equal(t, tc.wantStatus, result.Status)
			assert.Equal(t, "ORD-9", result.OrderID)
			assert.Equal(t, "TXN-9", result.TransactionID)
			assert.Equal(t, 1500.0, result.Amount)
		})
	}

	t.Run("rejects a payload without ORDERID", func(t *testing.T) {
		raw, err := json.Marshal(map[string]string{"STATUS": "TXN_SUCCESS"})
		require.NoError(t, err)
		_, err = p.ParseResult(raw)
		assert.Error(t, err)
	})

	t.Run("rejects malformed JSON", func(t *testing.T) {
		_, err := p.ParseResult([]byte("not-json"))
		assert.Error(t, err)
	})
}

func TestPaytmCreateIntent(t *testing.T) {
	p := newTestPaytm()

	intent, err := p.CreateIntent(context.Background(), models.PaymentIntentRequest{
		Amount:        1500,
		CustomerName:  "Asha Verma",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876543210",
		OrderID:       "ORD-55",
	})
	require.NoError(t, err)

	assert.Equal(t, "paytm", intent.Provider)
	assert.Equal(t, "ORD-55", intent.OrderID)
	assert.Equal(t, "1500.00", intent.Params["TXN_AMOUNT"])
	assert.NotEmpty(t, intent.Params["CHECKSUMHASH"])
	assert.Contains(t, intent.RedirectURL, "/theia/processTransaction")

	// The checksum shipped with the intent must verify against the same key.
	raw, err := json.Marshal(intent.Params)
	require.NoError(t, err)
	assert.NoError(t, p.VerifySignature(raw, ""))
}

func TestNewOrderID(t *testing.T) {
	a := NewOrderID()
	b := NewOrderID()
	assert.NotEqual(t, a, b)
	assert.Regexp(t, `^ORDER_\d+_[a-z0-9]{9}$`, a)
}
