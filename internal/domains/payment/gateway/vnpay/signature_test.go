package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "TESTSECRETKEY123"

func callbackParams() map[string]string {
	return map[string]string{
		"vnp_TmnCode":      "DEMOV210",
		"vnp_TxnRef":       "ORD-20260901-ABCD1234",
		"vnp_Amount":       "130000000",
		"vnp_ResponseCode": "00",
		"vnp_OrderInfo":    "Thanh toan don hang ORD-20260901-ABCD1234",
	}
}

func TestGenerateSignatureDeterministic(t *testing.T) {
	params := callbackParams()

	sig1 := GenerateSignature(params, testSecret)
	sig2 := GenerateSignature(params, testSecret)

	assert.Equal(t, sig1, sig2)
	assert.Equal(t, 128, len(sig1), "HMAC-SHA512 hex digest")
	assert.Equal(t, strings.ToUpper(sig1), sig1)
}

func TestGenerateSignatureIgnoresHashFields(t *testing.T) {
	params := callbackParams()
	base := GenerateSignature(params, testSecret)

	params["vnp_SecureHash"] = "FFFF"
	params["vnp_SecureHashType"] = "HmacSHA512"

	assert.Equal(t, base, GenerateSignature(params, testSecret))
}

func TestGenerateSignatureSkipsEmptyValues(t *testing.T) {
	params := callbackParams()
	base := GenerateSignature(params, testSecret)

	params["vnp_BankCode"] = ""

	assert.Equal(t, base, GenerateSignature(params, testSecret))
}

func TestVerifySignatureRoundTrip(t *testing.T) {
	params := callbackParams()
	params["vnp_SecureHash"] = GenerateSignature(params, testSecret)

	assert.True(t, VerifySignature(params, testSecret))
}

func TestVerifySignatureCaseInsensitive(t *testing.T) {
	params := callbackParams()
	params["vnp_SecureHash"] = strings.ToLower(GenerateSignature(params, testSecret))

	assert.True(t, VerifySignature(params, testSecret))
}

func TestVerifySignatureRejectsTampering(t *testing.T) {
	params := callbackParams()
	params["vnp_SecureHash"] = GenerateSignature(params, testSecret)

	params["vnp_Amount"] = "1"

	assert.False(t, VerifySignature(params, testSecret))
}

func TestVerifySignatureRejectsMissingHash(t *testing.T) {
	assert.False(t, VerifySignature(callbackParams(), testSecret))
}

func TestVerifySignatureRejectsWrongSecret(t *testing.T) {
	params := callbackParams()
	params["vnp_SecureHash"] = GenerateSignature(params, testSecret)

	assert.False(t, VerifySignature(params, "khac"))
}

func TestBuildPaymentURLSignatureVerifies(t *testing.T) {
	params := map[string]string{
		"vnp_Version":   "2.1.0",
		"vnp_Command":   "pay",
		"vnp_TmnCode":   "DEMOV210",
		"vnp_Amount":    "130000000",
		"vnp_TxnRef":    "ORD-20260901-ABCD1234",
		"vnp_OrderInfo": "Thanh toan don hang ORD-20260901-ABCD1234",
		"vnp_ReturnUrl": "http://localhost:3000/payment/callback",
	}

	paymentURL := BuildPaymentURL("https://sandbox.vnpayment.vn/paymentv2/vpcpay.html", params, testSecret)

	parsed, err := url.Parse(paymentURL)
	require.NoError(t, err)

	// PHP-style urlencode: spaces come back as '+', not %20
	assert.Contains(t, parsed.RawQuery, "Thanh+toan+don+hang")

	// The hash is computed over the encoded query string itself
	idx := strings.LastIndex(parsed.RawQuery, "&vnp_SecureHash=")
	require.Greater(t, idx, 0)
	hashData := parsed.RawQuery[:idx]
	secureHash := parsed.RawQuery[idx+len("&vnp_SecureHash="):]

	mac := hmac.New(sha512.New, []byte(testSecret))
	mac.Write([]byte(hashData))
	expected := strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))

	assert.Equal(t, expected, secureHash)

	// Keys stay sorted so VNPay reproduces the same hash data
	assert.True(t, strings.HasPrefix(parsed.RawQuery, "vnp_Amount="))
}

func TestParseCallbackParams(t *testing.T) {
	raw := "vnp_TxnRef=ORD-1&vnp_ResponseCode=00&vnp_SecureHash=ABC&vnp_Amount=100&other=ignored"

	params, err := ParseCallbackParams(raw)
	require.NoError(t, err)

	assert.Equal(t, "ORD-1", params["vnp_TxnRef"])
	assert.Equal(t, "00", params["vnp_ResponseCode"])
	assert.Equal(t, "100", params["vnp_Amount"])
	assert.NotContains(t, params, "other")
}

func TestParseCallbackParamsMissingRequired(t *testing.T) {
	_, err := ParseCallbackParams("vnp_TxnRef=ORD-1&vnp_ResponseCode=00")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "vnp_SecureHash")
}
