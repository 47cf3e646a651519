package vnpay

import (
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// =====================================================
// VNPAY SIGNATURE
// =====================================================

// GenerateSignature generates the HMAC-SHA512 signature for VNPay.
//
// VNPay algorithm (must follow exactly):
// 1. Collect all parameters except vnp_SecureHash and vnp_SecureHashType
// 2. URL decode values (VNPay sends URL-encoded values)
// 3. Sort by key (case-sensitive, ascending)
// 4. Build raw string: key1=value1&key2=value2&...
// 5. HMAC-SHA512(rawString, secretKey)
// 6. Uppercase hex encode
func GenerateSignature(params map[string]string, secretKey string) string {
	filteredParams := make(map[string]string)
	for key, value := range params {
		if key != "vnp_SecureHash" && key != "vnp_SecureHashType" && value != "" {
			filteredParams[key] = value
		}
	}

	keys := make([]string, 0, len(filteredParams))
	for key := range filteredParams {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var parts []string
	for _, key := range keys {
		value := filteredParams[key]
		// VNPay callbacks ship URL-encoded values
		decodedValue, err := url.QueryUnescape(value)
		if err == nil {
			value = decodedValue
		}
		parts = append(parts, fmt.Sprintf("%s=%s", key, value))
	}
	rawSignature := strings.Join(parts, "&")

	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write([]byte(rawSignature))

	return strings.ToUpper(hex.EncodeToString(mac.Sum(nil)))
}

// VerifySignature verifies a VNPay callback signature.
func VerifySignature(params map[string]string, secretKey string) bool {
	receivedSignature, exists := params["vnp_SecureHash"]
	if !exists || receivedSignature == "" {
		return false
	}

	expectedSignature := GenerateSignature(params, secretKey)

	return strings.EqualFold(receivedSignature, expectedSignature)
}

// BuildPaymentURL builds the hosted checkout URL with its signature.
//
// The hash string uses PHP-style urlencode on both keys and values
// (spaces become '+'), matching VNPay's reference implementation.
func BuildPaymentURL(baseURL string, params map[string]string, hashSecret string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		if k != "vnp_SecureHash" && k != "vnp_SecureHashType" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	var hashParts []string
	for _, k := range keys {
		v := params[k]
		if v != "" {
			encoded := phpURLEncode(k) + "=" + phpURLEncode(v)
			hashParts = append(hashParts, encoded)
		}
	}

	hashData := strings.Join(hashParts, "&")
	queryString := hashData

	h := hmac.New(sha512.New, []byte(hashSecret))
	h.Write([]byte(hashData))
	secureHash := strings.ToUpper(hex.EncodeToString(h.Sum(nil)))

	return fmt.Sprintf("%s?%s&vnp_SecureHash=%s", baseURL, queryString, secureHash)
}

// phpURLEncode encodes like PHP's urlencode(): spaces become '+',
// special characters become %XX. Go's QueryEscape uses %20 for spaces.
func phpURLEncode(s string) string {
	encoded := url.QueryEscape(s)
	return strings.ReplaceAll(encoded, "%20", "+")
}

// ParseCallbackParams parses a callback query string and validates the
// fields every VNPay callback must carry.
func ParseCallbackParams(rawQuery string) (map[string]string, error) {
	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		return nil, fmt.Errorf("invalid query string: %w", err)
	}

	params := make(map[string]string)
	for key, vals := range values {
		if strings.HasPrefix(key, "vnp_") && len(vals) > 0 {
			params[key] = vals[0]
		}
	}

	requiredFields := []string{
		"vnp_TxnRef",
		"vnp_ResponseCode",
		"vnp_SecureHash",
	}
	for _, field := range requiredFields {
		if params[field] == "" {
			return nil, fmt.Errorf("missing required field: %s", field)
		}
	}

	return params, nil
}
