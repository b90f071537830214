package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// MaxOrderBodySize bounds order create requests, including any reference image.
const MaxOrderBodySize = 6 * 1024 * 1024

const (
	maxOrderBodySize   = MaxOrderBodySize
	maxProfileBodySize = 32 * 1024
	maxCatalogBodySize = 256 * 1024
	maxStatusBodySize  = 4 * 1024
)

var (
	errBodyTooLarge = errors.New("request body too large")
	errEmptyBody    = errors.New("request body is required")
)

func readLimitedBody(r *http.Request, limit int64) ([]byte, error) {
	if r == nil || r.Body == nil {
		return nil, errEmptyBody
	}
	reader := io.LimitReader(r.Body, limit+1)
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, err
	}
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, errEmptyBody
	}
	if int64(len(data)) > limit {
		return nil, errBodyTooLarge
	}
	return data, nil
}

// decodeJSONBody reads at most limit bytes into dest, rejecting unknown fields.
func decodeJSONBody(r *http.Request, limit int64, dest any) error {
	body, err := readLimitedBody(r, limit)
	if err != nil {
		return err
	}
	decoder := json.NewDecoder(strings.NewReader(string(body)))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return errors.New("invalid JSON body")
	}
	return nil
}

func writeJSONResponse(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// money renders an amount as a JSON number with paise precision.
func money(value decimal.Decimal) float64 {
	return value.Round(2).InexactFloat64()
}

// amount parses a JSON number into a decimal without going through binary rounding twice.
func amount(value json.Number) (decimal.Decimal, error) {
	if strings.TrimSpace(value.String()) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value.String())
}
