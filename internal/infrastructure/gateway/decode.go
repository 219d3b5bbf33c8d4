package gateway

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"

	"github.com/salehub/backend/internal/domain/sale"
)

var (
	ErrMalformedJSON  = errors.New("gateway: payload is not valid JSON")
	ErrSchemaMismatch = errors.New("gateway: payload does not match vendor schema")
)

// validate is safe for concurrent use and caches struct metadata
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// nonul rejects strings that text columns cannot store
	_ = v.RegisterValidation("nonul", func(fl validator.FieldLevel) bool {
		return !strings.ContainsRune(fl.Field().String(), 0)
	})
	return v
}

// decodePayload unmarshals a vendor body into v and checks its struct tags.
// It never panics on hostile input.
func decodePayload(payload []byte, v any) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: %v", ErrSchemaMismatch, r)
		}
	}()

	if len(payload) == 0 || !utf8.Valid(payload) || !json.Valid(payload) {
		return ErrMalformedJSON
	}
	if err := json.Unmarshal(payload, v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	if err := validate.Struct(v); err != nil {
		return fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return nil
}

// normalizeWith decodes the payload and hands it to build, wrapping any
// decoding failure as sale.ErrInvalidPayload
func normalizeWith[T any](payload []byte, build func(*T) *sale.UnifiedSale) (*sale.UnifiedSale, error) {
	var body T
	if err := decodePayload(payload, &body); err != nil {
		return nil, fmt.Errorf("%w: %v", sale.ErrInvalidPayload, err)
	}
	s := build(&body)
	s.FitStorage()
	s.OriginalPayload = append(json.RawMessage(nil), payload...)
	return s, nil
}

// foldStatus lower-cases a vendor status for caseless comparison
func foldStatus(status string) string {
	return cases.Fold().String(strings.TrimSpace(status))
}

// firstNonBlank returns the first argument that is not blank
func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

// saleAmount converts a vendor amount in minor units. Some vendors sign
// refund and chargeback amounts; the sale keeps the magnitude.
func saleAmount(minor int64) decimal.Decimal {
	return sale.AmountFromMinorUnits(minor).Abs()
}

// minorUnitsPrice converts an optional price in minor units
func minorUnitsPrice(minor *int64) *decimal.Decimal {
	if minor == nil {
		return nil
	}
	d := saleAmount(*minor)
	return &d
}

// trackingFrom builds a Tracking value, returning nil when nothing is set
func trackingFrom(source, medium, campaign, content, term, src, sck string) *sale.Tracking {
	t := &sale.Tracking{
		Source:   sale.OptionalString(source),
		Medium:   sale.OptionalString(medium),
		Campaign: sale.OptionalString(campaign),
		Content:  sale.OptionalString(content),
		Term:     sale.OptionalString(term),
		Src:      sale.OptionalString(src),
		Sck:      sale.OptionalString(sck),
	}
	if t.IsEmpty() {
		return nil
	}
	return t
}
