package search

import (
	"strings"
	"unicode"

	"core/internal/model"
)

const reasonNegative = "negative value not allowed"

// Normalize converts a raw filters map into validated search criteria.
// Each logical field may carry nested comparison keys ($gte/$lte/$eq/$in)
// or a bare value treated as equality/inclusion. Pure transform; rejects
// negative numeric bounds and room counts with a ValidationError naming
// the offending field.
func Normalize(raw map[string]any) (*model.SearchCriteria, error) {
	c := &model.SearchCriteria{}
	if len(raw) == 0 {
		return c, nil
	}

	var err error
	if c.PriceMin, c.PriceMax, err = rangeBounds(raw, "price"); err != nil {
		return nil, err
	}
	if c.AreaMin, c.AreaMax, err = rangeBounds(raw, "area"); err != nil {
		return nil, err
	}
	if c.InstallmentYearsMin, c.InstallmentYearsMax, err = rangeBounds(raw, "installment_years"); err != nil {
		return nil, err
	}
	if c.DeliveryInMin, c.DeliveryInMax, err = rangeBounds(raw, "delivery_in"); err != nil {
		return nil, err
	}
	if c.DownPaymentMin, c.DownPaymentMax, err = rangeBounds(raw, "down_payment"); err != nil {
		return nil, err
	}

	c.PropertyType = equalityString(raw, "type")
	c.UnitType = equalityString(raw, "unit_type")
	c.City = equalityString(raw, "city")
	c.PaymentOption = equalityString(raw, "payment_option")

	if c.Bedrooms, err = equalityCount(raw, "bedrooms"); err != nil {
		return nil, err
	}
	if c.Bathrooms, err = equalityCount(raw, "bathrooms"); err != nil {
		return nil, err
	}

	c.Amenities = inclusionList(raw, "amenities")

	return c, nil
}

// rangeBounds extracts $gte/$lte bounds for a numeric field. Missing
// bounds stay nil (no constraint); negative bounds are rejected.
func rangeBounds(raw map[string]any, field string) (*float64, *float64, error) {
	value, ok := raw[field]
	if !ok {
		return nil, nil, nil
	}
	ops, ok := value.(map[string]any)
	if !ok {
		return nil, nil, nil
	}

	var min, max *float64
	if v, ok := ops["$gte"]; ok {
		n, ok := toFloat(v)
		if ok {
			if n < 0 {
				return nil, nil, model.NewValidationError(field, reasonNegative)
			}
			min = &n
		}
	}
	if v, ok := ops["$lte"]; ok {
		n, ok := toFloat(v)
		if ok {
			if n < 0 {
				return nil, nil, model.NewValidationError(field, reasonNegative)
			}
			max = &n
		}
	}
	return min, max, nil
}

// equalityString extracts an $eq (or bare) string value, trimmed and
// lowercased; empty when absent.
func equalityString(raw map[string]any, field string) string {
	value, ok := raw[field]
	if !ok {
		return ""
	}
	if ops, ok := value.(map[string]any); ok {
		value = ops["$eq"]
	}
	s, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// equalityCount extracts an $eq (or bare) non-negative integer count
func equalityCount(raw map[string]any, field string) (*int, error) {
	value, ok := raw[field]
	if !ok {
		return nil, nil
	}
	if ops, ok := value.(map[string]any); ok {
		value = ops["$eq"]
	}
	n, ok := toFloat(value)
	if !ok {
		return nil, nil
	}
	if n < 0 {
		return nil, model.NewValidationError(field, reasonNegative)
	}
	count := int(n)
	return &count, nil
}

// inclusionList extracts an $in (or bare) list of strings, each trimmed
// with the first letter capitalized; empty entries are dropped.
func inclusionList(raw map[string]any, field string) []string {
	value, ok := raw[field]
	if !ok {
		return nil
	}
	if ops, ok := value.(map[string]any); ok {
		value = ops["$in"]
	}

	var items []string
	switch v := value.(type) {
	case []string:
		items = v
	case []any:
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				items = append(items, s)
			}
		}
	default:
		return nil
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := capitalize(strings.TrimSpace(item)); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// toFloat accepts the numeric types JSON decoding and direct construction
// can produce
func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

// capitalize uppercases the first letter and lowercases the rest
func capitalize(s string) string {
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}
