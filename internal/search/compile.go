package search

import (
	"core/internal/index"
	"core/internal/model"
)

// Compile translates validated criteria into the index filter language.
// Fields with no applicable constraint are absent from the result.
func Compile(c *model.SearchCriteria) index.Filter {
	f := index.Filter{}

	addRange(f, "price", c.PriceMin, c.PriceMax)
	addRange(f, "area", c.AreaMin, c.AreaMax)
	addRange(f, "installment_years", c.InstallmentYearsMin, c.InstallmentYearsMax)
	addRange(f, "delivery_in", c.DeliveryInMin, c.DeliveryInMax)
	addRange(f, "down_payment", c.DownPaymentMin, c.DownPaymentMax)

	addEquality(f, "type", c.PropertyType)
	addEquality(f, "unit_type", c.UnitType)
	addEquality(f, "city", c.City)
	addEquality(f, "payment_option", c.PaymentOption)

	addRoomRange(f, "bedrooms", c.Bedrooms)
	addRoomRange(f, "bathrooms", c.Bathrooms)

	if len(c.Amenities) > 0 {
		// at-least-one-of semantics, not all-of
		f["amenities"] = index.Predicate{In: c.Amenities}
	}

	return f
}

// addRange emits a lower bound only for a genuine positive minimum (a zero
// minimum behaves as unset) and an upper bound only when the maximum is set
func addRange(f index.Filter, field string, min, max *float64) {
	p := index.Predicate{}
	if min != nil && *min > 0 {
		p.GTE = min
	}
	if max != nil {
		p.LTE = max
	}
	if p.GTE != nil || p.LTE != nil {
		f[field] = p
	}
}

func addEquality(f index.Filter, field, value string) {
	if value != "" {
		f[field] = index.Predicate{EQ: value}
	}
}

// addRoomRange widens an exact room count to an inclusive [v-1, v+1] range,
// floored at 1. Users rarely need an exact count match; the widening raises
// recall without materially hurting precision.
func addRoomRange(f index.Filter, field string, count *int) {
	if count == nil || *count == 0 {
		return
	}
	lo := float64(*count - 1)
	if lo < 1 {
		lo = 1
	}
	hi := float64(*count + 1)
	f[field] = index.Predicate{GTE: &lo, LTE: &hi}
}
