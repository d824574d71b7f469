package model

// SearchCriteria is the validated, typed form of a search filter request.
// Unset bounds are nil, never sentinel zeros; the struct is immutable after
// construction and scoped to a single request.
type SearchCriteria struct {
	PriceMin *float64
	PriceMax *float64

	AreaMin *float64
	AreaMax *float64

	// Normalized to lowercase, trimmed
	PropertyType  string
	UnitType      string
	City          string
	PaymentOption string

	Bedrooms  *int
	Bathrooms *int

	// Each entry trimmed, first letter capitalized
	Amenities []string

	InstallmentYearsMin *float64
	InstallmentYearsMax *float64

	DeliveryInMin *float64
	DeliveryInMax *float64

	DownPaymentMin *float64
	DownPaymentMax *float64
}

// SearchResult is one output record: the listing metadata stored in the
// index merged flat with the match id and similarity score.
type SearchResult map[string]any
