package models

import (
	"strconv"
	"strings"
)

// Payment methods accepted on a ride.
const (
	PaymentCash     = "Cash"
	PaymentCredit   = "Credit"
	PaymentTransfer = "Transfer"
)

// ValidPaymentMethod reports whether m is one of the accepted methods.
func ValidPaymentMethod(m string) bool {
	switch m {
	case PaymentCash, PaymentCredit, PaymentTransfer:
		return true
	}
	return false
}

// Key is the canonical string form of an entity id. Ids arrive from the
// store as integers and from URLs as strings; all comparisons go through
// Key so mixed representations never miscompare.
func Key(id int64) string {
	return strconv.FormatInt(id, 10)
}

// NormalizeKey canonicalizes an externally supplied id string.
func NormalizeKey(raw string) string {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.ParseInt(raw, 10, 64); err == nil {
		return Key(n)
	}
	return raw
}

// Ride is a single trip performed by a unit for a provider. Immutable after
// creation except for Amount (manual correction) and deletion.
type Ride struct {
	ID            int64   `json:"id"`
	Date          string  `json:"date"`
	ProviderID    int64   `json:"provider_id"`
	UnitID        int64   `json:"unit_id"`
	StartLocation string  `json:"start_location"`
	Destination   string  `json:"destination"`
	PaymentMethod string  `json:"payment_method"`
	Amount        float64 `json:"amount"`
	HasCommission bool    `json:"has_commission"`
	// CommissionAmount is written once at creation (amount * 10% when
	// flagged). Reporting always recomputes from Amount/HasCommission and
	// never reads this back.
	CommissionAmount    float64 `json:"commission_amount"`
	UnitRequestedCredit bool    `json:"unit_requested_credit"`
	ProviderGaveCredit  bool    `json:"provider_gave_credit"`

	ProviderName string `json:"provider_name,omitempty"`
	UnitName     string `json:"unit_name,omitempty"`
}

// ProviderKey returns the canonical key of the ride's provider.
func (r Ride) ProviderKey() string { return Key(r.ProviderID) }

// UnitKey returns the canonical key of the ride's unit.
func (r Ride) UnitKey() string { return Key(r.UnitID) }
