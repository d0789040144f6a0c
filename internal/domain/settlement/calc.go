package settlement

import (
	"carreras/internal/domain/models"
	"carreras/internal/utils"
)

const (
	// CommissionRate is withheld from every flagged ride.
	CommissionRate = 0.10

	// DefaultSettlementFee is the flat "cuadre" fee, always overridable.
	DefaultSettlementFee = 1.00

	// DefaultFrequencyFee applies to units that ran fewer than
	// FrequencyRideThreshold rides in the range.
	DefaultFrequencyFee    = 10.00
	FrequencyRideThreshold = 5
)

// Override holds manually supplied values that supersede computed defaults.
// A nil field means "use the computed default"; a present field (including
// explicit zero) always wins. The enabled flags are independent of the
// numeric overrides.
type Override struct {
	SettlementFee *float64 `json:"settlement_fee,omitempty"`

	// Unit-only fields.
	FrequencyFee           *float64 `json:"frequency_fee,omitempty"`
	FrequencyEnabled       *bool    `json:"frequency_enabled,omitempty"`
	CreditOwed             *float64 `json:"credit_owed,omitempty"`
	RequestedCredit        *float64 `json:"requested_credit,omitempty"`
	RequestedCreditEnabled *bool    `json:"requested_credit_enabled,omitempty"`

	// Provider-only field.
	CreditsPayable *float64 `json:"credits_payable,omitempty"`
}

// UnitBreakdown is the resolved weekly settlement for one unit. Pure
// projection, recomputed on every read.
type UnitBreakdown struct {
	UnitKey   string  `json:"unit_key"`
	RideCount int     `json:"ride_count"`
	Gross     float64 `json:"gross_total"`

	CommissionTotal float64 `json:"commission_total"`

	SettlementFee float64 `json:"settlement_fee"`

	FrequencyFee       float64 `json:"frequency_fee"`
	FrequencyEnabled   bool    `json:"frequency_enabled"`
	EffectiveFrequency float64 `json:"effective_frequency"`

	CreditOwedAuto float64 `json:"credit_owed_auto"`
	CreditOwed     float64 `json:"credit_owed"`

	RequestedCreditAuto      float64 `json:"requested_credit_auto"`
	RequestedCredit          float64 `json:"requested_credit"`
	RequestedCreditEnabled   bool    `json:"requested_credit_enabled"`
	EffectiveRequestedCredit float64 `json:"effective_requested_credit"`

	Net        float64 `json:"net"`
	Payable    float64 `json:"payable"`
	Receivable float64 `json:"receivable"`

	Rides []models.Ride `json:"rides"`
}

// ProviderBreakdown is the resolved weekly settlement for one provider.
// Payable and receivable are tracked independently, never netted.
type ProviderBreakdown struct {
	ProviderKey string  `json:"provider_key"`
	RideCount   int     `json:"ride_count"`
	Gross       float64 `json:"gross_total"`

	CommissionTotal float64 `json:"commission_total"`

	CreditsPayableAuto float64 `json:"credits_payable_auto"`
	CreditsPayable     float64 `json:"credits_payable"`
	SettlementFee      float64 `json:"settlement_fee"`

	Payable    float64 `json:"payable"`
	Receivable float64 `json:"receivable"`

	Rides []models.Ride `json:"rides"`
}

// RideCommission recomputes the commission for one ride. The stored
// commission_amount column is never trusted.
func RideCommission(r models.Ride) float64 {
	if !r.HasCommission {
		return 0
	}
	return r.Amount * CommissionRate
}

// ComputeUnit folds the ride list and the unit's override into a breakdown.
// unitKey must be a canonical key (models.Key / models.NormalizeKey).
func ComputeUnit(unitKey string, rides []models.Ride, ov Override) UnitBreakdown {
	b := UnitBreakdown{UnitKey: unitKey, Rides: []models.Ride{}}

	for _, r := range rides {
		if r.UnitKey() != unitKey {
			continue
		}
		b.Rides = append(b.Rides, r)
		b.Gross += r.Amount
		b.CommissionTotal += RideCommission(r)
		if r.PaymentMethod == models.PaymentCredit {
			b.CreditOwedAuto += r.Amount
		}
		if r.UnitRequestedCredit {
			b.RequestedCreditAuto += r.Amount
		}
	}
	b.RideCount = len(b.Rides)

	frequencyDefault := 0.0
	if b.RideCount < FrequencyRideThreshold {
		frequencyDefault = DefaultFrequencyFee
	}

	b.SettlementFee = resolve(ov.SettlementFee, DefaultSettlementFee)
	b.FrequencyFee = resolve(ov.FrequencyFee, frequencyDefault)
	b.CreditOwed = resolve(ov.CreditOwed, b.CreditOwedAuto)
	b.RequestedCredit = resolve(ov.RequestedCredit, b.RequestedCreditAuto)
	b.FrequencyEnabled = resolveBool(ov.FrequencyEnabled, true)
	b.RequestedCreditEnabled = resolveBool(ov.RequestedCreditEnabled, true)

	if b.FrequencyEnabled {
		b.EffectiveFrequency = b.FrequencyFee
	}
	if b.RequestedCreditEnabled {
		b.EffectiveRequestedCredit = b.RequestedCredit
	}

	// Round before the sign decision so float accumulation noise cannot
	// flip a true zero into a receivable.
	b.Net = utils.RoundCents((b.SettlementFee + b.CommissionTotal + b.EffectiveFrequency + b.EffectiveRequestedCredit) - b.CreditOwed)
	if b.Net > 0 {
		b.Payable = b.Net
	} else {
		b.Receivable = -b.Net
	}
	return b
}

// ComputeProvider folds the ride list and the provider's override into a
// breakdown. Unlike units, payable and receivable stay separate.
func ComputeProvider(providerKey string, rides []models.Ride, ov Override) ProviderBreakdown {
	b := ProviderBreakdown{ProviderKey: providerKey, Rides: []models.Ride{}}

	for _, r := range rides {
		if r.ProviderKey() != providerKey {
			continue
		}
		b.Rides = append(b.Rides, r)
		b.Gross += r.Amount
		b.CommissionTotal += RideCommission(r)
		if r.ProviderGaveCredit {
			b.CreditsPayableAuto += r.Amount
		}
	}
	b.RideCount = len(b.Rides)

	b.CreditsPayable = resolve(ov.CreditsPayable, b.CreditsPayableAuto)
	b.SettlementFee = resolve(ov.SettlementFee, DefaultSettlementFee)

	b.Payable = utils.RoundCents(b.CreditsPayable + b.SettlementFee)
	b.Receivable = utils.RoundCents(b.CommissionTotal)
	return b
}

func resolve(v *float64, def float64) float64 {
	if v != nil {
		return *v
	}
	return def
}

func resolveBool(v *bool, def bool) bool {
	if v != nil {
		return *v
	}
	return def
}
