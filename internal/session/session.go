package session

import (
	"fmt"
	"math"
	"sync"

	"carreras/internal/domain"
	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
	"carreras/internal/utils"
)

// RideStore is the slice of the ride store the session depends on. The
// MySQL-backed repositories implement it; tests stub it.
type RideStore interface {
	ListByDateRange(from, to string) ([]models.Ride, error)
	UpdateAmount(id int64, amount float64) error
	Delete(id int64) error
}

type State string

const (
	StateIdle    State = "idle"
	StateLoaded  State = "loaded"
	StateEditing State = "editing"
)

type EntityKind string

const (
	KindUnit     EntityKind = "unit"
	KindProvider EntityKind = "provider"
)

// ParseEntityKind validates a kind received from the outside.
func ParseEntityKind(raw string) (EntityKind, error) {
	switch EntityKind(raw) {
	case KindUnit:
		return KindUnit, nil
	case KindProvider:
		return KindProvider, nil
	}
	return "", domain.ValidationError{Field: "kind", Msg: "debe ser unit o provider"}
}

// ReportSession owns the per-report mutable state: the active date range,
// the cached ride list and the override ledger. Breakdowns are never stored;
// they are recomputed from (rides, ledger) on every read.
type ReportSession struct {
	ID string

	mu     sync.Mutex
	store  RideStore
	state  State
	from   string
	to     string
	rides  []models.Ride
	ledger *OverrideLedger

	editKind EntityKind
	editKey  string

	// fetchSeq stamps every range fetch; a response that comes back after
	// the range moved again is discarded instead of overwriting fresher
	// state.
	fetchSeq uint64
}

func NewReportSession(id string, store RideStore) *ReportSession {
	return &ReportSession{
		ID:     id,
		store:  store,
		state:  StateIdle,
		ledger: NewOverrideLedger(),
	}
}

// ChangeRange loads rides for [from, to] and clears the ledger. On store
// failure the previous range, rides and overrides all stay in place.
func (s *ReportSession) ChangeRange(from, to string) error {
	fromT, err := utils.ParseDate(from)
	if err != nil {
		return domain.ValidationError{Field: "start_date", Msg: "formato debe ser YYYY-MM-DD", Err: err}
	}
	toT, err := utils.ParseDate(to)
	if err != nil {
		return domain.ValidationError{Field: "end_date", Msg: "formato debe ser YYYY-MM-DD", Err: err}
	}
	if toT.Before(fromT) {
		return domain.ValidationError{Field: "end_date", Msg: "debe ser posterior a start_date"}
	}

	s.mu.Lock()
	if s.state == StateEditing {
		s.mu.Unlock()
		return domain.ConflictError{Resource: "session", Msg: "hay una edición abierta"}
	}
	s.fetchSeq++
	seq := s.fetchSeq
	s.mu.Unlock()

	rides, err := s.store.ListByDateRange(from, to)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.fetchSeq {
		// A newer range superseded this fetch while it was in flight.
		return nil
	}
	if err != nil {
		return domain.CollaboratorError{Op: "list rides", Err: err}
	}
	s.from, s.to = from, to
	s.rides = rides
	s.ledger.Clear()
	s.state = StateLoaded
	return nil
}

// State reports the current lifecycle state.
func (s *ReportSession) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Range returns the active date window.
func (s *ReportSession) Range() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.from, s.to
}

// Rides returns a copy of the cached ride list.
func (s *ReportSession) Rides() []models.Ride {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Ride, len(s.rides))
	copy(out, s.rides)
	return out
}

// ledgerKey scopes override records per kind so a unit and a provider with
// the same numeric id never share adjustments.
func ledgerKey(kind EntityKind, key string) string {
	return string(kind) + ":" + key
}

// UnitBreakdown projects the settlement for one unit from the cached rides
// and the ledger.
func (s *ReportSession) UnitBreakdown(key string) settlement.UnitBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = models.NormalizeKey(key)
	return settlement.ComputeUnit(key, s.rides, s.ledger.Get(ledgerKey(KindUnit, key)))
}

// ProviderBreakdown projects the settlement for one provider.
func (s *ReportSession) ProviderBreakdown(key string) settlement.ProviderBreakdown {
	s.mu.Lock()
	defer s.mu.Unlock()
	key = models.NormalizeKey(key)
	return settlement.ComputeProvider(key, s.rides, s.ledger.Get(ledgerKey(KindProvider, key)))
}

// ProviderKeysInRange lists the distinct providers that worked in the active
// range, in first-seen (date) order.
func (s *ReportSession) ProviderKeysInRange() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[string]bool{}
	keys := []string{}
	for _, r := range s.rides {
		k := r.ProviderKey()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// BeginEdit opens the edit dialog for one entity and returns the draft
// override seeded from the entity's current resolved breakdown, so unedited
// fields round-trip unchanged on commit. Only one edit may be open at a time.
func (s *ReportSession) BeginEdit(kind EntityKind, key string) (settlement.Override, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateIdle:
		return settlement.Override{}, domain.ValidationError{Field: "session", Msg: "sin rango de fechas cargado"}
	case StateEditing:
		return settlement.Override{}, domain.ConflictError{Resource: "edit", Msg: fmt.Sprintf("ya se está editando %s %s", s.editKind, s.editKey)}
	}

	key = models.NormalizeKey(key)
	var draft settlement.Override
	switch kind {
	case KindUnit:
		b := settlement.ComputeUnit(key, s.rides, s.ledger.Get(ledgerKey(kind, key)))
		draft = settlement.Override{
			SettlementFee:          &b.SettlementFee,
			FrequencyFee:           &b.FrequencyFee,
			FrequencyEnabled:       &b.FrequencyEnabled,
			CreditOwed:             &b.CreditOwed,
			RequestedCredit:        &b.RequestedCredit,
			RequestedCreditEnabled: &b.RequestedCreditEnabled,
		}
	case KindProvider:
		b := settlement.ComputeProvider(key, s.rides, s.ledger.Get(ledgerKey(kind, key)))
		draft = settlement.Override{
			SettlementFee:  &b.SettlementFee,
			CreditsPayable: &b.CreditsPayable,
		}
	default:
		return settlement.Override{}, domain.ValidationError{Field: "kind", Msg: "debe ser unit o provider"}
	}

	s.state = StateEditing
	s.editKind = kind
	s.editKey = key
	return draft, nil
}

// CancelEdit discards the open edit, if any.
func (s *ReportSession) CancelEdit() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateEditing {
		s.state = StateLoaded
		s.editKind = ""
		s.editKey = ""
	}
}

// CommitEdit writes the edited record into the ledger (whole-record replace)
// and closes the dialog.
func (s *ReportSession) CommitEdit(ov settlement.Override) error {
	if err := validateOverride(ov); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateEditing {
		return domain.ConflictError{Resource: "edit", Msg: "no hay edición abierta"}
	}
	s.ledger.Set(ledgerKey(s.editKind, s.editKey), ov)
	s.state = StateLoaded
	s.editKind = ""
	s.editKey = ""
	return nil
}

// Editing reports the entity currently being edited, if any.
func (s *ReportSession) Editing() (EntityKind, string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.editKind, s.editKey, s.state == StateEditing
}

// UpdateRideAmount corrects one ride's amount: the store confirms first,
// only then the cached copy is replaced. On failure the cache keeps the
// prior amount.
func (s *ReportSession) UpdateRideAmount(id int64, amount float64) error {
	if math.IsNaN(amount) || math.IsInf(amount, 0) || amount < 0 {
		return domain.ValidationError{Field: "amount", Msg: "debe ser un número no negativo"}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return domain.ValidationError{Field: "session", Msg: "sin rango de fechas cargado"}
	}

	idx := -1
	for i, r := range s.rides {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.NotFoundError{Resource: "carrera"}
	}
	if s.rides[idx].Amount == amount {
		return nil
	}

	if err := s.store.UpdateAmount(id, amount); err != nil {
		return domain.CollaboratorError{Op: "update ride amount", Err: err}
	}

	updated := s.rides[idx]
	updated.Amount = amount
	s.rides[idx] = updated
	return nil
}

// DeleteRide removes one ride: store first, then the cache. Subsequent
// breakdowns pick the change up without a re-fetch.
func (s *ReportSession) DeleteRide(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateIdle {
		return domain.ValidationError{Field: "session", Msg: "sin rango de fechas cargado"}
	}

	idx := -1
	for i, r := range s.rides {
		if r.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.NotFoundError{Resource: "carrera"}
	}

	if err := s.store.Delete(id); err != nil {
		return domain.CollaboratorError{Op: "delete ride", Err: err}
	}

	s.rides = append(s.rides[:idx], s.rides[idx+1:]...)
	return nil
}

func validateOverride(ov settlement.Override) error {
	check := func(field string, v *float64) error {
		if v == nil {
			return nil
		}
		if math.IsNaN(*v) || math.IsInf(*v, 0) {
			return domain.ValidationError{Field: field, Msg: "debe ser un número"}
		}
		if *v < 0 {
			return domain.ValidationError{Field: field, Msg: "no puede ser negativo"}
		}
		return nil
	}
	if err := check("settlement_fee", ov.SettlementFee); err != nil {
		return err
	}
	if err := check("frequency_fee", ov.FrequencyFee); err != nil {
		return err
	}
	if err := check("credit_owed", ov.CreditOwed); err != nil {
		return err
	}
	if err := check("requested_credit", ov.RequestedCredit); err != nil {
		return err
	}
	return check("credits_payable", ov.CreditsPayable)
}
