package session

import (
	"errors"
	"math"
	"testing"

	"carreras/internal/domain"
	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
)

type stubStore struct {
	listFn    func(from, to string) ([]models.Ride, error)
	updateErr error
	deleteErr error

	listCalls int
	updates   map[int64]float64
	deletes   []int64
}

func (s *stubStore) ListByDateRange(from, to string) ([]models.Ride, error) {
	s.listCalls++
	if s.listFn != nil {
		return s.listFn(from, to)
	}
	return []models.Ride{}, nil
}

func (s *stubStore) UpdateAmount(id int64, amount float64) error {
	if s.updateErr != nil {
		return s.updateErr
	}
	if s.updates == nil {
		s.updates = map[int64]float64{}
	}
	s.updates[id] = amount
	return nil
}

func (s *stubStore) Delete(id int64) error {
	if s.deleteErr != nil {
		return s.deleteErr
	}
	s.deletes = append(s.deletes, id)
	return nil
}

func weekRides() []models.Ride {
	return []models.Ride{
		{ID: 1, Date: "2025-06-02", UnitID: 7, ProviderID: 3, Amount: 20, HasCommission: true, PaymentMethod: models.PaymentCredit},
		{ID: 2, Date: "2025-06-03", UnitID: 7, ProviderID: 3, Amount: 15, PaymentMethod: models.PaymentCash},
		{ID: 3, Date: "2025-06-04", UnitID: 8, ProviderID: 4, Amount: 10, HasCommission: true, PaymentMethod: models.PaymentCash},
	}
}

func loadedSession(t *testing.T, st *stubStore) *ReportSession {
	t.Helper()
	if st.listFn == nil {
		st.listFn = func(string, string) ([]models.Ride, error) { return weekRides(), nil }
	}
	s := NewReportSession("test", st)
	if err := s.ChangeRange("2025-06-01", "2025-06-07"); err != nil {
		t.Fatalf("ChangeRange error: %v", err)
	}
	if s.State() != StateLoaded {
		t.Fatalf("state = %s, want loaded", s.State())
	}
	return s
}

func TestChangeRangeValidatesDates(t *testing.T) {
	s := NewReportSession("test", &stubStore{})
	if err := s.ChangeRange("06/01/2025", "2025-06-07"); !domain.IsValidation(err) {
		t.Fatalf("bad format should be validation error, got %v", err)
	}
	if err := s.ChangeRange("2025-06-07", "2025-06-01"); !domain.IsValidation(err) {
		t.Fatalf("inverted range should be validation error, got %v", err)
	}
	if s.State() != StateIdle {
		t.Fatalf("failed open must stay idle, got %s", s.State())
	}
}

func TestChangeRangeFailureKeepsPriorState(t *testing.T) {
	calls := 0
	st := &stubStore{listFn: func(string, string) ([]models.Ride, error) {
		calls++
		if calls > 1 {
			return nil, errors.New("connection reset")
		}
		return weekRides(), nil
	}}
	s := loadedSession(t, st)

	err := s.ChangeRange("2025-06-08", "2025-06-14")
	if !domain.IsCollaborator(err) {
		t.Fatalf("want collaborator error, got %v", err)
	}
	from, to := s.Range()
	if from != "2025-06-01" || to != "2025-06-07" {
		t.Fatalf("range moved on failure: %s..%s", from, to)
	}
	if len(s.Rides()) != 3 {
		t.Fatalf("ride cache changed on failure")
	}
}

func TestChangeRangeClearsOverrides(t *testing.T) {
	s := loadedSession(t, &stubStore{})

	draft, err := s.BeginEdit(KindUnit, "7")
	if err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	fee := 5.00
	draft.SettlementFee = &fee
	if err := s.CommitEdit(draft); err != nil {
		t.Fatalf("CommitEdit error: %v", err)
	}
	if got := s.UnitBreakdown("7").SettlementFee; got != 5.00 {
		t.Fatalf("override not applied, fee = %v", got)
	}

	if err := s.ChangeRange("2025-06-08", "2025-06-14"); err != nil {
		t.Fatalf("ChangeRange error: %v", err)
	}
	if got := s.UnitBreakdown("7").SettlementFee; got != settlement.DefaultSettlementFee {
		t.Fatalf("override survived range change, fee = %v", got)
	}
}

func TestStaleFetchResponseDiscarded(t *testing.T) {
	firstStarted := make(chan struct{})
	release := make(chan struct{})
	st := &stubStore{listFn: func(from, _ string) ([]models.Ride, error) {
		if from == "2025-06-01" {
			close(firstStarted)
			<-release
			return weekRides(), nil
		}
		return []models.Ride{{ID: 99, Date: "2025-07-01", UnitID: 1, ProviderID: 1, Amount: 50, PaymentMethod: models.PaymentCash}}, nil
	}}
	s := NewReportSession("test", st)

	done := make(chan error, 1)
	go func() { done <- s.ChangeRange("2025-06-01", "2025-06-07") }()
	<-firstStarted

	if err := s.ChangeRange("2025-07-01", "2025-07-07"); err != nil {
		t.Fatalf("second ChangeRange error: %v", err)
	}
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("stale fetch should be dropped silently, got %v", err)
	}

	from, to := s.Range()
	if from != "2025-07-01" || to != "2025-07-07" {
		t.Fatalf("range = %s..%s, want the newer one", from, to)
	}
	rides := s.Rides()
	if len(rides) != 1 || rides[0].ID != 99 {
		t.Fatalf("stale response overwrote fresher rides: %+v", rides)
	}
}

func TestBeginEditSeedsResolvedValues(t *testing.T) {
	s := loadedSession(t, &stubStore{})

	draft, err := s.BeginEdit(KindUnit, "7")
	if err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	if draft.SettlementFee == nil || *draft.SettlementFee != settlement.DefaultSettlementFee {
		t.Fatalf("draft settlement fee not seeded: %+v", draft)
	}
	if draft.CreditOwed == nil || *draft.CreditOwed != 20.00 {
		t.Fatalf("draft credit owed not seeded from rides: %+v", draft)
	}
	if draft.FrequencyEnabled == nil || !*draft.FrequencyEnabled {
		t.Fatalf("draft frequency enabled should default true")
	}

	// Committing the untouched draft must not change the breakdown.
	before := s.UnitBreakdown("7")
	if err := s.CommitEdit(draft); err != nil {
		t.Fatalf("CommitEdit error: %v", err)
	}
	after := s.UnitBreakdown("7")
	if before.Net != after.Net || before.Payable != after.Payable {
		t.Fatalf("round-trip commit changed the breakdown: %+v vs %+v", before, after)
	}
}

func TestSecondEditRefusedWhileOneOpen(t *testing.T) {
	s := loadedSession(t, &stubStore{})

	if _, err := s.BeginEdit(KindUnit, "7"); err != nil {
		t.Fatalf("BeginEdit error: %v", err)
	}
	if _, err := s.BeginEdit(KindProvider, "3"); !domain.IsConflict(err) {
		t.Fatalf("second edit should conflict, got %v", err)
	}

	s.CancelEdit()
	if _, err := s.BeginEdit(KindProvider, "3"); err != nil {
		t.Fatalf("edit after cancel should work, got %v", err)
	}
}

func TestCancelEditDiscardsDraft(t *testing.T) {
	s := loadedSession(t, &stubStore{})

	draft, _ := s.BeginEdit(KindUnit, "7")
	fee := 99.0
	draft.SettlementFee = &fee
	s.CancelEdit()

	if got := s.UnitBreakdown("7").SettlementFee; got != settlement.DefaultSettlementFee {
		t.Fatalf("cancelled draft leaked into breakdown, fee = %v", got)
	}
	if err := s.CommitEdit(draft); !domain.IsConflict(err) {
		t.Fatalf("commit after cancel should conflict, got %v", err)
	}
}

func TestCommitRejectsMalformedAmounts(t *testing.T) {
	s := loadedSession(t, &stubStore{})

	draft, _ := s.BeginEdit(KindUnit, "7")
	bad := math.NaN()
	draft.FrequencyFee = &bad
	if err := s.CommitEdit(draft); !domain.IsValidation(err) {
		t.Fatalf("NaN override should be rejected, got %v", err)
	}

	// The edit stays open and the prior resolved value is retained.
	if _, _, editing := s.Editing(); !editing {
		t.Fatalf("rejected commit should keep the dialog open")
	}
	if got := s.UnitBreakdown("7").FrequencyFee; got != 10.00 {
		t.Fatalf("frequency fee = %v, want untouched default 10.00", got)
	}
}

func TestUpdateRideAmountReflectsInBreakdown(t *testing.T) {
	st := &stubStore{}
	s := loadedSession(t, st)

	if err := s.UpdateRideAmount(2, 30); err != nil {
		t.Fatalf("UpdateRideAmount error: %v", err)
	}
	if st.updates[2] != 30 {
		t.Fatalf("store not asked to update: %+v", st.updates)
	}
	if got := s.UnitBreakdown("7").Gross; got != 50 {
		t.Fatalf("gross = %v, want 50 after correction", got)
	}
}

func TestUpdateRideAmountFailureLeavesCache(t *testing.T) {
	st := &stubStore{updateErr: errors.New("deadlock")}
	s := loadedSession(t, st)

	err := s.UpdateRideAmount(2, 30)
	if !domain.IsCollaborator(err) {
		t.Fatalf("want collaborator error, got %v", err)
	}
	if got := s.UnitBreakdown("7").Gross; got != 35 {
		t.Fatalf("gross = %v, cache must keep prior amount", got)
	}
}

func TestUpdateRideAmountValidation(t *testing.T) {
	s := loadedSession(t, &stubStore{})
	if err := s.UpdateRideAmount(2, -1); !domain.IsValidation(err) {
		t.Fatalf("negative amount should fail validation, got %v", err)
	}
	if err := s.UpdateRideAmount(404, 10); !domain.IsNotFound(err) {
		t.Fatalf("unknown ride should be not found, got %v", err)
	}
}

func TestDeleteRideUpdatesBreakdownsWithoutRefetch(t *testing.T) {
	st := &stubStore{}
	s := loadedSession(t, st)
	listCallsAfterLoad := st.listCalls

	if err := s.DeleteRide(1); err != nil {
		t.Fatalf("DeleteRide error: %v", err)
	}
	ub := s.UnitBreakdown("7")
	if ub.RideCount != 1 || ub.Gross != 15 {
		t.Fatalf("unit breakdown not updated: %+v", ub)
	}
	pb := s.ProviderBreakdown("3")
	if pb.RideCount != 1 {
		t.Fatalf("provider breakdown not updated: %+v", pb)
	}
	if st.listCalls != listCallsAfterLoad {
		t.Fatalf("delete triggered a re-fetch")
	}
}

func TestDeleteRideFailureKeepsCache(t *testing.T) {
	st := &stubStore{deleteErr: errors.New("locked")}
	s := loadedSession(t, st)

	if err := s.DeleteRide(1); !domain.IsCollaborator(err) {
		t.Fatalf("want collaborator error, got %v", err)
	}
	if len(s.Rides()) != 3 {
		t.Fatalf("cache changed after failed delete")
	}
}

func TestProviderKeysInRange(t *testing.T) {
	s := loadedSession(t, &stubStore{})
	keys := s.ProviderKeysInRange()
	if len(keys) != 2 || keys[0] != "3" || keys[1] != "4" {
		t.Fatalf("provider keys = %v, want [3 4]", keys)
	}
}
