package services

import (
	"fmt"

	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
	"carreras/internal/repositories"
	"carreras/internal/session"
	"carreras/internal/utils"
)

// UnitCard is the on-screen summary for one unit.
type UnitCard struct {
	Key       string                   `json:"key"`
	Name      string                   `json:"name"`
	Breakdown settlement.UnitBreakdown `json:"breakdown"`
}

// ProviderCard is the on-screen summary for one provider.
type ProviderCard struct {
	Key       string                       `json:"key"`
	Name      string                       `json:"name"`
	Breakdown settlement.ProviderBreakdown `json:"breakdown"`
}

// Report groups every card for the active range.
type Report struct {
	StartDate string         `json:"start_date"`
	EndDate   string         `json:"end_date"`
	Units     []UnitCard     `json:"units"`
	Providers []ProviderCard `json:"providers"`
}

// ReportService assembles the weekly report cards: every unit from the
// catalog (zero-ride units still get a card, the frequency fee applies to
// them too), plus every provider that worked in the range.
type ReportService struct {
	Catalog   repositories.CatalogRepository
	RequestID string

	// Test hooks; when nil the catalog repository is used.
	LoadUnits     func() ([]models.Unit, error)
	LoadProviders func() ([]models.Provider, error)
}

func (s ReportService) BuildReport(sess *session.ReportSession) (Report, error) {
	from, to := sess.Range()
	out := Report{StartDate: from, EndDate: to, Units: []UnitCard{}, Providers: []ProviderCard{}}

	units, err := s.loadUnits()
	if err != nil {
		return out, err
	}
	for _, u := range units {
		b := sess.UnitBreakdown(models.Key(u.ID))
		b.Rides = nil // cards stay light; the detail endpoint carries rides
		out.Units = append(out.Units, UnitCard{Key: models.Key(u.ID), Name: u.Name, Breakdown: b})
	}

	providerNames := map[string]string{}
	if providers, err := s.loadProviders(); err == nil {
		for _, p := range providers {
			providerNames[models.Key(p.ID)] = p.Name
		}
	}
	for _, key := range sess.ProviderKeysInRange() {
		name := providerNames[key]
		if name == "" {
			name = "N/A"
		}
		b := sess.ProviderBreakdown(key)
		b.Rides = nil
		out.Providers = append(out.Providers, ProviderCard{Key: key, Name: name, Breakdown: b})
	}

	utils.LogEvent(s.RequestID, "reports", "build",
		fmt.Sprintf("range=%s..%s units=%d providers=%d", from, to, len(out.Units), len(out.Providers)))
	return out, nil
}

func (s ReportService) loadUnits() ([]models.Unit, error) {
	if s.LoadUnits != nil {
		return s.LoadUnits()
	}
	return s.Catalog.ListUnits()
}

func (s ReportService) loadProviders() ([]models.Provider, error) {
	if s.LoadProviders != nil {
		return s.LoadProviders()
	}
	return s.Catalog.ListProviders()
}
