package services

import (
	"strings"
	"testing"

	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
)

func TestGenerateUnitPDF(t *testing.T) {
	rides := []models.Ride{
		{ID: 1, Date: "2025-06-02", UnitID: 7, ProviderID: 3, ProviderName: "Radio Taxi",
			StartLocation: "Centro", Destination: "Aeropuerto",
			PaymentMethod: models.PaymentCredit, Amount: 20, HasCommission: true},
		{ID: 2, Date: "2025-06-03", UnitID: 7, ProviderID: 3, ProviderName: "Radio Taxi",
			StartLocation: "Plaza", Destination: "Hospital",
			PaymentMethod: models.PaymentCash, Amount: 15},
	}
	b := settlement.ComputeUnit("7", rides, settlement.Override{})

	svc := ReportDocsService{}
	pdf, filename, err := svc.GenerateUnitPDF("U-07", "2025-06-01", "2025-06-07", b)
	if err != nil {
		t.Fatalf("GenerateUnitPDF error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateUnitPDF returned empty document")
	}
	if filename != "Reporte_U-07_2025-06-01.pdf" {
		t.Fatalf("filename = %q", filename)
	}
}

func TestGenerateProviderPDF(t *testing.T) {
	rides := []models.Ride{
		{ID: 1, Date: "2025-06-02", ProviderID: 9, UnitID: 7, UnitName: "U-07",
			StartLocation: "Centro", Destination: "Aeropuerto",
			PaymentMethod: models.PaymentCash, Amount: 50, ProviderGaveCredit: true},
	}
	b := settlement.ComputeProvider("9", rides, settlement.Override{})

	svc := ReportDocsService{}
	pdf, filename, err := svc.GenerateProviderPDF("Radio Taxi", "2025-06-01", "2025-06-07", b)
	if err != nil {
		t.Fatalf("GenerateProviderPDF error: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("GenerateProviderPDF returned empty document")
	}
	if !strings.HasPrefix(filename, "Reporte_Radio_Taxi_") {
		t.Fatalf("filename = %q", filename)
	}
}

func TestGenerateUnitPDFEmptyWeek(t *testing.T) {
	b := settlement.ComputeUnit("42", nil, settlement.Override{})
	svc := ReportDocsService{}
	pdf, _, err := svc.GenerateUnitPDF("U-42", "2025-06-01", "2025-06-07", b)
	if err != nil {
		t.Fatalf("empty week should still render: %v", err)
	}
	if len(pdf) == 0 {
		t.Fatalf("empty week rendered nothing")
	}
}
