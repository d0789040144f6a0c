package repositories

import (
	"testing"

	"carreras/internal/domain/models"

	"github.com/DATA-DOG/go-sqlmock"
)

func testRide(amount float64, commission bool) models.Ride {
	return models.Ride{
		Date:          "2025-06-02",
		ProviderID:    3,
		UnitID:        7,
		StartLocation: "Centro",
		Destination:   "Aeropuerto",
		PaymentMethod: models.PaymentCredit,
		Amount:        amount,
		HasCommission: commission,
	}
}

func TestListUnitsOrderedByName(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT id, name FROM units ORDER BY name").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).
			AddRow(2, "U-01").
			AddRow(1, "U-02"))

	repo := CatalogRepository{DB: db}
	units, err := repo.ListUnits()
	if err != nil {
		t.Fatalf("ListUnits error: %v", err)
	}
	if len(units) != 2 || units[0].Name != "U-01" {
		t.Fatalf("units = %+v", units)
	}
}

func TestCreateProvider(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectExec("INSERT INTO providers").
		WithArgs("Radio Taxi").
		WillReturnResult(sqlmock.NewResult(5, 1))

	repo := CatalogRepository{DB: db}
	id, err := repo.CreateProvider("  Radio Taxi  ")
	if err != nil {
		t.Fatalf("CreateProvider error: %v", err)
	}
	if id != 5 {
		t.Fatalf("id = %d, want 5", id)
	}
}

func TestProviderExists(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("SELECT 1 FROM providers").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery("SELECT 1 FROM providers").
		WithArgs(int64(404)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	repo := CatalogRepository{DB: db}
	ok, err := repo.ProviderExists(3)
	if err != nil || !ok {
		t.Fatalf("ProviderExists(3) = %v, %v", ok, err)
	}
	ok, err = repo.ProviderExists(404)
	if err != nil || ok {
		t.Fatalf("ProviderExists(404) = %v, %v", ok, err)
	}
}
