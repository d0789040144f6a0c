package repositories

import (
	"database/sql"
	"strings"

	intconfig "carreras/internal/config"
	"carreras/internal/domain/models"
	"carreras/internal/domain/settlement"
)

// RideRepository wraps DB access for the rides table. Reporting reads go
// through ListByDateRange; mutation is limited to amount correction and
// deletion, matching what the rest of the system is allowed to do.
type RideRepository struct {
	DB *sql.DB
}

func (r RideRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

const rideSelect = `
	SELECT
		r.id,
		DATE_FORMAT(r.date, '%Y-%m-%d') AS date,
		r.provider_id,
		r.unit_id,
		COALESCE(r.start_location,'') AS start_location,
		COALESCE(r.destination,'') AS destination,
		r.payment_method,
		r.amount,
		r.has_commission,
		COALESCE(r.commission_amount,0) AS commission_amount,
		r.unit_requested_credit,
		r.provider_gave_credit,
		COALESCE(p.name,'') AS provider_name,
		COALESCE(u.name,'') AS unit_name
	FROM rides r
	LEFT JOIN providers p ON p.id = r.provider_id
	LEFT JOIN units u ON u.id = r.unit_id
`

// ListByDateRange returns rides with date in [from, to], ascending by date.
func (r RideRepository) ListByDateRange(from, to string) ([]models.Ride, error) {
	query := rideSelect + ` WHERE r.date >= ? AND r.date <= ? ORDER BY r.date ASC, r.id ASC`
	rows, err := r.db().Query(query, strings.TrimSpace(from), strings.TrimSpace(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Ride{}
	for rows.Next() {
		rec, err := scanRide(rows)
		if err != nil {
			return out, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// GetByID loads a single ride with counterparty names.
func (r RideRepository) GetByID(id int64) (models.Ride, error) {
	row := r.db().QueryRow(rideSelect+` WHERE r.id = ?`, id)
	return scanRide(row)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRide(row rowScanner) (models.Ride, error) {
	var rec models.Ride
	err := row.Scan(
		&rec.ID,
		&rec.Date,
		&rec.ProviderID,
		&rec.UnitID,
		&rec.StartLocation,
		&rec.Destination,
		&rec.PaymentMethod,
		&rec.Amount,
		&rec.HasCommission,
		&rec.CommissionAmount,
		&rec.UnitRequestedCredit,
		&rec.ProviderGaveCredit,
		&rec.ProviderName,
		&rec.UnitName,
	)
	return rec, err
}

// Create inserts a ride. The stored commission_amount is computed here once
// (amount * 10% when flagged); reporting never reads it back.
func (r RideRepository) Create(ride models.Ride) (int64, error) {
	commission := 0.0
	if ride.HasCommission {
		commission = ride.Amount * settlement.CommissionRate
	}

	res, err := r.db().Exec(`
		INSERT INTO rides
			(date, provider_id, unit_id, start_location, destination,
			 payment_method, amount, has_commission, commission_amount,
			 unit_requested_credit, provider_gave_credit)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		ride.Date,
		ride.ProviderID,
		ride.UnitID,
		strings.TrimSpace(ride.StartLocation),
		strings.TrimSpace(ride.Destination),
		ride.PaymentMethod,
		ride.Amount,
		ride.HasCommission,
		commission,
		ride.UnitRequestedCredit,
		ride.ProviderGaveCredit,
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// UpdateAmount corrects a ride's amount post-hoc.
func (r RideRepository) UpdateAmount(id int64, amount float64) error {
	res, err := r.db().Exec(`UPDATE rides SET amount = ? WHERE id = ?`, amount, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a ride permanently.
func (r RideRepository) Delete(id int64) error {
	res, err := r.db().Exec(`DELETE FROM rides WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
