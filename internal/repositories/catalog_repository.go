package repositories

import (
	"database/sql"
	"strings"

	intconfig "carreras/internal/config"
	"carreras/internal/domain/models"
)

// CatalogRepository handles the providers and units reference tables.
type CatalogRepository struct {
	DB *sql.DB
}

func (r CatalogRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// ListProviders returns every provider, ascending by name.
func (r CatalogRepository) ListProviders() ([]models.Provider, error) {
	rows, err := r.db().Query(`SELECT id, name FROM providers ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Provider{}
	for rows.Next() {
		var p models.Provider
		if err := rows.Scan(&p.ID, &p.Name); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ListUnits returns every unit, ascending by name.
func (r CatalogRepository) ListUnits() ([]models.Unit, error) {
	rows, err := r.db().Query(`SELECT id, name FROM units ORDER BY name ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Unit{}
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.Name); err != nil {
			return out, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// CreateProvider inserts a provider by name.
func (r CatalogRepository) CreateProvider(name string) (int64, error) {
	res, err := r.db().Exec(`INSERT INTO providers (name) VALUES (?)`, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// CreateUnit inserts a unit by name.
func (r CatalogRepository) CreateUnit(name string) (int64, error) {
	res, err := r.db().Exec(`INSERT INTO units (name) VALUES (?)`, strings.TrimSpace(name))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteProvider removes a provider.
func (r CatalogRepository) DeleteProvider(id int64) error {
	res, err := r.db().Exec(`DELETE FROM providers WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteUnit removes a unit.
func (r CatalogRepository) DeleteUnit(id int64) error {
	res, err := r.db().Exec(`DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// ProviderExists checks referential integrity before creating a ride.
func (r CatalogRepository) ProviderExists(id int64) (bool, error) {
	var one int
	err := r.db().QueryRow(`SELECT 1 FROM providers WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// UnitExists checks referential integrity before creating a ride.
func (r CatalogRepository) UnitExists(id int64) (bool, error) {
	var one int
	err := r.db().QueryRow(`SELECT 1 FROM units WHERE id = ?`, id).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
