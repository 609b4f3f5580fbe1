package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/feedingfoundation/locator/internal/models"
)

// LocationColumns is the column list shared by the SQL stores, in the order
// ScanLocation and LocationArgs use.
const LocationColumns = "id, name, type, address, city, state, zip, county, description, schedule, website, phone, active, lat, lng"

// RowScanner is satisfied by *sql.Row and *sql.Rows.
type RowScanner interface {
	Scan(dest ...any) error
}

func ScanLocation(row RowScanner) (models.Location, error) {
	var loc models.Location
	var active bool
	var lat, lng sql.NullFloat64

	err := row.Scan(
		&loc.ID, &loc.Name, &loc.Type, &loc.Address, &loc.City, &loc.State, &loc.Zip,
		&loc.County, &loc.Description, &loc.Schedule, &loc.Website, &loc.Phone,
		&active, &lat, &lng,
	)
	if err != nil {
		return models.Location{}, err
	}

	loc.SetActive(active)
	if lat.Valid {
		loc.Lat = &lat.Float64
	}
	if lng.Valid {
		loc.Lng = &lng.Float64
	}
	return loc, nil
}

// LocationArgs returns loc's values in LocationColumns order.
func LocationArgs(loc models.Location) []any {
	var lat, lng sql.NullFloat64
	if loc.Lat != nil {
		lat = sql.NullFloat64{Float64: *loc.Lat, Valid: true}
	}
	if loc.Lng != nil {
		lng = sql.NullFloat64{Float64: *loc.Lng, Valid: true}
	}
	return []any{
		loc.ID, loc.Name, loc.Type, loc.Address, loc.City, loc.State, loc.Zip,
		loc.County, loc.Description, loc.Schedule, loc.Website, loc.Phone,
		loc.IsActive(), lat, lng,
	}
}

// Placeholders renders n bind markers starting at 1, using mark to format
// each one ("?" style ignores the index).
func Placeholders(n int, mark func(i int) string) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = mark(i + 1)
	}
	return strings.Join(parts, ", ")
}

// DuplicateQuery finds another row with the same name and address, ignoring
// case. Its two markers are name then address, and the third excludes an ID.
func DuplicateQuery(mark func(i int) string) string {
	return fmt.Sprintf(
		"SELECT COUNT(*) FROM locations WHERE lower(trim(name)) = lower(trim(%s)) AND lower(trim(address)) = lower(trim(%s)) AND id <> %s",
		mark(1), mark(2), mark(3),
	)
}

// SQLLocations implements the location methods of Provider over a
// database/sql handle. The sqlite and postgres stores embed it and supply
// their own lifecycle.
type SQLLocations struct {
	DB *sql.DB
	// Mark renders the i-th bind marker.
	Mark func(i int) string
	// OrderBy keeps rows in insertion order.
	OrderBy string
}

func (q *SQLLocations) ready() error {
	if q.DB == nil {
		return ErrNotLoaded
	}
	return nil
}

func (q *SQLLocations) isDuplicate(tx *sql.Tx, loc models.Location) (bool, error) {
	var n int
	if err := tx.QueryRow(DuplicateQuery(q.Mark), loc.Name, loc.Address, loc.ID).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to check for duplicates: %w", err)
	}
	return n > 0, nil
}

func (q *SQLLocations) insert(tx *sql.Tx, loc models.Location) error {
	stmt := "INSERT INTO locations (" + LocationColumns + ") VALUES (" + Placeholders(15, q.Mark) + ")"
	_, err := tx.Exec(stmt, LocationArgs(loc)...)
	return err
}

func (q *SQLLocations) AddLocation(loc models.Location) (models.Location, error) {
	if err := q.ready(); err != nil {
		return models.Location{}, err
	}
	loc = Prepare(loc)

	tx, err := q.DB.Begin()
	if err != nil {
		return models.Location{}, err
	}
	defer func() { _ = tx.Rollback() }()

	dup, err := q.isDuplicate(tx, loc)
	if err != nil {
		return models.Location{}, err
	}
	if dup {
		return models.Location{}, fmt.Errorf("%w: %s (%s)", ErrDuplicate, loc.Name, loc.Address)
	}
	if err := q.insert(tx, loc); err != nil {
		return models.Location{}, fmt.Errorf("failed to insert location: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return models.Location{}, err
	}
	return loc, nil
}

func (q *SQLLocations) GetLocation(id string) (models.Location, error) {
	if err := q.ready(); err != nil {
		return models.Location{}, err
	}
	row := q.DB.QueryRow("SELECT "+LocationColumns+" FROM locations WHERE id = "+q.Mark(1), id)
	loc, err := ScanLocation(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Location{}, NotFound(id)
	}
	if err != nil {
		return models.Location{}, fmt.Errorf("failed to read location %s: %w", id, err)
	}
	return loc, nil
}

func (q *SQLLocations) GetAllLocations() ([]models.Location, error) {
	if err := q.ready(); err != nil {
		return nil, err
	}
	rows, err := q.DB.Query("SELECT " + LocationColumns + " FROM locations ORDER BY " + q.OrderBy)
	if err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	defer rows.Close()

	locs := []models.Location{}
	for rows.Next() {
		loc, err := ScanLocation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan location: %w", err)
		}
		locs = append(locs, loc)
	}
	return locs, rows.Err()
}

func (q *SQLLocations) UpdateLocation(loc models.Location) error {
	if err := q.ready(); err != nil {
		return err
	}

	tx, err := q.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	dup, err := q.isDuplicate(tx, loc)
	if err != nil {
		return err
	}
	if dup {
		return fmt.Errorf("%w: %s (%s)", ErrDuplicate, loc.Name, loc.Address)
	}

	// Every column but id, which becomes the final marker.
	cols := strings.Split(LocationColumns, ", ")[1:]
	sets := make([]string, len(cols))
	for i, c := range cols {
		sets[i] = c + " = " + q.Mark(i+1)
	}
	args := append(LocationArgs(loc)[1:], loc.ID)
	stmt := "UPDATE locations SET " + strings.Join(sets, ", ") + " WHERE id = " + q.Mark(len(cols)+1)

	res, err := tx.Exec(stmt, args...)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NotFound(loc.ID)
	}
	return tx.Commit()
}

func (q *SQLLocations) DeleteLocation(id string) error {
	if err := q.ready(); err != nil {
		return err
	}
	res, err := q.DB.Exec("DELETE FROM locations WHERE id = "+q.Mark(1), id)
	if err != nil {
		return fmt.Errorf("failed to delete location: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return NotFound(id)
	}
	return nil
}

func (q *SQLLocations) ReplaceAll(locs []models.Location) error {
	if err := q.ready(); err != nil {
		return err
	}
	filled, _ := BackfillIDs(locs)

	tx, err := q.DB.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec("DELETE FROM locations"); err != nil {
		return fmt.Errorf("failed to clear locations: %w", err)
	}
	for _, loc := range filled {
		if err := q.insert(tx, loc); err != nil {
			return fmt.Errorf("failed to insert location %s: %w", loc.ID, err)
		}
	}
	return tx.Commit()
}
