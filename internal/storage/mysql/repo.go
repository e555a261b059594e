package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	drv "github.com/go-sql-driver/mysql"

	"umrah_booking/internal/domain"
)

const errDupEntry = 1062

// mapErr turns unique-key violations into domain.ErrConflict.
func mapErr(err error) error {
	var me *drv.MySQLError
	if errors.As(err, &me) && me.Number == errDupEntry {
		return fmt.Errorf("%w: %s", domain.ErrConflict, me.Message)
	}
	return err
}

func valStr(s string) any {
	if s == "" {
		return nil
	}
	return s
}
func valF64(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}

type Repo struct{ db *sql.DB }

func New(db *sql.DB) *Repo { return &Repo{db: db} }

// rowScanner is satisfied by both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

// withLimit appends a LIMIT clause when limit > 0.
func withLimit(query string, limit int, args []any) (string, []any) {
	if limit <= 0 {
		return query, args
	}
	return query + "\nLIMIT ?", append(args, limit)
}

// ---- listings ----

func (r *Repo) SaveListing(ctx context.Context, l domain.Listing) error {
	details, err := marshalDetails(l)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, saveListingSQL,
		l.ID,
		string(l.Kind),
		valStr(l.ProviderID),
		l.Title.EN,
		valStr(l.Title.AR),
		valF64(l.Price),
		valStr(l.Currency),
		valF64(l.Rating),
		string(details),
		l.CreatedAt,
		l.UpdatedAt,
	)
	return mapErr(err)
}

func (r *Repo) DeleteListing(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteListingSQL, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *Repo) LogMiss(ctx context.Context, supplierID int64, status int, reason string) error {
	_, err := r.db.ExecContext(ctx, insertMissSQL, supplierID, status, reason)
	return err
}

func (r *Repo) GetListing(ctx context.Context, id string) (domain.Listing, error) {
	l, err := scanListing(r.db.QueryRowContext(ctx, getListingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Listing{}, domain.ErrNotFound
	}
	return l, err
}

func (r *Repo) ListListings(ctx context.Context, q domain.ListingsQuery) ([]domain.Listing, error) {
	var where []string
	var args []any
	if q.Kind != "" {
		where = append(where, "kind = ?")
		args = append(args, string(q.Kind))
	}
	if q.ProviderID != "" {
		where = append(where, "provider_id = ?")
		args = append(args, q.ProviderID)
	}
	query := "SELECT " + listingColumns + " FROM listings"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query, args = withLimit(query+" ORDER BY created_at, id", q.Limit, args)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Listing{}
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) CountListings(ctx context.Context, providerID string) (map[domain.Kind]int, error) {
	rows, err := r.db.QueryContext(ctx, countListingsSQL, providerID, providerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.Kind]int{}
	for rows.Next() {
		var kind string
		var n int
		if err := rows.Scan(&kind, &n); err != nil {
			return nil, err
		}
		out[domain.Kind(kind)] = n
	}
	return out, rows.Err()
}

func scanListing(row rowScanner) (domain.Listing, error) {
	var l domain.Listing
	var kind string
	var provider, titleAR, currency sql.NullString
	var price, rating sql.NullFloat64
	var details []byte

	if err := row.Scan(
		&l.ID,
		&kind,
		&provider,
		&l.Title.EN,
		&titleAR,
		&price,
		&currency,
		&rating,
		&details,
		&l.CreatedAt,
		&l.UpdatedAt,
	); err != nil {
		return domain.Listing{}, err
	}

	l.Kind = domain.Kind(kind)
	l.ProviderID = provider.String
	l.Title.AR = titleAR.String
	l.Currency = currency.String
	if price.Valid {
		p := price.Float64
		l.Price = &p
	}
	if rating.Valid {
		rt := rating.Float64
		l.Rating = &rt
	}
	if err := unmarshalDetails(&l, details); err != nil {
		return domain.Listing{}, fmt.Errorf("listing %s: %w", l.ID, err)
	}
	return l, nil
}

// marshalDetails stores only the payload matching Kind.
func marshalDetails(l domain.Listing) ([]byte, error) {
	var v any
	switch l.Kind {
	case domain.KindHotel:
		v = l.Hotel
	case domain.KindPackage:
		v = l.Package
	case domain.KindFlight:
		v = l.Flight
	case domain.KindTransport:
		v = l.Transport
	default:
		return nil, fmt.Errorf("%w: unknown listing kind %q", domain.ErrInvalid, l.Kind)
	}
	return json.Marshal(v)
}

func unmarshalDetails(l *domain.Listing, b []byte) error {
	if len(b) == 0 || string(b) == "null" {
		b = []byte("{}")
	}
	switch l.Kind {
	case domain.KindHotel:
		l.Hotel = &domain.HotelDetails{}
		return json.Unmarshal(b, l.Hotel)
	case domain.KindPackage:
		l.Package = &domain.PackageDetails{}
		return json.Unmarshal(b, l.Package)
	case domain.KindFlight:
		l.Flight = &domain.FlightDetails{}
		return json.Unmarshal(b, l.Flight)
	case domain.KindTransport:
		l.Transport = &domain.TransportDetails{}
		return json.Unmarshal(b, l.Transport)
	}
	return fmt.Errorf("unknown kind %q", l.Kind)
}

func affectedOrNotFound(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}
