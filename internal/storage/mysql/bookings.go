package mysql

import (
	"context"
	"database/sql"
	"errors"

	"umrah_booking/internal/domain"
)

func (r *Repo) InsertBooking(ctx context.Context, b domain.Booking) error {
	_, err := r.db.ExecContext(ctx, insertBookingSQL,
		b.ID,
		b.ListingID,
		string(b.Kind),
		b.CustomerID,
		valStr(b.ProviderID),
		b.Guests,
		b.Total,
		valStr(b.Currency),
		string(b.Status),
		valStr(b.Notes),
		b.CreatedAt,
		b.UpdatedAt,
	)
	return mapErr(err)
}

func (r *Repo) UpdateBookingStatus(ctx context.Context, id string, s domain.BookingStatus) error {
	res, err := r.db.ExecContext(ctx, updateBookingStatusSQL, string(s), id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *Repo) DeleteBooking(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteBookingSQL, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *Repo) GetBooking(ctx context.Context, id string) (domain.Booking, error) {
	b, err := scanBooking(r.db.QueryRowContext(ctx, getBookingSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Booking{}, domain.ErrNotFound
	}
	return b, err
}

func (r *Repo) ListBookings(ctx context.Context, q domain.BookingsQuery) ([]domain.Booking, error) {
	query, args := withLimit(listBookingsSQL, q.Limit,
		[]any{q.CustomerID, q.CustomerID, q.ProviderID, q.ProviderID})
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *Repo) CountBookingsByStatus(ctx context.Context, q domain.BookingsQuery) (map[domain.BookingStatus]int, error) {
	rows, err := r.db.QueryContext(ctx, countBookingsSQL, q.CustomerID, q.CustomerID, q.ProviderID, q.ProviderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := map[domain.BookingStatus]int{}
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, err
		}
		out[domain.BookingStatus(st)] = n
	}
	return out, rows.Err()
}

func scanBooking(row rowScanner) (domain.Booking, error) {
	var b domain.Booking
	var kind, status string
	var provider, currency, notes sql.NullString
	if err := row.Scan(
		&b.ID,
		&b.ListingID,
		&kind,
		&b.CustomerID,
		&provider,
		&b.Guests,
		&b.Total,
		&currency,
		&status,
		&notes,
		&b.CreatedAt,
		&b.UpdatedAt,
	); err != nil {
		return domain.Booking{}, err
	}
	b.Kind = domain.Kind(kind)
	b.Status = domain.BookingStatus(status)
	b.ProviderID = provider.String
	b.Currency = currency.String
	b.Notes = notes.String
	return b, nil
}
