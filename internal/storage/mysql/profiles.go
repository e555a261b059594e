package mysql

import (
	"context"
	"database/sql"
	"errors"

	"umrah_booking/internal/domain"
)

func (r *Repo) UpsertProfile(ctx context.Context, p domain.Profile) error {
	_, err := r.db.ExecContext(ctx, upsertProfileSQL,
		p.ID,
		p.Email,
		p.FullName,
		valStr(p.Phone),
		string(p.Role),
		p.PreferredLang,
		p.CreatedAt,
	)
	return mapErr(err)
}

func (r *Repo) DeleteProfile(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, deleteProfileSQL, id)
	if err != nil {
		return err
	}
	return affectedOrNotFound(res)
}

func (r *Repo) GetProfile(ctx context.Context, id string) (domain.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, getProfileSQL, id))
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Profile{}, domain.ErrNotFound
	}
	return p, err
}

func (r *Repo) ListProfiles(ctx context.Context, limit int) ([]domain.Profile, error) {
	query, args := withLimit(listProfilesSQL, limit, nil)
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []domain.Profile{}
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func (r *Repo) CountProfiles(ctx context.Context) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, countProfilesSQL).Scan(&n)
	return n, err
}

func scanProfile(row rowScanner) (domain.Profile, error) {
	var p domain.Profile
	var role string
	var phone sql.NullString
	if err := row.Scan(&p.ID, &p.Email, &p.FullName, &phone, &role, &p.PreferredLang, &p.CreatedAt); err != nil {
		return domain.Profile{}, err
	}
	p.Phone = phone.String
	p.Role = domain.Role(role)
	return p, nil
}
