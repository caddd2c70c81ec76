package session

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"hrhub/internal/domain/auth"
	"hrhub/internal/platform/crypto"
)

type PostgresPersister struct {
	DB     *pgxpool.Pool
	Sealer *crypto.Sealer
}

func NewPostgresPersister(db *pgxpool.Pool, sealer *crypto.Sealer) *PostgresPersister {
	return &PostgresPersister{DB: db, Sealer: sealer}
}

func (p *PostgresPersister) Load(ctx context.Context, id string) (Snapshot, error) {
	var rec authRecord
	var kind string
	var userJSON, profileJSON []byte
	err := p.DB.QueryRow(ctx, `
    SELECT id, kind, user_json, profile_json, token_sealed, device_token, current_review_id, expires_at
    FROM portal_sessions
    WHERE id = $1
  `, id).Scan(&rec.ID, &kind, &userJSON, &profileJSON, &rec.TokenSealed, &rec.DeviceToken, &rec.CurrentReviewID, &rec.ExpiresAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Snapshot{}, ErrNotFound
	}
	if err != nil {
		return Snapshot{}, err
	}
	rec.Kind = auth.Kind(kind)
	if len(userJSON) > 0 && string(userJSON) != "null" {
		var u User
		if err := json.Unmarshal(userJSON, &u); err != nil {
			return Snapshot{}, err
		}
		rec.User = &u
	}
	var profile *User
	if len(profileJSON) > 0 && string(profileJSON) != "null" {
		var u User
		if err := json.Unmarshal(profileJSON, &u); err != nil {
			return Snapshot{}, err
		}
		profile = &u
	}
	rec.IsAuthenticated = rec.User != nil && len(rec.TokenSealed) > 0
	return fromRecord(p.Sealer, rec, profile)
}

func (p *PostgresPersister) Save(ctx context.Context, snap Snapshot) error {
	rec, err := toRecord(p.Sealer, snap)
	if err != nil {
		return err
	}
	userJSON, err := json.Marshal(rec.User)
	if err != nil {
		return err
	}
	profileJSON, err := json.Marshal(snap.Profile)
	if err != nil {
		return err
	}
	_, err = p.DB.Exec(ctx, `
    INSERT INTO portal_sessions (id, kind, user_json, profile_json, token_sealed, device_token, current_review_id, expires_at, updated_at)
    VALUES ($1,$2,$3,$4,$5,$6,$7,$8, now())
    ON CONFLICT (id) DO UPDATE
    SET kind = EXCLUDED.kind,
        user_json = EXCLUDED.user_json,
        profile_json = EXCLUDED.profile_json,
        token_sealed = EXCLUDED.token_sealed,
        device_token = EXCLUDED.device_token,
        current_review_id = EXCLUDED.current_review_id,
        expires_at = EXCLUDED.expires_at,
        updated_at = now()
  `, rec.ID, string(rec.Kind), userJSON, profileJSON, rec.TokenSealed, rec.DeviceToken, rec.CurrentReviewID, rec.ExpiresAt)
	return err
}

func (p *PostgresPersister) Delete(ctx context.Context, id string) error {
	_, err := p.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE id = $1", id)
	return err
}

func (p *PostgresPersister) Sweep(ctx context.Context, now time.Time) (int, error) {
	tag, err := p.DB.Exec(ctx, "DELETE FROM portal_sessions WHERE expires_at <= $1", now)
	if err != nil {
		return 0, err
	}
	return int(tag.RowsAffected()), nil
}
