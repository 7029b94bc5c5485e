package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/referiq/backend/internal/db"
	"github.com/referiq/backend/internal/models"
)

const referralColumns = `id, referrer_name, referrer_email,
        recipient_first_name, recipient_last_name, recipient_email,
        candidate_name, candidate_email, position, relationship,
        linkedin_url, portfolio_url, endorsement_text, why_fit, culture_alignment,
        resume_file_path, video_file_path, thumbnail_url, status, created_at, updated_at`

// PostgresReferralRepository provides PostgreSQL-backed persistence for referrals.
type PostgresReferralRepository struct {
	pool db.Pool
}

// NewPostgresReferralRepository constructs a referral repository backed by PostgreSQL.
func NewPostgresReferralRepository(pool db.Pool) *PostgresReferralRepository {
	return &PostgresReferralRepository{pool: pool}
}

// Create persists a new referral record and returns it with server-assigned timestamps.
func (r *PostgresReferralRepository) Create(ctx context.Context, referral models.Referral) (models.Referral, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Referral{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	status := referral.Status
	if status == "" {
		status = models.StatusPending
	}

	row := conn.QueryRow(ctx, `
        INSERT INTO referrals (id, referrer_name, referrer_email,
            recipient_first_name, recipient_last_name, recipient_email,
            candidate_name, candidate_email, position, relationship,
            linkedin_url, portfolio_url, endorsement_text, why_fit, culture_alignment,
            resume_file_path, video_file_path, thumbnail_url, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19)
        RETURNING `+referralColumns,
		referral.ID, referral.ReferrerName, referral.ReferrerEmail,
		referral.RecipientFirstName, referral.RecipientLastName, referral.RecipientEmail,
		referral.CandidateName, referral.CandidateEmail, referral.Position, referral.Relationship,
		referral.LinkedInURL, referral.PortfolioURL, referral.EndorsementText, referral.WhyFit, referral.CultureAlignment,
		referral.ResumeFilePath, referral.VideoFilePath, referral.ThumbnailURL, status)

	inserted, err := scanReferral(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return models.Referral{}, ErrConflict
		}
		return models.Referral{}, fmt.Errorf("insert referral: %w", err)
	}

	return inserted, nil
}

// GetByID fetches a single referral.
func (r *PostgresReferralRepository) GetByID(ctx context.Context, id string) (models.Referral, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return models.Referral{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	row := conn.QueryRow(ctx, `SELECT `+referralColumns+` FROM referrals WHERE id = $1`, id)

	referral, err := scanReferral(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Referral{}, ErrNotFound
		}
		return models.Referral{}, fmt.Errorf("select referral: %w", err)
	}

	return referral, nil
}

// List returns referrals in reverse chronological order.
func (r *PostgresReferralRepository) List(ctx context.Context) ([]models.Referral, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	rows, err := conn.Query(ctx, `
        SELECT `+referralColumns+`
        FROM referrals
        ORDER BY created_at DESC
        LIMIT 200`)
	if err != nil {
		return nil, fmt.Errorf("query referrals: %w", err)
	}
	defer rows.Close()

	var referrals []models.Referral
	for rows.Next() {
		referral, err := scanReferral(rows)
		if err != nil {
			return nil, fmt.Errorf("scan referral: %w", err)
		}
		referrals = append(referrals, referral)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate referrals: %w", err)
	}

	return referrals, nil
}

// UpdateStatus transitions a referral's status and bumps updated_at.
func (r *PostgresReferralRepository) UpdateStatus(ctx context.Context, id, status string) error {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	tag, err := conn.Exec(ctx, `
        UPDATE referrals
        SET status = $2, updated_at = $3
        WHERE id = $1
    `, id, status, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("update referral status: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReferral(row rowScanner) (models.Referral, error) {
	var ref models.Referral
	err := row.Scan(
		&ref.ID, &ref.ReferrerName, &ref.ReferrerEmail,
		&ref.RecipientFirstName, &ref.RecipientLastName, &ref.RecipientEmail,
		&ref.CandidateName, &ref.CandidateEmail, &ref.Position, &ref.Relationship,
		&ref.LinkedInURL, &ref.PortfolioURL, &ref.EndorsementText, &ref.WhyFit, &ref.CultureAlignment,
		&ref.ResumeFilePath, &ref.VideoFilePath, &ref.ThumbnailURL, &ref.Status,
		&ref.CreatedAt, &ref.UpdatedAt,
	)
	return ref, err
}
