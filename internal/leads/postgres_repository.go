package leads

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB is the slice of the pgx pool API the repository uses. Satisfied by
// *pgxpool.Pool and by pgxmock in tests.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores leads in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by a pgx pool.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("leads: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO captured_leads (
			id, session_id, name, email, phone, score, priority,
			recommended_service, annual_savings, roi_percent, hubspot_contact_id
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.SessionID,
		req.Name,
		req.Email,
		req.Phone,
		req.Score,
		req.Priority,
		req.RecommendedService,
		req.AnnualSavings,
		req.ROIPercent,
		req.HubSpotContactID,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("leads: insert failed: %w", err)
	}

	return &Lead{
		ID:                 id.String(),
		SessionID:          req.SessionID,
		Name:               req.Name,
		Email:              req.Email,
		Phone:              req.Phone,
		Score:              req.Score,
		Priority:           req.Priority,
		RecommendedService: req.RecommendedService,
		AnnualSavings:      req.AnnualSavings,
		ROIPercent:         req.ROIPercent,
		HubSpotContactID:   req.HubSpotContactID,
		CreatedAt:          createdAt,
	}, nil
}

// GetByEmail fetches the most recent lead for an email address.
func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	query := `
		SELECT id, session_id, name, email, phone, score, priority,
		       recommended_service, annual_savings, roi_percent,
		       hubspot_contact_id, created_at
		FROM captured_leads
		WHERE email = $1
		ORDER BY created_at DESC
		LIMIT 1
	`
	row := r.db.QueryRow(ctx, query, email)
	lead, err := scanLead(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("leads: select failed: %w", err)
	}
	return lead, nil
}

// List returns leads newest first, optionally filtered by priority.
func (r *PostgresRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := `
		SELECT id, session_id, name, email, phone, score, priority,
		       recommended_service, annual_savings, roi_percent,
		       hubspot_contact_id, created_at
		FROM captured_leads
		WHERE ($1 = '' OR priority = $1)
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`
	rows, err := r.db.Query(ctx, query, filter.Priority, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("leads: list failed: %w", err)
	}
	defer rows.Close()

	leads := make([]*Lead, 0, limit)
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("leads: scan failed: %w", err)
		}
		leads = append(leads, lead)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("leads: rows failed: %w", err)
	}
	return leads, nil
}

func scanLead(row pgx.Row) (*Lead, error) {
	var lead Lead
	if err := row.Scan(
		&lead.ID,
		&lead.SessionID,
		&lead.Name,
		&lead.Email,
		&lead.Phone,
		&lead.Score,
		&lead.Priority,
		&lead.RecommendedService,
		&lead.AnnualSavings,
		&lead.ROIPercent,
		&lead.HubSpotContactID,
		&lead.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &lead, nil
}
