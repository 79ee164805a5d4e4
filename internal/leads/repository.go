package leads

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for lead storage
type Repository interface {
	Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error)
	GetByEmail(ctx context.Context, email string) (*Lead, error)
	List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error)
}

// InMemoryRepository keeps leads in process memory. Used when no
// database is configured.
type InMemoryRepository struct {
	mu    sync.RWMutex
	leads map[string]*Lead
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		leads: make(map[string]*Lead),
	}
}

// Create records a new lead in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateLeadRequest) (*Lead, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	lead := &Lead{
		ID:                 uuid.New().String(),
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
		CreatedAt:          time.Now().UTC(),
	}

	r.mu.Lock()
	r.leads[lead.ID] = lead
	r.mu.Unlock()

	return lead, nil
}

// GetByEmail retrieves the most recent lead for an email address.
func (r *InMemoryRepository) GetByEmail(ctx context.Context, email string) (*Lead, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var found *Lead
	for _, lead := range r.leads {
		if lead.Email != email {
			continue
		}
		if found == nil || lead.CreatedAt.After(found.CreatedAt) {
			found = lead
		}
	}
	if found == nil {
		return nil, ErrLeadNotFound
	}
	return found, nil
}

// List returns leads newest first, optionally filtered by priority.
func (r *InMemoryRepository) List(ctx context.Context, filter ListLeadsFilter) ([]*Lead, error) {
	r.mu.RLock()
	all := make([]*Lead, 0, len(r.leads))
	for _, lead := range r.leads {
		if filter.Priority != "" && lead.Priority != filter.Priority {
			continue
		}
		all = append(all, lead)
	}
	r.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(all) {
			return []*Lead{}, nil
		}
		all = all[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(all) {
		all = all[:filter.Limit]
	}
	return all, nil
}
