package leads

import (
	"strings"
	"time"
)

// Lead is a contact captured from a chat session and handed to the CRM.
type Lead struct {
	ID                 string    `json:"id"`
	SessionID          string    `json:"session_id"`
	Name               string    `json:"name,omitempty"`
	Email              string    `json:"email"`
	Phone              string    `json:"phone,omitempty"`
	Score              int       `json:"score"`
	Priority           string    `json:"priority"`
	RecommendedService string    `json:"recommended_service,omitempty"`
	AnnualSavings      float64   `json:"annual_savings,omitempty"`
	ROIPercent         float64   `json:"roi_percent,omitempty"`
	HubSpotContactID   string    `json:"hubspot_contact_id,omitempty"`
	CreatedAt          time.Time `json:"created_at"`
}

// CreateLeadRequest represents a lead about to be recorded.
type CreateLeadRequest struct {
	SessionID          string  `json:"session_id"`
	Name               string  `json:"name"`
	Email              string  `json:"email"`
	Phone              string  `json:"phone"`
	Score              int     `json:"score"`
	Priority           string  `json:"priority"`
	RecommendedService string  `json:"recommended_service"`
	AnnualSavings      float64 `json:"annual_savings"`
	ROIPercent         float64 `json:"roi_percent"`
	HubSpotContactID   string  `json:"hubspot_contact_id"`
}

// Validate validates the create lead request.
func (r *CreateLeadRequest) Validate() error {
	if strings.TrimSpace(r.SessionID) == "" {
		return ErrMissingSession
	}
	if strings.TrimSpace(r.Email) == "" {
		return ErrMissingEmail
	}
	return nil
}

// ListLeadsFilter narrows a lead listing.
type ListLeadsFilter struct {
	Priority string
	Limit    int
	Offset   int
}
