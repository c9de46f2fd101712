package events

import "time"

const OrganizationApprovedTopic = "organization.lifecycle.v1"

// OrganizationApprovedEvent announces that a signup request was finalized and
// its organization provisioned. The consumer notifies the requesting admin.
type OrganizationApprovedEvent struct {
	EventType        string    `json:"event_type"`
	RequestID        string    `json:"request_id"`
	OrganizationID   string    `json:"organization_id"`
	OrganizationName string    `json:"organization_name"`
	AdminEmail       string    `json:"admin_email"`
	OccurredAt       time.Time `json:"occurred_at"`
}
