package entity

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSubmissionRejected marks a payload the support requests API refused;
// replaying it can never succeed.
var ErrSubmissionRejected = errors.New("submission rejected")

const (
	OutboxPending = "pending"
	OutboxSent    = "sent"
	OutboxFailed  = "failed"
)

// OutboxItem is a support request the API did not accept yet.
// Body is the exact JSON document that will be replayed.
type OutboxItem struct {
	ID            string    `json:"id" bson:"id"`
	Reference     string    `json:"reference" bson:"reference"`
	Body          []byte    `json:"-" bson:"body"`
	NotifyEmail   string    `json:"-" bson:"notify_email"`
	FirstName     string    `json:"-" bson:"first_name"`
	Status        string    `json:"status" bson:"status"`
	Attempts      int       `json:"attempts" bson:"attempts"`
	LastError     string    `json:"last_error,omitempty" bson:"last_error"`
	NextAttemptAt time.Time `json:"next_attempt_at" bson:"next_attempt_at"`
	CreatedAt     time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" bson:"updated_at"`
}

func NewOutboxItem(reference string, body []byte, notifyEmail, firstName string) *OutboxItem {
	now := time.Now()
	return &OutboxItem{
		ID:            uuid.NewString(),
		Reference:     reference,
		Body:          body,
		NotifyEmail:   notifyEmail,
		FirstName:     firstName,
		Status:        OutboxPending,
		NextAttemptAt: now,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// OutboxEvent is broadcast to admin dashboards when an item changes.
type OutboxEvent struct {
	Type string      `json:"type"`
	Item *OutboxItem `json:"item"`
}
