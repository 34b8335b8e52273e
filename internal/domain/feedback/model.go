package feedback

import (
	"context"
	"time"
)

// MaxMessageLength caps user feedback submissions.
const MaxMessageLength = 2000

type Feedback struct {
	ID        string    `json:"id"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Repository persists feedback submissions. The portal ships an in-memory
// implementation; a document store can replace it behind this interface.
type Repository interface {
	Create(ctx context.Context, fb *Feedback) error
}
