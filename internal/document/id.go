package document

import (
	"time"

	"github.com/google/uuid"
)

// New creates a fresh PublishingDocument in CREATED state for the given
// brief. The page name is derived once from the title and is never
// recomputed.
func New(brief TopicBrief, title string) *PublishingDocument {
	now := time.Now()
	return &PublishingDocument{
		ID:            uuid.NewString(),
		PageName:      CamelCase(title),
		Title:         title,
		State:         StateCreated,
		Brief:         brief,
		CreatedAt:     now,
		UpdatedAt:     now,
		Contributions: []AgentContribution{},
	}
}
