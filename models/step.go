package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Step is one task of a marathon.
type Step struct {
	bun.BaseModel `bun:"table:MarathonStep,alias:ms"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	MarathonID  uuid.UUID `bun:"marathonId,notnull,type:uuid" json:"marathonId"`
	Title       string    `bun:"title,notnull" json:"title"`
	Sequence    int       `bun:"sequence,notnull" json:"sequence"`
	IsPenalized bool      `bun:"isPenalized,notnull" json:"isPenalized"`
	FormKey     *string   `bun:"formKey" json:"formKey,omitempty"`
	SocialLink  *string   `bun:"socialLink" json:"socialLink,omitempty"`
	IsTrialStep bool      `bun:"isTrialStep,notnull" json:"isTrialStep"`
	CreatedAt   time.Time `bun:"createdAt,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updatedAt,notnull" json:"updatedAt"`

	Marathon *Marathon `bun:"rel:belongs-to,join:marathonId=id" json:"-"`
}
