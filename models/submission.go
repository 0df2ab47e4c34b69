package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Submission is a participant's answer to a step.
type Submission struct {
	bun.BaseModel `bun:"table:StepSubmission,alias:ss"`

	ID            uuid.UUID       `bun:"id,pk,type:uuid" json:"id"`
	ParticipantID uuid.UUID       `bun:"participantId,notnull,type:uuid" json:"participantId"`
	StepID        uuid.UUID       `bun:"stepId,notnull,type:uuid" json:"stepId"`
	StartAt       time.Time       `bun:"startAt,notnull" json:"startAt"`
	EndAt         time.Time       `bun:"endAt,notnull" json:"endAt"`
	IsCompleted   bool            `bun:"isCompleted,notnull" json:"isCompleted"`
	IsChecked     bool            `bun:"isChecked,notnull" json:"isChecked"`
	Rating        int             `bun:"rating,notnull" json:"rating"`
	PayloadJSON   json.RawMessage `bun:"payloadJson,type:jsonb,nullzero" json:"payloadJson,omitempty"`
	CreatedAt     time.Time       `bun:"createdAt,notnull" json:"createdAt"`
	UpdatedAt     time.Time       `bun:"updatedAt,notnull" json:"updatedAt"`

	Participant *Participant `bun:"rel:belongs-to,join:participantId=id" json:"-"`
	Step        *Step        `bun:"rel:belongs-to,join:stepId=id" json:"-"`
}
