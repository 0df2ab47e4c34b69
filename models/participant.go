package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Participant is a user enrolled in a marathon. CreatedAt comes from the
// export, not the load.
type Participant struct {
	bun.BaseModel `bun:"table:MarathonParticipant,alias:mp"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	UserID          *string    `bun:"userId" json:"userId,omitempty"`
	MarathonID      uuid.UUID  `bun:"marathonId,notnull,type:uuid" json:"marathonId"`
	Email           *string    `bun:"email" json:"email,omitempty"`
	Name            *string    `bun:"name" json:"name,omitempty"`
	IsFree          bool       `bun:"isFree,notnull" json:"isFree"`
	VIPRequired     bool       `bun:"vipRequired,notnull" json:"vipRequired"`
	PaymentReported bool       `bun:"paymentReported,notnull" json:"paymentReported"`
	BonusDaysLeft   int        `bun:"bonusDaysLeft,notnull" json:"bonusDaysLeft"`
	CanUsePenalty   bool       `bun:"canUsePenalty,notnull" json:"canUsePenalty"`
	Active          bool       `bun:"active,notnull" json:"active"`
	ReportHour      time.Time  `bun:"reportHour,notnull" json:"reportHour"`
	HasWarning      bool       `bun:"hasWarning,notnull" json:"hasWarning"`
	CreatedAt       time.Time  `bun:"createdAt,notnull" json:"createdAt"`
	FinishedAt      *time.Time `bun:"finishedAt" json:"finishedAt,omitempty"`

	Marathon *Marathon `bun:"rel:belongs-to,join:marathonId=id" json:"-"`
}
