package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Winner tallies a user's medals across marathons.
type Winner struct {
	bun.BaseModel `bun:"table:MarathonWinner,alias:mw"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	UserID      string    `bun:"userId,notnull" json:"userId"`
	GoldCount   int       `bun:"goldCount,notnull" json:"goldCount"`
	SilverCount int       `bun:"silverCount,notnull" json:"silverCount"`
	BronzeCount int       `bun:"bronzeCount,notnull" json:"bronzeCount"`
	CreatedAt   time.Time `bun:"createdAt,notnull" json:"createdAt"`
	UpdatedAt   time.Time `bun:"updatedAt,notnull" json:"updatedAt"`
}
