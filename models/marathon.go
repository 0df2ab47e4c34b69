// Package models holds the destination tables written by the importer.
//
// Columns carry no bun default tag: every insert writes the value the importer
// computed, so false and 0 reach the database as-is.
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Marathon is the root of the hierarchy.
type Marathon struct {
	bun.BaseModel `bun:"table:Marathon,alias:m"`

	ID              uuid.UUID  `bun:"id,pk,type:uuid" json:"id"`
	LanguageCode    string     `bun:"languageCode,notnull" json:"languageCode"`
	Title           string     `bun:"title,notnull" json:"title"`
	Slug            string     `bun:"slug,notnull" json:"slug"`
	RulesTemplate   *string    `bun:"rulesTemplate" json:"rulesTemplate,omitempty"`
	Active          bool       `bun:"active,notnull" json:"active"`
	LandingVideoURL *string    `bun:"landingVideoUrl" json:"landingVideoUrl,omitempty"`
	VIPGateDate     *time.Time `bun:"vipGateDate" json:"vipGateDate,omitempty"`
	DiscountEndsAt  *time.Time `bun:"discountEndsAt" json:"discountEndsAt,omitempty"`
	CoverImageURL   *string    `bun:"coverImageUrl" json:"coverImageUrl,omitempty"`
	CreatedAt       time.Time  `bun:"createdAt,notnull" json:"createdAt"`
	UpdatedAt       time.Time  `bun:"updatedAt,notnull" json:"updatedAt"`
}
