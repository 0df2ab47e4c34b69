package export

import (
	"encoding/json"

	"github.com/padraicbc/marathon-import/remap"
	"github.com/padraicbc/marathon-import/sanitize"
)

// Array names inside the export document.
const (
	MarathonsArray   = "marathons"
	StepsArray       = "steps"
	MarathonersArray = "marathoners"
	AnswersArray     = "answers"
	WinnersArray     = "winners"
)

// Marathon is one element of "marathons".
type Marathon struct {
	ID            remap.LegacyID `json:"id"`
	Folder        sanitize.Text  `json:"folder"`
	LanguageCode  sanitize.Text  `json:"language_code"`
	Title         sanitize.Text  `json:"title"`
	RulesTemplate sanitize.Text  `json:"rules_template"`
	Active        sanitize.Bool  `json:"active"`
	LandingVideo  sanitize.Text  `json:"landing_video"`
	VIPSince      sanitize.Text  `json:"vip_since"`
	DiscountTill  sanitize.Text  `json:"discount_till"`
	Image         sanitize.Text  `json:"image"`
}

// Step is one element of "steps".
type Step struct {
	ID         remap.LegacyID `json:"id"`
	MarathonID remap.LegacyID `json:"marathon_id"`
	Title      sanitize.Text  `json:"title"`
	Order      sanitize.Int   `json:"order"`
	Penalize   sanitize.Bool  `json:"penalize"`
	FormClass  sanitize.Text  `json:"form_class"`
	SNLink     sanitize.Text  `json:"sn_link"`
	Trial      sanitize.Bool  `json:"trial"`
}

// Marathoner is one element of "marathoners".
type Marathoner struct {
	ID              remap.LegacyID `json:"id"`
	MarathonID      remap.LegacyID `json:"marathon_id"`
	UserID          sanitize.Text  `json:"user_id"`
	Email           sanitize.Text  `json:"email"`
	Name            sanitize.Text  `json:"name"`
	IsFree          sanitize.Bool  `json:"is_free"`
	VIPRequired     sanitize.Bool  `json:"vip_required"`
	PaymentReported sanitize.Bool  `json:"payment_reported"`
	Days            sanitize.Int   `json:"days"`
	CanUsePenalty   sanitize.Bool  `json:"can_use_penalty"`
	Active          sanitize.Bool  `json:"active"`
	ReportHour      sanitize.Text  `json:"report_hour"`
	HasWarning      sanitize.Bool  `json:"has_warning"`
	Created         sanitize.Text  `json:"created"`
	FinishDate      sanitize.Text  `json:"finish_date"`
}

// Answer is one element of "answers".
type Answer struct {
	ID           remap.LegacyID  `json:"id"`
	MarathonerID remap.LegacyID  `json:"marathoner_id"`
	StepID       remap.LegacyID  `json:"step_id"`
	Start        sanitize.Text   `json:"start"`
	Stop         sanitize.Text   `json:"stop"`
	Completed    sanitize.Bool   `json:"completed"`
	Checked      sanitize.Bool   `json:"checked"`
	Rating       sanitize.Int    `json:"rating"`
	Value        json.RawMessage `json:"value"`
}

// Winner is one element of "winners".
type Winner struct {
	ID     remap.LegacyID `json:"id"`
	UserID sanitize.Text  `json:"user_id"`
	Gold   sanitize.Int   `json:"gold"`
	Silver sanitize.Int   `json:"silver"`
	Bronze sanitize.Int   `json:"bronze"`
}
