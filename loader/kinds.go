package loader

import (
	"context"

	"github.com/padraicbc/marathon-import/db"
	"github.com/padraicbc/marathon-import/export"
	"github.com/padraicbc/marathon-import/models"
	"github.com/padraicbc/marathon-import/remap"
	"github.com/padraicbc/marathon-import/sanitize"
)

// Every convert function checks parents before calling Assign, so a dropped
// record never gets an id.

func (im *Importer) loadMarathons(ctx context.Context, ins db.Inserter) (KindStats, error) {
	return drain(ctx, im, ins, export.MarathonsArray, im.marathonRow)
}

func (im *Importer) marathonRow(m export.Marathon) (models.Marathon, bool) {
	if m.ID.IsZero() {
		return models.Marathon{}, false
	}
	folder := sanitize.Slug(m.Folder.Or(""))
	if folder == "" {
		folder = "marathon"
	}
	return models.Marathon{
		ID:              im.remap.Assign(remap.Marathon, m.ID),
		LanguageCode:    m.LanguageCode.Or("en"),
		Title:           m.Title.Or(""),
		Slug:            folder + "-" + sanitize.Slug(m.ID.String()),
		RulesTemplate:   m.RulesTemplate.Ptr(),
		Active:          m.Active.Or(false),
		LandingVideoURL: m.LandingVideo.Ptr(),
		VIPGateDate:     m.VIPSince.Time(),
		DiscountEndsAt:  m.DiscountTill.Time(),
		CoverImageURL:   m.Image.Ptr(),
		CreatedAt:       im.loadedAt,
		UpdatedAt:       im.loadedAt,
	}, true
}

func (im *Importer) loadSteps(ctx context.Context, ins db.Inserter) (KindStats, error) {
	return drain(ctx, im, ins, export.StepsArray, im.stepRow)
}

func (im *Importer) stepRow(s export.Step) (models.Step, bool) {
	marathonID, ok := im.remap.Resolve(remap.Marathon, s.MarathonID)
	if !ok || s.ID.IsZero() {
		return models.Step{}, false
	}
	return models.Step{
		ID:          im.remap.Assign(remap.Step, s.ID),
		MarathonID:  marathonID,
		Title:       s.Title.Or(""),
		Sequence:    s.Order.Or(0),
		IsPenalized: s.Penalize.Or(true),
		FormKey:     s.FormClass.Ptr(),
		SocialLink:  s.SNLink.Ptr(),
		IsTrialStep: s.Trial.Or(false),
		CreatedAt:   im.loadedAt,
		UpdatedAt:   im.loadedAt,
	}, true
}

func (im *Importer) loadParticipants(ctx context.Context, ins db.Inserter) (KindStats, error) {
	return drain(ctx, im, ins, export.MarathonersArray, im.participantRow)
}

func (im *Importer) participantRow(r export.Marathoner) (models.Participant, bool) {
	marathonID, ok := im.remap.Resolve(remap.Marathon, r.MarathonID)
	if !ok || r.ID.IsZero() {
		return models.Participant{}, false
	}
	created := im.loadedAt
	if t := r.Created.Time(); t != nil {
		created = *t
	}
	return models.Participant{
		ID:              im.remap.Assign(remap.Participant, r.ID),
		UserID:          r.UserID.Ptr(),
		MarathonID:      marathonID,
		Email:           r.Email.Ptr(),
		Name:            r.Name.Ptr(),
		IsFree:          r.IsFree.Or(true),
		VIPRequired:     r.VIPRequired.Or(false),
		PaymentReported: r.PaymentReported.Or(false),
		BonusDaysLeft:   r.Days.Or(7),
		CanUsePenalty:   r.CanUsePenalty.Or(true),
		Active:          r.Active.Or(true),
		ReportHour:      sanitize.TimeOnDate(r.ReportHour.Or(""), created, im.loadedAt),
		HasWarning:      r.HasWarning.Or(false),
		CreatedAt:       created,
		FinishedAt:      r.FinishDate.Time(),
	}, true
}

func (im *Importer) loadSubmissions(ctx context.Context, ins db.Inserter) (KindStats, error) {
	return drain(ctx, im, ins, export.AnswersArray, im.submissionRow)
}

func (im *Importer) submissionRow(a export.Answer) (models.Submission, bool) {
	participantID, ok := im.remap.Resolve(remap.Participant, a.MarathonerID)
	if !ok {
		return models.Submission{}, false
	}
	stepID, ok := im.remap.Resolve(remap.Step, a.StepID)
	if !ok {
		return models.Submission{}, false
	}
	start := im.loadedAt
	if t := a.Start.Time(); t != nil {
		start = *t
	}
	end := start
	if t := a.Stop.Time(); t != nil {
		end = *t
	}
	return models.Submission{
		ID:            im.remap.Mint(),
		ParticipantID: participantID,
		StepID:        stepID,
		StartAt:       start,
		EndAt:         end,
		IsCompleted:   a.Completed.Or(false),
		IsChecked:     a.Checked.Or(false),
		Rating:        a.Rating.Or(0),
		PayloadJSON:   sanitize.Payload(a.Value),
		CreatedAt:     im.loadedAt,
		UpdatedAt:     im.loadedAt,
	}, true
}

func (im *Importer) loadWinners(ctx context.Context, ins db.Inserter) (KindStats, error) {
	return drain(ctx, im, ins, export.WinnersArray, im.winnerRow)
}

func (im *Importer) winnerRow(w export.Winner) (models.Winner, bool) {
	if w.ID.IsZero() {
		return models.Winner{}, false
	}
	return models.Winner{
		ID:          im.remap.Assign(remap.Winner, w.ID),
		UserID:      w.UserID.Or(""),
		GoldCount:   w.Gold.Or(0),
		SilverCount: w.Silver.Or(0),
		BronzeCount: w.Bronze.Or(0),
		CreatedAt:   im.loadedAt,
		UpdatedAt:   im.loadedAt,
	}, true
}
