package handler

import (
	"strings"
	"time"

	"gavel/internal/court/models"
	"gavel/internal/court/service"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

type CreateCaseRequest struct {
	CaseNumber      string `json:"case_number"`
	Title           string `json:"title"`
	Type            string `json:"type"`
	Description     string `json:"description"`
	Priority        string `json:"priority"`
	Plaintiff       string `json:"plaintiff"`
	Defendant       string `json:"defendant"`
	PlaintiffLawyer string `json:"plaintiff_lawyer"`
	DefenseLawyer   string `json:"defense_lawyer"`
	AssignedJudge   string `json:"assigned_judge"`

	caseType models.CaseType
	priority models.Priority
	judgeID  *id.UserID
}

func (r *CreateCaseRequest) Validate() error {
	r.CaseNumber = strings.TrimSpace(r.CaseNumber)
	r.Title = strings.TrimSpace(r.Title)
	if r.CaseNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "case number is required")
	}
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(r.Plaintiff) == "" || strings.TrimSpace(r.Defendant) == "" {
		return dErrors.New(dErrors.CodeValidation, "plaintiff and defendant are required")
	}

	caseType, err := models.ParseCaseType(r.Type)
	if err != nil {
		return err
	}
	r.caseType = caseType

	priority, err := models.ParsePriority(r.Priority)
	if err != nil {
		return err
	}
	r.priority = priority

	if r.AssignedJudge != "" {
		judgeID, err := id.ParseUserID(r.AssignedJudge)
		if err != nil {
			return err
		}
		r.judgeID = &judgeID
	}
	return nil
}

// Input builds the service input from the validated request.
func (r *CreateCaseRequest) Input() service.CreateCaseInput {
	return service.CreateCaseInput{
		CaseNumber:      r.CaseNumber,
		Title:           r.Title,
		Type:            r.caseType,
		Description:     r.Description,
		Priority:        r.priority,
		Plaintiff:       strings.TrimSpace(r.Plaintiff),
		Defendant:       strings.TrimSpace(r.Defendant),
		PlaintiffLawyer: r.PlaintiffLawyer,
		DefenseLawyer:   r.DefenseLawyer,
		AssignedJudge:   r.judgeID,
	}
}

type UpdateCaseRequest struct {
	Title           *string `json:"title"`
	Description     *string `json:"description"`
	Priority        *string `json:"priority"`
	Plaintiff       *string `json:"plaintiff"`
	Defendant       *string `json:"defendant"`
	PlaintiffLawyer *string `json:"plaintiff_lawyer"`
	DefenseLawyer   *string `json:"defense_lawyer"`

	priority *models.Priority
}

func (r *UpdateCaseRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return dErrors.New(dErrors.CodeValidation, "title must not be empty")
	}
	if r.Priority != nil {
		priority, err := models.ParsePriority(*r.Priority)
		if err != nil {
			return err
		}
		r.priority = &priority
	}
	return nil
}

func (r *UpdateCaseRequest) Input() service.UpdateCaseInput {
	return service.UpdateCaseInput{
		Title:           r.Title,
		Description:     r.Description,
		Priority:        r.priority,
		Plaintiff:       r.Plaintiff,
		Defendant:       r.Defendant,
		PlaintiffLawyer: r.PlaintiffLawyer,
		DefenseLawyer:   r.DefenseLawyer,
	}
}

type AssignJudgeRequest struct {
	JudgeID string `json:"judge_id"`
	Notes   string `json:"notes"`

	judgeID id.UserID
}

func (r *AssignJudgeRequest) Validate() error {
	judgeID, err := id.ParseUserID(r.JudgeID)
	if err != nil {
		return err
	}
	r.judgeID = judgeID
	return nil
}

type PassSentenceRequest struct {
	Verdict        string  `json:"verdict"`
	SentenceType   string  `json:"sentence_type"`
	DurationYears  int     `json:"duration_years"`
	DurationMonths int     `json:"duration_months"`
	FineAmount     float64 `json:"fine_amount"`
	Notes          string  `json:"notes"`

	sentenceType models.SentenceType
}

func (r *PassSentenceRequest) Validate() error {
	r.Verdict = strings.TrimSpace(r.Verdict)
	if r.Verdict == "" {
		return dErrors.New(dErrors.CodeValidation, "verdict is required")
	}
	sentenceType, err := models.ParseSentenceType(r.SentenceType)
	if err != nil {
		return err
	}
	if r.DurationYears < 0 || r.DurationMonths < 0 || r.FineAmount < 0 {
		return dErrors.New(dErrors.CodeValidation, "sentence figures must not be negative")
	}
	r.sentenceType = sentenceType
	return nil
}

func (r *PassSentenceRequest) Sentence() models.Sentence {
	return models.Sentence{
		Type:           r.sentenceType,
		DurationYears:  r.DurationYears,
		DurationMonths: r.DurationMonths,
		FineAmount:     r.FineAmount,
		Notes:          r.Notes,
	}
}

type UpdateStatusRequest struct {
	Status string `json:"status"`

	status models.CaseStatus
}

func (r *UpdateStatusRequest) Validate() error {
	status, err := models.ParseCaseStatus(r.Status)
	if err != nil {
		return err
	}
	r.status = status
	return nil
}

type AddEvidenceRequest struct {
	Type        string `json:"type"`
	Title       string `json:"title"`
	Description string `json:"description"`

	evidenceType models.EvidenceType
}

func (r *AddEvidenceRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	evidenceType, err := models.ParseEvidenceType(r.Type)
	if err != nil {
		return err
	}
	r.evidenceType = evidenceType
	return nil
}

type ReviewEvidenceRequest struct {
	Approved *bool  `json:"approved"`
	Notes    string `json:"notes"`
}

func (r *ReviewEvidenceRequest) Validate() error {
	if r.Approved == nil {
		return dErrors.New(dErrors.CodeValidation, "approved is required")
	}
	return nil
}

type ScheduleHearingRequest struct {
	CaseID          string    `json:"case_id"`
	Type            string    `json:"type"`
	ScheduledAt     time.Time `json:"scheduled_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Courtroom       string    `json:"courtroom"`
	Location        string    `json:"location"`
	Notes           string    `json:"notes"`

	caseID      id.CaseID
	hearingType models.HearingType
}

func (r *ScheduleHearingRequest) Validate() error {
	caseID, err := id.ParseCaseID(r.CaseID)
	if err != nil {
		return err
	}
	hearingType, err := models.ParseHearingType(r.Type)
	if err != nil {
		return err
	}
	if r.ScheduledAt.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "scheduled_at is required")
	}
	if strings.TrimSpace(r.Courtroom) == "" {
		return dErrors.New(dErrors.CodeValidation, "courtroom is required")
	}
	if r.DurationMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "duration must not be negative")
	}
	r.caseID = caseID
	r.hearingType = hearingType
	return nil
}

func (r *ScheduleHearingRequest) Input() service.ScheduleHearingInput {
	return service.ScheduleHearingInput{
		CaseID:          r.caseID,
		Type:            r.hearingType,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		Courtroom:       strings.TrimSpace(r.Courtroom),
		Location:        r.Location,
		Notes:           r.Notes,
	}
}

type UpdateHearingRequest struct {
	Type            *string    `json:"type"`
	ScheduledAt     *time.Time `json:"scheduled_at"`
	DurationMinutes *int       `json:"duration_minutes"`
	Courtroom       *string    `json:"courtroom"`
	Location        *string    `json:"location"`
	Notes           *string    `json:"notes"`
	JudgeID         *string    `json:"judge_id"`

	hearingType *models.HearingType
	judgeID     *id.UserID
}

func (r *UpdateHearingRequest) Validate() error {
	if r.Type != nil {
		hearingType, err := models.ParseHearingType(*r.Type)
		if err != nil {
			return err
		}
		r.hearingType = &hearingType
	}
	if r.JudgeID != nil {
		judgeID, err := id.ParseUserID(*r.JudgeID)
		if err != nil {
			return err
		}
		r.judgeID = &judgeID
	}
	return nil
}

func (r *UpdateHearingRequest) Input() service.UpdateHearingInput {
	return service.UpdateHearingInput{
		Type:            r.hearingType,
		ScheduledAt:     r.ScheduledAt,
		DurationMinutes: r.DurationMinutes,
		Courtroom:       r.Courtroom,
		Location:        r.Location,
		Notes:           r.Notes,
		JudgeID:         r.judgeID,
	}
}

type CompleteHearingRequest struct {
	Outcome       string     `json:"outcome"`
	NextHearingAt *time.Time `json:"next_hearing_at"`
}

func (r *CompleteHearingRequest) Validate() error {
	r.Outcome = strings.TrimSpace(r.Outcome)
	if r.Outcome == "" {
		return dErrors.New(dErrors.CodeValidation, "outcome is required")
	}
	return nil
}

type CancelHearingRequest struct {
	Reason string `json:"reason"`
}

func (r *CancelHearingRequest) Validate() error {
	r.Reason = strings.TrimSpace(r.Reason)
	if r.Reason == "" {
		return dErrors.New(dErrors.CodeValidation, "reason is required")
	}
	return nil
}

type CreateReportRequest struct {
	CaseID          string `json:"case_id"`
	Type            string `json:"type"`
	Title           string `json:"title"`
	Content         string `json:"content"`
	Recommendations string `json:"recommendations"`
	Priority        string `json:"priority"`

	caseID     id.CaseID
	reportType models.ReportType
	priority   models.Priority
}

func (r *CreateReportRequest) Validate() error {
	caseID, err := id.ParseCaseID(r.CaseID)
	if err != nil {
		return err
	}
	reportType, err := models.ParseReportType(r.Type)
	if err != nil {
		return err
	}
	priority, err := models.ParsePriority(r.Priority)
	if err != nil {
		return err
	}
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return dErrors.New(dErrors.CodeValidation, "content is required")
	}
	r.caseID = caseID
	r.reportType = reportType
	r.priority = priority
	return nil
}

func (r *CreateReportRequest) Input() service.CreateReportInput {
	return service.CreateReportInput{
		CaseID:          r.caseID,
		Type:            r.reportType,
		Title:           r.Title,
		Content:         r.Content,
		Recommendations: r.Recommendations,
		Priority:        r.priority,
	}
}
