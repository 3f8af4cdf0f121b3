package handler

import (
	"strings"
	"time"

	"gavel/internal/prison/models"
	"gavel/internal/prison/service"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

type AdmitInmateRequest struct {
	InmateNumber         string                  `json:"inmate_number"`
	FirstName            string                  `json:"first_name"`
	LastName             string                  `json:"last_name"`
	DateOfBirth          time.Time               `json:"date_of_birth"`
	Gender               string                  `json:"gender"`
	Nationality          string                  `json:"nationality"`
	IdentificationNumber string                  `json:"identification_number"`
	EmergencyContact     models.EmergencyContact `json:"emergency_contact"`
	CaseNumber           string                  `json:"case_number"`
	ConvictionDate       *time.Time              `json:"conviction_date"`
	CrimeDescription     string                  `json:"crime_description"`
	SentenceKind         string                  `json:"sentence_kind"`
	SentenceTerm         models.SentenceTerm     `json:"sentence_term"`
	FineAmount           float64                 `json:"fine_amount"`
	AdmissionDate        time.Time               `json:"admission_date"`
	ExpectedReleaseDate  *time.Time              `json:"expected_release_date"`
	Cell                 string                  `json:"cell"`
	Block                string                  `json:"block"`
	MedicalConditions    string                  `json:"medical_conditions"`

	sentenceKind models.SentenceKind
}

func (r *AdmitInmateRequest) Validate() error {
	r.InmateNumber = strings.TrimSpace(r.InmateNumber)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.IdentificationNumber = strings.TrimSpace(r.IdentificationNumber)
	if r.InmateNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "inmate number is required")
	}
	if r.FirstName == "" || r.LastName == "" {
		return dErrors.New(dErrors.CodeValidation, "first and last name are required")
	}
	if r.IdentificationNumber == "" {
		return dErrors.New(dErrors.CodeValidation, "identification number is required")
	}
	if r.DateOfBirth.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "date of birth is required")
	}
	if r.FineAmount < 0 {
		return dErrors.New(dErrors.CodeValidation, "fine amount must not be negative")
	}
	if r.SentenceTerm.Years < 0 || r.SentenceTerm.Months < 0 || r.SentenceTerm.Days < 0 {
		return dErrors.New(dErrors.CodeValidation, "sentence term must not be negative")
	}

	kind, err := models.ParseSentenceKind(r.SentenceKind)
	if err != nil {
		return err
	}
	r.sentenceKind = kind
	return nil
}

// Input builds the service input from the validated request.
func (r *AdmitInmateRequest) Input() service.AdmitInmateInput {
	return service.AdmitInmateInput{
		InmateNumber:         r.InmateNumber,
		FirstName:            r.FirstName,
		LastName:             r.LastName,
		DateOfBirth:          r.DateOfBirth,
		Gender:               r.Gender,
		Nationality:          r.Nationality,
		IdentificationNumber: r.IdentificationNumber,
		EmergencyContact:     r.EmergencyContact,
		CaseNumber:           r.CaseNumber,
		ConvictionDate:       r.ConvictionDate,
		CrimeDescription:     r.CrimeDescription,
		SentenceKind:         r.sentenceKind,
		SentenceTerm:         r.SentenceTerm,
		FineAmount:           r.FineAmount,
		AdmissionDate:        r.AdmissionDate,
		ExpectedReleaseDate:  r.ExpectedReleaseDate,
		Cell:                 r.Cell,
		Block:                r.Block,
		MedicalConditions:    r.MedicalConditions,
	}
}

type UpdateInmateRequest struct {
	Cell                *string                  `json:"cell"`
	Block               *string                  `json:"block"`
	BehaviorRating      *int                     `json:"behavior_rating"`
	MedicalConditions   *string                  `json:"medical_conditions"`
	LastHealthCheck     *time.Time               `json:"last_health_check"`
	ExpectedReleaseDate *time.Time               `json:"expected_release_date"`
	EmergencyContact    *models.EmergencyContact `json:"emergency_contact"`
}

func (r *UpdateInmateRequest) Validate() error {
	if r.Cell == nil && r.Block == nil && r.BehaviorRating == nil &&
		r.MedicalConditions == nil && r.LastHealthCheck == nil &&
		r.ExpectedReleaseDate == nil && r.EmergencyContact == nil {
		return dErrors.New(dErrors.CodeValidation, "at least one field must be provided")
	}
	return nil
}

func (r *UpdateInmateRequest) Input() service.UpdateInmateInput {
	return service.UpdateInmateInput{
		Cell:                r.Cell,
		Block:               r.Block,
		BehaviorRating:      r.BehaviorRating,
		MedicalConditions:   r.MedicalConditions,
		LastHealthCheck:     r.LastHealthCheck,
		ExpectedReleaseDate: r.ExpectedReleaseDate,
		EmergencyContact:    r.EmergencyContact,
	}
}

type AssignOfficerRequest struct {
	OfficerID      string `json:"officer_id"`
	Reason         string `json:"reason"`
	AssignmentType string `json:"assignment_type"`
	Instructions   string `json:"instructions"`

	officerID id.UserID
}

func (r *AssignOfficerRequest) Validate() error {
	officerID, err := id.ParseUserID(r.OfficerID)
	if err != nil {
		return err
	}
	r.officerID = officerID
	return nil
}

type CreateInmateReportRequest struct {
	Type            string     `json:"type"`
	Title           string     `json:"title"`
	Content         string     `json:"content"`
	Recommendations string     `json:"recommendations"`
	Priority        string     `json:"priority"`
	IncidentAt      *time.Time `json:"incident_at"`
	ActionRequired  bool       `json:"action_required"`
	FollowUpAt      *time.Time `json:"follow_up_at"`

	reportType models.InmateReportType
	priority   models.ReportPriority
}

func (r *CreateInmateReportRequest) Validate() error {
	r.Title = strings.TrimSpace(r.Title)
	if r.Title == "" {
		return dErrors.New(dErrors.CodeValidation, "title is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return dErrors.New(dErrors.CodeValidation, "content is required")
	}

	reportType, err := models.ParseInmateReportType(r.Type)
	if err != nil {
		return err
	}
	r.reportType = reportType

	if r.Priority != "" {
		priority, err := models.ParseReportPriority(r.Priority)
		if err != nil {
			return err
		}
		r.priority = priority
	}
	return nil
}

func (r *CreateInmateReportRequest) Input(inmateID id.InmateID) service.CreateReportInput {
	return service.CreateReportInput{
		InmateID:        inmateID,
		Type:            r.reportType,
		Title:           r.Title,
		Content:         r.Content,
		Recommendations: r.Recommendations,
		Priority:        r.priority,
		IncidentAt:      r.IncidentAt,
		ActionRequired:  r.ActionRequired,
		FollowUpAt:      r.FollowUpAt,
	}
}

type ReviewInmateReportRequest struct {
	Status string `json:"status"`
	Notes  string `json:"notes"`

	status models.ReportStatus
}

func (r *ReviewInmateReportRequest) Validate() error {
	status, err := models.ParseReportStatus(r.Status)
	if err != nil {
		return err
	}
	r.status = status
	return nil
}

type RecordActionRequest struct {
	ActionTaken string `json:"action_taken"`
}

func (r *RecordActionRequest) Validate() error {
	r.ActionTaken = strings.TrimSpace(r.ActionTaken)
	if r.ActionTaken == "" {
		return dErrors.New(dErrors.CodeValidation, "action_taken is required")
	}
	return nil
}

type LogVisitRequest struct {
	InmateID        string    `json:"inmate_id"`
	VisitorName     string    `json:"visitor_name"`
	VisitorIDNumber string    `json:"visitor_id_number"`
	VisitorPhone    string    `json:"visitor_phone"`
	Relationship    string    `json:"relationship"`
	VisitType       string    `json:"visit_type"`
	VisitAt         time.Time `json:"visit_at"`
	DurationMinutes int       `json:"duration_minutes"`
	Purpose         string    `json:"purpose"`
	Notes           string    `json:"notes"`
	Approved        bool      `json:"approved"`

	inmateID  id.InmateID
	visitType models.VisitType
}

func (r *LogVisitRequest) Validate() error {
	inmateID, err := id.ParseInmateID(r.InmateID)
	if err != nil {
		return err
	}
	r.inmateID = inmateID

	r.VisitorName = strings.TrimSpace(r.VisitorName)
	if r.VisitorName == "" {
		return dErrors.New(dErrors.CodeValidation, "visitor name is required")
	}
	if strings.TrimSpace(r.VisitorIDNumber) == "" {
		return dErrors.New(dErrors.CodeValidation, "visitor identification number is required")
	}
	if r.DurationMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "duration must not be negative")
	}

	visitType, err := models.ParseVisitType(r.VisitType)
	if err != nil {
		return err
	}
	r.visitType = visitType
	return nil
}

func (r *LogVisitRequest) Input() service.LogVisitInput {
	return service.LogVisitInput{
		InmateID:        r.inmateID,
		VisitorName:     r.VisitorName,
		VisitorIDNumber: strings.TrimSpace(r.VisitorIDNumber),
		VisitorPhone:    r.VisitorPhone,
		Relationship:    r.Relationship,
		VisitType:       r.visitType,
		VisitAt:         r.VisitAt,
		DurationMinutes: r.DurationMinutes,
		Purpose:         r.Purpose,
		Notes:           r.Notes,
		Approved:        r.Approved,
	}
}

type UpdateVisitRequest struct {
	DurationMinutes *int    `json:"duration_minutes"`
	Purpose         *string `json:"purpose"`
	Notes           *string `json:"notes"`
	Approved        *bool   `json:"approved"`
}

func (r *UpdateVisitRequest) Validate() error {
	if r.DurationMinutes != nil && *r.DurationMinutes < 0 {
		return dErrors.New(dErrors.CodeValidation, "duration must not be negative")
	}
	return nil
}

func (r *UpdateVisitRequest) Input() service.UpdateVisitInput {
	return service.UpdateVisitInput{
		DurationMinutes: r.DurationMinutes,
		Purpose:         r.Purpose,
		Notes:           r.Notes,
		Approved:        r.Approved,
	}
}

type EnrollProgramRequest struct {
	InmateID        string     `json:"inmate_id"`
	Name            string     `json:"name"`
	Type            string     `json:"type"`
	Description     string     `json:"description"`
	StartDate       time.Time  `json:"start_date"`
	ExpectedEndDate *time.Time `json:"expected_end_date"`
	Instructor      string     `json:"instructor"`
	Notes           string     `json:"notes"`

	inmateID    id.InmateID
	programType models.ProgramType
}

func (r *EnrollProgramRequest) Validate() error {
	inmateID, err := id.ParseInmateID(r.InmateID)
	if err != nil {
		return err
	}
	r.inmateID = inmateID

	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return dErrors.New(dErrors.CodeValidation, "program name is required")
	}
	if r.StartDate.IsZero() {
		return dErrors.New(dErrors.CodeValidation, "start date is required")
	}

	programType, err := models.ParseProgramType(r.Type)
	if err != nil {
		return err
	}
	r.programType = programType
	return nil
}

func (r *EnrollProgramRequest) Input() service.EnrollProgramInput {
	return service.EnrollProgramInput{
		InmateID:        r.inmateID,
		Name:            r.Name,
		Type:            r.programType,
		Description:     r.Description,
		StartDate:       r.StartDate,
		ExpectedEndDate: r.ExpectedEndDate,
		Instructor:      r.Instructor,
		Notes:           r.Notes,
	}
}

type UpdateProgramRequest struct {
	Status            *string `json:"status"`
	ProgressPercent   *int    `json:"progress_percent"`
	Instructor        *string `json:"instructor"`
	Grade             *string `json:"grade"`
	CertificateEarned *bool   `json:"certificate_earned"`
	Notes             *string `json:"notes"`

	status *models.ProgramStatus
}

func (r *UpdateProgramRequest) Validate() error {
	if r.Status != nil {
		status, err := models.ParseProgramStatus(*r.Status)
		if err != nil {
			return err
		}
		r.status = &status
	}
	return nil
}

func (r *UpdateProgramRequest) Input() service.UpdateProgramInput {
	return service.UpdateProgramInput{
		Status:            r.status,
		ProgressPercent:   r.ProgressPercent,
		Instructor:        r.Instructor,
		Grade:             r.Grade,
		CertificateEarned: r.CertificateEarned,
		Notes:             r.Notes,
	}
}
