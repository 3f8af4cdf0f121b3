// Package models defines the court aggregates: cases, evidence, hearings,
// and case reports.
package models

import (
	"fmt"
	"strings"
	"time"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

// CaseType classifies the legal matter.
type CaseType string

const (
	CaseCriminal       CaseType = "criminal"
	CaseCivil          CaseType = "civil"
	CaseFamily         CaseType = "family"
	CaseCommercial     CaseType = "commercial"
	CaseAdministrative CaseType = "administrative"
)

// ParseCaseType validates a case type string.
func ParseCaseType(s string) (CaseType, error) {
	t := CaseType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case CaseCriminal, CaseCivil, CaseFamily, CaseCommercial, CaseAdministrative:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown case type")
}

// CaseStatus tracks a case through its lifecycle.
type CaseStatus string

const (
	StatusPending    CaseStatus = "pending"
	StatusAssigned   CaseStatus = "assigned"
	StatusInProgress CaseStatus = "in_progress"
	StatusDecided    CaseStatus = "decided"
	StatusClosed     CaseStatus = "closed"
	StatusAppealed   CaseStatus = "appealed"
)

// ParseCaseStatus validates a status string.
func ParseCaseStatus(s string) (CaseStatus, error) {
	st := CaseStatus(strings.TrimSpace(strings.ToLower(s)))
	switch st {
	case StatusPending, StatusAssigned, StatusInProgress, StatusDecided, StatusClosed, StatusAppealed:
		return st, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown case status")
}

// caseTransitions is the allowed status graph. Sentencing and assignment go
// through their dedicated operations; this guards the generic status update.
var caseTransitions = map[CaseStatus][]CaseStatus{
	StatusPending:    {StatusAssigned},
	StatusAssigned:   {StatusInProgress},
	StatusInProgress: {StatusDecided},
	StatusDecided:    {StatusClosed, StatusAppealed},
	StatusAppealed:   {StatusInProgress},
}

// CanTransitionTo reports whether the status graph allows the move.
func (s CaseStatus) CanTransitionTo(next CaseStatus) bool {
	for _, allowed := range caseTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// Priority orders a case in work queues.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority validates a priority string, defaulting empty to medium.
func ParsePriority(s string) (Priority, error) {
	if strings.TrimSpace(s) == "" {
		return PriorityMedium, nil
	}
	p := Priority(strings.TrimSpace(strings.ToLower(s)))
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "priority must be low, medium, or high")
}

// SentenceType classifies a passed sentence.
type SentenceType string

const (
	SentencePrison           SentenceType = "prison"
	SentenceProbation        SentenceType = "probation"
	SentenceFine             SentenceType = "fine"
	SentenceCommunityService SentenceType = "community_service"
	SentenceLife             SentenceType = "life"
	SentenceDeath            SentenceType = "death"
	SentenceAcquittal        SentenceType = "acquittal"
)

// ParseSentenceType validates a sentence type string.
func ParseSentenceType(s string) (SentenceType, error) {
	t := SentenceType(strings.TrimSpace(strings.ToLower(s)))
	switch t {
	case SentencePrison, SentenceProbation, SentenceFine, SentenceCommunityService,
		SentenceLife, SentenceDeath, SentenceAcquittal:
		return t, nil
	}
	return "", dErrors.New(dErrors.CodeInvalidInput, "unknown sentence type")
}

// Sentence holds the decision passed on a case.
type Sentence struct {
	Type           SentenceType `json:"type"`
	DurationYears  int          `json:"duration_years,omitempty"`
	DurationMonths int          `json:"duration_months,omitempty"`
	FineAmount     float64      `json:"fine_amount,omitempty"`
	Notes          string       `json:"notes,omitempty"`
}

// Case is a court case moving from filing to decision.
//
// Invariants:
//   - CaseNumber is unique and immutable after filing
//   - AssignedJudge is set exactly when status has left pending
//   - Verdict and Sentence are set exactly when status is decided or later
type Case struct {
	ID              id.CaseID  `json:"id"`
	CaseNumber      string     `json:"case_number"`
	Title           string     `json:"title"`
	Type            CaseType   `json:"type"`
	Description     string     `json:"description,omitempty"`
	Status          CaseStatus `json:"status"`
	Priority        Priority   `json:"priority"`
	Plaintiff       string     `json:"plaintiff"`
	Defendant       string     `json:"defendant"`
	PlaintiffLawyer string     `json:"plaintiff_lawyer,omitempty"`
	DefenseLawyer   string     `json:"defense_lawyer,omitempty"`
	CreatedBy       id.UserID  `json:"created_by"`
	AssignedJudge   *id.UserID `json:"assigned_judge,omitempty"`
	AssignedAt      *time.Time `json:"assigned_at,omitempty"`
	AssignmentNotes string     `json:"assignment_notes,omitempty"`
	FilingDate      time.Time  `json:"filing_date"`
	HearingDate     *time.Time `json:"hearing_date,omitempty"`
	DecisionDate    *time.Time `json:"decision_date,omitempty"`
	Verdict         string     `json:"verdict,omitempty"`
	Sentence        *Sentence  `json:"sentence,omitempty"`
	Active          bool       `json:"active"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

// IsAssignedTo reports whether the judge holds this case.
func (c *Case) IsAssignedTo(judgeID id.UserID) bool {
	return c.AssignedJudge != nil && *c.AssignedJudge == judgeID
}

// Assign moves a pending case to the given judge.
func (c *Case) Assign(judgeID id.UserID, notes string, now time.Time) error {
	if c.Status != StatusPending {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("cannot assign a case in status %s", c.Status))
	}
	c.AssignedJudge = &judgeID
	c.AssignedAt = &now
	c.AssignmentNotes = notes
	c.Status = StatusAssigned
	c.UpdatedAt = now
	return nil
}

// PassSentence records the judge's decision on an assigned or in-progress
// case.
func (c *Case) PassSentence(verdict string, sentence Sentence, now time.Time) error {
	if c.Status != StatusAssigned && c.Status != StatusInProgress {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("cannot sentence a case in status %s", c.Status))
	}
	c.Verdict = verdict
	c.Sentence = &sentence
	c.DecisionDate = &now
	c.Status = StatusDecided
	c.UpdatedAt = now
	return nil
}

// SetStatus applies a generic status change, validated against the
// transition graph.
func (c *Case) SetStatus(next CaseStatus, now time.Time) error {
	if !c.Status.CanTransitionTo(next) {
		return dErrors.New(dErrors.CodeInvariantViolation,
			fmt.Sprintf("cannot move case from %s to %s", c.Status, next))
	}
	c.Status = next
	c.UpdatedAt = now
	return nil
}
