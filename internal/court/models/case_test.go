package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

func newPendingCase() *Case {
	now := time.Date(2025, 4, 1, 10, 0, 0, 0, time.UTC)
	return &Case{
		ID:         id.NewCaseID(),
		CaseNumber: "CR-2025-0001",
		Title:      "State v. Mensah",
		Type:       CaseCriminal,
		Status:     StatusPending,
		Priority:   PriorityMedium,
		Plaintiff:  "The State",
		Defendant:  "K. Mensah",
		CreatedBy:  id.NewUserID(),
		FilingDate: now,
		Active:     true,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestCaseStatusTransitions(t *testing.T) {
	cases := []struct {
		from    CaseStatus
		to      CaseStatus
		allowed bool
	}{
		{StatusPending, StatusAssigned, true},
		{StatusAssigned, StatusInProgress, true},
		{StatusInProgress, StatusDecided, true},
		{StatusDecided, StatusClosed, true},
		{StatusDecided, StatusAppealed, true},
		{StatusAppealed, StatusInProgress, true},
		{StatusPending, StatusDecided, false},
		{StatusClosed, StatusPending, false},
		{StatusDecided, StatusPending, false},
		{StatusAssigned, StatusClosed, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.allowed, tc.from.CanTransitionTo(tc.to), "%s -> %s", tc.from, tc.to)
	}
}

func TestCase_Assign(t *testing.T) {
	c := newPendingCase()
	judge := id.NewUserID()
	now := time.Now()

	require.NoError(t, c.Assign(judge, "specializes in criminal law", now))
	assert.Equal(t, StatusAssigned, c.Status)
	assert.True(t, c.IsAssignedTo(judge))
	require.NotNil(t, c.AssignedAt)

	// Assigning again must fail: the case has left pending.
	err := c.Assign(id.NewUserID(), "", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCase_PassSentence(t *testing.T) {
	c := newPendingCase()
	judge := id.NewUserID()
	now := time.Now()
	require.NoError(t, c.Assign(judge, "", now))

	sentence := Sentence{Type: SentencePrison, DurationYears: 5, Notes: "with labour"}
	require.NoError(t, c.PassSentence("guilty", sentence, now))
	assert.Equal(t, StatusDecided, c.Status)
	assert.Equal(t, "guilty", c.Verdict)
	require.NotNil(t, c.DecisionDate)
	require.NotNil(t, c.Sentence)
	assert.Equal(t, 5, c.Sentence.DurationYears)

	err := c.PassSentence("guilty", sentence, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCase_SentencePendingRejected(t *testing.T) {
	c := newPendingCase()
	err := c.PassSentence("guilty", Sentence{Type: SentenceFine, FineAmount: 500}, time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestEvidence_Review(t *testing.T) {
	e := Evidence{
		ID:     id.NewEvidenceID(),
		CaseID: id.NewCaseID(),
		Type:   EvidenceDocument,
		Title:  "Bank statement",
	}
	assert.False(t, e.Reviewed())

	judge := id.NewUserID()
	e.Review(judge, true, "authentic", time.Now())
	assert.True(t, e.Reviewed())
	assert.True(t, e.Admissible)
	require.NotNil(t, e.Approved)
	assert.True(t, *e.Approved)
}

func TestHearing_CompleteAndCancel(t *testing.T) {
	now := time.Now()
	h := Hearing{ID: id.NewHearingID(), CaseID: id.NewCaseID(), Type: HearingTrial, ScheduledAt: now}
	require.True(t, h.Open())

	require.NoError(t, h.Complete(id.NewUserID(), "adjourned", nil, now))
	assert.False(t, h.Open())

	err := h.Cancel("double booked", now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestCaseReport_ApproveOnce(t *testing.T) {
	r := CaseReport{ID: id.NewCaseReportID(), CaseID: id.NewCaseID(), Type: ReportInterim, Title: "Interim findings"}
	clerk := id.NewUserID()

	require.NoError(t, r.Approve(clerk, time.Now()))
	err := r.Approve(id.NewUserID(), time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeConflict))
	require.NotNil(t, r.ApprovedBy)
	assert.Equal(t, clerk, *r.ApprovedBy)
}

func TestParsersRejectUnknownValues(t *testing.T) {
	_, err := ParseCaseType("maritime")
	assert.Error(t, err)
	_, err = ParseCaseStatus("archived")
	assert.Error(t, err)
	_, err = ParseSentenceType("exile")
	assert.Error(t, err)
	_, err = ParseHearingType("arraignment")
	assert.Error(t, err)
	_, err = ParseReportType("draft")
	assert.Error(t, err)

	p, err := ParsePriority("")
	require.NoError(t, err)
	assert.Equal(t, PriorityMedium, p)
}
