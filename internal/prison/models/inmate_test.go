package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
)

func activeInmate(release *time.Time) *Inmate {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	return &Inmate{
		ID:                   id.NewInmateID(),
		InmateNumber:         "INM-2025-001",
		FirstName:            "Kofi",
		LastName:             "Adjei",
		DateOfBirth:          time.Date(1990, 5, 2, 0, 0, 0, 0, time.UTC),
		IdentificationNumber: "GHA-123456",
		SentenceKind:         SentenceKindPrison,
		SentenceTerm:         SentenceTerm{Years: 2},
		AdmissionDate:        now,
		ExpectedReleaseDate:  release,
		Status:               InmateActive,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}

func TestInmate_DaysUntilRelease(t *testing.T) {
	now := time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)

	release := now.AddDate(0, 0, 10)
	i := activeInmate(&release)
	days, ok := i.DaysUntilRelease(now)
	require.True(t, ok)
	assert.Equal(t, 10, days)
	assert.True(t, i.ReleaseApproaching(now, 30))
	assert.False(t, i.ReleaseApproaching(now, 7))

	// No expected date set.
	i = activeInmate(nil)
	_, ok = i.DaysUntilRelease(now)
	assert.False(t, ok)

	// Released inmates are out of scope.
	release = now.AddDate(0, 0, 3)
	i = activeInmate(&release)
	require.NoError(t, i.Release(now))
	_, ok = i.DaysUntilRelease(now)
	assert.False(t, ok)
}

func TestInmate_ReleaseLifecycle(t *testing.T) {
	now := time.Now()
	i := activeInmate(nil)

	require.NoError(t, i.Release(now))
	assert.Equal(t, InmateReleased, i.Status)
	require.NotNil(t, i.ActualReleaseDate)

	err := i.Release(now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
}

func TestInmate_AssignOfficer(t *testing.T) {
	i := activeInmate(nil)
	officer := id.NewUserID()
	i.AssignOfficer(officer, "block transfer", "custodial", "high risk", time.Now())
	assert.True(t, i.IsAssignedTo(officer))
	assert.False(t, i.IsAssignedTo(id.NewUserID()))
}

func TestInmateReport_UrgentAndReview(t *testing.T) {
	r := InmateReport{
		ID:       id.NewInmateReportID(),
		InmateID: id.NewInmateID(),
		Type:     InmateReportRegular,
		Priority: ReportPriorityUrgent,
		Status:   ReportPending,
	}
	assert.True(t, r.Urgent())

	r.Priority = ReportPriorityLow
	assert.False(t, r.Urgent())
	r.Type = InmateReportUrgent
	assert.True(t, r.Urgent())

	err := r.Review(id.NewUserID(), ReportPending, "", time.Now())
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	require.NoError(t, r.Review(id.NewUserID(), ReportApproved, "handled", time.Now()))
	assert.True(t, r.Reviewed)
	assert.Equal(t, ReportApproved, r.Status)
}

func TestInmateProgram_Progress(t *testing.T) {
	now := time.Now()
	p := InmateProgram{
		ID:        id.NewProgramID(),
		InmateID:  id.NewInmateID(),
		Name:      "Carpentry",
		Type:      ProgramVocational,
		StartDate: now,
		Status:    ProgramActive,
	}

	err := p.SetProgress(150, now)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))

	require.NoError(t, p.SetProgress(40, now))
	assert.Equal(t, ProgramActive, p.Status)

	require.NoError(t, p.SetProgress(100, now))
	assert.Equal(t, ProgramCompleted, p.Status)
	require.NotNil(t, p.ActualEndDate)
}
