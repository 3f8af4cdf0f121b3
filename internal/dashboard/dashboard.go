// Package dashboard assembles role-specific summaries over the court and
// prison stores.
package dashboard

import (
	"context"
	"log/slog"
	"time"

	courtmodels "gavel/internal/court/models"
	"gavel/internal/court/store/cases"
	"gavel/internal/court/store/hearings"
	identity "gavel/internal/identity/models"
	prisonmodels "gavel/internal/prison/models"
	"gavel/internal/prison/store/inmatereports"
	"gavel/internal/prison/store/inmates"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/requestcontext"
)

// stalePendingAfter is how long a case may sit pending before the clerk
// dashboard flags it.
const stalePendingAfter = 30 * 24 * time.Hour

// recentCaseLimit caps the recent-cases list on the clerk dashboard.
const recentCaseLimit = 10

// defaultReleaseWindowDays is how close an expected release must be before
// the officer dashboard flags it as approaching.
const defaultReleaseWindowDays = 7

// releaseHorizonDays is the longer planning horizon shared by the clerk and
// officer dashboards.
const releaseHorizonDays = 30

// CaseSource is the slice of the case store the dashboard reads.
type CaseSource interface {
	List(ctx context.Context, filter cases.Filter) ([]courtmodels.Case, error)
	CountByStatus(ctx context.Context, judgeID *id.UserID) (map[courtmodels.CaseStatus]int, error)
}

// HearingSource is the slice of the hearing store the dashboard reads.
type HearingSource interface {
	List(ctx context.Context, filter hearings.Filter) ([]courtmodels.Hearing, error)
}

// EvidenceSource counts evidence awaiting review.
type EvidenceSource interface {
	CountUnreviewed(ctx context.Context, caseIDs []id.CaseID) (int, error)
}

// InmateSource is the slice of the inmate store the dashboard reads.
type InmateSource interface {
	List(ctx context.Context, filter inmates.Filter) ([]prisonmodels.Inmate, error)
	CountByStatus(ctx context.Context) (map[prisonmodels.InmateStatus]int, error)
	UpcomingReleases(ctx context.Context, now time.Time, withinDays int) ([]prisonmodels.Inmate, error)
}

// ReportSource is the slice of the inmate report store the dashboard reads.
type ReportSource interface {
	List(ctx context.Context, filter inmatereports.Filter) ([]prisonmodels.InmateReport, error)
	CountPendingUrgent(ctx context.Context) (int, error)
}

// ProgramSource counts active program enrollments.
type ProgramSource interface {
	CountActive(ctx context.Context) (int, error)
}

// VisitSource counts visits since a cutoff.
type VisitSource interface {
	CountSince(ctx context.Context, cutoff time.Time) (int, error)
}

type Service struct {
	cases         CaseSource
	hearings      HearingSource
	evidence      EvidenceSource
	inmates       InmateSource
	reports       ReportSource
	programs      ProgramSource
	visits        VisitSource
	releaseWindow int
	logger        *slog.Logger
}

// New builds the dashboard service. releaseWindowDays sets the "approaching
// release" window on the officer dashboard; non-positive values fall back to
// the default.
func New(
	caseSource CaseSource,
	hearingSource HearingSource,
	evidenceSource EvidenceSource,
	inmateSource InmateSource,
	reportSource ReportSource,
	programSource ProgramSource,
	visitSource VisitSource,
	releaseWindowDays int,
	logger *slog.Logger,
) *Service {
	if releaseWindowDays <= 0 {
		releaseWindowDays = defaultReleaseWindowDays
	}
	return &Service{
		cases:         caseSource,
		hearings:      hearingSource,
		evidence:      evidenceSource,
		inmates:       inmateSource,
		reports:       reportSource,
		programs:      programSource,
		visits:        visitSource,
		releaseWindow: releaseWindowDays,
		logger:        logger,
	}
}

// ClerkDashboard is the registry-wide view for court clerks.
type ClerkDashboard struct {
	Role                identity.Role                  `json:"role"`
	TotalCases          int                            `json:"total_cases"`
	CasesByStatus       map[courtmodels.CaseStatus]int `json:"cases_by_status"`
	CasesFiledThisWeek  int                            `json:"cases_filed_this_week"`
	CasesFiledThisMonth int                            `json:"cases_filed_this_month"`
	StalePendingCases   int                            `json:"stale_pending_cases"`
	HearingsToday       int                            `json:"hearings_today"`
	UpcomingHearings    int                            `json:"upcoming_hearings"`
	ActiveInmates       int                            `json:"active_inmates"`
	UrgentInmateReports int                            `json:"urgent_inmate_reports"`
	UpcomingReleases30  int                            `json:"upcoming_releases_30_days"`
	RecentCases         []courtmodels.Case             `json:"recent_cases"`
}

// JudgeDashboard is the judge's personal workload view.
type JudgeDashboard struct {
	Role                   identity.Role                  `json:"role"`
	AssignedCases          int                            `json:"assigned_cases"`
	DecidedCases           int                            `json:"decided_cases"`
	CasesByStatus          map[courtmodels.CaseStatus]int `json:"cases_by_status"`
	SentencingQueue        []courtmodels.Case             `json:"sentencing_queue"`
	PendingEvidenceReviews int                            `json:"pending_evidence_reviews"`
	HearingsToday          int                            `json:"hearings_today"`
	UpcomingHearings       int                            `json:"upcoming_hearings"`
	PriorityDistribution   map[courtmodels.Priority]int   `json:"priority_distribution"`
	SentencesPassedToday   int                            `json:"sentences_passed_today"`
}

// OfficerDashboard is the prison officer's custody view.
type OfficerDashboard struct {
	Role                identity.Role                     `json:"role"`
	AssignedInmates     int                               `json:"assigned_inmates"`
	InmatesByStatus     map[prisonmodels.InmateStatus]int `json:"inmates_by_status"`
	ReleaseWindowDays   int                               `json:"release_window_days"`
	ReleasesApproaching int                               `json:"releases_approaching"`
	ReleasesWithin30    int                               `json:"releases_within_30_days"`
	PendingReports      int                               `json:"pending_reports"`
	UrgentReports       int                               `json:"urgent_reports"`
	ActivePrograms      int                               `json:"active_programs"`
	VisitsToday         int                               `json:"visits_today"`
}

// ForClerk builds the clerk dashboard.
func (s *Service) ForClerk(ctx context.Context) (ClerkDashboard, error) {
	now := requestcontext.Now(ctx)
	d := ClerkDashboard{Role: identity.RoleClerk}

	all, err := s.cases.List(ctx, cases.Filter{})
	if err != nil {
		return ClerkDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing cases", err)
	}
	d.TotalCases = len(all)
	weekAgo := now.AddDate(0, 0, -7)
	monthAgo := now.AddDate(0, -1, 0)
	for _, c := range all {
		if c.FilingDate.After(weekAgo) {
			d.CasesFiledThisWeek++
		}
		if c.FilingDate.After(monthAgo) {
			d.CasesFiledThisMonth++
		}
		if c.Status == courtmodels.StatusPending && now.Sub(c.FilingDate) > stalePendingAfter {
			d.StalePendingCases++
		}
	}
	if len(all) > recentCaseLimit {
		all = all[:recentCaseLimit]
	}
	d.RecentCases = all

	d.CasesByStatus, err = s.cases.CountByStatus(ctx, nil)
	if err != nil {
		return ClerkDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting cases", err)
	}

	d.HearingsToday, d.UpcomingHearings, err = s.hearingCounts(ctx, nil, now)
	if err != nil {
		return ClerkDashboard{}, err
	}

	inmateCounts, err := s.inmates.CountByStatus(ctx)
	if err != nil {
		return ClerkDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting inmates", err)
	}
	d.ActiveInmates = inmateCounts[prisonmodels.InmateActive]

	d.UrgentInmateReports, err = s.reports.CountPendingUrgent(ctx)
	if err != nil {
		return ClerkDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting urgent reports", err)
	}

	releases, err := s.inmates.UpcomingReleases(ctx, now, releaseHorizonDays)
	if err != nil {
		return ClerkDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing upcoming releases", err)
	}
	d.UpcomingReleases30 = len(releases)

	return d, nil
}

// ForJudge builds the judge dashboard for the calling judge.
func (s *Service) ForJudge(ctx context.Context) (JudgeDashboard, error) {
	now := requestcontext.Now(ctx)
	judgeID := requestcontext.UserID(ctx)
	d := JudgeDashboard{Role: identity.RoleJudge}

	own, err := s.cases.List(ctx, cases.Filter{JudgeID: &judgeID})
	if err != nil {
		return JudgeDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing assigned cases", err)
	}
	d.AssignedCases = len(own)
	d.PriorityDistribution = make(map[courtmodels.Priority]int)
	var caseIDs []id.CaseID
	dayStart := now.Truncate(24 * time.Hour)
	for _, c := range own {
		d.PriorityDistribution[c.Priority]++
		caseIDs = append(caseIDs, c.ID)
		switch c.Status {
		case courtmodels.StatusDecided, courtmodels.StatusClosed:
			d.DecidedCases++
		case courtmodels.StatusInProgress:
			d.SentencingQueue = append(d.SentencingQueue, c)
		}
		if c.DecisionDate != nil && !c.DecisionDate.Before(dayStart) {
			d.SentencesPassedToday++
		}
	}

	d.CasesByStatus, err = s.cases.CountByStatus(ctx, &judgeID)
	if err != nil {
		return JudgeDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting cases", err)
	}

	d.PendingEvidenceReviews, err = s.evidence.CountUnreviewed(ctx, caseIDs)
	if err != nil {
		return JudgeDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting unreviewed evidence", err)
	}

	d.HearingsToday, d.UpcomingHearings, err = s.hearingCounts(ctx, &judgeID, now)
	if err != nil {
		return JudgeDashboard{}, err
	}

	return d, nil
}

// ForOfficer builds the prison officer dashboard for the calling officer.
func (s *Service) ForOfficer(ctx context.Context) (OfficerDashboard, error) {
	now := requestcontext.Now(ctx)
	officerID := requestcontext.UserID(ctx)
	d := OfficerDashboard{Role: identity.RolePrisonOfficer}

	own, err := s.inmates.List(ctx, inmates.Filter{OfficerID: &officerID})
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing assigned inmates", err)
	}
	d.AssignedInmates = len(own)

	d.InmatesByStatus, err = s.inmates.CountByStatus(ctx)
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting inmates", err)
	}

	d.ReleaseWindowDays = s.releaseWindow
	near, err := s.inmates.UpcomingReleases(ctx, now, s.releaseWindow)
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing upcoming releases", err)
	}
	d.ReleasesApproaching = len(near)
	month, err := s.inmates.UpcomingReleases(ctx, now, releaseHorizonDays)
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing upcoming releases", err)
	}
	d.ReleasesWithin30 = len(month)

	pending, err := s.reports.List(ctx, inmatereports.Filter{Status: prisonmodels.ReportPending})
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "listing pending reports", err)
	}
	d.PendingReports = len(pending)

	d.UrgentReports, err = s.reports.CountPendingUrgent(ctx)
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting urgent reports", err)
	}

	d.ActivePrograms, err = s.programs.CountActive(ctx)
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting programs", err)
	}

	d.VisitsToday, err = s.visits.CountSince(ctx, now.Truncate(24*time.Hour))
	if err != nil {
		return OfficerDashboard{}, dErrors.Wrap(dErrors.CodeInternal, "counting visits", err)
	}

	return d, nil
}

// hearingCounts returns today's and future open hearings, optionally scoped
// to one judge.
func (s *Service) hearingCounts(ctx context.Context, judgeID *id.UserID, now time.Time) (today, upcoming int, err error) {
	open, err := s.hearings.List(ctx, hearings.Filter{JudgeID: judgeID, OpenOnly: true})
	if err != nil {
		return 0, 0, dErrors.Wrap(dErrors.CodeInternal, "listing hearings", err)
	}
	dayStart := now.Truncate(24 * time.Hour)
	dayEnd := dayStart.Add(24 * time.Hour)
	for _, h := range open {
		if h.ScheduledAt.Before(dayStart) {
			continue
		}
		if h.ScheduledAt.Before(dayEnd) {
			today++
		} else {
			upcoming++
		}
	}
	return today, upcoming, nil
}
