// Package handler exposes the court endpoints: cases, evidence, hearings,
// and case reports.
package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"gavel/internal/court/models"
	"gavel/internal/court/service"
	"gavel/internal/court/store/hearings"
	id "gavel/pkg/domain"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/httputil"
	"gavel/pkg/requestcontext"
)

type Handler struct {
	svc    *service.Service
	logger *slog.Logger
}

func New(svc *service.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

// Register mounts the court routes; all require authentication. Role rules
// live in the service since judges and clerks share most routes with
// different visibility.
func (h *Handler) Register(r chi.Router) {
	r.Route("/cases", func(r chi.Router) {
		r.Get("/", h.ListCases)
		r.Post("/", h.CreateCase)
		r.Route("/{caseID}", func(r chi.Router) {
			r.Get("/", h.GetCase)
			r.Put("/", h.UpdateCase)
			r.Post("/assign", h.AssignJudge)
			r.Post("/sentence", h.PassSentence)
			r.Post("/status", h.UpdateStatus)
			r.Get("/evidence", h.ListEvidence)
			r.Post("/evidence", h.AddEvidence)
		})
	})
	r.Route("/evidence/{evidenceID}", func(r chi.Router) {
		r.Get("/", h.GetEvidence)
		r.Post("/review", h.ReviewEvidence)
	})
	r.Route("/hearings", func(r chi.Router) {
		r.Get("/", h.ListHearings)
		r.Post("/", h.ScheduleHearing)
		r.Route("/{hearingID}", func(r chi.Router) {
			r.Get("/", h.GetHearing)
			r.Put("/", h.UpdateHearing)
			r.Post("/complete", h.CompleteHearing)
			r.Post("/cancel", h.CancelHearing)
		})
	})
	r.Route("/reports", func(r chi.Router) {
		r.Get("/", h.ListReports)
		r.Post("/", h.CreateReport)
		r.Route("/{reportID}", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Post("/approve", h.ApproveReport)
		})
	})
}

func caseIDParam(r *http.Request) (id.CaseID, error) {
	return id.ParseCaseID(chi.URLParam(r, "caseID"))
}

type caseListResponse struct {
	Cases  []models.Case             `json:"cases"`
	Counts map[models.CaseStatus]int `json:"counts"`
}

func (h *Handler) ListCases(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var status models.CaseStatus
	if raw := r.URL.Query().Get("status"); raw != "" {
		parsed, err := models.ParseCaseStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		status = parsed
	}

	list, err := h.svc.ListCases(ctx, status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	counts, err := h.svc.CountCasesByStatus(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Case{}
	}
	httputil.WriteJSON(w, http.StatusOK, caseListResponse{Cases: list, Counts: counts})
}

func (h *Handler) CreateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateCaseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.svc.CreateCase(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetCase(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	c, err := h.svc.GetCase(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateCase(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateCaseRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.svc.UpdateCase(ctx, caseID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) AssignJudge(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssignJudgeRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.svc.AssignJudge(ctx, caseID, req.judgeID, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) PassSentence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[PassSentenceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.svc.PassSentence(ctx, caseID, req.Verdict, req.Sentence())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateStatusRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	c, err := h.svc.UpdateCaseStatus(ctx, caseID, req.status)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, c)
}

type evidenceListResponse struct {
	Evidence []models.Evidence `json:"evidence"`
}

func (h *Handler) ListEvidence(w http.ResponseWriter, r *http.Request) {
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	list, err := h.svc.ListEvidence(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Evidence{}
	}
	httputil.WriteJSON(w, http.StatusOK, evidenceListResponse{Evidence: list})
}

func (h *Handler) AddEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	caseID, err := caseIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AddEvidenceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	e, err := h.svc.AddEvidence(ctx, service.AddEvidenceInput{
		CaseID:      caseID,
		Type:        req.evidenceType,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, e)
}

func (h *Handler) GetEvidence(w http.ResponseWriter, r *http.Request) {
	evidenceID, err := id.ParseEvidenceID(chi.URLParam(r, "evidenceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	e, err := h.svc.GetEvidence(r.Context(), evidenceID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

func (h *Handler) ReviewEvidence(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	evidenceID, err := id.ParseEvidenceID(chi.URLParam(r, "evidenceID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewEvidenceRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	e, err := h.svc.ReviewEvidence(ctx, evidenceID, *req.Approved, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, e)
}

type hearingListResponse struct {
	Hearings []models.Hearing `json:"hearings"`
}

func (h *Handler) ListHearings(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var filter hearings.Filter

	if raw := q.Get("case_id"); raw != "" {
		caseID, err := id.ParseCaseID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		filter.CaseID = &caseID
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "from must be RFC 3339"))
			return
		}
		filter.From = &from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "to must be RFC 3339"))
			return
		}
		filter.To = &to
	}
	filter.OpenOnly = q.Get("open") == "true"

	list, err := h.svc.ListHearings(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Hearing{}
	}
	httputil.WriteJSON(w, http.StatusOK, hearingListResponse{Hearings: list})
}

func (h *Handler) ScheduleHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[ScheduleHearingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	hearing, err := h.svc.ScheduleHearing(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, hearing)
}

func (h *Handler) GetHearing(w http.ResponseWriter, r *http.Request) {
	hearingID, err := id.ParseHearingID(chi.URLParam(r, "hearingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	hearing, err := h.svc.GetHearing(r.Context(), hearingID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hearing)
}

func (h *Handler) UpdateHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hearingID, err := id.ParseHearingID(chi.URLParam(r, "hearingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateHearingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	hearing, err := h.svc.UpdateHearing(ctx, hearingID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hearing)
}

func (h *Handler) CompleteHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hearingID, err := id.ParseHearingID(chi.URLParam(r, "hearingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CompleteHearingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	hearing, err := h.svc.CompleteHearing(ctx, hearingID, req.Outcome, req.NextHearingAt)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hearing)
}

func (h *Handler) CancelHearing(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	hearingID, err := id.ParseHearingID(chi.URLParam(r, "hearingID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CancelHearingRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	hearing, err := h.svc.CancelHearing(ctx, hearingID, req.Reason)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, hearing)
}

type reportListResponse struct {
	Reports []models.CaseReport `json:"reports"`
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	var caseID *id.CaseID
	if raw := r.URL.Query().Get("case_id"); raw != "" {
		parsed, err := id.ParseCaseID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		caseID = &parsed
	}

	list, err := h.svc.ListReports(r.Context(), caseID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.CaseReport{}
	}
	httputil.WriteJSON(w, http.StatusOK, reportListResponse{Reports: list})
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateReportRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	report, err := h.svc.CreateReport(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := id.ParseCaseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.svc.GetReport(r.Context(), reportID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) ApproveReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := id.ParseCaseReportID(chi.URLParam(r, "reportID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	report, err := h.svc.ApproveReport(r.Context(), reportID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}
