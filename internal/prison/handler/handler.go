// Package handler exposes the prison endpoints: inmates, inmate reports,
// visitor logs, and rehabilitation programs.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"gavel/internal/prison/models"
	"gavel/internal/prison/service"
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

// Register mounts the prison routes; all require authentication. The service
// rejects every caller who is not a prison officer.
func (h *Handler) Register(r chi.Router) {
	r.Route("/inmates", func(r chi.Router) {
		r.Get("/", h.ListInmates)
		r.Post("/", h.AdmitInmate)
		r.Get("/upcoming-releases", h.UpcomingReleases)
		r.Route("/{inmateID}", func(r chi.Router) {
			r.Get("/", h.GetInmate)
			r.Put("/", h.UpdateInmate)
			r.Post("/assign", h.AssignOfficer)
			r.Post("/release", h.ProcessRelease)
			r.Get("/reports", h.ListInmateReports)
			r.Post("/reports", h.CreateReport)
		})
	})
	r.Route("/inmate-reports", func(r chi.Router) {
		r.Get("/", h.ListReports)
		r.Route("/{reportID}", func(r chi.Router) {
			r.Get("/", h.GetReport)
			r.Post("/review", h.ReviewReport)
			r.Post("/action", h.RecordAction)
		})
	})
	r.Route("/visits", func(r chi.Router) {
		r.Get("/", h.ListVisits)
		r.Post("/", h.LogVisit)
		r.Route("/{visitID}", func(r chi.Router) {
			r.Get("/", h.GetVisit)
			r.Put("/", h.UpdateVisit)
		})
	})
	r.Route("/programs", func(r chi.Router) {
		r.Get("/", h.ListPrograms)
		r.Post("/", h.EnrollProgram)
		r.Route("/{programID}", func(r chi.Router) {
			r.Get("/", h.GetProgram)
			r.Put("/", h.UpdateProgram)
		})
	})
}

func inmateIDParam(r *http.Request) (id.InmateID, error) {
	return id.ParseInmateID(chi.URLParam(r, "inmateID"))
}

type inmateListResponse struct {
	Inmates []models.Inmate             `json:"inmates"`
	Counts  map[models.InmateStatus]int `json:"counts"`
}

func (h *Handler) ListInmates(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	input := service.ListInmatesInput{
		Search: q.Get("search"),
		Mine:   q.Get("mine") == "true",
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseInmateStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.Status = status
	}

	list, err := h.svc.ListInmates(ctx, input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	counts, err := h.svc.CountInmatesByStatus(ctx)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Inmate{}
	}
	httputil.WriteJSON(w, http.StatusOK, inmateListResponse{Inmates: list, Counts: counts})
}

func (h *Handler) AdmitInmate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AdmitInmateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	i, err := h.svc.AdmitInmate(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, i)
}

type upcomingReleasesResponse struct {
	Inmates    []models.Inmate `json:"inmates"`
	WithinDays int             `json:"within_days"`
}

func (h *Handler) UpcomingReleases(w http.ResponseWriter, r *http.Request) {
	withinDays := 30
	if raw := r.URL.Query().Get("within_days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "within_days must be a positive integer"))
			return
		}
		withinDays = n
	}

	list, err := h.svc.UpcomingReleases(r.Context(), withinDays)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.Inmate{}
	}
	httputil.WriteJSON(w, http.StatusOK, upcomingReleasesResponse{Inmates: list, WithinDays: withinDays})
}

func (h *Handler) GetInmate(w http.ResponseWriter, r *http.Request) {
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	i, err := h.svc.GetInmate(r.Context(), inmateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) UpdateInmate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateInmateRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	i, err := h.svc.UpdateInmate(ctx, inmateID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) AssignOfficer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[AssignOfficerRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	i, err := h.svc.AssignOfficer(ctx, inmateID, req.officerID, req.Reason, req.AssignmentType, req.Instructions)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, i)
}

func (h *Handler) ProcessRelease(w http.ResponseWriter, r *http.Request) {
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	i, err := h.svc.ProcessRelease(r.Context(), inmateID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, i)
}

type reportListResponse struct {
	Reports []models.InmateReport `json:"reports"`
}

func (h *Handler) ListInmateReports(w http.ResponseWriter, r *http.Request) {
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	h.writeReportList(w, r, service.ListReportsInput{InmateID: &inmateID})
}

func (h *Handler) ListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	input := service.ListReportsInput{
		Mine:       q.Get("mine") == "true",
		UrgentOnly: q.Get("urgent") == "true",
	}
	if raw := q.Get("inmate_id"); raw != "" {
		inmateID, err := id.ParseInmateID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.InmateID = &inmateID
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseReportStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.Status = status
	}
	h.writeReportList(w, r, input)
}

func (h *Handler) writeReportList(w http.ResponseWriter, r *http.Request, input service.ListReportsInput) {
	list, err := h.svc.ListReports(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.InmateReport{}
	}
	httputil.WriteJSON(w, http.StatusOK, reportListResponse{Reports: list})
}

func (h *Handler) CreateReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	inmateID, err := inmateIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[CreateInmateReportRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	report, err := h.svc.CreateReport(ctx, req.Input(inmateID))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, report)
}

func reportIDParam(r *http.Request) (id.InmateReportID, error) {
	return id.ParseInmateReportID(chi.URLParam(r, "reportID"))
}

func (h *Handler) GetReport(w http.ResponseWriter, r *http.Request) {
	reportID, err := reportIDParam(r)
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

func (h *Handler) ReviewReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := reportIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[ReviewInmateReportRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	report, err := h.svc.ReviewReport(ctx, reportID, req.status, req.Notes)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) RecordAction(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	reportID, err := reportIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[RecordActionRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	report, err := h.svc.RecordAction(ctx, reportID, req.ActionTaken)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

type visitListResponse struct {
	Visits []models.VisitorLog `json:"visits"`
}

func (h *Handler) ListVisits(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var input service.ListVisitsInput
	if raw := q.Get("inmate_id"); raw != "" {
		inmateID, err := id.ParseInmateID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.InmateID = &inmateID
	}
	if raw := q.Get("type"); raw != "" {
		visitType, err := models.ParseVisitType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.VisitType = visitType
	}
	if raw := q.Get("from"); raw != "" {
		from, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "from must be RFC 3339"))
			return
		}
		input.From = from
	}
	if raw := q.Get("to"); raw != "" {
		to, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "to must be RFC 3339"))
			return
		}
		input.To = to
	}

	list, err := h.svc.ListVisits(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.VisitorLog{}
	}
	httputil.WriteJSON(w, http.StatusOK, visitListResponse{Visits: list})
}

func (h *Handler) LogVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[LogVisitRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	v, err := h.svc.LogVisit(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, v)
}

func visitIDParam(r *http.Request) (id.VisitorLogID, error) {
	return id.ParseVisitorLogID(chi.URLParam(r, "visitID"))
}

func (h *Handler) GetVisit(w http.ResponseWriter, r *http.Request) {
	visitID, err := visitIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	v, err := h.svc.GetVisit(r.Context(), visitID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

func (h *Handler) UpdateVisit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	visitID, err := visitIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateVisitRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	v, err := h.svc.UpdateVisit(ctx, visitID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, v)
}

type programListResponse struct {
	Programs []models.InmateProgram `json:"programs"`
}

func (h *Handler) ListPrograms(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var input service.ListProgramsInput
	if raw := q.Get("inmate_id"); raw != "" {
		inmateID, err := id.ParseInmateID(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.InmateID = &inmateID
	}
	if raw := q.Get("type"); raw != "" {
		programType, err := models.ParseProgramType(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.Type = programType
	}
	if raw := q.Get("status"); raw != "" {
		status, err := models.ParseProgramStatus(raw)
		if err != nil {
			httputil.WriteError(w, err)
			return
		}
		input.Status = status
	}

	list, err := h.svc.ListPrograms(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	if list == nil {
		list = []models.InmateProgram{}
	}
	httputil.WriteJSON(w, http.StatusOK, programListResponse{Programs: list})
}

func (h *Handler) EnrollProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[EnrollProgramRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	p, err := h.svc.EnrollProgram(ctx, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, p)
}

func programIDParam(r *http.Request) (id.ProgramID, error) {
	return id.ParseProgramID(chi.URLParam(r, "programID"))
}

func (h *Handler) GetProgram(w http.ResponseWriter, r *http.Request) {
	programID, err := programIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	p, err := h.svc.GetProgram(r.Context(), programID)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}

func (h *Handler) UpdateProgram(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	programID, err := programIDParam(r)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[UpdateProgramRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	p, err := h.svc.UpdateProgram(ctx, programID, req.Input())
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, p)
}
