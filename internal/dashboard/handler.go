package dashboard

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	identity "gavel/internal/identity/models"
	dErrors "gavel/pkg/domain-errors"
	"gavel/pkg/platform/httputil"
	"gavel/pkg/requestcontext"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Register mounts the dashboard route. The payload shape depends on the
// caller's role.
func (h *Handler) Register(r chi.Router) {
	r.Get("/dashboard", h.Dashboard)
}

func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var (
		payload any
		err     error
	)
	switch identity.Role(requestcontext.Role(ctx)) {
	case identity.RoleClerk:
		payload, err = h.svc.ForClerk(ctx)
	case identity.RoleJudge:
		payload, err = h.svc.ForJudge(ctx)
	case identity.RolePrisonOfficer:
		payload, err = h.svc.ForOfficer(ctx)
	default:
		err = dErrors.New(dErrors.CodeForbidden, "no dashboard for this role")
	}
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, payload)
}
