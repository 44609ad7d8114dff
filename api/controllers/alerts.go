package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/velora-health/medstock-backend/api/responses"
	"github.com/velora-health/medstock-backend/api/validators"
	"github.com/velora-health/medstock-backend/internal/lowstock"
	pkgerrors "github.com/velora-health/medstock-backend/pkg/errors"
	"github.com/velora-health/medstock-backend/pkg/logger"
)

// AlertsService is the read surface the alerts controller needs.
type AlertsService interface {
	List(ctx context.Context, params lowstock.ListParams) (*lowstock.ListResult, error)
}

// ListAlerts returns paginated low-stock alert history, newest first.
func ListAlerts(svc AlertsService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "alert service unavailable"))
			return
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 1, 200)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := lowstock.ListParams{
			FacilityID: strings.TrimSpace(r.URL.Query().Get("facility_id")),
			Cursor:     strings.TrimSpace(r.URL.Query().Get("cursor")),
			Limit:      limit,
		}

		resp, err := svc.List(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, resp)
	}
}
