package http

import (
	"net/http"
	"strconv"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

// heatmapHandler serves GET /api/heatmap?mode=inherent|residual&org_unit_id=N
func heatmapHandler(uc *usecase.HeatmapUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		mode, err := types.ParseHeatmapMode(q.Get("mode"))
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, err.Error()))
			return
		}

		var filter usecase.HeatmapFilter
		if raw := q.Get("org_unit_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid org_unit_id", goerr.V("org_unit_id", raw)))
				return
			}
			filter.OrgUnitID = id
		}

		h, err := uc.Heatmap(r.Context(), mode, filter)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toHeatmapResponse(h))
	}
}
