package http

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
	"github.com/secmon-lab/riskmatrix/pkg/utils/safe"
)

// multipartOverhead is the allowance for part headers and boundaries on top of MaxEvidenceSize
const multipartOverhead = 1 << 20

func listActionPlansHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var riskID int64
		if raw := r.URL.Query().Get("risk_id"); raw != "" {
			id, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || id <= 0 {
				handleError(w, r, goerr.Wrap(usecase.ErrValidation, "invalid risk_id", goerr.V("risk_id", raw)))
				return
			}
			riskID = id
		}

		plans, err := uc.ListActionPlans(r.Context(), riskID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, mapSlice(plans, toActionPlanResponse))
	}
}

func createActionPlanHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req actionPlanRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		created, err := uc.CreateActionPlan(r.Context(), req.toModel(0))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toActionPlanResponse(created))
	}
}

func getActionPlanHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		plan, err := uc.GetActionPlan(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toActionPlanResponse(plan))
	}
}

func updateActionPlanHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		var req actionPlanRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		updated, err := uc.UpdateActionPlan(r.Context(), req.toModel(id))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toActionPlanResponse(updated))
	}
}

func deleteActionPlanHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := uc.DeleteActionPlan(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func transitionActionPlanHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		var req transitionRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		plan, err := uc.TransitionActionPlan(r.Context(), id, types.ActionPlanStatus(req.Status))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toActionPlanResponse(plan))
	}
}

type uploadEvidenceResponse struct {
	ActionPlan actionPlanResponse `json:"action_plan"`
	Evidence   evidenceResponse   `json:"evidence"`
}

// uploadEvidenceHandler expects multipart/form-data with the file in a part named "file"
func uploadEvidenceHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, usecase.MaxEvidenceSize+multipartOverhead)
		mr, err := r.MultipartReader()
		if err != nil {
			handleError(w, r, goerr.Wrap(usecase.ErrValidation, "multipart/form-data body is required", goerr.V("cause", err.Error())))
			return
		}

		for {
			part, err := mr.NextPart()
			if errors.Is(err, io.EOF) {
				handleError(w, r, goerr.Wrap(usecase.ErrValidation, "missing \"file\" part"))
				return
			}
			if err != nil {
				handleError(w, r, goerr.Wrap(usecase.ErrValidation, "malformed multipart body", goerr.V("cause", err.Error())))
				return
			}
			if part.FormName() != "file" {
				safe.Close(r.Context(), part)
				continue
			}

			plan, ev, err := uc.UploadEvidence(r.Context(), id, part.FileName(), part.Header.Get("Content-Type"), part)
			safe.Close(r.Context(), part)
			if err != nil {
				handleError(w, r, err)
				return
			}
			writeJSON(w, r, http.StatusCreated, uploadEvidenceResponse{
				ActionPlan: toActionPlanResponse(plan),
				Evidence:   toEvidenceResponse(ev),
			})
			return
		}
	}
}

func downloadEvidenceHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		evidenceID := types.EvidenceID(chi.URLParam(r, "evidenceID"))

		rc, ev, err := uc.OpenEvidence(r.Context(), id, evidenceID)
		if err != nil {
			handleError(w, r, err)
			return
		}
		defer safe.Close(r.Context(), rc)

		w.Header().Set("Content-Type", ev.ContentType)
		w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": ev.FileName}))
		if ev.Size > 0 {
			w.Header().Set("Content-Length", strconv.FormatInt(ev.Size, 10))
		}
		w.WriteHeader(http.StatusOK)
		safe.Copy(r.Context(), w, rc)
	}
}

func reviewEvidenceHandler(uc *usecase.ActionPlanUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		evidenceID := types.EvidenceID(chi.URLParam(r, "evidenceID"))

		var req reviewRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		plan, err := uc.ReviewEvidence(r.Context(), id, evidenceID, *req.Approve, req.Comment)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toActionPlanResponse(plan))
	}
}
