package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func controlIDParam(r *http.Request) (types.ControlID, error) {
	id := types.ControlID(chi.URLParam(r, "id"))
	if err := id.Validate(); err != nil {
		return "", goerr.Wrap(usecase.ErrValidation, "invalid control ID in path", goerr.V("id", id))
	}
	return id, nil
}

func listControlsHandler(uc *usecase.ControlUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		controls, err := uc.ListControls(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, mapSlice(controls, toControlResponse))
	}
}

func createControlHandler(uc *usecase.ControlUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req controlRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		created, err := uc.CreateControl(r.Context(), req.toModel(""))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toControlResponse(created))
	}
}

func getControlHandler(uc *usecase.ControlUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := controlIDParam(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		control, err := uc.GetControl(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toControlResponse(control))
	}
}

func updateControlHandler(uc *usecase.ControlUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := controlIDParam(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		var req controlRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		updated, err := uc.UpdateControl(r.Context(), req.toModel(id))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toControlResponse(updated))
	}
}

func deleteControlHandler(uc *usecase.ControlUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := controlIDParam(r)
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := uc.DeleteControl(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
