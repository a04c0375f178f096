package http

import (
	"net/http"

	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func listOrgUnitsHandler(uc *usecase.OrgUnitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		units, err := uc.ListOrgUnits(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, mapSlice(units, toOrgUnitResponse))
	}
}

func createOrgUnitHandler(uc *usecase.OrgUnitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req orgUnitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		created, err := uc.CreateOrgUnit(r.Context(), req.toModel(0))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toOrgUnitResponse(created))
	}
}

func getOrgUnitHandler(uc *usecase.OrgUnitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		unit, err := uc.GetOrgUnit(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toOrgUnitResponse(unit))
	}
}

func updateOrgUnitHandler(uc *usecase.OrgUnitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		var req orgUnitRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		updated, err := uc.UpdateOrgUnit(r.Context(), req.toModel(id))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toOrgUnitResponse(updated))
	}
}

func deleteOrgUnitHandler(uc *usecase.OrgUnitUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := uc.DeleteOrgUnit(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}
