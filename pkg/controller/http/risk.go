package http

import (
	"net/http"

	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func listRisksHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		risks, err := uc.ListRisks(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, mapSlice(risks, toRiskResponse))
	}
}

func createRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req riskRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		created, err := uc.CreateRisk(r.Context(), req.toModel(0))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusCreated, toRiskResponse(created))
	}
}

func getRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		risk, err := uc.GetRisk(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toRiskResponse(risk))
	}
}

func updateRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		var req riskRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		updated, err := uc.UpdateRisk(r.Context(), req.toModel(id))
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toRiskResponse(updated))
	}
}

func deleteRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		if err := uc.DeleteRisk(r.Context(), id); err != nil {
			handleError(w, r, err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func assessRiskHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := int64Param(r, "id")
		if err != nil {
			handleError(w, r, err)
			return
		}
		a, err := uc.Assess(r.Context(), id)
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, toAssessmentResponse(a))
	}
}

func listAssessmentsHandler(uc *usecase.RiskUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		all, err := uc.AssessAll(r.Context())
		if err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, mapSlice(all, toAssessmentResponse))
	}
}
