package http

import (
	"net/http"

	"github.com/secmon-lab/riskmatrix/pkg/usecase"
)

func scoringConfigHandler(uc *usecase.ScoringUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, r, http.StatusOK, toScoringConfigResponse(uc.Config(), uc.Catalog()))
	}
}

func classifyHandler(uc *usecase.ScoringUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req classifyRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, uc.Classify(*req.Score))
	}
}

func residualHandler(uc *usecase.ScoringUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req residualRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		res := uc.Residual(*req.Inherent, req.Effectiveness)
		writeJSON(w, r, http.StatusOK, residualResponse{
			Combined:       res.Combined,
			Residual:       res.Residual,
			Classification: res.Classification,
		})
	}
}

func probabilityHandler(uc *usecase.ScoringUseCase) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req factorsRequest
		if err := decodeJSON(w, r, &req); err != nil {
			handleError(w, r, err)
			return
		}
		writeJSON(w, r, http.StatusOK, probabilityResponse{Probability: uc.Probability(req.toModel())})
	}
}
