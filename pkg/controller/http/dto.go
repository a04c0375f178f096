package http

import (
	"time"

	"github.com/secmon-lab/riskmatrix/pkg/domain/model"
	"github.com/secmon-lab/riskmatrix/pkg/domain/model/config"
	"github.com/secmon-lab/riskmatrix/pkg/domain/types"
)

// Requests

// Scores and effectiveness values outside their range are clamped by the
// scoring functions, so only presence is validated here.
type classifyRequest struct {
	Score *float64 `json:"score" validate:"required"`
}

type residualRequest struct {
	Inherent      *float64  `json:"inherent" validate:"required"`
	Effectiveness []float64 `json:"effectiveness"`
}

type factorsRequest struct {
	Frequency       int `json:"frequency" validate:"min=1,max=5"`
	Volume          int `json:"volume" validate:"min=1,max=5"`
	Massivity       int `json:"massivity" validate:"min=1,max=5"`
	CriticalPath    int `json:"critical_path" validate:"min=1,max=5"`
	Complexity      int `json:"complexity" validate:"min=1,max=5"`
	Volatility      int `json:"volatility" validate:"min=1,max=5"`
	Vulnerabilities int `json:"vulnerabilities" validate:"min=1,max=5"`
}

func (f *factorsRequest) toModel() model.ProbabilityFactors {
	return model.ProbabilityFactors{
		Frequency:       f.Frequency,
		Volume:          f.Volume,
		Massivity:       f.Massivity,
		CriticalPath:    f.CriticalPath,
		Complexity:      f.Complexity,
		Volatility:      f.Volatility,
		Vulnerabilities: f.Vulnerabilities,
	}
}

type orgUnitRequest struct {
	Level       string `json:"level" validate:"required,oneof=gerencia macroproceso proceso subproceso"`
	Code        string `json:"code" validate:"required,max=64"`
	Name        string `json:"name" validate:"required,max=200"`
	Description string `json:"description" validate:"max=2000"`
	ParentID    int64  `json:"parent_id" validate:"gte=0"`
}

func (req *orgUnitRequest) toModel(id int64) *model.OrgUnit {
	return &model.OrgUnit{
		ID:          id,
		Level:       types.OrgLevel(req.Level),
		Code:        types.Code(req.Code),
		Name:        req.Name,
		Description: req.Description,
		ParentID:    req.ParentID,
	}
}

type controlRequest struct {
	Code          string   `json:"code" validate:"required,max=64"`
	Name          string   `json:"name" validate:"required,max=200"`
	Description   string   `json:"description" validate:"max=2000"`
	Type          string   `json:"type" validate:"required,oneof=preventive detective corrective"`
	Effectiveness *float64 `json:"effectiveness" validate:"required,gte=0,lte=1"`
}

func (req *controlRequest) toModel(id types.ControlID) *model.Control {
	return &model.Control{
		ID:            id,
		Code:          types.Code(req.Code),
		Name:          req.Name,
		Description:   req.Description,
		Type:          types.ControlType(req.Type),
		Effectiveness: *req.Effectiveness,
	}
}

type riskRequest struct {
	Code        string          `json:"code" validate:"required,max=64"`
	Name        string          `json:"name" validate:"required,max=200"`
	Description string          `json:"description" validate:"max=4000"`
	OrgUnitID   int64           `json:"org_unit_id" validate:"gte=0"`
	Probability int             `json:"probability" validate:"min=0,max=5"`
	Impact      int             `json:"impact" validate:"required,min=1,max=5"`
	Factors     *factorsRequest `json:"factors"`
	ControlIDs  []string        `json:"control_ids" validate:"dive,uuid"`
}

func (req *riskRequest) toModel(id int64) *model.Risk {
	risk := &model.Risk{
		ID:          id,
		Code:        types.Code(req.Code),
		Name:        req.Name,
		Description: req.Description,
		OrgUnitID:   req.OrgUnitID,
		Probability: req.Probability,
		Impact:      req.Impact,
	}
	if req.Factors != nil {
		f := req.Factors.toModel()
		risk.Factors = &f
	}
	for _, cid := range req.ControlIDs {
		risk.ControlIDs = append(risk.ControlIDs, types.ControlID(cid))
	}
	return risk
}

type actionPlanRequest struct {
	RiskID      int64      `json:"risk_id" validate:"required,gt=0"`
	Title       string     `json:"title" validate:"required,max=200"`
	Description string     `json:"description" validate:"max=4000"`
	Owner       string     `json:"owner" validate:"max=200"`
	DueDate     *time.Time `json:"due_date"`
}

func (req *actionPlanRequest) toModel(id int64) *model.ActionPlan {
	return &model.ActionPlan{
		ID:          id,
		RiskID:      req.RiskID,
		Title:       req.Title,
		Description: req.Description,
		Owner:       req.Owner,
		DueDate:     req.DueDate,
	}
}

type transitionRequest struct {
	Status string `json:"status" validate:"required"`
}

type reviewRequest struct {
	Approve *bool  `json:"approve" validate:"required"`
	Comment string `json:"comment" validate:"max=2000"`
}

// Responses

type classificationResponse = model.Classification

type thresholdsResponse struct {
	Low    float64 `json:"low"`
	Medium float64 `json:"medium"`
	High   float64 `json:"high"`
}

type factorInfoResponse struct {
	Key    types.FactorKey `json:"key"`
	Name   string          `json:"name"`
	Weight float64         `json:"weight"`
	Levels []string        `json:"levels"`
}

type bandResponse struct {
	Band  types.RiskBand `json:"band"`
	Color string         `json:"color"`
}

type scoringConfigResponse struct {
	Thresholds thresholdsResponse   `json:"thresholds"`
	Factors    []factorInfoResponse `json:"factors"`
	Bands      []bandResponse       `json:"bands"`
}

func toScoringConfigResponse(cfg *config.ScoringConfig, catalog []types.FactorInfo) scoringConfigResponse {
	resp := scoringConfigResponse{
		Thresholds: thresholdsResponse{
			Low:    cfg.Thresholds.Low,
			Medium: cfg.Thresholds.Medium,
			High:   cfg.Thresholds.High,
		},
		Factors: make([]factorInfoResponse, len(catalog)),
	}
	for i, info := range catalog {
		resp.Factors[i] = factorInfoResponse{
			Key:    info.Key,
			Name:   info.Name,
			Weight: cfg.Weights[info.Key],
			Levels: info.Levels[:],
		}
	}
	for _, band := range types.AllRiskBands() {
		resp.Bands = append(resp.Bands, bandResponse{Band: band, Color: band.Color()})
	}
	return resp
}

type residualResponse struct {
	Combined       float64                `json:"combined"`
	Residual       float64                `json:"residual"`
	Classification classificationResponse `json:"classification"`
}

type probabilityResponse struct {
	Probability int `json:"probability"`
}

type orgUnitResponse struct {
	ID          int64          `json:"id"`
	Level       types.OrgLevel `json:"level"`
	Code        types.Code     `json:"code"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	ParentID    int64          `json:"parent_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

func toOrgUnitResponse(u *model.OrgUnit) orgUnitResponse {
	return orgUnitResponse{
		ID:          u.ID,
		Level:       u.Level,
		Code:        u.Code,
		Name:        u.Name,
		Description: u.Description,
		ParentID:    u.ParentID,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

type controlResponse struct {
	ID            types.ControlID   `json:"id"`
	Code          types.Code        `json:"code"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	Type          types.ControlType `json:"type"`
	Effectiveness float64           `json:"effectiveness"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func toControlResponse(c *model.Control) controlResponse {
	return controlResponse{
		ID:            c.ID,
		Code:          c.Code,
		Name:          c.Name,
		Description:   c.Description,
		Type:          c.Type,
		Effectiveness: c.Effectiveness,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
}

type riskResponse struct {
	ID          int64                     `json:"id"`
	Code        types.Code                `json:"code"`
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	OrgUnitID   int64                     `json:"org_unit_id,omitempty"`
	Probability int                       `json:"probability"`
	Impact      int                       `json:"impact"`
	Inherent    int                       `json:"inherent"`
	Factors     *model.ProbabilityFactors `json:"factors,omitempty"`
	ControlIDs  []types.ControlID         `json:"control_ids"`
	CreatedAt   time.Time                 `json:"created_at"`
	UpdatedAt   time.Time                 `json:"updated_at"`
}

func toRiskResponse(r *model.Risk) riskResponse {
	controls := r.ControlIDs
	if controls == nil {
		controls = []types.ControlID{}
	}
	return riskResponse{
		ID:          r.ID,
		Code:        r.Code,
		Name:        r.Name,
		Description: r.Description,
		OrgUnitID:   r.OrgUnitID,
		Probability: r.Probability,
		Impact:      r.Impact,
		Inherent:    r.Probability * r.Impact,
		Factors:     r.Factors,
		ControlIDs:  controls,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type assessmentResponse struct {
	RiskID                int64                  `json:"risk_id"`
	Code                  types.Code             `json:"code"`
	Name                  string                 `json:"name"`
	Probability           int                    `json:"probability"`
	Impact                int                    `json:"impact"`
	Inherent              float64                `json:"inherent"`
	InherentClass         classificationResponse `json:"inherent_classification"`
	CombinedEffectiveness float64                `json:"combined_effectiveness"`
	Residual              float64                `json:"residual"`
	ResidualClass         classificationResponse `json:"residual_classification"`
	ResidualProbability   int                    `json:"residual_probability"`
	ResidualImpact        int                    `json:"residual_impact"`
}

func toAssessmentResponse(a *model.RiskAssessment) assessmentResponse {
	return assessmentResponse{
		RiskID:                a.RiskID,
		Code:                  a.Code,
		Name:                  a.Name,
		Probability:           a.Probability,
		Impact:                a.Impact,
		Inherent:              a.Inherent,
		InherentClass:         a.InherentClass,
		CombinedEffectiveness: a.CombinedEffectiveness,
		Residual:              a.Residual,
		ResidualClass:         a.ResidualClass,
		ResidualProbability:   a.ResidualProbability,
		ResidualImpact:        a.ResidualImpact,
	}
}

type heatmapCellResponse struct {
	Probability    int                    `json:"probability"`
	Impact         int                    `json:"impact"`
	Count          int                    `json:"count"`
	RiskIDs        []int64                `json:"risk_ids"`
	RiskCodes      []types.Code           `json:"risk_codes"`
	Score          float64                `json:"score"`
	Classification classificationResponse `json:"classification"`
}

type heatmapResponse struct {
	Mode  types.HeatmapMode     `json:"mode"`
	Total int                   `json:"total"`
	Cells []heatmapCellResponse `json:"cells"`
}

func toHeatmapResponse(h *model.Heatmap) heatmapResponse {
	resp := heatmapResponse{
		Mode:  h.Mode,
		Total: h.Total(),
		Cells: make([]heatmapCellResponse, len(h.Cells)),
	}
	for i, c := range h.Cells {
		resp.Cells[i] = heatmapCellResponse{
			Probability:    c.Probability,
			Impact:         c.Impact,
			Count:          c.Count,
			RiskIDs:        c.RiskIDs,
			RiskCodes:      c.RiskCodes,
			Score:          c.Score,
			Classification: c.Classification,
		}
	}
	return resp
}

type evidenceResponse struct {
	ID            types.EvidenceID           `json:"id"`
	FileName      string                     `json:"file_name"`
	ContentType   string                     `json:"content_type"`
	Size          int64                      `json:"size"`
	ReviewStatus  types.EvidenceReviewStatus `json:"review_status"`
	ReviewComment string                     `json:"review_comment,omitempty"`
	UploadedAt    time.Time                  `json:"uploaded_at"`
	ReviewedAt    *time.Time                 `json:"reviewed_at,omitempty"`
}

func toEvidenceResponse(ev *model.Evidence) evidenceResponse {
	return evidenceResponse{
		ID:            ev.ID,
		FileName:      ev.FileName,
		ContentType:   ev.ContentType,
		Size:          ev.Size,
		ReviewStatus:  ev.ReviewStatus,
		ReviewComment: ev.ReviewComment,
		UploadedAt:    ev.UploadedAt,
		ReviewedAt:    ev.ReviewedAt,
	}
}

type actionPlanResponse struct {
	ID          int64                  `json:"id"`
	RiskID      int64                  `json:"risk_id"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Owner       string                 `json:"owner"`
	DueDate     *time.Time             `json:"due_date,omitempty"`
	Status      types.ActionPlanStatus `json:"status"`
	Evidence    []evidenceResponse     `json:"evidence"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

func toActionPlanResponse(p *model.ActionPlan) actionPlanResponse {
	resp := actionPlanResponse{
		ID:          p.ID,
		RiskID:      p.RiskID,
		Title:       p.Title,
		Description: p.Description,
		Owner:       p.Owner,
		DueDate:     p.DueDate,
		Status:      p.Status,
		Evidence:    make([]evidenceResponse, len(p.Evidence)),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
	for i := range p.Evidence {
		resp.Evidence[i] = toEvidenceResponse(&p.Evidence[i])
	}
	return resp
}

func mapSlice[T, R any](items []*T, f func(*T) R) []R {
	out := make([]R, len(items))
	for i, item := range items {
		out[i] = f(item)
	}
	return out
}
