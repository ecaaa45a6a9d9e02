package controllers

import (
	"net/http"
	"strconv"

	"urbanvest/models"
	"urbanvest/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// OpportunityController serves the public, read-only catalog. Only active
// opportunities are visible here; management lives in the superadmin package.
type OpportunityController struct {
	DB *gorm.DB
}

func NewOpportunityController(db *gorm.DB) *OpportunityController {
	return &OpportunityController{DB: db}
}

// List returns active opportunities, optionally filtered by category and
// risk level.
func (c *OpportunityController) List(w http.ResponseWriter, r *http.Request) {
	q := c.DB.Where("is_active = ?", true)

	if cat := r.URL.Query().Get("category"); cat != "" {
		if !models.ValidOpportunityCategory(cat) {
			utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown category")
			return
		}
		q = q.Where("category = ?", cat)
	}
	if risk := r.URL.Query().Get("risk_level"); risk != "" {
		if !models.ValidRiskLevel(risk) {
			utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown risk level")
			return
		}
		q = q.Where("risk_level = ?", risk)
	}

	var opportunities []models.Opportunity
	if err := q.Order("created_at DESC").Find(&opportunities).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load opportunities")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunities",
		Data:    opportunities,
	})
}

// Get returns one active opportunity by ID. Inactive ones are hidden from
// the public surface, so they answer not found here.
func (c *OpportunityController) Get(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid opportunity id")
		return
	}

	var opp models.Opportunity
	if err := c.DB.Where("id = ? AND is_active = ?", id, true).First(&opp).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Opportunity not found")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Opportunity",
		Data:    opp,
	})
}
