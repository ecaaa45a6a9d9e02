package users

import (
	"net/http"
	"strconv"
	"time"

	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// PortfolioController derives the applicant's portfolio views from their
// investment rows. Everything here is computed on read.
type PortfolioController struct {
	DB *gorm.DB
}

func NewPortfolioController(db *gorm.DB) *PortfolioController {
	return &PortfolioController{DB: db}
}

// MyInvestments lists all of the caller's investments, newest first.
func (c *PortfolioController) MyInvestments(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var investments []models.Investment
	if err := c.DB.Where("user_id = ?", user.ID).
		Order("purchase_date DESC").
		Find(&investments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load investments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Investments",
		Data:    investments,
	})
}

// Stats aggregates the caller's active investments into portfolio totals
// and the per-asset-type allocation.
func (c *PortfolioController) Stats(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var investments []models.Investment
	if err := c.DB.Where("user_id = ? AND status = ?", user.ID, models.InvestmentActive).
		Find(&investments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load investments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Portfolio stats",
		Data:    models.ComputePortfolioStats(investments),
	})
}

// Transactions synthesizes the caller's transaction history from their
// investments, newest first.
func (c *PortfolioController) Transactions(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var investments []models.Investment
	if err := c.DB.Where("user_id = ?", user.ID).Find(&investments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load investments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Transactions",
		Data:    models.BuildTransactionHistory(investments),
	})
}

// Performance returns the six-month portfolio value series.
func (c *PortfolioController) Performance(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var investments []models.Investment
	if err := c.DB.Where("user_id = ? AND status = ?", user.ID, models.InvestmentActive).
		Find(&investments).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load investments")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Portfolio performance",
		Data:    models.MonthlyPerformance(investments, time.Now()),
	})
}

type updateValueRequest struct {
	CurrentValue *float64 `json:"current_value"`
	ReturnRate   *float64 `json:"return_rate"`
	Status       *string  `json:"status"`
}

// UpdateInvestmentValue adjusts an investment's valuation. The owner may
// update their own row; admins and super admins may update any.
func (c *PortfolioController) UpdateInvestmentValue(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid investment id")
		return
	}

	var req updateValueRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var inv models.Investment
	if err := c.DB.First(&inv, id).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Investment not found")
		return
	}

	if inv.UserID != user.ID && user.Role() < models.RoleAdmin {
		utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "You may only update your own investments")
		return
	}

	updates := map[string]interface{}{}
	if req.CurrentValue != nil {
		if *req.CurrentValue < 0 {
			utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "current_value must not be negative")
			return
		}
		updates["current_value"] = *req.CurrentValue
	}
	if req.ReturnRate != nil {
		updates["return_rate"] = *req.ReturnRate
	}
	if req.Status != nil {
		switch *req.Status {
		case models.InvestmentActive, models.InvestmentMatured, models.InvestmentWithdrawn:
			updates["status"] = *req.Status
		default:
			utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid investment status")
			return
		}
	}
	if len(updates) == 0 {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Nothing to update")
		return
	}

	if err := c.DB.Model(&inv).Updates(updates).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to update investment")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Investment updated",
		Data:    inv,
	})
}
