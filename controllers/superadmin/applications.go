package superadmin

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/notifier"
	"urbanvest/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// ApplicationController is the final-approval surface. Only super admins
// reach it; there is no permission scope at this level.
type ApplicationController struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
}

func NewApplicationController(db *gorm.DB, n notifier.Notifier) *ApplicationController {
	return &ApplicationController{DB: db, Notifier: n}
}

// PendingFinal lists applications awaiting final approval, oldest first so
// the queue is worked in order.
func (c *ApplicationController) PendingFinal(w http.ResponseWriter, r *http.Request) {
	var apps []models.Application
	if err := c.DB.Preload("Opportunity").Preload("User").
		Where("status = ?", models.StatusPendingFinalApproval).
		Order("created_at ASC").
		Find(&apps).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load applications")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Applications pending final approval",
		Data:    apps,
	})
}

// Approved lists fully approved applications, newest first.
func (c *ApplicationController) Approved(w http.ResponseWriter, r *http.Request) {
	var apps []models.Application
	if err := c.DB.Preload("Opportunity").Preload("User").
		Where("status = ?", models.StatusApproved).
		Order("final_approved_at DESC").
		Find(&apps).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load applications")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Approved applications",
		Data:    apps,
	})
}

type finalApproveRequest struct {
	SuperAdminNotes string `json:"super_admin_notes"`
}

// FinalApprove moves an application from pending-final-approval to approved
// and creates its investment, both inside one transaction. The conditional
// status update plus the unique index on application_id guarantee exactly
// one investment per application even under concurrent approvals.
func (c *ApplicationController) FinalApprove(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid application id")
		return
	}

	var req finalApproveRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var app models.Application
	if err := c.DB.First(&app, id).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Application not found")
		return
	}

	now := time.Now()
	var investment models.Investment

	txErr := c.DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Application{}).
			Where("id = ? AND status = ?", app.ID, models.StatusPendingFinalApproval).
			Updates(map[string]interface{}{
				"status":            models.StatusApproved,
				"super_admin_notes": req.SuperAdminNotes,
				"final_approved_by": user.ID,
				"final_approved_at": now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return models.ErrInvalidTransition
		}

		// The opportunity may have been deleted since submission; the asset
		// type then falls back to the name heuristic.
		var opp *models.Opportunity
		var loaded models.Opportunity
		if err := tx.First(&loaded, app.OpportunityID).Error; err == nil {
			opp = &loaded
		}

		// New holdings start without a recorded return rate; the performance
		// series applies its default monthly growth until a valuation update
		// sets one.
		investment = models.Investment{
			UserID:           app.UserID,
			ApplicationID:    app.ID,
			OpportunityID:    app.OpportunityID,
			InvestmentName:   app.InvestmentName,
			InvestmentAmount: app.InvestmentAmount,
			InvestmentType:   app.InvestmentType,
			AssetType:        models.DeriveAssetType(opp, app.InvestmentName),
			Status:           models.InvestmentActive,
			CurrentValue:     app.InvestmentAmount,
			ReturnRate:       0,
			PurchaseDate:     now,
		}
		return tx.Create(&investment).Error
	})
	if txErr == models.ErrInvalidTransition {
		utils.WriteError(w, http.StatusConflict, utils.ErrKindInvalidTransition,
			fmt.Sprintf("Application is not awaiting final approval (current status: %s)", app.Status))
		return
	}
	if txErr != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to approve application")
		return
	}

	if err := c.DB.First(&app, app.ID).Error; err == nil {
		notifier.Dispatch(c.Notifier, notifier.NewEvent(
			notifier.EventFinalApproval, app.Email, map[string]string{
				"reference":       app.Reference,
				"full_name":       app.FullName,
				"investment_name": app.InvestmentName,
				"amount":          fmt.Sprintf("%.2f", app.InvestmentAmount),
			}))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Application approved, investment created",
		Data: map[string]interface{}{
			"application": app,
			"investment":  investment,
		},
	})
}
