package admins

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

// ApplicationController is the admin review surface. Every read and write
// here passes through the admin's permission scope; a super admin reaching
// these handlers is unrestricted.
type ApplicationController struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
}

func NewApplicationController(db *gorm.DB, n notifier.Notifier) *ApplicationController {
	return &ApplicationController{DB: db, Notifier: n}
}

func scopeFor(user *models.User, q *gorm.DB) *gorm.DB {
	if user.Role() == models.RoleSuperAdmin {
		return q
	}
	return user.Permissions.Scope(q)
}

func inScope(user *models.User, app *models.Application) bool {
	if user.Role() == models.RoleSuperAdmin {
		return true
	}
	return user.Permissions.Allows(app)
}

// List returns applications inside the caller's scope, optionally filtered
// by status, newest first.
func (c *ApplicationController) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	q := scopeFor(user, c.DB.Model(&models.Application{}))
	if s := r.URL.Query().Get("status"); s != "" {
		status := models.ApplicationStatus(s)
		if !status.Valid() {
			utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown status")
			return
		}
		q = q.Where("status = ?", status)
	}

	var apps []models.Application
	if err := q.Preload("Opportunity").Order("created_at DESC").Find(&apps).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load applications")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Applications",
		Data:    apps,
	})
}

// Get returns one application, provided it falls inside the caller's scope.
func (c *ApplicationController) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	app, ok := c.loadScoped(w, r, user)
	if !ok {
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Application",
		Data:    app,
	})
}

type reviewRequest struct {
	Decision   string `json:"decision" validate:"required"`
	AdminNotes string `json:"admin_notes"`
}

// Review decides a pending application: approve moves it to waiting-payment,
// reject ends it. The status update is conditional on the row still being
// pending, so two concurrent reviewers cannot both win.
func (c *ApplicationController) Review(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	app, ok := c.loadScoped(w, r, user)
	if !ok {
		return
	}

	var req reviewRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	var target models.ApplicationStatus
	switch req.Decision {
	case "approve":
		target = models.StatusWaitingPayment
	case "reject":
		target = models.StatusRejected
	default:
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "decision must be approve or reject")
		return
	}

	res := c.DB.Model(&models.Application{}).
		Where("id = ? AND status = ?", app.ID, models.StatusPending).
		Updates(map[string]interface{}{
			"status":      target,
			"admin_notes": req.AdminNotes,
			"reviewed_by": user.ID,
			"reviewed_at": time.Now(),
		})
	if res.Error != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to review application")
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteError(w, http.StatusConflict, utils.ErrKindInvalidTransition,
			fmt.Sprintf("Application is no longer pending (current status: %s)", app.Status))
		return
	}

	if err := c.DB.First(app, app.ID).Error; err == nil && target == models.StatusWaitingPayment {
		notifier.Dispatch(c.Notifier, notifier.NewEvent(
			notifier.EventApplicationApproved, app.Email, applicationEventData(app)))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Application reviewed",
		Data:    app,
	})
}

// ConfirmPayment records that the applicant's payment arrived, moving the
// application from waiting-payment to pending-final-approval.
func (c *ApplicationController) ConfirmPayment(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	app, ok := c.loadScoped(w, r, user)
	if !ok {
		return
	}

	// The payment-confirmation stamps belong to whoever confirms, which is
	// not necessarily the admin who did the initial review.
	res := c.DB.Model(&models.Application{}).
		Where("id = ? AND status = ?", app.ID, models.StatusWaitingPayment).
		Updates(map[string]interface{}{
			"status":            models.StatusPendingFinalApproval,
			"approved_by_admin": user.ID,
			"admin_approved_at": time.Now(),
		})
	if res.Error != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to confirm payment")
		return
	}
	if res.RowsAffected == 0 {
		utils.WriteError(w, http.StatusConflict, utils.ErrKindInvalidTransition,
			fmt.Sprintf("Application is not awaiting payment (current status: %s)", app.Status))
		return
	}

	if err := c.DB.First(app, app.ID).Error; err == nil {
		notifier.Dispatch(c.Notifier, notifier.NewEvent(
			notifier.EventPaymentConfirmed, app.Email, applicationEventData(app)))
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Payment confirmed",
		Data:    app,
	})
}

// loadScoped fetches the application from the path and enforces the caller's
// scope, writing the error response itself on failure.
func (c *ApplicationController) loadScoped(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Application, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid application id")
		return nil, false
	}

	var app models.Application
	if err := c.DB.Preload("Opportunity").First(&app, id).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Application not found")
		return nil, false
	}

	// Distinct from not found: the row exists, this admin may not act on it.
	if !inScope(user, &app) {
		utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Application is outside your review scope")
		return nil, false
	}

	return &app, true
}

// applicationEventData flattens the fields the notification templates read.
func applicationEventData(app *models.Application) map[string]string {
	return map[string]string{
		"reference":       app.Reference,
		"full_name":       app.FullName,
		"investment_name": app.InvestmentName,
		"amount":          fmt.Sprintf("%.2f", app.InvestmentAmount),
		"payment_method":  app.PaymentMethod,
		"admin_notes":     app.AdminNotes,
		"status":          string(app.Status),
	}
}
