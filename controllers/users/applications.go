package users

import (
	"fmt"
	"net/http"
	"time"

	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/notifier"
	"urbanvest/utils"

	"gorm.io/gorm"
)

// ApplicationController handles the applicant side of the workflow:
// submitting applications and listing their own.
type ApplicationController struct {
	DB       *gorm.DB
	Notifier notifier.Notifier
}

func NewApplicationController(db *gorm.DB, n notifier.Notifier) *ApplicationController {
	return &ApplicationController{DB: db, Notifier: n}
}

type applyRequest struct {
	OpportunityID    uint    `json:"opportunity_id"`
	InvestmentAmount float64 `json:"investment_amount"`
	InvestmentType   string  `json:"investment_type" validate:"required"`
	PaymentMethod    string  `json:"payment_method" validate:"required"`

	FullName string `json:"full_name" validate:"required,nameok"`
	Email    string `json:"email" validate:"required,email"`
	Phone    string `json:"phone" validate:"required"`
	Address  string `json:"address" validate:"required"`
	City     string `json:"city" validate:"required"`
	State    string `json:"state" validate:"required"`
	ZipCode  string `json:"zip_code" validate:"required"`
	Country  string `json:"country" validate:"required"`

	AgreeTerms          bool `json:"agree_terms"`
	AgreeRiskDisclosure bool `json:"agree_risk_disclosure"`
}

// Apply submits a new application against an active opportunity. The
// opportunity's name, the amount, type and payment method are snapshotted
// onto the application row; later catalog edits never touch it.
func (c *ApplicationController) Apply(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var req applyRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	if req.OpportunityID == 0 {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "opportunity_id is required")
		return
	}
	if !models.ValidInvestmentType(req.InvestmentType) {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid investment type")
		return
	}
	if !models.ValidPaymentMethod(req.PaymentMethod) {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid payment method")
		return
	}
	if !req.AgreeTerms || !req.AgreeRiskDisclosure {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Terms and risk disclosure must be accepted")
		return
	}

	var opp models.Opportunity
	if err := c.DB.Where("id = ? AND is_active = ?", req.OpportunityID, true).First(&opp).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "Opportunity not found")
		return
	}

	if req.InvestmentAmount < opp.MinInvestment {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation,
			fmt.Sprintf("Minimum investment for this opportunity is %.2f", opp.MinInvestment))
		return
	}
	if req.InvestmentAmount > opp.TotalValue {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation,
			fmt.Sprintf("Investment cannot exceed the opportunity's total value of %.2f", opp.TotalValue))
		return
	}

	app := models.Application{
		Reference:           utils.NewApplicationRef(),
		UserID:              user.ID,
		OpportunityID:       opp.ID,
		InvestmentName:      opp.Name,
		InvestmentAmount:    req.InvestmentAmount,
		InvestmentType:      req.InvestmentType,
		PaymentMethod:       req.PaymentMethod,
		FullName:            req.FullName,
		Email:               req.Email,
		Phone:               req.Phone,
		Address:             req.Address,
		City:                req.City,
		State:               req.State,
		ZipCode:             req.ZipCode,
		Country:             req.Country,
		Status:              models.StatusPending,
		AgreeTerms:          req.AgreeTerms,
		AgreeRiskDisclosure: req.AgreeRiskDisclosure,
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		// One in-flight application per user and opportunity. The check and
		// the insert share the transaction so a double submit cannot slip
		// through between them.
		var count int64
		if err := tx.Model(&models.Application{}).
			Where("user_id = ? AND opportunity_id = ? AND status IN ?",
				user.ID, opp.ID, models.NonTerminalStatuses()).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return errDuplicateApplication
		}
		return tx.Create(&app).Error
	})
	if err == errDuplicateApplication {
		utils.WriteError(w, http.StatusConflict, utils.ErrKindValidation, "You already have an application in progress for this opportunity")
		return
	}
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to submit application")
		return
	}

	notifier.Dispatch(c.Notifier, notifier.NewEvent(
		notifier.EventApplicationSubmitted, app.Email, applicationEventData(&app)))

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Application submitted",
		Data:    app,
	})
}

var errDuplicateApplication = fmt.Errorf("duplicate application")

// MyApplications lists the caller's applications, newest first, with the
// linked opportunity preloaded.
func (c *ApplicationController) MyApplications(w http.ResponseWriter, r *http.Request) {
	user := middleware.CurrentUser(r)

	var apps []models.Application
	if err := c.DB.Preload("Opportunity").
		Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&apps).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load applications")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Applications",
		Data:    apps,
	})
}

// applicationEventData flattens the fields every notification template reads.
func applicationEventData(app *models.Application) map[string]string {
	return map[string]string{
		"reference":       app.Reference,
		"full_name":       app.FullName,
		"investment_name": app.InvestmentName,
		"amount":          fmt.Sprintf("%.2f", app.InvestmentAmount),
		"payment_method":  app.PaymentMethod,
		"admin_notes":     app.AdminNotes,
		"status":          string(app.Status),
		"submitted_at":    app.CreatedAt.Format(time.RFC3339),
	}
}
