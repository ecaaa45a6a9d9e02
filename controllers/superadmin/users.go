package superadmin

import (
	"net/http"
	"strconv"

	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// UserController is the super-admin user administration surface: promoting
// and demoting admins, setting their review scope, disabling accounts.
type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// ListUsers returns all accounts, optionally filtered by role.
func (c *UserController) ListUsers(w http.ResponseWriter, r *http.Request) {
	q := c.DB.Model(&models.User{})
	switch r.URL.Query().Get("role") {
	case "":
	case "applicant":
		q = q.Where("is_admin = ? AND is_super_admin = ?", false, false)
	case "admin":
		q = q.Where("is_admin = ? AND is_super_admin = ?", true, false)
	case "superadmin":
		q = q.Where("is_super_admin = ?", true)
	default:
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Unknown role")
		return
	}

	var users []models.User
	if err := q.Order("created_at DESC").Find(&users).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to load users")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Users",
		Data:    users,
	})
}

// PromoteAdmin grants the admin role. The optional body sets the initial
// review scope; omitting it leaves the admin unrestricted.
func (c *UserController) PromoteAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := c.load(w, r)
	if !ok {
		return
	}

	var perms models.AdminPermissions
	if r.ContentLength > 0 {
		if err := middleware.ValidateJSON(w, r, &perms); err != nil {
			return
		}
	}

	user.IsAdmin = true
	user.Permissions = perms
	if err := c.DB.Save(user).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to promote user")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User promoted to admin",
		Data:    user,
	})
}

// DemoteAdmin removes the admin role and clears the now-meaningless scope.
// Takes effect on the user's next request, since roles load per request.
func (c *UserController) DemoteAdmin(w http.ResponseWriter, r *http.Request) {
	user, ok := c.load(w, r)
	if !ok {
		return
	}
	if user.IsSuperAdmin {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Super admins cannot be demoted here")
		return
	}

	user.IsAdmin = false
	user.Permissions = models.AdminPermissions{}
	if err := c.DB.Save(user).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to demote user")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Admin demoted",
		Data:    user,
	})
}

// UpdatePermissions replaces an admin's review scope wholesale.
func (c *UserController) UpdatePermissions(w http.ResponseWriter, r *http.Request) {
	user, ok := c.load(w, r)
	if !ok {
		return
	}
	if !user.IsAdmin {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "User is not an admin")
		return
	}

	var perms models.AdminPermissions
	if err := middleware.ValidateJSON(w, r, &perms); err != nil {
		return
	}
	if perms.MinAmount != nil && perms.MaxAmount != nil && *perms.MinAmount > *perms.MaxAmount {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "min_amount must not exceed max_amount")
		return
	}

	user.Permissions = perms
	if err := c.DB.Save(user).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to update permissions")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Permissions updated",
		Data:    user,
	})
}

// Disable locks an account out. Active sessions die on their next request.
func (c *UserController) Disable(w http.ResponseWriter, r *http.Request) {
	c.setDisabled(w, r, true)
}

// Enable reopens a disabled account.
func (c *UserController) Enable(w http.ResponseWriter, r *http.Request) {
	c.setDisabled(w, r, false)
}

func (c *UserController) setDisabled(w http.ResponseWriter, r *http.Request, disabled bool) {
	actor := middleware.CurrentUser(r)
	user, ok := c.load(w, r)
	if !ok {
		return
	}
	if user.ID == actor.ID {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "You cannot disable your own account")
		return
	}

	if err := c.DB.Model(user).Update("is_disabled", disabled).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to update user")
		return
	}

	msg := "User enabled"
	if disabled {
		msg = "User disabled"
	}
	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: msg,
		Data:    user,
	})
}

// DeleteUser removes an account together with its applications, investments
// and refresh tokens.
func (c *UserController) DeleteUser(w http.ResponseWriter, r *http.Request) {
	actor := middleware.CurrentUser(r)
	user, ok := c.load(w, r)
	if !ok {
		return
	}
	if user.ID == actor.ID {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "You cannot delete your own account")
		return
	}

	err := c.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Investment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Application{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.RefreshToken{}).Error; err != nil {
			return err
		}
		return tx.Delete(user).Error
	})
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to delete user")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "User deleted",
	})
}

// Stats returns platform-wide counts for the super-admin dashboard.
func (c *UserController) Stats(w http.ResponseWriter, r *http.Request) {
	var userCount, adminCount, opportunityCount, investmentCount int64
	c.DB.Model(&models.User{}).Count(&userCount)
	c.DB.Model(&models.User{}).Where("is_admin = ?", true).Count(&adminCount)
	c.DB.Model(&models.Opportunity{}).Count(&opportunityCount)
	c.DB.Model(&models.Investment{}).Count(&investmentCount)

	applicationsByStatus := map[string]int64{}
	for _, s := range []models.ApplicationStatus{
		models.StatusPending, models.StatusWaitingPayment,
		models.StatusPendingFinalApproval, models.StatusApproved, models.StatusRejected,
	} {
		var n int64
		c.DB.Model(&models.Application{}).Where("status = ?", s).Count(&n)
		applicationsByStatus[string(s)] = n
	}

	var totals struct {
		TotalInvested float64
		CurrentValue  float64
	}
	c.DB.Model(&models.Investment{}).
		Select("COALESCE(SUM(investment_amount),0) AS total_invested, COALESCE(SUM(current_value),0) AS current_value").
		Scan(&totals)

	var recentUsers []models.User
	c.DB.Order("created_at DESC").Limit(5).Find(&recentUsers)

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Platform stats",
		Data: map[string]interface{}{
			"users":                  userCount,
			"admins":                 adminCount,
			"opportunities":          opportunityCount,
			"investments":            investmentCount,
			"applications_by_status": applicationsByStatus,
			"total_invested":         totals.TotalInvested,
			"total_current_value":    totals.CurrentValue,
			"recent_users":           recentUsers,
		},
	})
}

func (c *UserController) load(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := strconv.ParseUint(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		utils.WriteError(w, http.StatusBadRequest, utils.ErrKindValidation, "Invalid user id")
		return nil, false
	}
	var user models.User
	if err := c.DB.First(&user, id).Error; err != nil {
		utils.WriteError(w, http.StatusNotFound, utils.ErrKindNotFound, "User not found")
		return nil, false
	}
	return &user, true
}
