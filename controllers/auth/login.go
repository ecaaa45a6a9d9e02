package auth

import (
	"fmt"
	"net/http"
	"strings"

	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"

	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// Login authenticates by email and password. Failed attempts feed the
// progressive lockout; a locked account gets a Retry-After without the
// password even being checked.
func Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var user models.User
	if err := database.DB.Where("email = ?", req.Email).First(&user).Error; err != nil {
		// Same message as a wrong password so emails cannot be enumerated.
		utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Invalid email or password")
		return
	}

	if user.IsDisabled {
		utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Account disabled")
		return
	}

	// During maintenance only admins and super admins can sign in.
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err == nil && setting.Maintenance && user.Role() == models.RoleApplicant {
		utils.WriteError(w, http.StatusServiceUnavailable, utils.ErrKindAuthorization, "Platform is under maintenance, please try again later")
		return
	}

	if locked, retry := middleware.IsAccountLocked(user.ID); locked {
		w.Header().Set("Retry-After", fmt.Sprintf("%d", int(retry.Seconds())))
		utils.WriteError(w, http.StatusTooManyRequests, utils.ErrKindAuthorization, "Too many failed attempts, try again later")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		middleware.RecordFailedLogin(user.ID)
		utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Invalid email or password")
		return
	}
	middleware.ResetFailedLogin(user.ID)

	access, err := utils.GenerateAccessToken(user.ID, user.Role().String())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to issue token")
		return
	}
	refresh, err := utils.GenerateRefreshToken(user.ID)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to issue token")
		return
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Login successful",
		Data: map[string]interface{}{
			"user":          user,
			"role":          user.Role().String(),
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}
