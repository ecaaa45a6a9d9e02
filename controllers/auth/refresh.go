package auth

import (
	"net/http"

	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// Refresh rotates the refresh token and issues a fresh access token. The
// role claim is re-read from the database, so a promotion or demotion shows
// up in the next access token, not just the next login.
func Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	rt, err := utils.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Invalid refresh token")
		return
	}

	var user models.User
	if err := database.DB.First(&user, rt.UserID).Error; err != nil {
		utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Invalid refresh token")
		return
	}
	if user.IsDisabled {
		utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Account disabled")
		return
	}

	// Rotate: revoke the presented token before issuing its replacement.
	if err := database.DB.Model(rt).Update("revoked", true).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to refresh session")
		return
	}

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
		Message: "Session refreshed",
		Data: map[string]interface{}{
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}
