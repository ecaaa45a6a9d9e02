package auth

import (
	"net/http"
	"strings"

	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/models"
	"urbanvest/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type registerRequest struct {
	Name            string `json:"name" validate:"required,nameok"`
	Email           string `json:"email" validate:"required,email"`
	Password        string `json:"password" validate:"required,pwdmin"`
	ConfirmPassword string `json:"confirm_password" validate:"required,eqfield=Password"`
}

// Register creates a new applicant account and issues a token pair.
func Register(w http.ResponseWriter, r *http.Request) {
	var setting models.Setting
	if err := database.DB.First(&setting).Error; err == nil && setting.ClosedRegister {
		utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Registration is currently closed")
		return
	}

	var req registerRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	var existing models.User
	err := database.DB.Where("email = ?", req.Email).First(&existing).Error
	if err == nil {
		utils.WriteError(w, http.StatusConflict, utils.ErrKindValidation, "Email is already registered")
		return
	}
	if err != gorm.ErrRecordNotFound {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to create account")
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to create account")
		return
	}

	user := models.User{
		Name:     strings.TrimSpace(req.Name),
		Email:    req.Email,
		Password: string(hashed),
	}
	if err := database.DB.Create(&user).Error; err != nil {
		utils.WriteError(w, http.StatusInternalServerError, "", "Failed to create account")
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

	utils.WriteJSON(w, http.StatusCreated, utils.APIResponse{
		Success: true,
		Message: "Account created",
		Data: map[string]interface{}{
			"user":          user,
			"access_token":  access,
			"refresh_token": refresh,
		},
	})
}
