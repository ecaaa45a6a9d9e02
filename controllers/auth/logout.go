package auth

import (
	"net/http"
	"strings"
	"time"

	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/utils"
)

type logoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Logout revokes the presented refresh token and blacklists the current
// access token's jti for its remaining lifetime.
func Logout(w http.ResponseWriter, r *http.Request) {
	var req logoutRequest
	if err := middleware.ValidateJSON(w, r, &req); err != nil {
		return
	}

	if req.RefreshToken != "" {
		_ = database.DB.Table("refresh_tokens").
			Where("id = ?", req.RefreshToken).
			Update("revoked", true).Error
	}

	if authz := r.Header.Get("Authorization"); strings.HasPrefix(authz, "Bearer ") {
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))
		if _, claims, err := utils.ValidateAccessToken(tokenStr); err == nil {
			jti, _ := claims["jti"].(string)
			ttl := 15 * time.Minute
			if exp, ok := claims["exp"].(float64); ok {
				if remaining := time.Until(time.Unix(int64(exp), 0)); remaining > 0 {
					ttl = remaining
				}
			}
			if jti != "" {
				_ = utils.RevokeJTI(jti, ttl)
			}
		}
	}

	utils.WriteJSON(w, http.StatusOK, utils.APIResponse{
		Success: true,
		Message: "Logged out",
	})
}
