package middleware

import (
	"context"
	"net/http"
	"strings"

	"urbanvest/database"
	"urbanvest/models"
	"urbanvest/utils"
)

// AuthMiddleware validates the bearer token and loads the current user from
// the database. Loading per request (instead of trusting the role claim)
// means promotions, demotions and account disabling take effect immediately.
func AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authz := r.Header.Get("Authorization")
		if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
			utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Unauthorized: no token provided")
			return
		}
		tokenStr := strings.TrimSpace(strings.TrimPrefix(authz, "Bearer "))

		_, claims, err := utils.ValidateAccessToken(tokenStr)
		if err != nil {
			if strings.Contains(err.Error(), "expired") {
				utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Session expired, please log in again")
				return
			}
			utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Unauthorized: invalid token")
			return
		}

		var userID uint
		if raw, ok := claims["id"].(float64); ok {
			userID = uint(raw)
		}
		if userID == 0 {
			utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Unauthorized: invalid token")
			return
		}

		var user models.User
		if err := database.DB.First(&user, userID).Error; err != nil {
			utils.WriteError(w, http.StatusUnauthorized, utils.ErrKindAuthorization, "Unauthorized: user not found")
			return
		}
		if user.IsDisabled {
			utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Account disabled")
			return
		}

		ctx := context.WithValue(r.Context(), utils.UserIDKey, user.ID)
		ctx = context.WithValue(ctx, utils.UserKey, &user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// CurrentUser returns the authenticated user placed in the context by
// AuthMiddleware, or nil when the request is unauthenticated.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(utils.UserKey).(*models.User)
	return u
}

// CurrentUserID returns the authenticated user's ID, or 0.
func CurrentUserID(r *http.Request) uint {
	id, _ := r.Context().Value(utils.UserIDKey).(uint)
	return id
}

// RequireAdmin allows admins and super admins through.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if u == nil || u.Role() < models.RoleAdmin {
			utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Forbidden: admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireSuperAdmin allows super admins only.
func RequireSuperAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u := CurrentUser(r)
		if u == nil || u.Role() != models.RoleSuperAdmin {
			utils.WriteError(w, http.StatusForbidden, utils.ErrKindAuthorization, "Forbidden: super admin access required")
			return
		}
		next.ServeHTTP(w, r)
	})
}
