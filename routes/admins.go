package routes

import (
	"net/http"
	"time"

	"urbanvest/controllers/admins"
	"urbanvest/controllers/superadmin"
	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/notifier"

	"github.com/gorilla/mux"
)

// AdminRoutes registers the admin review surface and the super-admin
// management surface.
func AdminRoutes(api *mux.Router, n notifier.Notifier) {
	adminLimiter := middleware.NewIPRateLimiter(600, time.Minute)

	adminApps := admins.NewApplicationController(database.DB, n)
	superApps := superadmin.NewApplicationController(database.DB, n)
	superOpps := superadmin.NewOpportunityController(database.DB)
	superUsers := superadmin.NewUserController(database.DB)

	adminChain := func(h http.HandlerFunc) http.Handler {
		return adminLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireAdmin(h)))
	}
	superChain := func(h http.HandlerFunc) http.Handler {
		return adminLimiter.Middleware(middleware.AuthMiddleware(middleware.RequireSuperAdmin(h)))
	}

	// Admin review (scoped)
	api.Handle("/admin/applications", adminChain(adminApps.List)).Methods(http.MethodGet)
	api.Handle("/admin/applications/{id:[0-9]+}", adminChain(adminApps.Get)).Methods(http.MethodGet)
	api.Handle("/admin/applications/{id:[0-9]+}/review", adminChain(adminApps.Review)).Methods(http.MethodPut)
	api.Handle("/admin/applications/{id:[0-9]+}/confirm-payment", adminChain(adminApps.ConfirmPayment)).Methods(http.MethodPut)

	// Super admin: final approval
	api.Handle("/superadmin/applications/pending-final", superChain(superApps.PendingFinal)).Methods(http.MethodGet)
	api.Handle("/superadmin/applications/approved", superChain(superApps.Approved)).Methods(http.MethodGet)
	api.Handle("/superadmin/applications/{id:[0-9]+}/final-approve", superChain(superApps.FinalApprove)).Methods(http.MethodPut)

	// Super admin: catalog management
	api.Handle("/superadmin/opportunities", superChain(superOpps.ListAll)).Methods(http.MethodGet)
	api.Handle("/superadmin/opportunities", superChain(superOpps.Create)).Methods(http.MethodPost)
	api.Handle("/superadmin/opportunities/{id:[0-9]+}", superChain(superOpps.Update)).Methods(http.MethodPut)
	api.Handle("/superadmin/opportunities/{id:[0-9]+}", superChain(superOpps.Delete)).Methods(http.MethodDelete)
	api.Handle("/superadmin/opportunities/{id:[0-9]+}/toggle-active", superChain(superOpps.ToggleActive)).Methods(http.MethodPut)
	api.Handle("/superadmin/opportunities/{id:[0-9]+}/images", superChain(superOpps.UploadImage)).Methods(http.MethodPost)
	api.Handle("/superadmin/opportunities/{id:[0-9]+}/images", superChain(superOpps.DeleteImage)).Methods(http.MethodDelete)

	// Super admin: user administration
	api.Handle("/superadmin/users", superChain(superUsers.ListUsers)).Methods(http.MethodGet)
	api.Handle("/superadmin/users/{id:[0-9]+}/promote", superChain(superUsers.PromoteAdmin)).Methods(http.MethodPut)
	api.Handle("/superadmin/users/{id:[0-9]+}/demote", superChain(superUsers.DemoteAdmin)).Methods(http.MethodPut)
	api.Handle("/superadmin/users/{id:[0-9]+}/permissions", superChain(superUsers.UpdatePermissions)).Methods(http.MethodPut)
	api.Handle("/superadmin/users/{id:[0-9]+}/disable", superChain(superUsers.Disable)).Methods(http.MethodPut)
	api.Handle("/superadmin/users/{id:[0-9]+}/enable", superChain(superUsers.Enable)).Methods(http.MethodPut)
	api.Handle("/superadmin/users/{id:[0-9]+}", superChain(superUsers.DeleteUser)).Methods(http.MethodDelete)
	api.Handle("/superadmin/stats", superChain(superUsers.Stats)).Methods(http.MethodGet)
}
