package routes

import (
	"net/http"
	"time"

	"urbanvest/controllers"
	"urbanvest/controllers/auth"
	"urbanvest/controllers/users"
	"urbanvest/database"
	"urbanvest/middleware"
	"urbanvest/notifier"

	"github.com/gorilla/mux"
)

// UsersRoutes registers the public catalog, auth, and applicant endpoints.
func UsersRoutes(api *mux.Router, n notifier.Notifier) {
	// Login/register: 60 per IP per 5 minutes
	loginLimiter := middleware.NewIPRateLimiter(60, 5*time.Minute)
	// General API: 300 per IP per minute
	apiLimiter := middleware.NewIPRateLimiter(300, time.Minute)

	opportunityController := controllers.NewOpportunityController(database.DB)
	applicationController := users.NewApplicationController(database.DB, n)
	portfolioController := users.NewPortfolioController(database.DB)

	// Auth
	api.Handle("/register", loginLimiter.Middleware(http.HandlerFunc(auth.Register))).Methods(http.MethodPost)
	api.Handle("/login", loginLimiter.Middleware(http.HandlerFunc(auth.Login))).Methods(http.MethodPost)
	api.Handle("/refresh", loginLimiter.Middleware(http.HandlerFunc(auth.Refresh))).Methods(http.MethodPost)
	api.Handle("/logout", apiLimiter.Middleware(http.HandlerFunc(auth.Logout))).Methods(http.MethodPost)

	// Public catalog
	api.Handle("/opportunities", apiLimiter.Middleware(http.HandlerFunc(opportunityController.List))).Methods(http.MethodGet)
	api.Handle("/opportunities/{id:[0-9]+}", apiLimiter.Middleware(http.HandlerFunc(opportunityController.Get))).Methods(http.MethodGet)

	// Applications
	api.Handle("/users/applications",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(applicationController.Apply)))).Methods(http.MethodPost)
	api.Handle("/users/applications",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(applicationController.MyApplications)))).Methods(http.MethodGet)

	// Portfolio
	api.Handle("/users/investments",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(portfolioController.MyInvestments)))).Methods(http.MethodGet)
	api.Handle("/users/portfolio/stats",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(portfolioController.Stats)))).Methods(http.MethodGet)
	api.Handle("/users/portfolio/transactions",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(portfolioController.Transactions)))).Methods(http.MethodGet)
	api.Handle("/users/portfolio/performance",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(portfolioController.Performance)))).Methods(http.MethodGet)
	api.Handle("/users/investments/{id:[0-9]+}/value",
		apiLimiter.Middleware(middleware.AuthMiddleware(http.HandlerFunc(portfolioController.UpdateInvestmentValue)))).Methods(http.MethodPut)
}
