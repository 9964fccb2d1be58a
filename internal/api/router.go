package api

import (
	"database/sql"
	"net/http"

	"github.com/ortobank/ortobank/internal/model"
)

// NewRouter creates the API router with all endpoints registered.
func NewRouter(db *sql.DB, jwtSecret, apiKey string) http.Handler {
	mux := http.NewServeMux()

	authHandler := &AuthHandler{DB: db, JWTSecret: jwtSecret}
	usersHandler := &UsersHandler{DB: db}
	hubsHandler := &HubsHandler{DB: db}
	stocksHandler := &StocksHandler{DB: db}
	itemsHandler := &ItemsHandler{DB: db}
	applicantsHandler := &ApplicantsHandler{DB: db}
	dependentsHandler := &DependentsHandler{DB: db}
	loansHandler := &LoansHandler{DB: db}

	authMW := AuthMiddleware(jwtSecret, db)
	keyMW := APIKeyMiddleware(apiKey)
	requireAdmin := RequireRole(model.RoleAdmin)
	requireManager := RequireRole(model.RoleManager)

	// Public: login.
	mux.HandleFunc("POST /api/auth/login", authHandler.Login)

	// Authenticated routes.
	mux.Handle("PUT /api/auth/password", authMW(http.HandlerFunc(authHandler.ChangePassword)))
	mux.Handle("POST /api/auth/logout", authMW(http.HandlerFunc(authHandler.Logout)))

	// Users (admin only).
	mux.Handle("GET /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.List))))
	mux.Handle("POST /api/users", authMW(requireAdmin(http.HandlerFunc(usersHandler.Create))))
	mux.Handle("GET /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Get))))
	mux.Handle("PUT /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Update))))
	mux.Handle("PUT /api/users/{id}/password", authMW(requireAdmin(http.HandlerFunc(usersHandler.ResetPassword))))
	mux.Handle("DELETE /api/users/{id}", authMW(requireAdmin(http.HandlerFunc(usersHandler.Delete))))

	// Hubs: read (all roles), write (manager+).
	mux.Handle("GET /api/hubs", authMW(http.HandlerFunc(hubsHandler.List)))
	mux.Handle("POST /api/hubs", authMW(requireManager(http.HandlerFunc(hubsHandler.Create))))
	mux.Handle("GET /api/hubs/{id}", authMW(http.HandlerFunc(hubsHandler.Get)))
	mux.Handle("PUT /api/hubs/{id}", authMW(requireManager(http.HandlerFunc(hubsHandler.Update))))
	mux.Handle("DELETE /api/hubs/{id}", authMW(requireManager(http.HandlerFunc(hubsHandler.Delete))))

	// Stocks: read (all roles), write (manager+).
	mux.Handle("GET /api/stocks", authMW(http.HandlerFunc(stocksHandler.List)))
	mux.Handle("POST /api/stocks", authMW(requireManager(http.HandlerFunc(stocksHandler.Create))))
	mux.Handle("GET /api/stocks/{id}", authMW(http.HandlerFunc(stocksHandler.Get)))
	mux.Handle("PUT /api/stocks/{id}", authMW(requireManager(http.HandlerFunc(stocksHandler.Update))))
	mux.Handle("DELETE /api/stocks/{id}", authMW(requireManager(http.HandlerFunc(stocksHandler.Delete))))

	// Items: read (all roles), write (manager+).
	mux.Handle("GET /api/items", authMW(http.HandlerFunc(itemsHandler.List)))
	mux.Handle("POST /api/items", authMW(requireManager(http.HandlerFunc(itemsHandler.Create))))
	mux.Handle("GET /api/items/{id}", authMW(http.HandlerFunc(itemsHandler.Get)))
	mux.Handle("PUT /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Update))))
	mux.Handle("DELETE /api/items/{id}", authMW(requireManager(http.HandlerFunc(itemsHandler.Delete))))
	mux.Handle("PUT /api/items/{id}/image", authMW(requireManager(http.HandlerFunc(itemsHandler.UploadImage))))
	mux.Handle("GET /api/items/{id}/image", authMW(http.HandlerFunc(itemsHandler.GetImage)))

	// Applicants: read (all roles), write (manager+).
	mux.Handle("GET /api/applicants", authMW(http.HandlerFunc(applicantsHandler.List)))
	mux.Handle("POST /api/applicants", authMW(requireManager(http.HandlerFunc(applicantsHandler.Create))))
	mux.Handle("GET /api/applicants/{id}", authMW(http.HandlerFunc(applicantsHandler.Get)))
	mux.Handle("PUT /api/applicants/{id}", authMW(requireManager(http.HandlerFunc(applicantsHandler.Update))))
	mux.Handle("DELETE /api/applicants/{id}", authMW(requireManager(http.HandlerFunc(applicantsHandler.Delete))))

	// Dependents: read (all roles), write (manager+).
	mux.Handle("GET /api/applicants/{id}/dependents", authMW(http.HandlerFunc(dependentsHandler.List)))
	mux.Handle("POST /api/applicants/{id}/dependents", authMW(requireManager(http.HandlerFunc(dependentsHandler.Create))))
	mux.Handle("GET /api/dependents/{id}", authMW(http.HandlerFunc(dependentsHandler.Get)))
	mux.Handle("PUT /api/dependents/{id}", authMW(requireManager(http.HandlerFunc(dependentsHandler.Update))))
	mux.Handle("DELETE /api/dependents/{id}", authMW(requireManager(http.HandlerFunc(dependentsHandler.Delete))))

	// Loans (all roles).
	mux.Handle("GET /api/loans", authMW(http.HandlerFunc(loansHandler.List)))
	mux.Handle("POST /api/loans", authMW(http.HandlerFunc(loansHandler.Create)))
	mux.Handle("GET /api/loans/{id}", authMW(http.HandlerFunc(loansHandler.Get)))
	mux.Handle("PUT /api/loans/{id}", authMW(http.HandlerFunc(loansHandler.Update)))
	mux.Handle("DELETE /api/loans/{id}", authMW(http.HandlerFunc(loansHandler.Delete)))

	// Machine clients (API key).
	mux.Handle("GET /api/jobs/loans/expiring", keyMW(http.HandlerFunc(loansHandler.ListExpiring)))

	return mux
}
