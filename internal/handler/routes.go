package handler

import (
	"net/http"

	"github.com/avelin/recordkeep/internal/service"
)

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, identity *service.IdentityService, records *service.RecordService, cookieSecure bool) {
	authHandler := NewAuthHandler(identity, cookieSecure)
	recordHandler := NewRecordHandler(records)

	requireAuth := func(h http.HandlerFunc) http.Handler {
		return RequireAuth(identity, h)
	}

	mux.HandleFunc("GET /healthz", HandleHealthz)

	mux.HandleFunc("POST /api/auth/register", authHandler.HandleRegister)
	mux.HandleFunc("POST /api/auth/login", authHandler.HandleLogin)
	mux.Handle("POST /api/auth/logout", requireAuth(authHandler.HandleLogout))
	mux.Handle("POST /api/auth/logout-all", requireAuth(authHandler.HandleLogoutAll))
	mux.Handle("GET /api/auth/me", requireAuth(authHandler.HandleMe))
	mux.Handle("PUT /api/auth/password", requireAuth(authHandler.HandleChangePassword))

	mux.Handle("POST /api/records", requireAuth(recordHandler.HandleCreate))
	mux.Handle("GET /api/records", requireAuth(recordHandler.HandleList))
	mux.Handle("GET /api/records/{id}", requireAuth(recordHandler.HandleGet))
	mux.Handle("PUT /api/records/{id}", requireAuth(recordHandler.HandleUpdate))
	mux.Handle("DELETE /api/records/{id}", requireAuth(recordHandler.HandleDelete))
}
