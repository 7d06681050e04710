package api

import (
	"encoding/json"
	"net/http"

	"github.com/SiEncan/ArenaKu/internal/auth"
	"github.com/SiEncan/ArenaKu/internal/db"
	"github.com/SiEncan/ArenaKu/internal/service"
	"github.com/gorilla/mux"
)

type UserHandler struct {
	service *service.UserService
}

func NewUserHandler(s *service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetUser returns a profile. Users may only read their own profile unless
// they hold the OWNER role. ?isBooking=true includes booking history.
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	claims, ok := auth.FromContext(r.Context())
	if !ok || (claims.UserID != id && claims.Role != db.RoleOwner) {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized"})
		return
	}

	includeBookings := r.URL.Query().Get("isBooking") == "true"
	profile, err := h.service.GetProfile(id, includeBookings)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, profile)
}

func (h *UserHandler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	claims, ok := auth.FromContext(r.Context())
	if !ok || claims.UserID != id {
		writeJSON(w, http.StatusForbidden, map[string]string{"error": "Unauthorized"})
		return
	}

	var req UpdateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	user, err := h.service.UpdateProfile(id, req.Name, req.Phone)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}
