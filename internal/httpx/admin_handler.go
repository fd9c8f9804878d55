package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/donmendez/go-retail-store/internal/settings"
	"github.com/donmendez/go-retail-store/internal/users"
)

type AdminHandler struct {
	Users    *users.Repo
	Settings *settings.Repo
}

type updateSettingsReq struct {
	WhatsAppNumber string `json:"whatsapp_number"`
}

func (h *AdminHandler) Register(r *chi.Mux) {
	r.Post("/users", h.createUser)
	r.Get("/users", h.listUsers)
	r.Get("/users/{id}", h.getUser)
	r.Put("/users/{id}", h.updateUser)
	r.Delete("/users/{id}", h.deleteUser)

	r.Get("/settings", h.getSettings)
	r.Put("/settings", h.updateSettings)
}

func (h *AdminHandler) createUser(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if in.Name == "" || in.Role == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing name or role"})
		return
	}
	u, err := h.Users.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, u)
}

func (h *AdminHandler) listUsers(w http.ResponseWriter, r *http.Request) {
	list, err := h.Users.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *AdminHandler) getUser(w http.ResponseWriter, r *http.Request) {
	u, err := h.Users.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) updateUser(w http.ResponseWriter, r *http.Request) {
	var in users.Input
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	u, err := h.Users.Update(r.Context(), chi.URLParam(r, "id"), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (h *AdminHandler) deleteUser(w http.ResponseWriter, r *http.Request) {
	if err := h.Users.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *AdminHandler) getSettings(w http.ResponseWriter, r *http.Request) {
	s, err := h.Settings.Get(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *AdminHandler) updateSettings(w http.ResponseWriter, r *http.Request) {
	var req updateSettingsReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if req.WhatsAppNumber == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "missing whatsapp_number"})
		return
	}
	s, err := h.Settings.Update(r.Context(), req.WhatsAppNumber)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}
