package bookings

import (
	"net/http"

	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("status"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

// Create is the public booking form endpoint.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Booking
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	b, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, b)
}

func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in struct {
		Status string `json:"status"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	b, err := h.svc.SetStatus(r.Context(), ps.ByName("id"), in.Status)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	b, err := h.svc.Delete(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, b)
}
