package groups

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
	q := r.URL.Query()
	list, err := h.svc.List(r.Context(), Filter{
		Date:        q.Get("date"),
		ExcursionID: q.Get("excursionId"),
		Status:      q.Get("status"),
	})
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, g)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Group
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	g, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, g)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.Group
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	g, err := h.svc.Update(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, g)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Assign(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in struct {
		ExcursionID string `json:"excursionId"`
		Time        string `json:"time"`
	}
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	g, err := h.svc.Assign(r.Context(), ps.ByName("id"), in.ExcursionID, in.Time)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, g)
}

func (h *Handler) ListTourists(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	list, err := h.svc.ListTourists(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) AddTourist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.Tourist
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	t, err := h.svc.AddTourist(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, t)
}

func (h *Handler) RemoveTourist(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.RemoveTourist(r.Context(), ps.ByName("id"), r.URL.Query().Get("touristId")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Manifest(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	id := ps.ByName("id")
	pdf, err := h.svc.Manifest(r.Context(), id)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=group-"+id+".pdf")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
