package products

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
	opts := utils.ParseQueryOptions(r)
	list, err := h.svc.List(r.Context(), r.URL.Query().Get("excursionId"), opts.Published)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, list)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	p, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.ExcursionProduct
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	p, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, p)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.ExcursionProduct
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	p, err := h.svc.Update(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, p)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) Availability(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	q := r.URL.Query()
	dates, err := h.svc.Availability(r.Context(), ps.ByName("id"), q.Get("from"), q.Get("to"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, dates)
}

func (h *Handler) Quote(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var req QuoteRequest
	if err := utils.DecodeJSON(w, r, &req); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	quote, err := h.svc.Quote(r.Context(), ps.ByName("id"), req)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, quote)
}
