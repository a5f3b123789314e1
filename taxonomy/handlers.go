package taxonomy

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

func (h *Handler) ListTags(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	tags, err := h.svc.ListTags(r.Context(), utils.BoolParam(r, "active"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tags)
}

func (h *Handler) GetTag(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	tag, err := h.svc.GetTag(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tag)
}

func (h *Handler) CreateTag(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.Tag
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	tag, err := h.svc.CreateTag(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, tag)
}

func (h *Handler) UpdateTag(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.Tag
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	tag, err := h.svc.UpdateTag(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, tag)
}

func (h *Handler) DeleteTag(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.DeleteTag(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFilterGroups(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	groups, err := h.svc.ListFilterGroups(r.Context(), utils.BoolParam(r, "visible"), utils.BoolParam(r, "withItems"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, groups)
}

func (h *Handler) GetFilterGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	g, err := h.svc.GetFilterGroup(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, g)
}

func (h *Handler) CreateFilterGroup(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.FilterGroup
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	g, err := h.svc.CreateFilterGroup(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, g)
}

func (h *Handler) UpdateFilterGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.FilterGroup
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	g, err := h.svc.UpdateFilterGroup(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, g)
}

func (h *Handler) DeleteFilterGroup(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.DeleteFilterGroup(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) ListFilterItems(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	items, err := h.svc.ListFilterItems(r.Context(), r.URL.Query().Get("groupId"), utils.BoolParam(r, "visible"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, items)
}

func (h *Handler) GetFilterItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	it, err := h.svc.GetFilterItem(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

func (h *Handler) CreateFilterItem(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.FilterItem
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	it, err := h.svc.CreateFilterItem(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, it)
}

func (h *Handler) UpdateFilterItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.FilterItem
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	it, err := h.svc.UpdateFilterItem(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, it)
}

func (h *Handler) DeleteFilterItem(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.DeleteFilterItem(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
