package excursions

import (
	"net/http"

	"tourdesk/models"
	"tourdesk/utils"

	"github.com/julienschmidt/httprouter"
)

type Handler struct {
	svc    *Service
	images *ImageStore
}

func NewHandler(svc *Service, images *ImageStore) *Handler {
	return &Handler{svc: svc, images: images}
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	q := r.URL.Query()
	res, err := h.svc.List(r.Context(), Filter{
		Published:   opts.Published,
		TagID:       q.Get("tagId"),
		FilterItems: q["filter"],
		Search:      opts.Search,
		Page:        opts.Page,
		Limit:       opts.Limit,
	})
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	card, err := h.svc.Get(r.Context(), ps.ByName("id"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var in models.ExcursionCard
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	card, err := h.svc.Create(r.Context(), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusCreated, card)
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var in models.ExcursionCard
	if err := utils.DecodeJSON(w, r, &in); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	card, err := h.svc.Update(r.Context(), ps.ByName("id"), in)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.svc.Delete(r.Context(), ps.ByName("id")); err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) UploadImages(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	r.Body = http.MaxBytesReader(w, r.Body, MaxUploadBytes)
	if err := r.ParseMultipartForm(MaxUploadBytes); err != nil {
		utils.RespondWithError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}
	defer r.MultipartForm.RemoveAll()

	card, err := h.svc.AddImages(r.Context(), ps.ByName("id"), h.images, r.MultipartForm.File["images"])
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

func (h *Handler) DeleteImage(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	card, err := h.svc.RemoveImage(r.Context(), ps.ByName("id"), r.URL.Query().Get("path"), h.images)
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, card)
}

// Catalog is the public listing of published excursions.
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	opts := utils.ParseQueryOptions(r)
	q := r.URL.Query()
	res, err := h.svc.Catalog(r.Context(), CatalogQuery{
		TagSlug:     q.Get("tag"),
		FilterItems: q["filter"],
		Search:      opts.Search,
		Page:        opts.Page,
		Limit:       opts.Limit,
	})
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, res)
}

func (h *Handler) CatalogEntry(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	entry, err := h.svc.CatalogBySlug(r.Context(), ps.ByName("slug"))
	if err != nil {
		utils.RespondWithServiceError(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, entry)
}
