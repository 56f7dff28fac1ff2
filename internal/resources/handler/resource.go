package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"reservio/internal/resources/service"
	apperrors "reservio/pkg/errors"
	httpresponse "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
	"reservio/pkg/model"
)

type ResourceHandler struct {
	service *service.ResourceService
	log     *logger.Logger
}

func NewResourceHandler(svc *service.ResourceService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{
		service: svc,
		log:     log,
	}
}

func (h *ResourceHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/resources", h.create)
	router.GET("/api/v1/resources", h.list)
	router.GET("/api/v1/resources/:kind/:code", h.getByCode)
	router.PATCH("/api/v1/resources/:kind/:code", h.update)
	router.DELETE("/api/v1/resources/:kind/:code", h.delete)
}

func (h *ResourceHandler) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var resource model.Resource
	if err := json.NewDecoder(r.Body).Decode(&resource); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	created, err := h.service.Create(r.Context(), principal, &resource)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteCreated(w, created)
}

func (h *ResourceHandler) getByCode(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	resource, err := h.service.GetByCode(r.Context(), params.ByName("kind"), params.ByName("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteSuccess(w, resource)
}

func (h *ResourceHandler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httpresponse.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	resources, total, err := h.service.List(r.Context(), r.URL.Query().Get("kind"), limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WritePaginated(w, resources, total, limit, offset)
}

type resourceUpdateRequest struct {
	Name        string `json:"name,omitempty"`
	Description string `json:"description,omitempty"`
}

func (h *ResourceHandler) update(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var req resourceUpdateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	resource, err := h.service.GetByCode(r.Context(), params.ByName("kind"), params.ByName("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	updated, err := h.service.Update(r.Context(), principal, resource.ID, req.Name, req.Description)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteSuccess(w, updated)
}

func (h *ResourceHandler) delete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	resource, err := h.service.GetByCode(r.Context(), params.ByName("kind"), params.ByName("code"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.service.Delete(r.Context(), principal, resource.ID); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpresponse.WriteNoContent(w)
}

func (h *ResourceHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.Code == apperrors.CodeInternal {
		h.log.Error("Resource request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", appErr,
		)
	}

	_ = httpresponse.WriteError(w, appErr)
}
