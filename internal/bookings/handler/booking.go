package handler

import (
	"encoding/json"
	"net/http"

	"github.com/julienschmidt/httprouter"

	"reservio/internal/bookings/repository"
	"reservio/internal/bookings/service"
	apperrors "reservio/pkg/errors"
	httpresponse "reservio/pkg/http"
	"reservio/pkg/logger"
	"reservio/pkg/middleware"
	"reservio/pkg/model"
)

type BookingHandler struct {
	service *service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(svc *service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: svc,
		log:     log,
	}
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.create)
	router.GET("/api/v1/bookings", h.list)
	router.GET("/api/v1/bookings/:id", h.getByID)
	router.PATCH("/api/v1/bookings/:id", h.update)
	router.DELETE("/api/v1/bookings/:id", h.delete)

	// Day view: every booking of one resource on one date.
	router.GET("/api/v1/schedule/:kind/:code/:date", h.schedule)
}

func (h *BookingHandler) create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	created, err := h.service.Create(r.Context(), principal, &booking)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteCreated(w, created)
}

func (h *BookingHandler) getByID(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	booking, err := h.service.GetByID(r.Context(), params.ByName("id"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteSuccess(w, booking)
}

func (h *BookingHandler) list(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httpresponse.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	filter := repository.ListFilter{
		ResourceKind: query.Get("resource_kind"),
		ResourceCode: query.Get("resource_code"),
		Date:         query.Get("date"),
		CreatedBy:    query.Get("created_by"),
	}

	bookings, total, err := h.service.List(r.Context(), filter, limit, offset)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) update(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	var update model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		h.writeError(w, r, apperrors.InvalidInput("request body is not valid JSON"))
		return
	}

	principal := middleware.PrincipalFromContext(r.Context())

	booking, err := h.service.Update(r.Context(), principal, params.ByName("id"), &update)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteSuccess(w, booking)
}

func (h *BookingHandler) delete(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	principal := middleware.PrincipalFromContext(r.Context())

	if err := h.service.Delete(r.Context(), principal, params.ByName("id")); err != nil {
		h.writeError(w, r, err)
		return
	}

	httpresponse.WriteNoContent(w)
}

func (h *BookingHandler) schedule(w http.ResponseWriter, r *http.Request, params httprouter.Params) {
	bookings, err := h.service.GetByResourceAndDate(
		r.Context(),
		params.ByName("kind"),
		params.ByName("code"),
		params.ByName("date"),
	)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	_ = httpresponse.WriteSuccess(w, bookings)
}

func (h *BookingHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.AsAppError(err)

	if appErr.Code == apperrors.CodeInternal {
		h.log.Error("Booking request failed",
			"request_id", middleware.RequestIDFromContext(r.Context()),
			"path", r.URL.Path,
			"error", appErr,
		)
	}

	_ = httpresponse.WriteError(w, appErr)
}
