package handlers

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type BookingHandler struct {
	service *application.BookingService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewBookingHandler(service *application.BookingService, logger *logrus.Logger, tracer trace.Tracer) *BookingHandler {
	return &BookingHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *BookingHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/bookings", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/bookings", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/bookings/{id}", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/bookings/{id}/confirm-seller", handler.ConfirmSeller).Methods(http.MethodPut)
	router.HandleFunc("/api/bookings/{id}/confirm-buyer", handler.ConfirmBuyer).Methods(http.MethodPut)
	router.HandleFunc("/api/bookings/{id}/cancel", handler.Cancel).Methods(http.MethodPut)
	router.HandleFunc("/api/bookings/{id}/complete", handler.Complete).Methods(http.MethodPut)
}

func (handler *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "BookingHandler.Create")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.BookingRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	booking, err := handler.service.Create(ctx, user, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(booking, w, http.StatusCreated)
}

func (handler *BookingHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "BookingHandler.List")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	query := r.URL.Query()
	bookings, err := handler.service.List(ctx, user, query.Get("role"), query.Get("status"))
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(bookings, w, http.StatusOK)
}

func (handler *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "BookingHandler.Get")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	booking, err := handler.service.Get(ctx, user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(booking, w, http.StatusOK)
}

func (handler *BookingHandler) ConfirmSeller(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "BookingHandler.ConfirmSeller")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.ConfirmSellerRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	booking, err := handler.service.ConfirmSeller(ctx, user, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(booking, w, http.StatusOK)
}

func (handler *BookingHandler) ConfirmBuyer(w http.ResponseWriter, r *http.Request) {
	handler.step(w, r, "BookingHandler.ConfirmBuyer", handler.service.ConfirmBuyer)
}

func (handler *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	handler.step(w, r, "BookingHandler.Cancel", handler.service.Cancel)
}

func (handler *BookingHandler) Complete(w http.ResponseWriter, r *http.Request) {
	handler.step(w, r, "BookingHandler.Complete", handler.service.Complete)
}

type bookingStep func(ctx context.Context, user *domain.User, bookingID string) (*domain.BookingView, error)

// step serves the transitions that take no request body.
func (handler *BookingHandler) step(w http.ResponseWriter, r *http.Request, name string, apply bookingStep) {
	ctx, span := handler.tracer.Start(r.Context(), name)
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	booking, err := apply(ctx, user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(booking, w, http.StatusOK)
}
