package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type ReviewHandler struct {
	service *application.ReviewService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewReviewHandler(service *application.ReviewService, logger *logrus.Logger, tracer trace.Tracer) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *ReviewHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/properties/{id}/reviews", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/properties/{id}/reviews", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/reviews/{id}", handler.Delete).Methods(http.MethodDelete)
}

func (handler *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "ReviewHandler.List")
	defer span.End()

	reviews, err := handler.service.List(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(reviews, w, http.StatusOK)
}

func (handler *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "ReviewHandler.Create")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.ReviewRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	review, err := handler.service.Create(ctx, user, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(review, w, http.StatusCreated)
}

func (handler *ReviewHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "ReviewHandler.Delete")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	if err := handler.service.Delete(ctx, user, mux.Vars(r)["id"]); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
