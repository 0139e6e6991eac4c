package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type AlertHandler struct {
	service *application.AlertService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewAlertHandler(service *application.AlertService, logger *logrus.Logger, tracer trace.Tracer) *AlertHandler {
	return &AlertHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *AlertHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/alerts", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/alerts", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/alerts/{id}/toggle", handler.Toggle).Methods(http.MethodPut)
	router.HandleFunc("/api/alerts/{id}", handler.Delete).Methods(http.MethodDelete)
}

func (handler *AlertHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AlertHandler.List")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	alerts, err := handler.service.List(ctx, user)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(alerts, w, http.StatusOK)
}

func (handler *AlertHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AlertHandler.Create")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.AlertRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	alert, err := handler.service.Create(ctx, user, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(alert, w, http.StatusCreated)
}

func (handler *AlertHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AlertHandler.Toggle")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	alert, err := handler.service.Toggle(ctx, user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(alert, w, http.StatusOK)
}

func (handler *AlertHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AlertHandler.Delete")
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
