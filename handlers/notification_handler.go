package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type NotificationHandler struct {
	service *application.NotificationService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewNotificationHandler(service *application.NotificationService, logger *logrus.Logger, tracer trace.Tracer) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// Init registers read-all ahead of /{id}/read.
func (handler *NotificationHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/notifications", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/notifications/read-all", handler.MarkAllRead).Methods(http.MethodPut)
	router.HandleFunc("/api/notifications/{id}/read", handler.MarkRead).Methods(http.MethodPut)
}

func (handler *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "NotificationHandler.List")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	notifications, err := handler.service.List(ctx, user, r.URL.Query().Get("unread") == "true")
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(notifications, w, http.StatusOK)
}

func (handler *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "NotificationHandler.MarkRead")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	if err := handler.service.MarkRead(ctx, user, mux.Vars(r)["id"]); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "NotificationHandler.MarkAllRead")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	if err := handler.service.MarkAllRead(ctx, user); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
