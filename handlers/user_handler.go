package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type UserHandler struct {
	service *application.UserService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewUserHandler(service *application.UserService, logger *logrus.Logger, tracer trace.Tracer) *UserHandler {
	return &UserHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *UserHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/users/favorites", handler.Favorites).Methods(http.MethodGet)
	router.HandleFunc("/api/users/favorites/{propertyId}", handler.ToggleFavorite).Methods(http.MethodPost)
	router.HandleFunc("/api/users", handler.GetAll).Methods(http.MethodGet)
	router.HandleFunc("/api/users/{id}/role", handler.ChangeRole).Methods(http.MethodPut)
}

func (handler *UserHandler) Favorites(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "UserHandler.Favorites")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	properties, err := handler.service.Favorites(ctx, user)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(properties, w, http.StatusOK)
}

func (handler *UserHandler) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "UserHandler.ToggleFavorite")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	favorited, err := handler.service.ToggleFavorite(ctx, user, mux.Vars(r)["propertyId"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(map[string]bool{"favorited": favorited}, w, http.StatusOK)
}

func (handler *UserHandler) GetAll(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "UserHandler.GetAll")
	defer span.End()

	users, err := handler.service.ListUsers(ctx)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(users, w, http.StatusOK)
}

func (handler *UserHandler) ChangeRole(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "UserHandler.ChangeRole")
	defer span.End()

	admin, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.RoleUpdateRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	user, err := handler.service.ChangeRole(ctx, admin, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(user, w, http.StatusOK)
}
