package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type AuthHandler struct {
	service *application.AuthService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewAuthHandler(service *application.AuthService, logger *logrus.Logger, tracer trace.Tracer) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *AuthHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/auth/register", handler.Register).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/login", handler.Login).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", handler.Logout).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/me", handler.Me).Methods(http.MethodGet)
	router.HandleFunc("/api/auth/profile", handler.UpdateProfile).Methods(http.MethodPut)
	router.HandleFunc("/api/auth/password", handler.ChangePassword).Methods(http.MethodPut)
}

func (handler *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AuthHandler.Register")
	defer span.End()

	var req domain.RegisterRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	result, err := handler.service.Register(ctx, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(result, w, http.StatusCreated)
}

func (handler *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AuthHandler.Login")
	defer span.End()

	var req domain.LoginRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	result, err := handler.service.Login(ctx, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(result, w, http.StatusOK)
}

func (handler *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AuthHandler.Logout")
	defer span.End()

	claims, ok := authorization.ClaimsFrom(r.Context())
	if !ok {
		writeError(w, span, handler.logger, errors.Authentication(errors.MissingTokenError))
		return
	}
	if err := handler.service.Logout(ctx, claims); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (handler *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	_, span := handler.tracer.Start(r.Context(), "AuthHandler.Me")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(user, w, http.StatusOK)
}

func (handler *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AuthHandler.UpdateProfile")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	patch, err := decodePatch(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	updated, err := handler.service.UpdateProfile(ctx, user, patch)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(updated, w, http.StatusOK)
}

func (handler *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "AuthHandler.ChangePassword")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.ChangePasswordRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	if err := handler.service.ChangePassword(ctx, user, req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
