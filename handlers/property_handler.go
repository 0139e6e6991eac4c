package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type PropertyHandler struct {
	service *application.PropertyService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewPropertyHandler(service *application.PropertyService, logger *logrus.Logger, tracer trace.Tracer) *PropertyHandler {
	return &PropertyHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

// Init registers the fixed paths ahead of /{id} so they are not taken as ids.
func (handler *PropertyHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/properties", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/properties", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/properties/featured", handler.Featured).Methods(http.MethodGet)
	router.HandleFunc("/api/properties/mine", handler.Mine).Methods(http.MethodGet)
	router.HandleFunc("/api/properties/{id}", handler.Get).Methods(http.MethodGet)
	router.HandleFunc("/api/properties/{id}", handler.Update).Methods(http.MethodPut)
	router.HandleFunc("/api/properties/{id}", handler.Delete).Methods(http.MethodDelete)
	router.HandleFunc("/api/properties/{id}/similar", handler.Similar).Methods(http.MethodGet)
	router.HandleFunc("/api/properties/{id}/verify", handler.Verify).Methods(http.MethodPut)
}

func (handler *PropertyHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.List")
	defer span.End()

	query, err := domain.ParsePropertyQuery(r.URL.Query())
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	page, err := handler.service.List(ctx, query)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(page, w, http.StatusOK)
}

func (handler *PropertyHandler) Featured(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Featured")
	defer span.End()

	properties, err := handler.service.Featured(ctx)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(properties, w, http.StatusOK)
}

func (handler *PropertyHandler) Mine(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Mine")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	properties, err := handler.service.Mine(ctx, user)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(properties, w, http.StatusOK)
}

func (handler *PropertyHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Get")
	defer span.End()

	property, err := handler.service.Get(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(property, w, http.StatusOK)
}

func (handler *PropertyHandler) Similar(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Similar")
	defer span.End()

	properties, err := handler.service.Similar(ctx, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(properties, w, http.StatusOK)
}

func (handler *PropertyHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Create")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.PropertyRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	property, err := handler.service.Create(ctx, user, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(property, w, http.StatusCreated)
}

func (handler *PropertyHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Update")
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
	property, err := handler.service.Update(ctx, user, mux.Vars(r)["id"], patch)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(property, w, http.StatusOK)
}

func (handler *PropertyHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Delete")
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

type verifyRequest struct {
	IsVerified *bool `json:"isVerified"`
}

func (handler *PropertyHandler) Verify(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PropertyHandler.Verify")
	defer span.End()

	var req verifyRequest
	if err := decodeOptional(r, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	verified := req.IsVerified == nil || *req.IsVerified

	property, err := handler.service.Verify(ctx, mux.Vars(r)["id"], verified)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(property, w, http.StatusOK)
}
