package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type InquiryHandler struct {
	service *application.InquiryService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewInquiryHandler(service *application.InquiryService, logger *logrus.Logger, tracer trace.Tracer) *InquiryHandler {
	return &InquiryHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *InquiryHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/inquiries", handler.Create).Methods(http.MethodPost)
	router.HandleFunc("/api/inquiries", handler.List).Methods(http.MethodGet)
	router.HandleFunc("/api/inquiries/{id}/respond", handler.Respond).Methods(http.MethodPut)
	router.HandleFunc("/api/inquiries/{id}/close", handler.Close).Methods(http.MethodPut)
}

func (handler *InquiryHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "InquiryHandler.Create")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.InquiryRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	inquiry, err := handler.service.Create(ctx, user, req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(inquiry, w, http.StatusCreated)
}

func (handler *InquiryHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "InquiryHandler.List")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	inquiries, err := handler.service.List(ctx, user, r.URL.Query().Get("role"))
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(inquiries, w, http.StatusOK)
}

func (handler *InquiryHandler) Respond(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "InquiryHandler.Respond")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	var req domain.InquiryResponseRequest
	if err := domain.DecodeJSON(r.Body, &req); err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	inquiry, err := handler.service.Respond(ctx, user, mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(inquiry, w, http.StatusOK)
}

func (handler *InquiryHandler) Close(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "InquiryHandler.Close")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	inquiry, err := handler.service.Close(ctx, user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(inquiry, w, http.StatusOK)
}
