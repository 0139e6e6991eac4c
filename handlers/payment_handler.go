package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
)

type PaymentHandler struct {
	service *application.PaymentService
	logger  *logrus.Logger
	tracer  trace.Tracer
}

func NewPaymentHandler(service *application.PaymentService, logger *logrus.Logger, tracer trace.Tracer) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		logger:  logger,
		tracer:  tracer,
	}
}

func (handler *PaymentHandler) Init(router *mux.Router) {
	router.HandleFunc("/api/payments/feature/{id}", handler.FeatureProperty).Methods(http.MethodPost)
	router.HandleFunc("/api/payments", handler.History).Methods(http.MethodGet)
}

func (handler *PaymentHandler) FeatureProperty(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PaymentHandler.FeatureProperty")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	result, err := handler.service.FeatureProperty(ctx, user, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(result, w, http.StatusOK)
}

func (handler *PaymentHandler) History(w http.ResponseWriter, r *http.Request) {
	ctx, span := handler.tracer.Start(r.Context(), "PaymentHandler.History")
	defer span.End()

	user, err := currentUser(r)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	payments, err := handler.service.History(ctx, user)
	if err != nil {
		writeError(w, span, handler.logger, err)
		return
	}
	jsonResponse(payments, w, http.StatusOK)
}
