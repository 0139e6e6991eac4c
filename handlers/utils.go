package handlers

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

func jsonResponse(object interface{}, w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(object); err != nil {
		logrus.WithError(err).Error("Unable to encode response")
	}
}

// writeError answers with the error's status and public message. Internal
// causes are logged and recorded on the span, never sent to the client.
func writeError(w http.ResponseWriter, span trace.Span, logger *logrus.Logger, err error) {
	if errors.KindOf(err) == errors.KindInternal {
		logger.WithError(err).Error("Request failed")
		span.SetStatus(codes.Error, err.Error())
	}
	errors.WriteHTTP(w, err)
}

func currentUser(r *http.Request) (*domain.User, error) {
	user, ok := authorization.UserFrom(r.Context())
	if !ok {
		return nil, errors.Authentication(errors.MissingTokenError)
	}
	return user, nil
}

// decodePatch reads a partial update object.
func decodePatch(r *http.Request) (map[string]any, error) {
	var patch map[string]any
	if err := domain.DecodeJSON(r.Body, &patch); err != nil {
		return nil, err
	}
	if patch == nil {
		return nil, errors.Validation(errors.InvalidRequestFormatError)
	}
	return patch, nil
}

// decodeOptional decodes the body into v when one was sent.
func decodeOptional(r *http.Request, v any) error {
	if r.Body == nil || r.ContentLength == 0 {
		return nil
	}
	err := json.NewDecoder(r.Body).Decode(v)
	if err == nil || stderrors.Is(err, io.EOF) {
		return nil
	}
	return errors.Validation(errors.InvalidRequestFormatError)
}

func ExtractTraceInfoMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func LoggingMiddleware(logger *logrus.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			logger.WithFields(logrus.Fields{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": time.Since(start).String(),
			}).Info("Request handled")
		})
	}
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")
		rw.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none'")

		next.ServeHTTP(rw, h)
	})
}
