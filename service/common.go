package application

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

// Notifier delivers an in-app notification and an email. Delivery is best
// effort and never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, userID primitive.ObjectID, kind domain.NotificationKind, title, message string)
}

// lookup converts a store error into the service error taxonomy.
func lookup(err error, notFound string) error {
	if err == nil {
		return nil
	}
	if stderrors.Is(err, domain.ErrNotFound) {
		return errors.NotFound(notFound)
	}
	return errors.Internal(err)
}

// pathID parses an id taken from the URL; a malformed id names nothing.
func pathID(hex, notFound string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, errors.NotFound(notFound)
	}
	return id, nil
}

// decodePatch writes the keys present in patch over out. Slices and maps are
// replaced, not merged.
func decodePatch(patch map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     out,
		TagName:    "mapstructure",
		ZeroFields: true,
	})
	if err != nil {
		return errors.Internal(err)
	}
	if err := decoder.Decode(patch); err != nil {
		return errors.Validation(errors.InvalidRequestFormatError)
	}
	return nil
}

func publish(ctx context.Context, publisher domain.EventPublisher, logger *logrus.Logger, key string, payload any) {
	if err := publisher.Publish(ctx, key, payload); err != nil {
		logger.WithError(err).WithField("routingKey", key).Warn("Event publish failed")
	}
}

func CircuitBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(
		gobreaker.Settings{
			Name:        name,
			MaxRequests: 1,
			Timeout:     10 * time.Second,
			Interval:    0,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures > 2
			},
			OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
				logger.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
		},
	)
}
