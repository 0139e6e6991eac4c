package application

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gopkg.in/gomail.v2"

	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/errors"
)

type NotificationService struct {
	store  domain.NotificationStore
	users  domain.UserStore
	mailer domain.Mailer
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
	now    func() time.Time
	mail   sync.WaitGroup
}

func NewNotificationService(store domain.NotificationStore, users domain.UserStore, mailer domain.Mailer, logger *logrus.Logger) *NotificationService {
	return &NotificationService{
		store:  store,
		users:  users,
		mailer: mailer,
		cb:     CircuitBreaker("notificationService", logger),
		logger: logger,
		now:    time.Now,
	}
}

// Notify stores an in-app notification and mails the user in the
// background through the circuit breaker. Failures are only logged.
func (service *NotificationService) Notify(ctx context.Context, userID primitive.ObjectID, kind domain.NotificationKind, title, message string) {
	log := service.logger.WithFields(logrus.Fields{"user": userID.Hex(), "kind": kind})

	notification := &domain.Notification{
		ID:        primitive.NewObjectID(),
		User:      userID,
		Kind:      kind,
		Title:     title,
		Message:   message,
		CreatedAt: service.now().UTC(),
	}
	if err := service.store.Insert(ctx, notification); err != nil {
		log.WithError(err).Error("Storing notification failed")
	}

	service.mail.Add(1)
	go func(ctx context.Context) {
		defer service.mail.Done()
		service.sendMail(ctx, log, userID, title, message)
	}(context.WithoutCancel(ctx))
}

func (service *NotificationService) sendMail(ctx context.Context, log *logrus.Entry, userID primitive.ObjectID, title, message string) {
	user, err := service.users.Get(ctx, userID)
	if err != nil {
		log.WithError(err).Warn("Notification recipient lookup failed")
		return
	}
	email := strings.TrimSpace(user.Email)
	if email == "" {
		log.Warn("Notification recipient has no email")
		return
	}

	_, err = service.cb.Execute(func() (interface{}, error) {
		return nil, service.mailer.Send(email, title, message)
	})
	if err != nil {
		log.WithError(err).Warn("Notification email not sent")
	}
}

// Wait blocks until every email dispatched so far has been handled.
func (service *NotificationService) Wait() {
	service.mail.Wait()
}

func (service *NotificationService) List(ctx context.Context, user *domain.User, unreadOnly bool) ([]*domain.Notification, error) {
	notifications, err := service.store.ListByUser(ctx, user.ID, unreadOnly)
	if err != nil {
		return nil, errors.Internal(err)
	}
	return notifications, nil
}

func (service *NotificationService) MarkRead(ctx context.Context, user *domain.User, id string) error {
	notificationID, err := pathID(id, errors.NotificationNotFound)
	if err != nil {
		return err
	}
	return lookup(service.store.MarkRead(ctx, notificationID, user.ID), errors.NotificationNotFound)
}

func (service *NotificationService) MarkAllRead(ctx context.Context, user *domain.User) error {
	if err := service.store.MarkAllRead(ctx, user.ID); err != nil {
		return errors.Internal(err)
	}
	return nil
}

// GomailMailer sends plain text mail over SMTP.
type GomailMailer struct {
	dialer *gomail.Dialer
	from   string
}

func NewGomailMailer(host string, port int, username, password string) *GomailMailer {
	return &GomailMailer{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   username,
	}
}

func (m *GomailMailer) Send(to, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", body)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("sending mail to %s: %w", to, err)
	}
	return nil
}

// LogMailer writes mail to the log instead of sending it. Used when no SMTP
// account is configured.
type LogMailer struct {
	Logger *logrus.Logger
}

func (m LogMailer) Send(to, subject, body string) error {
	m.Logger.WithFields(logrus.Fields{"to": to, "subject": subject}).Debug(body)
	return nil
}
