package startup

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/casbin/casbin"
	gorillaHandlers "github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/harsh17-bit/Urban-Stay-sub001/authorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/casbinAuthorization"
	"github.com/harsh17-bit/Urban-Stay-sub001/domain"
	"github.com/harsh17-bit/Urban-Stay-sub001/handlers"
	"github.com/harsh17-bit/Urban-Stay-sub001/messaging"
	application "github.com/harsh17-bit/Urban-Stay-sub001/service"
	"github.com/harsh17-bit/Urban-Stay-sub001/startup/config"
	"github.com/harsh17-bit/Urban-Stay-sub001/store"
)

const serviceName = "urban_stay"

type Server struct {
	config *config.Config
	logger *logrus.Logger
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
		logger: newLogger(config),
	}
}

func newLogger(cfg *config.Config) *logrus.Logger {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{TimestampFormat: time.RFC3339})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}
	if cfg.LogFilePath == "" {
		return logger
	}

	writer, err := rotatelogs.New(
		cfg.LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
		rotatelogs.WithMaxAge(7*24*time.Hour),
	)
	if err != nil {
		logger.Fatalf("Failed to create log rotation: %v", err)
	}
	logger.SetOutput(io.MultiWriter(os.Stdout, writer))
	return logger
}

// Stores groups the persistence ports the services are built on.
type Stores struct {
	Users         domain.UserStore
	Properties    domain.PropertyStore
	Bookings      domain.BookingStore
	Payments      domain.PaymentStore
	Inquiries     domain.InquiryStore
	Reviews       domain.ReviewStore
	Alerts        domain.AlertStore
	Notifications domain.NotificationStore
	Cache         domain.AuthCache
}

func (server *Server) initMongoClient(ctx context.Context) *mongo.Client {
	client, err := store.GetClient(ctx, server.config.MongoHost, server.config.MongoPort)
	if err != nil {
		server.logger.WithError(err).Fatal("Failed to connect to MongoDB")
	}
	return client
}

func (server *Server) initStores(ctx context.Context, client *mongo.Client, tracer trace.Tracer) Stores {
	db := client.Database(server.config.MongoDB)
	if err := store.EnsureIndexes(ctx, db); err != nil {
		server.logger.WithError(err).Fatal("Failed to create indexes")
	}

	redisClient, err := store.GetRedisClient(server.config.RedisHost, server.config.RedisPort)
	if err != nil {
		server.logger.WithError(err).Fatal("Failed to connect to Redis")
	}

	return Stores{
		Users:         store.NewUserMongoDBStore(db, tracer),
		Properties:    store.NewPropertyMongoDBStore(db, tracer),
		Bookings:      store.NewBookingMongoDBStore(db, tracer),
		Payments:      store.NewPaymentMongoDBStore(db, tracer),
		Inquiries:     store.NewInquiryMongoDBStore(db, tracer),
		Reviews:       store.NewReviewMongoDBStore(db, tracer),
		Alerts:        store.NewAlertMongoDBStore(db, tracer),
		Notifications: store.NewNotificationMongoDBStore(db, tracer),
		Cache:         store.NewAuthRedisCache(redisClient, tracer, server.logger),
	}
}

func (server *Server) initMailer() domain.Mailer {
	if server.config.SMTPEmail == "" || server.config.SMTPPassword == "" {
		server.logger.Info("No SMTP account configured, emails are logged only")
		return application.LogMailer{Logger: server.logger}
	}
	return application.NewGomailMailer(server.config.SMTPHost, server.config.SMTPPort,
		server.config.SMTPEmail, server.config.SMTPPassword)
}

func (server *Server) initPublisher() (domain.EventPublisher, func()) {
	if server.config.AMQPURL == "" {
		return messaging.NopPublisher{}, func() {}
	}
	publisher, err := messaging.NewPublisher(server.config.AMQPURL, server.config.AMQPExchange)
	if err != nil {
		server.logger.WithError(err).Warn("RabbitMQ unavailable, domain events are dropped")
		return messaging.NopPublisher{}, func() {}
	}
	return publisher, func() { _ = publisher.Close() }
}

func (server *Server) initTracer() (trace.TracerProvider, func(context.Context) error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})
	if server.config.JaegerAddress == "" {
		return trace.NewNoopTracerProvider(), func(context.Context) error { return nil }
	}

	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		server.logger.WithError(err).Fatal("Failed to initialize exporter")
	}
	tp := newTraceProvider(exp)
	otel.SetTracerProvider(tp)
	return tp, tp.Shutdown
}

func (server *Server) Start() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	tp, shutdownTracer := server.initTracer()
	defer func() { _ = shutdownTracer(context.Background()) }()
	tracer := tp.Tracer(serviceName)

	mongoClient := server.initMongoClient(ctx)
	defer func() {
		if err := mongoClient.Disconnect(context.Background()); err != nil {
			server.logger.WithError(err).Error("Failed to disconnect from MongoDB")
		}
	}()
	stores := server.initStores(ctx, mongoClient, tracer)

	tokens, err := authorization.NewTokenManager(server.config.SecretKey, server.config.TokenTTL)
	if err != nil {
		server.logger.WithError(err).Fatal("Failed to initialize token manager")
	}
	enforcer, err := casbinAuthorization.NewEnforcer(server.config.CasbinModel, server.config.CasbinPolicy)
	if err != nil {
		server.logger.WithError(err).Fatal("Failed to load authorization policy")
	}

	publisher, closePublisher := server.initPublisher()
	defer closePublisher()

	router, drainMail := NewRouter(stores, server.initMailer(), publisher, tokens, enforcer, tracer, server.logger)
	server.start(router)
	drainMail()
}

// NewRouter builds every service and handler over the given stores and
// mounts them behind the auth guard and the role policy. The returned func
// waits for emails still being sent.
func NewRouter(stores Stores, mailer domain.Mailer, publisher domain.EventPublisher,
	tokens *authorization.TokenManager, enforcer *casbin.Enforcer, tracer trace.Tracer, logger *logrus.Logger) (*mux.Router, func()) {
	notifications := application.NewNotificationService(stores.Notifications, stores.Users, mailer, logger)
	alerts := application.NewAlertService(stores.Alerts, notifications, logger)

	auth := application.NewAuthService(stores.Users, stores.Cache, tokens, logger)
	users := application.NewUserService(stores.Users, stores.Properties, logger)
	properties := application.NewPropertyService(stores.Properties, stores.Users, alerts, logger)
	bookings := application.NewBookingService(stores.Bookings, stores.Properties, stores.Users, notifications, publisher, logger)
	payments := application.NewPaymentService(stores.Payments, stores.Properties, notifications, publisher, logger)
	inquiries := application.NewInquiryService(stores.Inquiries, stores.Properties, notifications, logger)
	reviews := application.NewReviewService(stores.Reviews, stores.Properties, stores.Users, notifications, logger)

	guard := authorization.NewAuthGuard(tokens, stores.Users, stores.Cache, logger)

	router := mux.NewRouter()
	router.Use(handlers.ExtractTraceInfoMiddleware)
	router.Use(handlers.LoggingMiddleware(logger))
	router.Use(handlers.MiddlewareContentTypeSet)
	router.Use(guard.Middleware)
	router.Use(casbinAuthorization.CasbinMiddleware(enforcer, logger))

	handlers.InitHealth(router)
	handlers.NewAuthHandler(auth, logger, tracer).Init(router)
	handlers.NewUserHandler(users, logger, tracer).Init(router)
	handlers.NewPropertyHandler(properties, logger, tracer).Init(router)
	handlers.NewReviewHandler(reviews, logger, tracer).Init(router)
	handlers.NewBookingHandler(bookings, logger, tracer).Init(router)
	handlers.NewPaymentHandler(payments, logger, tracer).Init(router)
	handlers.NewInquiryHandler(inquiries, logger, tracer).Init(router)
	handlers.NewAlertHandler(alerts, logger, tracer).Init(router)
	handlers.NewNotificationHandler(notifications, logger, tracer).Init(router)

	return router, notifications.Wait
}

func (server *Server) start(router *mux.Router) {
	cors := gorillaHandlers.CORS(
		gorillaHandlers.AllowedOrigins(server.config.AllowedOrigins),
		gorillaHandlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions}),
		gorillaHandlers.AllowedHeaders([]string{"Content-Type", "Authorization"}),
		gorillaHandlers.AllowCredentials(),
	)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", server.config.Port),
		Handler:      cors(router),
		IdleTimeout:  120 * time.Second,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	wait := time.Second * 15
	go func() {
		server.logger.WithField("port", server.config.Port).Info("Server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			server.logger.WithError(err).Fatal("Server stopped unexpectedly")
		}
	}()

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		server.logger.WithError(err).Fatal("Error shutting down server")
	}
	server.logger.Info("Server gracefully stopped")
}

func newExporter(address string) (*jaeger.Exporter, error) {
	exp, err := jaeger.New(jaeger.WithCollectorEndpoint(jaeger.WithEndpoint(address)))
	if err != nil {
		return nil, err
	}
	return exp, nil
}

func newTraceProvider(exp sdktrace.SpanExporter) *sdktrace.TracerProvider {
	r, err := resource.Merge(
		resource.Default(),
		resource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceNameKey.String(serviceName),
		),
	)

	if err != nil {
		panic(err)
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(r),
	)
}
