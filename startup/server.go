package startup

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"booking_backend/authorization"
	"booking_backend/casbinAuthorization"
	"booking_backend/domain"
	"booking_backend/handlers"
	application "booking_backend/service"
	"booking_backend/startup/config"
	"booking_backend/storage"
	store2 "booking_backend/store"

	"github.com/go-redis/redis"
	"github.com/gorilla/mux"
	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/jaeger"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.12.0"
	"go.opentelemetry.io/otel/trace"
)

type Server struct {
	config *config.Config
}

var Logger = logrus.New()

const (
	LogFilePath = "/app/logs/booking.log"
)

type CustomFormatter struct{}

func (f *CustomFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	msg := fmt.Sprintf("[%s] [%s] %s\n",
		entry.Time.Format("2006-01-02T15:04:05Z07:00"),
		entry.Level,
		entry.Message,
	)

	return []byte(msg), nil
}

func initLogger() {
	writer, err := rotatelogs.New(
		LogFilePath+"_%Y%m%d%H%M",
		rotatelogs.WithRotationTime(24*time.Hour),
	)
	if err != nil {
		Logger.Warnf("Failed to create rotatelogs hook, logging to stdout: %v", err)
		Logger.SetOutput(os.Stdout)
	} else {
		Logger.SetOutput(writer)
	}

	Logger.SetFormatter(&CustomFormatter{})
}

func NewServer(config *config.Config) *Server {
	return &Server{
		config: config,
	}
}

func (server *Server) Start() {

	initLogger()

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	mongoClient := server.initMongoClient(httpClient)
	defer func(mongoClient *mongo.Client, ctx context.Context) {
		err := mongoClient.Disconnect(ctx)
		if err != nil {
			log.Printf("Error disconnecting from MongoDB: %v", err)
		}
	}(mongoClient, context.Background())

	pingCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, readpref.Primary()); err != nil {
		log.Printf("MongoDB ping failed: %v", err)
	}

	ctx := context.Background()
	exp, err := newExporter(server.config.JaegerAddress)
	if err != nil {
		log.Fatalf("Failed to Initialize Exporter: %v", err)
	}

	tp := newTraceProvider(exp)
	defer func() { _ = tp.Shutdown(ctx) }()
	otel.SetTracerProvider(tp)
	tracer := tp.Tracer("booking_backend")
	otel.SetTextMapPropagator(propagation.TraceContext{})

	codec, err := authorization.NewTokenCodec([]byte(server.config.SecretKey))
	if err != nil {
		log.Fatalf("Failed to initialize token codec: %v", err)
	}

	redisClient := server.initRedisClient()
	imageCache := store2.NewImageRedisCache(redisClient, Logger, tracer)
	imageCache.Ping()

	accountStore := server.initAccountStore(mongoClient, tracer)
	placeStore := store2.NewPlaceMongoDBStore(mongoClient, tracer)
	bookingStore := store2.NewBookingMongoDBStore(mongoClient, tracer)

	fileStorage, err := storage.New(server.config.UploadsDir, Logger, tracer)
	if err != nil {
		log.Fatalf("Failed to initialize file storage: %v", err)
	}

	authService := application.NewAuthService(accountStore, codec, server.config.BcryptCost, tracer, Logger)

	authHandler := handlers.NewAuthHandler(authService, codec, tracer, Logger)
	placeHandler := handlers.NewPlaceHandler(placeStore, codec, tracer, Logger)
	bookingHandler := handlers.NewBookingHandler(bookingStore, codec, tracer, Logger)
	uploadHandler := handlers.NewUploadHandler(fileStorage, imageCache, tracer, Logger)

	server.start(codec, authHandler, placeHandler, bookingHandler, uploadHandler)
}

func (server *Server) initMongoClient(httpClient *http.Client) *mongo.Client {
	client, err := store2.GetClientWithHTTPConfig(server.config.BookingDBHost, server.config.BookingDBPort, httpClient)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initRedisClient() *redis.Client {
	client, err := store2.GetRedisClient(server.config.ImageCacheHost, server.config.ImageCachePort)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func (server *Server) initAccountStore(client *mongo.Client, tracer trace.Tracer) domain.AccountStore {
	store := store2.NewAccountMongoDBStore(client, tracer)

	indexCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if mongoStore, ok := store.(*store2.AccountMongoDBStore); ok {
		if err := mongoStore.EnsureEmailIndex(indexCtx); err != nil {
			log.Printf("Error creating unique email index: %v", err)
		}
	}

	return store
}

func (server *Server) start(codec *authorization.TokenCodec, authHandler *handlers.AuthHandler, placeHandler *handlers.PlaceHandler, bookingHandler *handlers.BookingHandler, uploadHandler *handlers.UploadHandler) {
	router := mux.NewRouter()
	router.Use(server.middlewareCORS)
	router.Use(MiddlewareContentTypeSet)

	casbinMiddleware, err := casbinAuthorization.InitializeCasbinMiddleware(server.config.CasbinModel, server.config.CasbinPolicy, codec, Logger)
	if err != nil {
		log.Fatal(err)
	}
	router.Use(casbinMiddleware)

	authHandler.Init(router)
	placeHandler.Init(router)
	bookingHandler.Init(router)
	uploadHandler.Init(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", server.config.Port),
		Handler: router,
	}

	wait := time.Second * 15
	go func() {
		if err := srv.ListenAndServe(); err != nil {
			log.Println(err)
		}
	}()

	Logger.Infof("Server listening on port %s", server.config.Port)

	c := make(chan os.Signal, 1)

	signal.Notify(c, os.Interrupt)
	signal.Notify(c, syscall.SIGTERM)

	<-c

	ctx, cancel := context.WithTimeout(context.Background(), wait)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Error Shutting Down Server %s", err)
	}
	log.Println("Server Gracefully Stopped")
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
			semconv.ServiceNameKey.String("booking_backend"),
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

func (server *Server) middlewareCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Set("Access-Control-Allow-Origin", server.config.ClientOrigin)
		rw.Header().Set("Access-Control-Allow-Credentials", "true")
		rw.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		rw.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		if h.Method == http.MethodOptions {
			rw.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(rw, h)
	})
}

func MiddlewareContentTypeSet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, h *http.Request) {
		rw.Header().Add("Content-Type", "application/json")
		rw.Header().Set("X-Content-Type-Options", "nosniff")
		rw.Header().Set("X-Frame-Options", "DENY")

		next.ServeHTTP(rw, h)
	})
}
