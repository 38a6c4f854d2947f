package handlers

import (
	"encoding/json"
	"net/http"
	"path"
	"time"

	"booking_backend/domain"
	"booking_backend/errors"
	"booking_backend/storage"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const maxUploadPhotos = 10

type UploadHandler struct {
	files  *storage.FileStorage
	cache  domain.ImageCache
	tracer trace.Tracer
	logger *logrus.Logger
	cb     *gobreaker.CircuitBreaker
}

func NewUploadHandler(files *storage.FileStorage, cache domain.ImageCache, tracer trace.Tracer, logger *logrus.Logger) *UploadHandler {
	return &UploadHandler{
		files:  files,
		cache:  cache,
		tracer: tracer,
		logger: logger,
		cb:     CircuitBreaker("imageDownload"),
	}
}

func (handler *UploadHandler) Init(router *mux.Router) {
	router.HandleFunc("/upload", handler.Upload).Methods("POST")
	router.HandleFunc("/upload-by-link", handler.UploadByLink).Methods("POST")
	router.HandleFunc("/uploads/{file}", handler.ServeUpload).Methods("GET")
}

func (handler *UploadHandler) Upload(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UploadHandler.Upload")
	defer span.End()

	err := req.ParseMultipartForm(32 << 20)
	if err != nil {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	photos := req.MultipartForm.File["photos"]
	if len(photos) > maxUploadPhotos {
		photos = photos[:maxUploadPhotos]
	}

	uploadedFiles := []string{}
	for _, fileHeader := range photos {
		name, err := handler.files.SaveUpload(ctx, fileHeader)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			http.Error(writer, "Error storing uploaded file", http.StatusInternalServerError)
			return
		}

		if content, readErr := handler.files.GetImageContent(ctx, name); readErr == nil {
			if cacheErr := handler.cache.Post(ctx, name, content); cacheErr != nil {
				handler.logger.Warnf("could not cache uploaded image %s: %v", name, cacheErr)
			}
		}

		uploadedFiles = append(uploadedFiles, name)
	}

	jsonResponse(uploadedFiles, writer)
}

func (handler *UploadHandler) UploadByLink(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UploadHandler.UploadByLink")
	defer span.End()

	var request domain.UploadByLinkRequest
	err := json.NewDecoder(req.Body).Decode(&request)
	if err != nil || request.Link == "" {
		http.Error(writer, errors.InvalidRequestFormatError, http.StatusBadRequest)
		return
	}

	result, breakerErr := handler.cb.Execute(func() (interface{}, error) {
		return handler.files.DownloadImage(ctx, request.Link)
	})
	if breakerErr != nil {
		span.SetStatus(codes.Error, breakerErr.Error())
		handler.logger.Errorf("Error downloading image from %s: %v", request.Link, breakerErr)
		http.Error(writer, errors.DownloadError, http.StatusBadGateway)
		return
	}

	newName := result.(string)

	if content, readErr := handler.files.GetImageContent(ctx, newName); readErr == nil {
		if cacheErr := handler.cache.Post(ctx, newName, content); cacheErr != nil {
			handler.logger.Warnf("could not cache downloaded image %s: %v", newName, cacheErr)
		}
	}

	jsonResponse(newName, writer)
}

// ServeUpload returns a stored photo, preferring the cache over disk.
func (handler *UploadHandler) ServeUpload(writer http.ResponseWriter, req *http.Request) {
	ctx, span := handler.tracer.Start(req.Context(), "UploadHandler.ServeUpload")
	defer span.End()

	vars := mux.Vars(req)
	imageName := path.Base(vars["file"])

	if handler.cache.Exists(imageName) {
		content, err := handler.cache.Get(ctx, imageName)
		if err == nil {
			writer.Header().Set("Content-Type", http.DetectContentType(content))
			writer.Write(content)
			return
		}
	}

	content, err := handler.files.GetImageContent(ctx, imageName)
	if err != nil {
		http.Error(writer, "File not found", http.StatusNotFound)
		return
	}

	if cacheErr := handler.cache.Post(ctx, imageName, content); cacheErr != nil {
		handler.logger.Warnf("could not cache image %s: %v", imageName, cacheErr)
	}

	writer.Header().Set("Content-Type", http.DetectContentType(content))
	writer.Write(content)
}

func CircuitBreaker(name string) *gobreaker.CircuitBreaker {
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
				logrus.Infof("Circuit Breaker '%s' changed from '%s' to '%s'", name, from, to)
			},
			IsSuccessful: func(err error) bool {
				if err == nil {
					return true
				}
				errResp, ok := err.(errors.ErrResp)
				return ok && errResp.StatusCode >= 400 && errResp.StatusCode < 500
			},
		},
	)
}
