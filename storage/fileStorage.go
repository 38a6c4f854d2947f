package storage

import (
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"booking_backend/errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// FileStorage keeps uploaded photos in a flat local directory that the
// server also exposes for reads.
type FileStorage struct {
	root   string
	client *http.Client
	logger *logrus.Logger
	tracer trace.Tracer
}

func New(root string, logger *logrus.Logger, tracer trace.Tracer) (*FileStorage, error) {

	err := os.MkdirAll(root, 0755)
	if err != nil {
		logger.Errorf("Error creating uploads directory %s: %v", root, err)
		return nil, err
	}

	httpClient := &http.Client{
		Transport: &http.Transport{
			MaxIdleConns:        10,
			MaxIdleConnsPerHost: 10,
			MaxConnsPerHost:     10,
		},
	}

	return &FileStorage{
		root:   root,
		client: httpClient,
		logger: logger,
		tracer: tracer,
	}, nil
}

// SaveUpload writes one multipart photo under a temp name, then renames
// it so the original extension survives. Returns the final file name.
func (fs *FileStorage) SaveUpload(ctx context.Context, fileHeader *multipart.FileHeader) (string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.SaveUpload")
	defer span.End()

	file, err := fileHeader.Open()
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error opening uploaded file: %v", err)
		return "", err
	}
	defer file.Close()

	tempName := uuid.New().String()
	tempPath := path.Join(fs.root, tempName)

	out, err := os.Create(tempPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error creating file %s: %v", tempPath, err)
		return "", err
	}

	_, err = io.Copy(out, file)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error writing file %s: %v", tempPath, err)
		return "", err
	}

	parts := strings.Split(fileHeader.Filename, ".")
	ext := parts[len(parts)-1]
	finalName := tempName + "." + ext

	err = os.Rename(tempPath, path.Join(fs.root, finalName))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error renaming file %s: %v", tempPath, err)
		return "", err
	}

	return filepath.ToSlash(finalName), nil
}

// DownloadImage fetches the bytes behind url into the uploads directory
// under a photo<millis>.jpg name. Whatever the url serves is accepted.
func (fs *FileStorage) DownloadImage(ctx context.Context, url string) (string, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.DownloadImage")
	defer span.End()

	newName := fmt.Sprintf("photo%d.jpg", time.Now().UnixMilli())

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	response, err := fs.client.Do(request)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error downloading image from %s: %v", url, err)
		return "", fmt.Errorf(errors.DownloadError)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		span.SetStatus(codes.Error, errors.DownloadError)
		return "", errors.ErrResp{URL: url, StatusCode: response.StatusCode}
	}

	out, err := os.Create(path.Join(fs.root, newName))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", err
	}

	_, err = io.Copy(out, response.Body)
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error writing downloaded image %s: %v", newName, err)
		return "", err
	}

	return newName, nil
}

// GetImageContent reads a stored photo back from disk.
func (fs *FileStorage) GetImageContent(ctx context.Context, imageName string) ([]byte, error) {
	ctx, span := fs.tracer.Start(ctx, "FileStorage.GetImageContent")
	defer span.End()

	fullPath := path.Join(fs.root, path.Base(imageName))

	imageData, err := os.ReadFile(fullPath)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		fs.logger.Errorf("Error reading file %s: %v", fullPath, err)
		return nil, err
	}

	return imageData, nil
}
