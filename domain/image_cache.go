package domain

import "context"

type ImageCache interface {
	Post(ctx context.Context, imageName string, image []byte) error
	Get(ctx context.Context, imageName string) ([]byte, error)
	Exists(imageName string) bool
}
