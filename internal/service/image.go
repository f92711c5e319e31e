package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/appetiteapp/backend/config"
)

// PlaceholderImageURL is served when an image reference cannot be resolved.
const PlaceholderImageURL = "/static/recipe-placeholder.png"

const presignExpiry = 24 * time.Hour

// ImageService stores uploaded recipe images in S3 and resolves stored
// references back to retrievable URLs.
type ImageService struct {
	s3Config *config.S3Config
}

// NewImageService creates a new ImageService instance
func NewImageService(s3Config *config.S3Config) *ImageService {
	return &ImageService{s3Config: s3Config}
}

// Upload stores the image blob and returns the object key to keep as the
// recipe's image reference.
func (s *ImageService) Upload(ctx context.Context, r io.Reader, originalName string) (string, error) {
	if s.s3Config == nil {
		return "", fmt.Errorf("image storage is not configured")
	}

	ext := strings.ToLower(path.Ext(originalName))
	if ext == "" {
		ext = ".jpg"
	}
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := fmt.Sprintf("recipe-images/%s%s", uuid.New().String(), ext)

	_, err := s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload to S3: %w", err)
	}

	log.Printf("uploaded recipe image %s", key)
	return key, nil
}

// Remove deletes a stored image object. Absolute URLs reference images the
// service does not own and are left alone.
func (s *ImageService) Remove(ctx context.Context, imageRef string) error {
	if s.s3Config == nil || isAbsoluteURL(imageRef) {
		return nil
	}
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(imageRef),
	})
	if err != nil {
		return fmt.Errorf("failed to delete %s from S3: %w", imageRef, err)
	}
	return nil
}

// ResolveURL turns an image reference into something a client can fetch.
// Absolute URLs pass through; object keys get a presigned URL. Resolution
// failure degrades to the placeholder so a broken image never fails the
// detail view.
func (s *ImageService) ResolveURL(ctx context.Context, imageRef string) string {
	if imageRef == "" {
		return PlaceholderImageURL
	}
	if isAbsoluteURL(imageRef) {
		return imageRef
	}
	if s.s3Config == nil {
		return PlaceholderImageURL
	}
	url, err := s.s3Config.GeneratePresignedURL(ctx, imageRef, presignExpiry)
	if err != nil {
		log.Printf("failed to presign image %q: %v", imageRef, err)
		return PlaceholderImageURL
	}
	return url
}

func isAbsoluteURL(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}
