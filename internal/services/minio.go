package services

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"

	"krc_coffee_backend/internal/database"
)

// UploadImage stores an uploaded file in MinIO and returns its public URL
func UploadImage(file *multipart.FileHeader, folder string) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	bucket := os.Getenv("MINIO_BUCKET")
	objectName := fmt.Sprintf("%s/%s%s", folder, uuid.NewString(), filepath.Ext(file.Filename))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = database.MinIO.PutObject(ctx, bucket, objectName, src, file.Size, minio.PutObjectOptions{
		ContentType: file.Header.Get("Content-Type"),
	})
	if err != nil {
		return "", err
	}

	log.Printf("🪣 Image uploaded: %s", objectName)

	// Without a public base URL the bucket is private, hand out a signed link
	publicURL := os.Getenv("MINIO_PUBLIC_URL")
	if publicURL == "" {
		return PresignedImageURL(objectName)
	}
	return fmt.Sprintf("%s/%s/%s", publicURL, bucket, objectName), nil
}

// PresignedImageURL returns a temporary signed URL for a private object
func PresignedImageURL(objectName string) (string, error) {
	bucket := os.Getenv("MINIO_BUCKET")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	u, err := database.MinIO.PresignedGetObject(ctx, bucket, objectName, 15*time.Minute, nil)
	if err != nil {
		return "", err
	}
	return u.String(), nil
}
