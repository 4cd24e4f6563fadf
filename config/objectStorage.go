package config

import (
	"log"
	"os"

	"github.com/Sneha-masapeta/fixitfelix-sih-2025-dept/storage"
)

// ConnectObjectStorage initializes the MinIO-backed photo store from
// S3_* environment variables.
func ConnectObjectStorage() *storage.MinioStore {
	endpoint := os.Getenv("S3_ENDPOINT")
	if endpoint == "" {
		log.Fatal("Please define the S3_ENDPOINT environment variable")
	}
	accessKey := os.Getenv("S3_ACCESS_KEY")
	secretKey := os.Getenv("S3_SECRET_KEY")
	bucket := os.Getenv("S3_BUCKET")
	if bucket == "" {
		bucket = "issue-photos"
	}
	useSSL := os.Getenv("S3_USE_SSL") == "true"

	store, err := storage.NewMinioStore(endpoint, accessKey, secretKey, bucket, useSSL)
	if err != nil {
		log.Fatalf("Failed to connect to object storage: %v", err)
	}

	log.Println("Connected to object storage")
	return store
}
