package utils

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Opportunity images live in an S3-compatible bucket (Cloudflare R2).

func getR2Config() (aws.Config, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	accessKey := os.Getenv("R2_ACCESS_KEY_ID")
	secretKey := os.Getenv("R2_SECRET_ACCESS_KEY")

	if accountID == "" || accessKey == "" || secretKey == "" {
		return aws.Config{}, fmt.Errorf("R2_ACCOUNT_ID, R2_ACCESS_KEY_ID or R2_SECRET_ACCESS_KEY is not set")
	}

	cfg, err := config.LoadDefaultConfig(context.TODO(),
		config.WithRegion("auto"), // Required by SDK, R2 ignores this
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return aws.Config{}, fmt.Errorf("load R2 config: %w", err)
	}

	return cfg, nil
}

func getR2Client() (*s3.Client, error) {
	accountID := os.Getenv("R2_ACCOUNT_ID")
	if accountID == "" {
		return nil, fmt.Errorf("R2_ACCOUNT_ID is not set")
	}

	cfg, err := getR2Config()
	if err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://%s.r2.cloudflarestorage.com", accountID)
	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
	})

	return client, nil
}

func getR2Bucket() (string, error) {
	bucket := os.Getenv("R2_BUCKET_NAME")
	if bucket == "" {
		return "", fmt.Errorf("R2_BUCKET_NAME is not set")
	}
	return bucket, nil
}

// OpportunityImageKey builds the object key for an uploaded opportunity image.
// The random component keeps repeated uploads of the same filename distinct.
func OpportunityImageKey(opportunityID uint, filename string) string {
	ext := strings.ToLower(path.Ext(filename))
	return fmt.Sprintf("opportunities/%d/%s%s", opportunityID, uuid.NewString(), ext)
}

// PublicImageURL returns the public URL for an object key, based on the
// bucket's configured public base URL.
func PublicImageURL(objectKey string) (string, error) {
	base := strings.TrimRight(os.Getenv("R2_PUBLIC_BASE_URL"), "/")
	if base == "" {
		return "", fmt.Errorf("R2_PUBLIC_BASE_URL is not set")
	}
	return base + "/" + objectKey, nil
}

// ObjectKeyFromURL recovers the object key from a public URL produced by
// PublicImageURL.
func ObjectKeyFromURL(url string) (string, error) {
	base := strings.TrimRight(os.Getenv("R2_PUBLIC_BASE_URL"), "/")
	if base == "" {
		return "", fmt.Errorf("R2_PUBLIC_BASE_URL is not set")
	}
	if !strings.HasPrefix(url, base+"/") {
		return "", fmt.Errorf("url does not belong to the configured bucket")
	}
	return strings.TrimPrefix(url, base+"/"), nil
}

// UploadToS3 uploads a file to the configured bucket.
func UploadToS3(objectKey string, file io.Reader) error {
	bucket, err := getR2Bucket()
	if err != nil {
		return err
	}

	client, err := getR2Client()
	if err != nil {
		return err
	}

	contentType := mime.TypeByExtension(path.Ext(objectKey))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = client.PutObject(context.TODO(), &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(objectKey),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("R2 upload failed: %w", err)
	}

	return nil
}

// DeleteFromS3 deletes an object from the configured bucket.
func DeleteFromS3(objectKey string) error {
	bucket, err := getR2Bucket()
	if err != nil {
		return err
	}

	client, err := getR2Client()
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(context.TODO(), &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("R2 delete failed: %w", err)
	}

	return nil
}
