package accounts

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/dmitrijs2005/sessionkeeper/internal/common"
	"github.com/dmitrijs2005/sessionkeeper/internal/server/models"
)

const s3AppendAttempts = 8

// S3API is the part of *s3.Client the repository uses.
type S3API interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	DeleteObject(ctx context.Context, in *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Options configures the client returned by NewS3Client.
type S3Options struct {
	Region       string
	Endpoint     string
	AccessKey    string
	SecretKey    string
	UsePathStyle bool
}

// NewS3Client builds an S3 client with static credentials, suitable for
// MinIO as well as AWS.
func NewS3Client(ctx context.Context, o S3Options) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(o.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			o.AccessKey,
			o.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(so *s3.Options) {
		if o.Endpoint != "" {
			so.BaseEndpoint = aws.String(o.Endpoint)
		}
		so.UsePathStyle = o.UsePathStyle
	}), nil
}

// S3Repository stores one JSON object per account and one small object per
// refresh token holding the owner's email. Creation relies on conditional
// writes (If-None-Match) and appends on optimistic concurrency (If-Match on
// the account object's ETag).
type S3Repository struct {
	client S3API
	bucket string
	prefix string
}

func NewS3Repository(client S3API, bucket, prefix string) *S3Repository {
	return &S3Repository{client: client, bucket: bucket, prefix: prefix}
}

func (r *S3Repository) accountKey(email string) string {
	return r.prefix + "accounts/" + email + ".json"
}

func (r *S3Repository) tokenKey(token string) string {
	return r.prefix + "refresh/" + token
}

func (r *S3Repository) Create(ctx context.Context, account *models.Account) error {
	stored := account.Clone()
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = time.Now().UTC()
	}

	body, err := json.Marshal(stored)
	if err != nil {
		return fmt.Errorf("s3 error: %w", err)
	}

	// Index objects are claimed before the account object so a rejected
	// create never leaves the email taken.
	claimed := make([]string, 0, len(stored.RefreshTokens))
	for _, t := range stored.RefreshTokens {
		key := r.tokenKey(t)
		if err := r.putIfAbsent(ctx, key, []byte(stored.Email), "text/plain"); err != nil {
			r.release(ctx, claimed...)
			return err
		}
		claimed = append(claimed, key)
	}

	if err := r.putIfAbsent(ctx, r.accountKey(stored.Email), body, "application/json"); err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			r.release(ctx, claimed...)
		}
		return err
	}
	return nil
}

func (r *S3Repository) Get(ctx context.Context, email string) (*models.Account, error) {
	a, _, err := r.getAccount(ctx, email)
	return a, err
}

// AppendRefreshToken claims the token's index object first, then appends to
// the account object with If-Match, re-reading and retrying when another
// writer got there in between.
func (r *S3Repository) AppendRefreshToken(ctx context.Context, email, token string) error {
	a, etag, err := r.getAccount(ctx, email)
	if err != nil {
		return err
	}

	if err := r.putIfAbsent(ctx, r.tokenKey(token), []byte(email), "text/plain"); err != nil {
		return err
	}

	for attempt := 0; attempt < s3AppendAttempts; attempt++ {
		if attempt > 0 {
			if a, etag, err = r.getAccount(ctx, email); err != nil {
				return err
			}
		}

		a.RefreshTokens = append(a.RefreshTokens, token)
		body, err := json.Marshal(a)
		if err != nil {
			return fmt.Errorf("s3 error: %w", err)
		}

		_, err = r.client.PutObject(ctx, &s3.PutObjectInput{
			Bucket:      aws.String(r.bucket),
			Key:         aws.String(r.accountKey(email)),
			Body:        bytes.NewReader(body),
			ContentType: aws.String("application/json"),
			IfMatch:     aws.String(etag),
		})
		if err == nil {
			return nil
		}
		if !isPreconditionFailed(err) {
			return fmt.Errorf("s3 error: %w", err)
		}
	}

	return fmt.Errorf("s3 error: append to %s: gave up after %d attempts", email, s3AppendAttempts)
}

// FindByRefreshToken follows the index object to the account. An index
// object left behind by an append that never reached the account is
// reported as not found.
func (r *S3Repository) FindByRefreshToken(ctx context.Context, token string) (*models.Account, error) {
	body, _, err := r.get(ctx, r.tokenKey(token))
	if err != nil {
		return nil, err
	}

	a, err := r.Get(ctx, string(body))
	if err != nil {
		return nil, err
	}
	if !a.HasRefreshToken(token) {
		return nil, common.ErrorNotFound
	}
	return a, nil
}

func (r *S3Repository) getAccount(ctx context.Context, email string) (*models.Account, string, error) {
	body, etag, err := r.get(ctx, r.accountKey(email))
	if err != nil {
		return nil, "", err
	}

	a := &models.Account{}
	if err := json.Unmarshal(body, a); err != nil {
		return nil, "", fmt.Errorf("s3 error: decode account: %w", err)
	}
	return a, etag, nil
}

func (r *S3Repository) get(ctx context.Context, key string) ([]byte, string, error) {
	out, err := r.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return nil, "", common.ErrorNotFound
		}
		return nil, "", fmt.Errorf("s3 error: %w", err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, "", fmt.Errorf("s3 error: %w", err)
	}
	return body, aws.ToString(out.ETag), nil
}

func (r *S3Repository) putIfAbsent(ctx context.Context, key string, body []byte, contentType string) error {
	_, err := r.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(r.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(body),
		ContentType: aws.String(contentType),
		IfNoneMatch: aws.String("*"),
	})
	if err != nil {
		if isPreconditionFailed(err) {
			return common.ErrorAlreadyExists
		}
		return fmt.Errorf("s3 error: %w", err)
	}
	return nil
}

// release deletes index objects claimed by a rejected create. Errors are
// ignored; FindByRefreshToken never trusts an index object on its own.
func (r *S3Repository) release(ctx context.Context, keys ...string) {
	for _, key := range keys {
		_, _ = r.client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(r.bucket),
			Key:    aws.String(key),
		})
	}
}

func isNotFound(err error) bool {
	var nsk *types.NoSuchKey
	if errors.As(err, &nsk) {
		return true
	}
	var apiErr smithy.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode() == "NotFound"
}

// S3 answers a lost conditional write with 412 PreconditionFailed, or with
// 409 ConditionalRequestConflict while a competing write is in flight.
func isPreconditionFailed(err error) bool {
	var apiErr smithy.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	switch apiErr.ErrorCode() {
	case "PreconditionFailed", "ConditionalRequestConflict":
		return true
	}
	return false
}
