package media

import (
	"context"
	"fmt"
	"log"
	"mime"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// avatarPrefix namespaces every hosted avatar object.
const avatarPrefix = "job-tracker/avatars/"

// AvatarStore hosts user avatar images in an object-storage bucket and
// serves them by public URL.
type AvatarStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

func NewAvatarStore(ctx context.Context, endpoint, accessKey, secretKey, bucket string, useSSL bool) (*AvatarStore, error) {
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(accessKey, secretKey, ""),
		Secure: useSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	// Ensure bucket exists
	exists, err := client.BucketExists(ctx, bucket)
	if err != nil {
		return nil, fmt.Errorf("minio bucket check: %w", err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("minio make bucket: %w", err)
		}
	}

	scheme := "http"
	if useSSL {
		scheme = "https"
	}
	return &AvatarStore{
		client:  client,
		bucket:  bucket,
		baseURL: scheme + "://" + endpoint,
	}, nil
}

// Upload stores the image at localPath under the avatar namespace and
// returns its public URL. The local file is removed regardless of outcome.
func (s *AvatarStore) Upload(ctx context.Context, localPath string) (string, error) {
	defer os.Remove(localPath)

	ext := strings.ToLower(filepath.Ext(localPath))
	contentType := mime.TypeByExtension(ext)
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key := avatarPrefix + uuid.New().String() + ext

	if _, err := s.client.FPutObject(ctx, s.bucket, key, localPath, minio.PutObjectOptions{
		ContentType: contentType,
	}); err != nil {
		return "", fmt.Errorf("avatar upload: %w", err)
	}
	return s.baseURL + "/" + s.bucket + "/" + key, nil
}

// Delete removes a hosted avatar by its stored URL. Failures are logged and
// swallowed; URLs outside our bucket (generated defaults) are ignored.
func (s *AvatarStore) Delete(ctx context.Context, avatarURL string) {
	key, ok := s.objectKey(avatarURL)
	if !ok {
		return
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		log.Printf("avatar delete %s: %v", key, err)
	}
}

// objectKey extracts the object key from a hosted avatar URL. The second
// return is false when the URL is not an object in our bucket.
func (s *AvatarStore) objectKey(avatarURL string) (string, bool) {
	u, err := url.Parse(avatarURL)
	if err != nil {
		return "", false
	}
	key := strings.TrimPrefix(u.Path, "/"+s.bucket+"/")
	if key == u.Path || !strings.HasPrefix(key, avatarPrefix) {
		return "", false
	}
	return key, true
}

// DefaultAvatarURL builds the generated avatar for a user name.
func DefaultAvatarURL(name string) string {
	return "https://avatar.iran.liara.run/username?username=" + strings.ReplaceAll(name, " ", "+")
}
