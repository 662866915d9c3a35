package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/consitech/event-manager/internal/core/domain"
)

// AvatarStore uploads profile pictures and hands back their public URL.
// Objects are keyed avatars/<user id>/<random id><ext> so a new upload never
// overwrites a URL somebody may still have cached.
type AvatarStore struct {
	objects ObjectStorage
	baseURL string
}

// NewAvatarStore serves uploaded avatars under baseURL, which must point at
// the root of the bucket.
func NewAvatarStore(objects ObjectStorage, baseURL string) *AvatarStore {
	return &AvatarStore{
		objects: objects,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// UploadAvatar stores data after sniffing that it really is an image.
func (s *AvatarStore) UploadAvatar(ctx context.Context, userID string, data []byte) (string, error) {
	if len(data) == 0 {
		return "", domain.ErrInvalidAvatar
	}

	mt := mimetype.Detect(data)
	if !strings.HasPrefix(mt.String(), "image/") {
		return "", fmt.Errorf("%w: got %s", domain.ErrInvalidAvatar, mt.String())
	}

	key := AvatarKey(userID, mt.Extension())
	if err := s.objects.Put(ctx, key, bytes.NewReader(data), int64(len(data)), mt.String()); err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}
	return s.baseURL + "/" + key, nil
}

// DeleteAvatar removes the object behind url when it lives under userID's
// avatar prefix in this store.
func (s *AvatarStore) DeleteAvatar(ctx context.Context, userID, url string) error {
	key, ok := s.keyOf(userID, url)
	if !ok {
		return nil
	}
	if err := s.objects.Delete(ctx, key); err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (s *AvatarStore) keyOf(userID, url string) (string, bool) {
	key, found := strings.CutPrefix(url, s.baseURL+"/")
	if !found || userID == "" {
		return "", false
	}
	prefix := path.Join("avatars", userID) + "/"
	if !strings.HasPrefix(key, prefix) || path.Clean(key) != key || len(key) == len(prefix) {
		return "", false
	}
	return key, true
}

func AvatarKey(userID, ext string) string {
	return path.Join("avatars", userID, uuid.NewString()+ext)
}

// GCSPublicBaseURL is the anonymous download root of a GCS bucket.
func GCSPublicBaseURL(bucket string) string {
	return "https://storage.googleapis.com/" + bucket
}
