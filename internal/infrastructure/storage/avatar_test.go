package storage

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/consitech/event-manager/internal/core/domain"
)

type memObject struct {
	data        []byte
	contentType string
}

type memStorage struct {
	objects   map[string]memObject
	putErr    error
	deleteErr error
	deleted   []string
}

func newMemStorage() *memStorage {
	return &memStorage{objects: make(map[string]memObject)}
}

func (m *memStorage) EnsureBucket(context.Context) error { return nil }
func (m *memStorage) Ping(context.Context) error         { return nil }
func (m *memStorage) Bucket() string                     { return "test-bucket" }

func (m *memStorage) Put(_ context.Context, key string, r io.Reader, _ int64, contentType string) error {
	if m.putErr != nil {
		return m.putErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.objects[key] = memObject{data: data, contentType: contentType}
	return nil
}

func (m *memStorage) Delete(_ context.Context, key string) error {
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deleted = append(m.deleted, key)
	delete(m.objects, key)
	return nil
}

// smallest valid PNG header, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

func TestAvatarStore_UploadAvatar(t *testing.T) {
	mem := newMemStorage()
	store := NewAvatarStore(mem, "https://cdn.example.com/bucket/")

	url, err := store.UploadAvatar(context.Background(), "user-1", pngBytes)
	if err != nil {
		t.Fatalf("UploadAvatar returned error: %v", err)
	}
	if !strings.HasPrefix(url, "https://cdn.example.com/bucket/avatars/user-1/") || !strings.HasSuffix(url, ".png") {
		t.Fatalf("unexpected url: %s", url)
	}

	key := strings.TrimPrefix(url, "https://cdn.example.com/bucket/")
	obj, ok := mem.objects[key]
	if !ok {
		t.Fatalf("expected object %s to be stored", key)
	}
	if obj.contentType != "image/png" {
		t.Fatalf("unexpected content type: %s", obj.contentType)
	}
}

func TestAvatarStore_UploadAvatar_RejectsNonImages(t *testing.T) {
	store := NewAvatarStore(newMemStorage(), "https://cdn.example.com")

	for name, data := range map[string][]byte{
		"empty": nil,
		"text":  []byte("definitely not a picture"),
	} {
		t.Run(name, func(t *testing.T) {
			if _, err := store.UploadAvatar(context.Background(), "u", data); !errors.Is(err, domain.ErrInvalidAvatar) {
				t.Fatalf("expected ErrInvalidAvatar, got %v", err)
			}
		})
	}
}

func TestAvatarStore_UploadAvatar_PutFailure(t *testing.T) {
	mem := newMemStorage()
	mem.putErr = errors.New("bucket gone")
	store := NewAvatarStore(mem, "https://cdn.example.com")

	if _, err := store.UploadAvatar(context.Background(), "u", pngBytes); err == nil {
		t.Fatalf("expected error")
	}
}

func TestAvatarKey_Unique(t *testing.T) {
	a, b := AvatarKey("u", ".jpg"), AvatarKey("u", ".jpg")
	if a == b {
		t.Fatalf("expected distinct keys, got %s twice", a)
	}
	if !strings.HasPrefix(a, "avatars/u/") {
		t.Fatalf("unexpected key: %s", a)
	}
}

func TestAvatarStore_DeleteAvatar(t *testing.T) {
	mem := newMemStorage()
	store := NewAvatarStore(mem, "https://cdn.example.com/bucket")
	ctx := context.Background()

	url, err := store.UploadAvatar(ctx, "user-1", pngBytes)
	if err != nil {
		t.Fatalf("UploadAvatar returned error: %v", err)
	}
	if err := store.DeleteAvatar(ctx, "user-1", url); err != nil {
		t.Fatalf("DeleteAvatar returned error: %v", err)
	}
	if len(mem.objects) != 0 || len(mem.deleted) != 1 {
		t.Fatalf("expected the object to be removed, have %v", mem.objects)
	}
}

func TestAvatarStore_DeleteAvatar_IgnoresForeignURLs(t *testing.T) {
	mem := newMemStorage()
	store := NewAvatarStore(mem, "https://cdn.example.com/bucket")

	for _, url := range []string{
		"",
		domain.PlaceholderAvatar("Mario", "Rossi"),
		"https://elsewhere.example.com/bucket/avatars/user-1/a.png",
		"https://cdn.example.com/bucket/avatars/user-2/a.png",
		"https://cdn.example.com/bucket/avatars/user-1/../user-2/a.png",
		"https://cdn.example.com/bucket/avatars/user-1/",
	} {
		if err := store.DeleteAvatar(context.Background(), "user-1", url); err != nil {
			t.Fatalf("DeleteAvatar(%q) returned error: %v", url, err)
		}
	}
	if len(mem.deleted) != 0 {
		t.Fatalf("expected nothing deleted, got %v", mem.deleted)
	}
}

func TestAvatarStore_DeleteAvatar_Failure(t *testing.T) {
	mem := newMemStorage()
	mem.deleteErr = errors.New("permission denied")
	store := NewAvatarStore(mem, "https://cdn.example.com")

	err := store.DeleteAvatar(context.Background(), "u", "https://cdn.example.com/avatars/u/x.png")
	if err == nil || !strings.Contains(err.Error(), "avatars/u/x.png") {
		t.Fatalf("expected wrapped delete error, got %v", err)
	}
}
