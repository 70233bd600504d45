package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"
	"time"
)

// MemoryBlobStore is an in-memory BlobStore for tests and local development.
type MemoryBlobStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
}

type memoryObject struct {
	data    []byte
	modTime time.Time
}

// NewMemoryBlobStore builds an empty in-memory blob store.
func NewMemoryBlobStore() *MemoryBlobStore {
	return &MemoryBlobStore{objects: make(map[string]memoryObject)}
}

func objectKey(bucket, object string) string {
	return bucket + "/" + object
}

// PutObject stores an object, honoring the no-clobber option.
func (s *MemoryBlobStore) PutObject(ctx context.Context, bucket, object string, reader io.Reader, size int64, opts PutOptions) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	key := objectKey(bucket, object)
	if _, ok := s.objects[key]; ok && !opts.Overwrite {
		return ErrObjectExists
	}
	s.objects[key] = memoryObject{data: data, modTime: time.Now()}
	return nil
}

// RemoveObject deletes an object; removing an absent object is a no-op, as
// with the real store.
func (s *MemoryBlobStore) RemoveObject(ctx context.Context, bucket, object string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey(bucket, object))
	return nil
}

// StatObject returns object info, or ErrObjectNotFound.
func (s *MemoryBlobStore) StatObject(ctx context.Context, bucket, object string) (ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectKey(bucket, object)]
	if !ok {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return ObjectInfo{ObjectName: object, Size: int64(len(obj.data)), LastModified: obj.modTime}, nil
}

// PresignedGetObject returns a deterministic fake URL embedding the expiry.
func (s *MemoryBlobStore) PresignedGetObject(
	ctx context.Context,
	bucket,
	object string,
	expiry time.Duration,
	params map[string]string,
) (string, error) {
	if _, err := s.StatObject(ctx, bucket, object); err != nil {
		return "", err
	}
	return fmt.Sprintf("memory://%s/%s?expires=%d", bucket, object, int64(expiry.Seconds())), nil
}

// ListObjects returns all objects under a prefix.
func (s *MemoryBlobStore) ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	bucketPrefix := bucket + "/"
	var infos []ObjectInfo
	for key, obj := range s.objects {
		if !strings.HasPrefix(key, bucketPrefix) {
			continue
		}
		object := strings.TrimPrefix(key, bucketPrefix)
		if !strings.HasPrefix(object, prefix) {
			continue
		}
		infos = append(infos, ObjectInfo{ObjectName: object, Size: int64(len(obj.data)), LastModified: obj.modTime})
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ObjectName < infos[j].ObjectName })
	return infos, nil
}

// GetObject returns a reader over stored bytes; used by tests.
func (s *MemoryBlobStore) GetObject(ctx context.Context, bucket, object string) (io.Reader, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[objectKey(bucket, object)]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return bytes.NewReader(obj.data), nil
}

// SetObjectModTime backdates an object's modification time; used by tests.
func (s *MemoryBlobStore) SetObjectModTime(bucket, object string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := objectKey(bucket, object)
	if obj, ok := s.objects[key]; ok {
		obj.modTime = at
		s.objects[key] = obj
	}
}
