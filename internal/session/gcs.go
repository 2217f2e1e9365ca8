package session

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
)

// CloudStorageStore implements a session store backed by Google Cloud
// Storage with JSON entries. Sessions survive process restarts, which a
// webhook deployment needs because each update may hit a fresh instance.
type CloudStorageStore struct {
	client     *storage.Client
	bucketName string
	duration   time.Duration
	prefix     string
}

// NewCloudStorageStore creates a new Cloud Storage session store
func NewCloudStorageStore(ctx context.Context, bucketName string, duration time.Duration) (*CloudStorageStore, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating storage client: %w", err)
	}

	return &CloudStorageStore{
		client:     client,
		bucketName: bucketName,
		duration:   duration,
		prefix:     "sessions/",
	}, nil
}

// Get retrieves an entry from Cloud Storage
func (s *CloudStorageStore) Get(ctx context.Context, key string) (*Entry, error) {
	obj := s.client.Bucket(s.bucketName).Object(s.objectName(key))

	reader, err := obj.NewReader(ctx)
	if err != nil {
		if err == storage.ErrObjectNotExist {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("opening object reader: %w", err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading object data: %w", err)
	}

	var entry Entry
	if err := json.Unmarshal(data, &entry); err != nil {
		return nil, fmt.Errorf("unmarshaling session entry: %w", err)
	}

	// Check if expired
	if time.Now().After(entry.ExpiresAt) {
		if err := s.Delete(ctx, key); err != nil {
			log.Printf("Warning: failed to delete expired session entry %s: %v", key, err)
		}
		return nil, ErrNotFound
	}

	return &entry, nil
}

// Set stores an entry in Cloud Storage
func (s *CloudStorageStore) Set(ctx context.Context, key string, entry *Entry) error {
	obj := s.client.Bucket(s.bucketName).Object(s.objectName(key))

	now := time.Now()
	stored := *entry
	stored.Key = key
	if stored.CreatedAt.IsZero() {
		stored.CreatedAt = now
	}
	stored.ExpiresAt = now.Add(s.duration)

	data, err := json.Marshal(&stored)
	if err != nil {
		return fmt.Errorf("marshaling session entry: %w", err)
	}

	writer := obj.NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write(data); err != nil {
		writer.Close()
		return fmt.Errorf("writing object data: %w", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing object writer: %w", err)
	}

	return nil
}

// Delete removes an entry from Cloud Storage
func (s *CloudStorageStore) Delete(ctx context.Context, key string) error {
	obj := s.client.Bucket(s.bucketName).Object(s.objectName(key))

	if err := obj.Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
		return fmt.Errorf("deleting object: %w", err)
	}

	return nil
}

// Sweep removes expired entries. Cloud Storage has no native TTL check on
// read paths we never hit again, so a scheduled sweep bounds growth.
func (s *CloudStorageStore) Sweep(ctx context.Context) (int, error) {
	bucket := s.client.Bucket(s.bucketName)
	it := bucket.Objects(ctx, &storage.Query{Prefix: s.prefix})

	removed := 0
	now := time.Now()

	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return removed, fmt.Errorf("listing objects: %w", err)
		}

		// Entries expire duration after creation; object creation time is
		// close enough that a sweep needn't read every entry body.
		if now.Sub(attrs.Created) < s.duration {
			continue
		}

		if err := bucket.Object(attrs.Name).Delete(ctx); err != nil && err != storage.ErrObjectNotExist {
			return removed, fmt.Errorf("deleting object %s: %w", attrs.Name, err)
		}
		removed++
	}

	return removed, nil
}

// Close closes the Cloud Storage client
func (s *CloudStorageStore) Close() error {
	return s.client.Close()
}

func (s *CloudStorageStore) objectName(key string) string {
	return s.prefix + key + ".json"
}
