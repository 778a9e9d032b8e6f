package storage

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/Veraticus/spice-budget/internal/common"
)

// DefaultFirestoreCollection holds snapshot documents when no collection is configured.
const DefaultFirestoreCollection = "snapshots"

// FirestoreStore keeps each blob in a document of one collection.
type FirestoreStore struct {
	client     *firestore.Client
	collection *firestore.CollectionRef
	retry      common.RetryOptions
}

type snapshotDoc struct {
	UpdatedAt time.Time `firestore:"updatedAt"`
	Blob      string    `firestore:"blob"`
	Checksum  string    `firestore:"checksum"`
}

// NewFirestoreStore connects to the project's default database.
func NewFirestoreStore(ctx context.Context, projectID, collection string) (*FirestoreStore, error) {
	if err := validateString(projectID, "projectID"); err != nil {
		return nil, err
	}
	if collection == "" {
		collection = DefaultFirestoreCollection
	}

	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create firestore client: %w", err)
	}

	return &FirestoreStore{
		client:     client,
		collection: client.Collection(collection),
		retry:      common.DefaultRetryOptions(),
	}, nil
}

// Load reads the document for key.
func (f *FirestoreStore) Load(ctx context.Context, key string) ([]byte, error) {
	if err := validateCall(ctx, key); err != nil {
		return nil, err
	}

	var snap *firestore.DocumentSnapshot
	err := common.WithRetry(ctx, func() error {
		var getErr error
		snap, getErr = f.collection.Doc(key).Get(ctx)
		return classifyGRPC(getErr)
	}, f.retry)
	if status.Code(err) == codes.NotFound {
		return nil, fmt.Errorf("%w: %s", ErrBlobNotFound, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load blob %s: %w", key, err)
	}

	var doc snapshotDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrCorruptBlob, key, err)
	}
	data := []byte(doc.Blob)
	if doc.Checksum != "" && doc.Checksum != checksum(data) {
		return nil, fmt.Errorf("%w: %s", ErrCorruptBlob, key)
	}
	return data, nil
}

// Save overwrites the document for key.
func (f *FirestoreStore) Save(ctx context.Context, key string, data []byte) error {
	if err := validateCall(ctx, key); err != nil {
		return err
	}

	doc := snapshotDoc{
		Blob:      string(data),
		Checksum:  checksum(data),
		UpdatedAt: time.Now().UTC(),
	}
	err := common.WithRetry(ctx, func() error {
		_, setErr := f.collection.Doc(key).Set(ctx, doc)
		return classifyGRPC(setErr)
	}, f.retry)
	if err != nil {
		return fmt.Errorf("failed to save blob %s: %w", key, err)
	}
	return nil
}

// Close releases the client connection.
func (f *FirestoreStore) Close() error {
	return f.client.Close()
}

// classifyGRPC marks every status except transient ones as permanent.
func classifyGRPC(err error) error {
	if err == nil {
		return nil
	}
	switch status.Code(err) {
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return &common.RetryableError{Err: err, Retryable: true}
	default:
		return common.Permanent(err)
	}
}
