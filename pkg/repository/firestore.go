package repository

import (
	"context"
	"strings"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/syokota-cyber/study-tracker/pkg/model"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const defaultCollection = "study_records"

// Firestore is a RecordStore backed by a Firestore collection. Document IDs
// are random UUIDs.
type Firestore struct {
	client *firestore.Client
	opts   *options
}

// NewFirestore creates a new Firestore store
func NewFirestore(ctx context.Context, projectID, databaseID string, opts ...Option) (*Firestore, error) {
	if projectID == "" {
		return nil, goerr.New("firestore project ID is required")
	}
	if databaseID == "" {
		databaseID = firestore.DefaultDatabaseID
	}

	client, err := firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create firestore client",
			goerr.V("project_id", projectID),
			goerr.V("database_id", databaseID))
	}

	return &Firestore{client: client, opts: newOptions(opts)}, nil
}

func (f *Firestore) collection() *firestore.CollectionRef {
	return f.client.Collection(f.opts.collection)
}

// doc returns nil for IDs that cannot name a document in the collection
func (f *Firestore) doc(id model.RecordID) *firestore.DocumentRef {
	if id == "" || strings.Contains(string(id), "/") {
		return nil
	}
	return f.collection().Doc(string(id))
}

func (f *Firestore) Insert(ctx context.Context, input *model.RecordInput) (model.RecordID, error) {
	id := model.RecordID(uuid.NewString())
	record := input.Build(id, f.opts.timestamp())

	if _, err := f.collection().Doc(id.String()).Create(ctx, record); err != nil {
		return "", goerr.Wrap(err, "failed to create record document", goerr.V("id", id))
	}
	return id, nil
}

func (f *Firestore) Get(ctx context.Context, id model.RecordID) (*model.Record, error) {
	ref := f.doc(id)
	if ref == nil {
		return nil, nil
	}

	snap, err := ref.Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get record document", goerr.V("id", id))
	}
	return decodeFirestoreRecord(snap)
}

func (f *Firestore) ScanAll(ctx context.Context) ([]*model.Record, error) {
	iter := f.collection().OrderBy("created_at", firestore.Desc).Documents(ctx)
	defer iter.Stop()

	records := make([]*model.Record, 0)
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, goerr.Wrap(err, "failed to iterate record documents")
		}

		record, err := decodeFirestoreRecord(snap)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (f *Firestore) Update(ctx context.Context, id model.RecordID, update *model.RecordUpdate) (bool, error) {
	ref := f.doc(id)
	if ref == nil {
		return false, nil
	}

	var updates []firestore.Update
	for _, field := range update.Fields() {
		updates = append(updates, firestore.Update{Path: field.Name, Value: field.Value})
	}
	updates = append(updates, firestore.Update{Path: "updated_at", Value: f.opts.timestamp()})

	// Update fails with NotFound when the document does not exist
	if _, err := ref.Update(ctx, updates); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to update record document", goerr.V("id", id))
	}
	return true, nil
}

func (f *Firestore) Delete(ctx context.Context, id model.RecordID) (bool, error) {
	ref := f.doc(id)
	if ref == nil {
		return false, nil
	}

	if _, err := ref.Delete(ctx, firestore.Exists); err != nil {
		if status.Code(err) == codes.NotFound {
			return false, nil
		}
		return false, goerr.Wrap(err, "failed to delete record document", goerr.V("id", id))
	}
	return true, nil
}

func (f *Firestore) Close() error {
	return f.client.Close()
}

func decodeFirestoreRecord(snap *firestore.DocumentSnapshot) (*model.Record, error) {
	var record model.Record
	if err := snap.DataTo(&record); err != nil {
		return nil, goerr.Wrap(err, "failed to decode record document", goerr.V("id", snap.Ref.ID))
	}
	record.ID = model.RecordID(snap.Ref.ID)
	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return &record, nil
}
