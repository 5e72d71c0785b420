package persistence

import (
	"context"
	"errors"
	"strings"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// FirestoreAdminStore keeps admin profiles as documents of a Firestore collection.
type FirestoreAdminStore struct {
	client     *firestore.Client
	collection string
}

// NewFirestoreAdminStore returns a store over the given collection ("admins" when empty).
func NewFirestoreAdminStore(client *firestore.Client, collection string) (*FirestoreAdminStore, error) {
	if client == nil {
		return nil, errors.New("firestore client is required")
	}
	collection = strings.TrimSpace(collection)
	if collection == "" {
		collection = AdminsCollection
	}
	return &FirestoreAdminStore{client: client, collection: collection}, nil
}

// IsEmpty fetches every document of the collection; there is no count query.
func (s *FirestoreAdminStore) IsEmpty(ctx context.Context) (bool, error) {
	docs, err := s.client.Collection(s.collection).Documents(ctx).GetAll()
	if err != nil {
		return false, err
	}
	return len(docs) == 0, nil
}

// PutAdmin sets the document; createdAt and lastLogin are server timestamps.
func (s *FirestoreAdminStore) PutAdmin(ctx context.Context, id string, params PutAdminParams) error {
	if strings.TrimSpace(id) == "" {
		return errors.New("admin id is required")
	}

	_, err := s.client.Collection(s.collection).Doc(id).Set(ctx, map[string]interface{}{
		"email":       params.Email,
		"name":        params.Name,
		"role":        params.Role,
		"permissions": params.Permissions,
		"isActive":    params.IsActive,
		"createdAt":   firestore.ServerTimestamp,
		"lastLogin":   firestore.ServerTimestamp,
		"createdBy":   params.CreatedBy,
	})
	return err
}

func (s *FirestoreAdminStore) GetAdmin(ctx context.Context, id string) (AdminProfile, error) {
	snap, err := s.client.Collection(s.collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return AdminProfile{}, ErrAdminNotFound
		}
		return AdminProfile{}, err
	}

	var profile AdminProfile
	if err := snap.DataTo(&profile); err != nil {
		return AdminProfile{}, err
	}
	profile.UserID = snap.Ref.ID

	return profile, nil
}

var _ AdminStore = (*FirestoreAdminStore)(nil)
