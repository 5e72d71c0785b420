package gcp

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	firebaseauth "firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/zenGate-Global/palmyra-admins/platform/go/setups"
)

// Clients bundles the Firebase handles shared by every request.
// Firestore is nil when the caller did not ask for it.
type Clients struct {
	App       *firebase.App
	Auth      *firebaseauth.Client
	Firestore *firestore.Client
}

// Close releases the Firestore connection, if any.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}

// GetApp Creates a Firebase App instance.
func GetApp(ctx context.Context, settings setups.Firebase) (*firebase.App, error) {
	var conf *firebase.Config
	if settings.ProjectID != "" {
		conf = &firebase.Config{ProjectID: settings.ProjectID}
	}

	if settings.CredentialsPath != nil {
		return firebase.NewApp(ctx, conf, option.WithCredentialsFile(*settings.CredentialsPath))
	}
	return firebase.NewApp(ctx, conf)
}

// InitFirebase initializes the Firebase App and the Auth client, plus a Firestore client when withFirestore is set.
func InitFirebase(ctx context.Context, settings setups.Firebase, withFirestore bool) (*Clients, error) {
	app, err := GetApp(ctx, settings)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase app [%w]", err)
	}

	fbAuth, err := app.Auth(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firebase auth [%w]", err)
	}

	clients := &Clients{App: app, Auth: fbAuth}
	if !withFirestore {
		return clients, nil
	}

	fs, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("error initializing firestore [%w]", err)
	}
	if fs == nil {
		return nil, errors.New("firestore client is nil")
	}
	clients.Firestore = fs

	return clients, nil
}
