package db

import (
	"context"
	"encoding/base64"
	"fmt"
	"os"

	"cloud.google.com/go/firestore"
	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/auth"
	"google.golang.org/api/option"

	"github.com/samdaniel-2006/Campus-Lost-And-Found/internal/config"
)

// Clients bundles the Firebase Admin SDK handles the application needs.
// It is built once at startup and handed to whoever needs it; this package
// keeps no global state.
type Clients struct {
	Firestore *firestore.Client
	Auth      *auth.Client
}

// NewClients initializes the Firebase Admin SDK and returns the Firestore
// and Auth clients.
//
// Credentials resolve in order: explicit service account file, base64-encoded
// service account JSON, then Application Default Credentials.
func NewClients(ctx context.Context, appConfig *config.Config) (*Clients, error) {
	if appConfig == nil {
		return nil, fmt.Errorf("db.NewClients: appConfig cannot be nil")
	}

	var opts []option.ClientOption
	switch {
	case appConfig.GoogleApplicationCredentials != "":
		if _, err := os.Stat(appConfig.GoogleApplicationCredentials); os.IsNotExist(err) {
			return nil, fmt.Errorf("service account key file does not exist at path: %s", appConfig.GoogleApplicationCredentials)
		}
		opts = append(opts, option.WithCredentialsFile(appConfig.GoogleApplicationCredentials))
	case appConfig.FirebaseServiceAccountJSONBase64 != "":
		decoded, err := base64.StdEncoding.DecodeString(appConfig.FirebaseServiceAccountJSONBase64)
		if err != nil {
			return nil, fmt.Errorf("failed to decode FIREBASE_SERVICE_ACCOUNT_JSON_BASE64: %w", err)
		}
		opts = append(opts, option.WithCredentialsJSON(decoded))
	default:
		// Neither configured; fall through to Application Default Credentials.
	}

	fbConfig := &firebase.Config{ProjectID: appConfig.FirebaseProjectID}
	app, err := firebase.NewApp(ctx, fbConfig, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firebase app: %w", err)
	}

	fsClient, err := app.Firestore(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Firestore client: %w", err)
	}

	authClient, err := app.Auth(ctx)
	if err != nil {
		fsClient.Close()
		return nil, fmt.Errorf("failed to initialize Firebase Auth client: %w", err)
	}

	return &Clients{Firestore: fsClient, Auth: authClient}, nil
}

// Close releases the underlying Firestore connection.
func (c *Clients) Close() error {
	if c == nil || c.Firestore == nil {
		return nil
	}
	return c.Firestore.Close()
}
