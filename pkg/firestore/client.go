package firestore

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/option"

	"github.com/avelinestudio/aveline-backend/pkg/config"
	"github.com/avelinestudio/aveline-backend/pkg/logger"
)

// Client wraps the shared Firestore connection used for the document store
// behind carts, wishlists, profiles and CMS content.
type Client struct {
	raw *firestore.Client
}

// New connects to Firestore for the configured project. Explicit credentials
// are used when provided, otherwise application default credentials apply.
func New(ctx context.Context, cfg config.FirestoreConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}

	var opts []option.ClientOption
	if gcp.CredentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(gcp.CredentialsJSON)))
	} else if gcp.ApplicationCredentials != "" {
		opts = append(opts, option.WithCredentialsFile(gcp.ApplicationCredentials))
	}

	raw, err := firestore.NewClient(ctx, cfg.ProjectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("connecting to firestore: %w", err)
	}

	if logg != nil {
		logg.Info(logg.WithField(ctx, "project_id", cfg.ProjectID), "firestore connection established")
	}

	return &Client{raw: raw}, nil
}

// Raw returns the underlying Firestore client.
func (c *Client) Raw() *firestore.Client {
	return c.raw
}

// Doc returns a reference to a document within the named collection.
func (c *Client) Doc(collection, id string) *firestore.DocumentRef {
	return c.raw.Collection(collection).Doc(id)
}

// Close releases the connection.
func (c *Client) Close() error {
	if c.raw == nil {
		return nil
	}
	return c.raw.Close()
}
