package database

import (
	"context"
	"fmt"
	"net/url"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/connection"
	"github.com/surrealdb/surrealdb.go/pkg/connection/gorillaws"
	"github.com/surrealdb/surrealdb.go/surrealcbor"

	"contentapi/internal/config"
)

// NewSurrealDB opens a SurrealDB connection over websocket, signs in and
// selects the configured namespace/database.
//
// The surrealcbor codec is configured explicitly rather than relying on the
// driver default: SurrealDB speaks CBOR internally, and the default Go
// marshaling mishandles datetimes and record identifiers.
func NewSurrealDB(ctx context.Context, c config.DatabaseConfig) (*surrealdb.DB, error) {
	if c.URL == "" || c.Namespace == "" || c.Database == "" {
		return nil, fmt.Errorf("invalid database config: url, namespace, and database are required")
	}

	u, err := url.Parse(c.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}

	conf := connection.NewConfig(u)
	codec := surrealcbor.New()
	conf.Marshaler = codec
	conf.Unmarshaler = codec

	db, err := surrealdb.FromConnection(ctx, gorillaws.New(conf))
	if err != nil {
		return nil, fmt.Errorf("connect to surrealdb: %w", err)
	}

	if c.User != "" {
		if _, err := db.SignIn(ctx, map[string]any{
			"user": c.User,
			"pass": c.Pass,
		}); err != nil {
			return nil, fmt.Errorf("surrealdb signin: %w", err)
		}
	}

	if err := db.Use(ctx, c.Namespace, c.Database); err != nil {
		return nil, fmt.Errorf("surrealdb use %s/%s: %w", c.Namespace, c.Database, err)
	}

	return db, nil
}
