// Package surreal implements the document repository on SurrealDB.
package surreal

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"

	"contentapi/internal/repository"
)

// DocumentSurreal persists documents through a single shared driver
// connection. All methods are safe for concurrent use; the driver serializes
// requests on the websocket.
type DocumentSurreal struct {
	db *surrealdb.DB
}

// NewDocumentSurreal constructs a repository over an open connection.
func NewDocumentSurreal(db *surrealdb.DB) *DocumentSurreal {
	return &DocumentSurreal{db: db}
}

// newObjectID returns a 24-character hex identifier: a 4-byte big-endian
// creation timestamp followed by 8 random bytes. The timestamp prefix keeps
// identifiers roughly sortable by creation time.
func newObjectID(now time.Time) string {
	var b [12]byte
	binary.BigEndian.PutUint32(b[0:4], uint32(now.Unix()))
	if _, err := rand.Read(b[4:]); err != nil {
		panic(fmt.Sprintf("read random bytes: %v", err))
	}
	return hex.EncodeToString(b[:])
}

func (r *DocumentSurreal) Create(ctx context.Context, table string, doc any) (repository.Document, error) {
	rid := models.NewRecordID(table, newObjectID(time.Now().UTC()))
	created, err := surrealdb.Create[repository.Document](ctx, r.db, rid, doc)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", table, err)
	}
	if created == nil {
		return nil, fmt.Errorf("create %s: store returned no record", table)
	}
	return normalizeID(*created), nil
}

func (r *DocumentSurreal) FindAll(ctx context.Context, table string, filter map[string]any) ([]repository.Document, error) {
	sql := "SELECT * FROM type::table($table)"
	vars := map[string]any{"table": table}

	if len(filter) > 0 {
		// Filter keys come from the schema registry, never from client
		// input, so interpolating the field name is safe. Values are
		// still passed as parameters.
		keys := make([]string, 0, len(filter))
		for k := range filter {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		conds := make([]string, 0, len(keys))
		for i, k := range keys {
			p := fmt.Sprintf("f%d", i)
			conds = append(conds, fmt.Sprintf("%s = $%s", k, p))
			vars[p] = filter[k]
		}
		sql += " WHERE " + strings.Join(conds, " AND ")
	}

	res, err := surrealdb.Query[[]repository.Document](ctx, r.db, sql, vars)
	if err != nil {
		return nil, fmt.Errorf("select from %s: %w", table, err)
	}
	if res == nil || len(*res) == 0 {
		return []repository.Document{}, nil
	}

	docs := (*res)[0].Result
	for i, doc := range docs {
		docs[i] = normalizeID(doc)
	}
	return docs, nil
}

func (r *DocumentSurreal) FindByID(ctx context.Context, table, id string) (repository.Document, error) {
	rid := models.NewRecordID(table, id)
	doc, err := surrealdb.Select[repository.Document](ctx, r.db, rid)
	if err != nil {
		return nil, fmt.Errorf("select %s:%s: %w", table, id, err)
	}
	// The surrealcbor codec decodes a missing record to nil.
	if doc == nil || *doc == nil {
		return nil, repository.ErrNotFound
	}
	return normalizeID(*doc), nil
}

func (r *DocumentSurreal) UpdateByID(ctx context.Context, table, id string, patch map[string]any) (repository.Document, error) {
	// Merge on a nonexistent record would create it; check existence first
	// so an unknown identifier surfaces as ErrNotFound instead.
	if _, err := r.FindByID(ctx, table, id); err != nil {
		return nil, err
	}

	rid := models.NewRecordID(table, id)
	updated, err := surrealdb.Merge[repository.Document](ctx, r.db, rid, patch)
	if err != nil {
		return nil, fmt.Errorf("merge %s:%s: %w", table, id, err)
	}
	if updated == nil {
		return nil, repository.ErrNotFound
	}
	return normalizeID(*updated), nil
}

func (r *DocumentSurreal) DeleteByID(ctx context.Context, table, id string) error {
	if _, err := r.FindByID(ctx, table, id); err != nil {
		return err
	}

	rid := models.NewRecordID(table, id)
	if _, err := surrealdb.Delete[repository.Document](ctx, r.db, rid); err != nil {
		return fmt.Errorf("delete %s:%s: %w", table, id, err)
	}
	return nil
}

func (r *DocumentSurreal) Ping(ctx context.Context) error {
	if _, err := surrealdb.Query[bool](ctx, r.db, "RETURN true", nil); err != nil {
		return fmt.Errorf("ping: %w", err)
	}
	return nil
}

// normalizeID flattens the driver's RecordID under the "id" key to the bare
// 24-hex identifier clients see.
func normalizeID(doc repository.Document) repository.Document {
	switch v := doc["id"].(type) {
	case models.RecordID:
		doc["id"] = fmt.Sprint(v.ID)
	case *models.RecordID:
		if v != nil {
			doc["id"] = fmt.Sprint(v.ID)
		}
	}
	return doc
}
