// Package migration defines the store-side schema for every registered
// content type. Required-field and enum enforcement lives here, in the store,
// so the gateway can delegate payload validation entirely.
package migration

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	surrealdb "github.com/surrealdb/surrealdb.go"

	"contentapi/internal/schema"
)

type definitionStep struct {
	Name string
	SQL  string
}

// EnsureSchema applies DEFINE TABLE / DEFINE FIELD statements derived from
// the registry. OVERWRITE makes every statement idempotent, so the pass is
// safe to run on each startup.
func EnsureSchema(ctx context.Context, db *surrealdb.DB, reg *schema.Registry) error {
	start := time.Now()

	steps := buildSteps(reg)

	logJSON(map[string]any{
		"component": "database",
		"event":     "schema_define_start",
		"status":    "in_progress",
		"steps":     len(steps),
	})

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := surrealdb.Query[any](ctx, db, step.SQL, nil); err != nil {
			logJSON(map[string]any{
				"component":     "database",
				"event":         "schema_define_failed",
				"status":        "error",
				"step":          step.Name,
				"error_message": err.Error(),
				"duration_ms":   time.Since(start).Milliseconds(),
			})
			return fmt.Errorf("schema step %s failed: %w", step.Name, err)
		}

		logJSON(map[string]any{
			"component":        "database",
			"event":            "schema_define_step",
			"status":           "success",
			"step":             step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	logJSON(map[string]any{
		"component":   "database",
		"event":       "schema_define_success",
		"status":      "success",
		"duration_ms": time.Since(start).Milliseconds(),
	})

	return nil
}

// buildSteps merges the field definitions of every descriptor sharing a
// table. A field is stored as non-optional only when every model of that
// table requires it; subtype-specific required fields stay optional at the
// table level because rows of other kinds legitimately omit them. Their
// creation-time defaults are likewise left out of the table definition, since
// a store-level DEFAULT would stamp the value onto rows of every kind; the
// gateway applies subtype defaults instead.
func buildSteps(reg *schema.Registry) []definitionStep {
	type mergedField struct {
		schema.Field
		requiredInAll bool
	}

	tables := reg.Tables()
	sort.Strings(tables)

	var steps []definitionStep
	for _, table := range tables {
		merged := map[string]*mergedField{}
		presence := map[string]int{}
		var order []string
		modelCount := 0

		names := reg.Names()
		sort.Strings(names)
		for _, name := range names {
			d, err := reg.Resolve(name)
			if err != nil || d.Table != table {
				continue
			}
			modelCount++
			for _, f := range d.Fields {
				presence[f.Name]++
				if m, ok := merged[f.Name]; ok {
					m.requiredInAll = m.requiredInAll && f.Required
					continue
				}
				merged[f.Name] = &mergedField{Field: f, requiredInAll: f.Required}
				order = append(order, f.Name)
			}
		}

		// A field absent from any model of the table can be neither
		// required nor defaulted table-wide.
		for fname, m := range merged {
			if presence[fname] < modelCount {
				m.requiredInAll = false
				m.DefaultNow = false
			}
		}

		steps = append(steps, definitionStep{
			Name: "define_table_" + table,
			SQL:  fmt.Sprintf("DEFINE TABLE OVERWRITE %s SCHEMAFULL;", table),
		})
		for _, fname := range order {
			steps = append(steps, definitionStep{
				Name: fmt.Sprintf("define_field_%s_%s", table, fname),
				SQL:  fieldSQL(table, merged[fname].Field, merged[fname].requiredInAll),
			})
		}
	}
	return steps
}

func fieldSQL(table string, f schema.Field, required bool) string {
	var b strings.Builder
	b.WriteString("DEFINE FIELD OVERWRITE ")
	b.WriteString(f.Name)
	b.WriteString(" ON ")
	b.WriteString(table)

	if f.Type == schema.TypeObject {
		// Opaque structured blobs keep arbitrary nested fields.
		b.WriteString(" FLEXIBLE")
	}

	b.WriteString(" TYPE ")
	if required {
		b.WriteString(string(f.Type))
	} else {
		fmt.Fprintf(&b, "option<%s>", f.Type)
	}

	if f.DefaultNow {
		b.WriteString(" DEFAULT time::now()")
	}

	var asserts []string
	if required && f.Type == schema.TypeString {
		asserts = append(asserts, "string::len($value) > 0")
	}
	if len(f.Enum) > 0 {
		quoted := make([]string, len(f.Enum))
		for i, v := range f.Enum {
			quoted[i] = "'" + v + "'"
		}
		cond := fmt.Sprintf("$value INSIDE [%s]", strings.Join(quoted, ", "))
		if !required {
			cond = "$value == NONE OR " + cond
		}
		asserts = append(asserts, cond)
	}
	if len(asserts) > 0 {
		fmt.Fprintf(&b, " ASSERT %s", strings.Join(asserts, " AND "))
	}

	b.WriteString(";")
	return b.String()
}

func logJSON(data map[string]any) {
	data["ts"] = time.Now().UTC().Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal schema log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
