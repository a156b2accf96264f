// Package tools exposes the memory service as model-callable tools. Every
// entry point returns in-band text or a JSON envelope and never an error.
package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/rcliao/agent-knowledge/internal/memory"
	"github.com/rcliao/agent-knowledge/internal/store"
)

// Tool names.
const (
	SearchTool = "search_memory_index"
	ReadTool   = "read_memory_file"
	ManageTool = "manage_memory"
)

// Tools binds the tool surface to a memory service.
type Tools struct {
	svc     *memory.Service
	log     zerolog.Logger
	schemas map[string]*gojsonschema.Schema
}

// New compiles the argument schemas of every tool in Definitions.
func New(svc *memory.Service, logger *zerolog.Logger) (*Tools, error) {
	log := zerolog.Nop()
	if logger != nil {
		log = logger.With().Str("component", "tools").Logger()
	}

	t := &Tools{
		svc:     svc,
		log:     log,
		schemas: make(map[string]*gojsonschema.Schema),
	}
	for _, def := range Definitions() {
		schema, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(def.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("compile schema for %s: %w", def.Name, err)
		}
		t.schemas[def.Name] = schema
	}
	return t, nil
}

// SearchArgs are the arguments of search_memory_index.
type SearchArgs struct {
	Query    string `json:"query"`
	Category string `json:"category,omitempty"`
	Status   string `json:"status,omitempty"`
	Limit    int    `json:"limit,omitempty"`
}

// ReadArgs are the arguments of read_memory_file.
type ReadArgs struct {
	MemoryID string `json:"memory_id"`
}

// ManageArgs are the arguments of manage_memory.
type ManageArgs struct {
	Action     string   `json:"action"`
	Content    string   `json:"content,omitempty"`
	MemoryID   string   `json:"memory_id,omitempty"`
	Category   string   `json:"category,omitempty"`
	Tags       string   `json:"tags,omitempty"`
	Summary    string   `json:"summary,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

type searchEnvelope struct {
	Status        string             `json:"status"`
	Message       string             `json:"message"`
	TotalSearched *int               `json:"total_searched,omitempty"`
	Results       []memory.SearchHit `json:"results"`
}

// SearchMemoryIndex ranks index records against the query and returns a
// JSON envelope. Failures are reported with status "error".
func (t *Tools) SearchMemoryIndex(ctx context.Context, args SearchArgs) string {
	res, err := t.svc.Search(ctx, memory.SearchParams{
		Query:    args.Query,
		Category: args.Category,
		Status:   args.Status,
		Limit:    args.Limit,
	})
	if err != nil {
		t.log.Error().Err(err).Str("tool", SearchTool).Msg("search failed")
		return encode(searchEnvelope{
			Status:  "error",
			Message: fmt.Sprintf("Error searching memory index: %v", err),
			Results: []memory.SearchHit{},
		}, false)
	}

	if res.Indexed == 0 {
		return encode(searchEnvelope{
			Status:  "success",
			Message: "No memories found in knowledge base",
			Results: []memory.SearchHit{},
		}, false)
	}

	searched := res.TotalSearched
	return encode(searchEnvelope{
		Status:        "success",
		Message:       fmt.Sprintf("Found %d relevant memories", len(res.Hits)),
		TotalSearched: &searched,
		Results:       res.Hits,
	}, true)
}

// ReadMemoryFile returns the full content of a memory with a metadata header.
func (t *Tools) ReadMemoryFile(ctx context.Context, id string) string {
	res, err := t.svc.Read(ctx, id)
	if err != nil {
		var ve *memory.ValidationError
		switch {
		case errors.As(err, &ve):
			return "Error: memory_id is required"
		case errors.Is(err, memory.ErrNotFound):
			return fmt.Sprintf("Error: Memory %s not found in index", id)
		case errors.Is(err, memory.ErrNoLocator):
			return fmt.Sprintf("Error: No file path found for %s", id)
		case errors.Is(err, store.ErrContentNotFound):
			return fmt.Sprintf("Error: Memory file not found for %s", id)
		}
		t.log.Error().Err(err).Str("tool", ReadTool).Str("id", id).Msg("read failed")
		return fmt.Sprintf("Error reading memory file: %v", err)
	}

	r := res.Record
	var b strings.Builder
	fmt.Fprintf(&b, "Memory: %s\n", r.ID)
	fmt.Fprintf(&b, "Category: %s\n", r.Category)
	fmt.Fprintf(&b, "Tags: %s\n", strings.Join(r.Tags, ", "))
	fmt.Fprintf(&b, "Status: %s\n", r.Status)
	fmt.Fprintf(&b, "Confidence: %v\n", r.Confidence)
	fmt.Fprintf(&b, "Created: %s\n", r.Created)
	fmt.Fprintf(&b, "Updated: %s\n", r.Updated)
	b.WriteString("\nContent:\n")
	b.WriteString(res.Content)
	return b.String()
}

// ManageMemory runs a lifecycle action and returns a confirmation, a
// "Warning:" for a suspected duplicate, or an "Error:" line.
func (t *Tools) ManageMemory(ctx context.Context, args ManageArgs) string {
	res, err := t.svc.Manage(ctx, memory.ManageParams{
		Action:     args.Action,
		Content:    args.Content,
		MemoryID:   args.MemoryID,
		Category:   args.Category,
		Tags:       args.Tags,
		Summary:    args.Summary,
		Confidence: args.Confidence,
	})
	if err != nil {
		return t.manageError(args, err)
	}

	rec := res.Record
	switch res.Action {
	case memory.ActionCreate:
		return created(rec.ID, rec.Category, rec.FilePath)
	case memory.ActionUpdate:
		return fmt.Sprintf("Updated %s", rec.ID)
	case memory.ActionRetire:
		return fmt.Sprintf("Retired %s", rec.ID)
	default:
		return fmt.Sprintf("Consolidated %s into new memory. %s",
			strings.Join(res.Sources, ", "), created(rec.ID, rec.Category, rec.FilePath))
	}
}

func (t *Tools) manageError(args ManageArgs, err error) string {
	var (
		ve  *memory.ValidationError
		nf  *memory.NotFoundError
		dup *memory.DuplicateError
		ua  *memory.UnknownActionError
	)
	switch {
	case errors.As(err, &ve):
		return "Error: " + ve.Error()
	case errors.As(err, &dup):
		return fmt.Sprintf("Warning: Similar memory found: %s - '%s'. Consider updating it or use consolidate action.",
			dup.ID, dup.Summary)
	case errors.As(err, &nf):
		if args.Action == memory.ActionConsolidate {
			return "Error: Some memory IDs not found: " + strings.Join(nf.IDs, ", ")
		}
		return fmt.Sprintf("Error: Memory %s not found", strings.Join(nf.IDs, ", "))
	case errors.Is(err, memory.ErrTooFewIDs):
		return "Error: Consolidate requires at least 2 memory IDs (comma-separated)"
	case errors.As(err, &ua):
		return fmt.Sprintf("Error: Unknown action '%s'. Use: create, update, retire, or consolidate", ua.Action)
	case errors.Is(err, memory.ErrInvalidConfidence):
		return "Error: confidence must be between 0.0 and 1.0"
	}

	t.log.Error().Err(err).Str("tool", ManageTool).Str("action", args.Action).Msg("manage failed")
	return fmt.Sprintf("Error in manage_memory: %v", err)
}

func created(id, category, locator string) string {
	return fmt.Sprintf("Created %s in category '%s' (file: %s)", id, category, locator)
}

func encode(v any, indent bool) string {
	var (
		data []byte
		err  error
	)
	if indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Sprintf(`{"status":"error","message":%q,"results":[]}`, err.Error())
	}
	return string(data)
}
