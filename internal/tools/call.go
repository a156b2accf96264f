package tools

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/xeipuuv/gojsonschema"
)

// Call validates raw JSON arguments against the named tool's schema and
// dispatches to it. Unknown tools and invalid arguments are reported in band.
func (t *Tools) Call(ctx context.Context, name string, raw []byte) string {
	callID := ulid.Make().String()
	log := t.log.With().Str("call_id", callID).Str("tool", name).Logger()
	start := time.Now()

	schema, ok := t.schemas[name]
	if !ok {
		log.Warn().Msg("unknown tool")
		return fmt.Sprintf("Error: Unknown tool '%s'", name)
	}

	if len(bytes.TrimSpace(raw)) == 0 {
		raw = []byte("{}")
	}
	if err := validate(schema, raw); err != nil {
		log.Warn().Err(err).Msg("invalid arguments")
		return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
	}

	var out string
	switch name {
	case SearchTool:
		var args SearchArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
		out = t.SearchMemoryIndex(ctx, args)
	case ReadTool:
		var args ReadArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
		out = t.ReadMemoryFile(ctx, args.MemoryID)
	case ManageTool:
		var args ManageArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return fmt.Sprintf("Error: invalid arguments for %s: %v", name, err)
		}
		out = t.ManageMemory(ctx, args)
	}

	log.Debug().Dur("duration", time.Since(start)).Int("output_bytes", len(out)).Msg("tool call")
	return out
}

func validate(schema *gojsonschema.Schema, raw []byte) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return err
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return errors.New(strings.Join(msgs, "; "))
	}
	return nil
}
