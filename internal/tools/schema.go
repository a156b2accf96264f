package tools

import "github.com/rcliao/agent-knowledge/internal/model"

// Definition describes one tool for a model's tool catalogue.
type Definition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"input_schema"`
}

// Definitions returns the catalogue of memory tools.
func Definitions() []Definition {
	return []Definition{
		{
			Name: SearchTool,
			Description: "Search the knowledge index for relevant memories using keyword matching. " +
				"Returns metadata (memory_id, file_path, category, tags, summary, confidence) but not content.",
			InputSchema: objectSchema(map[string]interface{}{
				"query":    stringProperty("Space-separated keywords to search for"),
				"category": stringProperty("Only search this category, e.g. " + model.ConventionalCategories[0]),
				"status": stringEnumProperty("Status filter (default: active)",
					model.StatusActive, model.StatusRetired, model.StatusAll),
				"limit": withMinimum(integerProperty("Maximum number of results (default: 5)"), 1),
			}, "query"),
		},
		{
			Name:        ReadTool,
			Description: "Read the full content of a memory. Use after search_memory_index.",
			InputSchema: objectSchema(map[string]interface{}{
				"memory_id": stringProperty("Memory id such as MEMORY-001"),
			}, "memory_id"),
		},
		{
			Name: ManageTool,
			Description: "Create, update, retire or consolidate memories. " +
				"create needs content, category and summary; update and retire need memory_id; " +
				"consolidate needs comma-separated memory_id values, content and summary.",
			InputSchema: objectSchema(map[string]interface{}{
				"action": stringEnumProperty("Lifecycle action",
					"create", "update", "retire", "consolidate"),
				"content":   stringProperty("Full memory content"),
				"memory_id": stringProperty("Memory id, or a comma-separated list for consolidate"),
				"category":  stringProperty("Category name, required for create"),
				"tags":      stringProperty("Comma-separated tags such as \"preferences, ui\""),
				"summary":   stringProperty("One-line summary used for search"),
				"confidence": withRange(numberProperty("Confidence from 0.0 to 1.0 (default 0.8 for create)"),
					0, 1),
			}, "action"),
		},
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func stringProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
	}
}

func stringEnumProperty(description string, values ...string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"enum":        values,
	}
}

func numberProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "number",
		"description": description,
	}
}

func integerProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

func withMinimum(p map[string]interface{}, lo float64) map[string]interface{} {
	p["minimum"] = lo
	return p
}

func withRange(p map[string]interface{}, lo, hi float64) map[string]interface{} {
	p["minimum"] = lo
	p["maximum"] = hi
	return p
}
