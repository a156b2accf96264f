package tools

import (
	"strings"

	"github.com/rcliao/agent-knowledge/internal/model"
)

const memoryPrompt = `<memory_system>
You can keep long-term memory across conversations with three tools.

search_memory_index(query, category, status, limit)
  Find stored knowledge by keyword. Call it before answering questions that may
  depend on earlier conversations. Results carry memory_id and summary only.
  Defaults: status "active", limit 5.
  e.g. search_memory_index(query="chart preferences")
       search_memory_index(query="orders schema", category="technical_knowledge")

read_memory_file(memory_id)
  Fetch the full content of one memory found by a search.
  e.g. read_memory_file(memory_id="MEMORY-001")

manage_memory(action, content, memory_id, category, tags, summary, confidence)
  create       content, category and summary are required. tags is a
               comma-separated list; confidence defaults to 0.8.
  update       memory_id is required; only the fields you pass change.
  retire       memory_id is required. Retired memories stay readable.
  consolidate  memory_id lists two or more ids separated by commas; content
               and summary describe the merged memory. The sources are retired.

<categories>
{{categories}}
</categories>

<workflow>
1. Search first, then read the memories that look relevant.
2. Store new preferences, facts and rules as soon as you learn them.
3. When the user corrects you, update or retire the stale memory.
4. When a create is refused as similar, update the existing memory or
   consolidate the overlapping ones.
5. Write a descriptive one-line summary and useful tags; search only sees
   category, tags and summary.
6. Use confidence 0.9 to 1.0 for things the user stated explicitly.
</workflow>
</memory_system>`

const memoryPromptConcise = `<memory_tools>
search_memory_index(query, category, status, limit): keyword search over the memory index
read_memory_file(memory_id): full content of one memory
manage_memory(action, content, memory_id, category, tags, summary, confidence): create, update, retire or consolidate

Search before answering, store what you learn, update when corrected, retire when outdated.
Categories: {{categories}}
</memory_tools>`

var categoryHints = map[string]string{
	"user_profile":         "preferences, settings and personal details",
	"technical_knowledge":  "code, APIs, schemas and configuration",
	"business_rules":       "policies, procedures and guidelines",
	"facts":                "general learned information",
	"conversation_context": "important points from earlier discussions",
}

// SystemPrompt returns the instruction block describing the memory tools,
// meant to be appended to an agent's system prompt.
func SystemPrompt(concise bool) string {
	if concise {
		return strings.Replace(memoryPromptConcise, "{{categories}}", strings.Join(model.ConventionalCategories, ", "), 1)
	}

	lines := make([]string, 0, len(model.ConventionalCategories))
	for _, c := range model.ConventionalCategories {
		lines = append(lines, "- "+c+": "+categoryHints[c])
	}
	return strings.Replace(memoryPrompt, "{{categories}}", strings.Join(lines, "\n"), 1)
}
