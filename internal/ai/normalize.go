package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrUnparsable marks AI output from which no JSON object could be
// isolated or parsed.
var ErrUnparsable = errors.New("unparsable ai response")

// synonyms maps accepted top-level keys to their canonical names.
var synonyms = map[string]string{
	"summary":        "professionalSummary",
	"experiences":    "experience",
	"workExperience": "experience",
	"projectsList":   "projects",
	"skillsList":     "skills",
	"educationList":  "education",
}

// stringFields are canonical top-level keys accepted as plain strings.
var stringFields = map[string]bool{
	"fullName":            true,
	"professionalSummary": true,
	"title":               true,
	"location":            true,
	"linkedin":            true,
	"github":              true,
	"website":             true,
}

// shapeField describes one sub-field of a normalized list entry: the
// canonical key, the input keys accepted for it (checked in order),
// and whether the value is coerced into a string list.
type shapeField struct {
	key     string
	sources []string
	asList  bool
	def     any
}

// listShape describes the expected shape of one structured top-level
// field. bareKey, when set, lets bare string entries stand in for
// objects ({id, bareKey: s}).
type listShape struct {
	bareKey string
	fields  []shapeField
	post    func(in, out map[string]any)
}

// listShapes is the declarative normalization table for structured
// resume fields.
var listShapes = map[string]listShape{
	"skills": {
		bareKey: "name",
		fields: []shapeField{
			{key: "name", sources: []string{"name"}},
		},
	},
	"experience": {
		fields: []shapeField{
			{key: "position", sources: []string{"position", "title", "role"}},
			{key: "company", sources: []string{"company", "employer"}},
			{key: "startDate", sources: []string{"startDate", "from"}},
			{key: "endDate", sources: []string{"endDate", "to"}},
			{key: "bullets", sources: []string{"bullets"}, asList: true},
		},
		// Fall back to splitting a prose description when no bullet
		// list was returned.
		post: func(in, out map[string]any) {
			if bullets, ok := out["bullets"].([]string); !ok || len(bullets) == 0 {
				out["bullets"] = splitBullets(firstString(in, "description", "summary"))
			}
		},
	},
	"projects": {
		fields: []shapeField{
			{key: "title", sources: []string{"title", "name"}},
			{key: "link", sources: []string{"link"}, def: ""},
			{key: "tech", sources: []string{"tech", "technologies"}, def: []any{}},
			{key: "bullets", sources: []string{"bullets"}, asList: true},
			{key: "startDate", sources: []string{"startDate", "from"}},
			{key: "endDate", sources: []string{"endDate", "to"}},
		},
	},
	"education": {
		fields: []shapeField{
			{key: "institution", sources: []string{"institution", "school", "college"}},
			{key: "degree", sources: []string{"degree", "qualification"}},
			{key: "startDate", sources: []string{"startDate", "from"}},
			{key: "endDate", sources: []string{"endDate", "to"}},
		},
	},
	"languages": {
		bareKey: "name",
		fields: []shapeField{
			{key: "name", sources: []string{"name"}},
			{key: "proficiency", sources: []string{"proficiency", "level"}, def: ""},
		},
	},
	"certificates": {
		bareKey: "name",
		fields: []shapeField{
			{key: "name", sources: []string{"name", "title"}},
			{key: "issuer", sources: []string{"issuer"}, def: ""},
			{key: "date", sources: []string{"date"}, def: ""},
		},
	},
}

func generateID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}

// ParseResponse turns raw model output into a JSON object: strips
// markdown fences, isolates the first {...} block when the model adds
// commentary, and unmarshals it.
func ParseResponse(response string) (map[string]any, error) {
	clean := strings.TrimSpace(response)

	if strings.HasPrefix(clean, "```json") {
		clean = strings.TrimSpace(clean[7:])
	} else if strings.HasPrefix(clean, "```") {
		clean = strings.TrimSpace(clean[3:])
	}
	if strings.HasSuffix(clean, "```") {
		clean = strings.TrimSpace(clean[:len(clean)-3])
	}

	candidate := extractFirstJSONObject(clean)

	var parsed map[string]any
	if err := json.Unmarshal([]byte(candidate), &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnparsable, err)
	}
	return parsed, nil
}

// extractFirstJSONObject isolates the first {...} block, for output
// where the model wrapped the JSON in commentary.
func extractFirstJSONObject(input string) string {
	input = strings.TrimSpace(input)
	if strings.HasPrefix(input, "{") {
		return input
	}
	start := strings.Index(input, "{")
	end := strings.LastIndex(input, "}")
	if start >= 0 && end > start {
		return input[start : end+1]
	}
	return input
}

// NormalizeAndMerge maps synonyms to canonical keys, drops keys outside
// the allow-list, normalizes structured fields into their canonical
// shape, and merges the result into a copy of the original document.
// Fields absent from the parsed response are left untouched.
func NormalizeAndMerge(parsed, original map[string]any) map[string]any {
	result := make(map[string]any, len(original)+len(parsed))
	for k, v := range original {
		result[k] = v
	}
	for rawKey, value := range parsed {
		key := rawKey
		if canonical, ok := synonyms[rawKey]; ok {
			key = canonical
		}

		if stringFields[key] {
			if value != nil {
				result[key] = fmt.Sprint(value)
			}
			continue
		}
		if shape, ok := listShapes[key]; ok {
			normalized := normalizeList(value, shape)
			if len(normalized) > 0 {
				result[key] = normalized
			}
			continue
		}
		log.Printf("[AI] Dropping unrecognized top-level key: %s", rawKey)
	}
	return result
}

// normalizeList coerces a structured field into a list of entries with
// a stable synthetic id and the shape's expected sub-fields.
func normalizeList(val any, shape listShape) []map[string]any {
	var out []map[string]any
	if val == nil {
		return out
	}

	list, ok := val.([]any)
	if !ok {
		if shape.bareKey == "" {
			return out
		}
		list = []any{val}
	}

	for _, item := range list {
		if item == nil {
			continue
		}
		m, isMap := item.(map[string]any)
		if !isMap {
			if shape.bareKey == "" {
				continue
			}
			entry := map[string]any{"id": generateID(), shape.bareKey: strings.TrimSpace(fmt.Sprint(item))}
			for _, f := range shape.fields {
				if _, exists := entry[f.key]; !exists && f.def != nil {
					entry[f.key] = f.def
				}
			}
			out = append(out, entry)
			continue
		}

		entry := map[string]any{}
		if id, ok := m["id"]; ok && id != nil {
			entry["id"] = id
		} else {
			entry["id"] = generateID()
		}
		for _, f := range shape.fields {
			var v any
			for _, src := range f.sources {
				if sv, ok := m[src]; ok && sv != nil {
					v = sv
					break
				}
			}
			switch {
			case f.asList:
				entry[f.key] = stringList(v)
			case v != nil:
				entry[f.key] = normalizeScalar(v)
			case f.def != nil:
				entry[f.key] = f.def
			default:
				entry[f.key] = ""
			}
		}
		if shape.post != nil {
			shape.post(m, entry)
		}
		out = append(out, entry)
	}
	return out
}

func normalizeScalar(v any) any {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case []any, map[string]any:
		// tech lists and structured dates pass through untouched
		return v
	default:
		return fmt.Sprint(v)
	}
}

// stringList flattens a value into []string, accepting both lists and
// a single scalar.
func stringList(v any) []string {
	out := []string{}
	switch t := v.(type) {
	case nil:
	case []any:
		for _, o := range t {
			if o != nil {
				out = append(out, fmt.Sprint(o))
			}
		}
	default:
		out = append(out, fmt.Sprint(t))
	}
	return out
}

var bulletSeparator = regexp.MustCompile(`\r?\n|\x{2022}|- `)

// splitBullets breaks a prose description into bullet strings.
func splitBullets(s string) []string {
	out := []string{}
	if strings.TrimSpace(s) == "" {
		return out
	}
	for _, part := range bulletSeparator.Split(s, -1) {
		if t := strings.TrimSpace(part); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// firstString returns the first present, non-nil key as a string.
func firstString(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if v, ok := m[k]; ok && v != nil {
			return fmt.Sprint(v)
		}
	}
	return ""
}
