package ai

import (
	"errors"
	"testing"
)

func TestParseResponse_PlainJSON(t *testing.T) {
	parsed, err := ParseResponse(`{"fullName": "Jane Doe"}`)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if parsed["fullName"] != "Jane Doe" {
		t.Errorf("unexpected parse result: %v", parsed)
	}
}

func TestParseResponse_StripsCodeFences(t *testing.T) {
	raw := "```json\n{\"skills\": [\"Go\"]}\n```"
	parsed, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if _, ok := parsed["skills"]; !ok {
		t.Errorf("skills missing after fence stripping: %v", parsed)
	}
}

func TestParseResponse_BareFences(t *testing.T) {
	raw := "```\n{\"title\": \"Engineer\"}\n```"
	parsed, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if parsed["title"] != "Engineer" {
		t.Errorf("unexpected parse result: %v", parsed)
	}
}

func TestParseResponse_ExtractsEmbeddedObject(t *testing.T) {
	raw := "Here is your tailored resume:\n{\"fullName\": \"Jane\"}\nHope this helps!"
	parsed, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse failed: %v", err)
	}
	if parsed["fullName"] != "Jane" {
		t.Errorf("embedded object not extracted: %v", parsed)
	}
}

func TestParseResponse_NoObject(t *testing.T) {
	_, err := ParseResponse("I could not produce a resume, sorry.")
	if !errors.Is(err, ErrUnparsable) {
		t.Fatalf("expected ErrUnparsable, got %v", err)
	}
}

func TestNormalizeAndMerge_SynonymMapping(t *testing.T) {
	parsed := map[string]any{
		"summary":        "A better summary",
		"workExperience": []any{map[string]any{"position": "Dev", "company": "Acme"}},
	}
	original := map[string]any{"fullName": "Jane"}
	result := NormalizeAndMerge(parsed, original)

	if result["professionalSummary"] != "A better summary" {
		t.Errorf("summary synonym not mapped: %v", result)
	}
	if _, ok := result["experience"]; !ok {
		t.Errorf("workExperience synonym not mapped: %v", result)
	}
	if result["fullName"] != "Jane" {
		t.Errorf("untouched original field lost: %v", result)
	}
}

func TestNormalizeAndMerge_DropsUnknownKeys(t *testing.T) {
	parsed := map[string]any{
		"fullName":       "Jane",
		"salaryDemand":   "1 million",
		"favoriteColors": []any{"red"},
	}
	result := NormalizeAndMerge(parsed, map[string]any{})
	if _, ok := result["salaryDemand"]; ok {
		t.Error("unknown key should be dropped")
	}
	if _, ok := result["favoriteColors"]; ok {
		t.Error("unknown list key should be dropped")
	}
	if result["fullName"] != "Jane" {
		t.Errorf("allowed key missing: %v", result)
	}
}

func TestNormalizeAndMerge_OriginalUntouchedOnEmptyParse(t *testing.T) {
	original := map[string]any{"fullName": "Jane", "skills": []any{"Go"}}
	result := NormalizeAndMerge(map[string]any{}, original)
	if len(result) != len(original) {
		t.Errorf("expected original document back, got %v", result)
	}
}

func TestNormalizeSkills_BareStrings(t *testing.T) {
	parsed := map[string]any{"skills": []any{"Go", "PostgreSQL "}}
	result := NormalizeAndMerge(parsed, map[string]any{})

	skills, ok := result["skills"].([]map[string]any)
	if !ok || len(skills) != 2 {
		t.Fatalf("expected 2 normalized skills, got %v", result["skills"])
	}
	if skills[0]["name"] != "Go" {
		t.Errorf("expected Go, got %v", skills[0]["name"])
	}
	if skills[1]["name"] != "PostgreSQL" {
		t.Errorf("expected trimmed name, got %q", skills[1]["name"])
	}
	for _, s := range skills {
		id, _ := s["id"].(string)
		if len(id) != 8 {
			t.Errorf("expected 8-char synthetic id, got %q", id)
		}
	}
}

func TestNormalizeSkills_ObjectsKeepIds(t *testing.T) {
	parsed := map[string]any{"skills": []any{
		map[string]any{"id": "abc123", "name": "Go"},
		map[string]any{"name": "SQL"},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	skills := result["skills"].([]map[string]any)
	if skills[0]["id"] != "abc123" {
		t.Errorf("existing id should be kept, got %v", skills[0]["id"])
	}
	if id, _ := skills[1]["id"].(string); len(id) != 8 {
		t.Errorf("missing id should be synthesized, got %v", skills[1]["id"])
	}
}

func TestNormalizeExperience_AliasesAndBullets(t *testing.T) {
	parsed := map[string]any{"experience": []any{
		map[string]any{
			"title":    "Backend Engineer",
			"employer": "Acme",
			"from":     "2020",
			"to":       "2023",
			"bullets":  []any{"Built the API", "Cut latency"},
		},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	exp := result["experience"].([]map[string]any)
	e := exp[0]
	if e["position"] != "Backend Engineer" {
		t.Errorf("title alias not mapped to position: %v", e)
	}
	if e["company"] != "Acme" {
		t.Errorf("employer alias not mapped: %v", e)
	}
	if e["startDate"] != "2020" || e["endDate"] != "2023" {
		t.Errorf("from/to aliases not mapped: %v", e)
	}
	bullets := e["bullets"].([]string)
	if len(bullets) != 2 {
		t.Errorf("expected 2 bullets, got %v", bullets)
	}
}

func TestNormalizeExperience_BulletsFromDescription(t *testing.T) {
	parsed := map[string]any{"experience": []any{
		map[string]any{
			"position":    "Dev",
			"company":     "Acme",
			"description": "Shipped features\n• Fixed bugs\n- Mentored juniors",
		},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	exp := result["experience"].([]map[string]any)
	bullets := exp[0]["bullets"].([]string)
	if len(bullets) != 3 {
		t.Fatalf("expected 3 bullets from description, got %v", bullets)
	}
	if bullets[0] != "Shipped features" {
		t.Errorf("unexpected first bullet: %q", bullets[0])
	}
}

func TestNormalizeExperience_NonMapEntriesSkipped(t *testing.T) {
	parsed := map[string]any{"experience": []any{"just a string", map[string]any{"position": "Dev"}}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	exp := result["experience"].([]map[string]any)
	if len(exp) != 1 {
		t.Errorf("bare strings are not valid experience entries: %v", exp)
	}
}

func TestNormalizeProjects_Defaults(t *testing.T) {
	parsed := map[string]any{"projects": []any{
		map[string]any{"name": "resai", "technologies": []any{"Go", "Postgres"}},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	projects := result["projects"].([]map[string]any)
	p := projects[0]
	if p["title"] != "resai" {
		t.Errorf("name alias not mapped to title: %v", p)
	}
	if p["link"] != "" {
		t.Errorf("expected empty default link, got %v", p["link"])
	}
	tech, ok := p["tech"].([]any)
	if !ok || len(tech) != 2 {
		t.Errorf("technologies alias not mapped: %v", p["tech"])
	}
}

func TestNormalizeEducation_Aliases(t *testing.T) {
	parsed := map[string]any{"educationList": []any{
		map[string]any{"school": "MIT", "qualification": "BSc"},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	edu := result["education"].([]map[string]any)
	if edu[0]["institution"] != "MIT" || edu[0]["degree"] != "BSc" {
		t.Errorf("education aliases not mapped: %v", edu[0])
	}
}

func TestNormalizeLanguages_MixedShapes(t *testing.T) {
	parsed := map[string]any{"languages": []any{
		"English",
		map[string]any{"name": "French", "level": "B2"},
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	langs := result["languages"].([]map[string]any)
	if len(langs) != 2 {
		t.Fatalf("expected 2 languages, got %v", langs)
	}
	if langs[0]["name"] != "English" || langs[0]["proficiency"] != "" {
		t.Errorf("bare string language not normalized: %v", langs[0])
	}
	if langs[1]["proficiency"] != "B2" {
		t.Errorf("level alias not mapped: %v", langs[1])
	}
}

func TestNormalizeCertificates(t *testing.T) {
	parsed := map[string]any{"certificates": []any{
		map[string]any{"title": "CKA", "issuer": "CNCF", "date": "2024"},
		"AWS SAA",
	}}
	result := NormalizeAndMerge(parsed, map[string]any{})
	certs := result["certificates"].([]map[string]any)
	if certs[0]["name"] != "CKA" || certs[0]["issuer"] != "CNCF" {
		t.Errorf("certificate fields not normalized: %v", certs[0])
	}
	if certs[1]["name"] != "AWS SAA" {
		t.Errorf("bare string certificate not normalized: %v", certs[1])
	}
}

func TestSplitBullets(t *testing.T) {
	bullets := splitBullets("First thing\nSecond thing • Third thing - Fourth thing")
	if len(bullets) != 4 {
		t.Errorf("expected 4 bullets, got %v", bullets)
	}
	if len(splitBullets("   ")) != 0 {
		t.Error("blank input should yield no bullets")
	}
}
