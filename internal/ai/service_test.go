package ai

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"resai/internal/config"
)

func testService(url string) *Service {
	return NewService(config.OpenAIConfig{APIKey: "test-key", URL: url, Model: "gpt-4o-mini"})
}

func completionResponder(content string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		})
	}
}

func TestTailorResume_MergesResponse(t *testing.T) {
	srv := httptest.NewServer(completionResponder(
		"```json\n{\"professionalSummary\": \"Tailored summary\", \"skills\": [\"Go\", \"Docker\"]}\n```"))
	defer srv.Close()

	original := map[string]any{
		"fullName":            "Jane",
		"professionalSummary": "Old summary",
		"education":           []any{map[string]any{"institution": "MIT"}},
	}
	got := testService(srv.URL).TailorResume(original, "We need a Go engineer", "en")

	if got["professionalSummary"] != "Tailored summary" {
		t.Errorf("summary not replaced: %v", got)
	}
	if got["fullName"] != "Jane" {
		t.Errorf("fullName should survive untouched: %v", got)
	}
	if _, ok := got["education"]; !ok {
		t.Errorf("education should survive untouched: %v", got)
	}
	skills, ok := got["skills"].([]map[string]any)
	if !ok || len(skills) != 2 {
		t.Fatalf("skills not normalized: %v", got["skills"])
	}
}

func TestTailorResume_UnparsableKeepsOriginal(t *testing.T) {
	srv := httptest.NewServer(completionResponder("Sorry, I cannot help with that."))
	defer srv.Close()

	original := map[string]any{"fullName": "Jane", "professionalSummary": "Old"}
	got := testService(srv.URL).TailorResume(original, "job", "en")

	if got["professionalSummary"] != "Old" || got["fullName"] != "Jane" {
		t.Errorf("original document must be returned unchanged: %v", got)
	}
}

func TestTailorResume_UpstreamFailureKeepsOriginal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	original := map[string]any{"fullName": "Jane"}
	got := testService(srv.URL).TailorResume(original, "job", "en")
	if got["fullName"] != "Jane" || len(got) != 1 {
		t.Errorf("original document must be returned unchanged: %v", got)
	}
}

func TestTailorResume_TruncatesJobDescription(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		if len(payload.Messages) > 0 {
			prompt = payload.Messages[0].Content
		}
		completionResponder("{}")(w, r)
	}))
	defer srv.Close()

	long := strings.Repeat("x", 2000)
	testService(srv.URL).TailorResume(map[string]any{}, long, "en")

	if strings.Contains(prompt, strings.Repeat("x", 501)) {
		t.Error("job description was not truncated")
	}
	if !strings.Contains(prompt, strings.Repeat("x", 500)+"...") {
		t.Error("truncated job description should end with an ellipsis")
	}
}

func TestGenerateSummary_UsesLanguagePrompt(t *testing.T) {
	var system string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		system = payload.Messages[0].Content
		completionResponder("Un résumé professionnel.")(w, r)
	}))
	defer srv.Close()

	got, err := testService(srv.URL).GenerateSummary("10 years of Go", "fr")
	if err != nil {
		t.Fatalf("GenerateSummary failed: %v", err)
	}
	if got != "Un résumé professionnel." {
		t.Errorf("unexpected summary: %q", got)
	}
	if !strings.Contains(system, "rédacteur") {
		t.Errorf("expected French system prompt, got %q", system)
	}
}

func TestGenerateExperienceBullets_ContextInPrompt(t *testing.T) {
	var system string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		system = payload.Messages[0].Content
		completionResponder("Built things")(w, r)
	}))
	defer srv.Close()

	_, err := testService(srv.URL).GenerateExperienceBullets(
		"worked on backend", map[string]string{"role": "Engineer", "company": "Acme"}, "en")
	if err != nil {
		t.Fatalf("GenerateExperienceBullets failed: %v", err)
	}
	if !strings.Contains(system, "Engineer") || !strings.Contains(system, "Acme") {
		t.Errorf("role/company missing from system prompt: %q", system)
	}
}

func TestGenerateCoverLetter_PropagatesFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down", http.StatusBadGateway)
	}))
	defer srv.Close()

	_, err := testService(srv.URL).GenerateCoverLetter(map[string]any{"fullName": "Jane"}, "job", "en")
	if err == nil {
		t.Fatal("expected error from failing upstream")
	}
}

func TestGenerateCoverLetter_IncludesCandidate(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Messages []Message `json:"messages"`
		}
		json.NewDecoder(r.Body).Decode(&payload)
		prompt = payload.Messages[0].Content
		completionResponder("Dear Hiring Manager, ...")(w, r)
	}))
	defer srv.Close()

	letter, err := testService(srv.URL).GenerateCoverLetter(
		map[string]any{"fullName": "Jane Doe", "professionalSummary": "Engineer"}, "We hire Go devs", "en")
	if err != nil {
		t.Fatalf("GenerateCoverLetter failed: %v", err)
	}
	if !strings.HasPrefix(letter, "Dear Hiring Manager") {
		t.Errorf("unexpected letter: %q", letter)
	}
	if !strings.Contains(prompt, "Jane Doe") {
		t.Errorf("candidate name missing from prompt: %q", prompt)
	}
}
