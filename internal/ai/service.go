package ai

import (
	"log"

	"resai/internal/config"
)

// Service wraps the chat-completion client with the resume-building
// prompt and normalization logic.
type Service struct {
	client *Client
}

func NewService(cfg config.OpenAIConfig) *Service {
	return &Service{client: NewClient(cfg)}
}

// GenerateSummary returns a short professional summary for the user's
// free-text description.
func (s *Service) GenerateSummary(userInput, language string) (string, error) {
	return s.client.Chat([]Message{
		{Role: "system", Content: summarySystemPrompt(language)},
		{Role: "user", Content: userInput},
	}, 500, 0.7)
}

func (s *Service) GenerateExperienceBullets(userInput string, context map[string]string, language string) (string, error) {
	return s.client.Chat([]Message{
		{Role: "system", Content: experienceSystemPrompt(context["role"], context["company"], language)},
		{Role: "user", Content: userInput},
	}, 500, 0.7)
}

func (s *Service) GenerateProjectBullets(userInput string, context map[string]string, language string) (string, error) {
	return s.client.Chat([]Message{
		{Role: "system", Content: projectSystemPrompt(context["projectTitle"], language)},
		{Role: "user", Content: userInput},
	}, 500, 0.7)
}

// TailorResume rewrites the resume document against a job description.
// The contract is "improve if possible, never corrupt": any failure in
// the call or the normalization pipeline returns the original document
// unchanged.
func (s *Service) TailorResume(resumeData map[string]any, jobDescription, language string) map[string]any {
	log.Printf("[AI] Tailoring resume in language: %s", language)

	raw, err := s.client.Chat([]Message{
		{Role: "user", Content: tailoringPrompt(resumeData, jobDescription, language)},
	}, 2000, 0.5)
	if err != nil {
		log.Printf("[AI] Tailoring call failed, keeping original data: %v", err)
		return resumeData
	}

	parsed, err := ParseResponse(raw)
	if err != nil {
		log.Printf("[AI] Tailoring response unparsable, keeping original data: %v", err)
		return resumeData
	}

	return NormalizeAndMerge(parsed, resumeData)
}

// GenerateCoverLetter produces cover-letter text. Unlike tailoring
// there is no prior document to preserve, so failures propagate.
func (s *Service) GenerateCoverLetter(resumeData map[string]any, jobDescription, language string) (string, error) {
	log.Printf("[AI] Generating cover letter in language: %s", language)
	return s.client.Chat([]Message{
		{Role: "user", Content: coverLetterPrompt(resumeData, jobDescription, language)},
	}, 800, 0.7)
}
