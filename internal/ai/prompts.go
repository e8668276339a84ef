package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

func languageName(language string) string {
	if strings.EqualFold(language, "fr") {
		return "French"
	}
	return "English"
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

func summarySystemPrompt(language string) string {
	if strings.EqualFold(language, "fr") {
		return "Tu es un rédacteur de CV professionnel. Génère un résumé professionnel concis et optimisé pour les ATS " +
			"(2-3 phrases, ~50-80 mots) basé sur la description de l'utilisateur.\n" +
			"Retourne UNIQUEMENT le texte du résumé."
	}
	return "You are a professional resume writer. Generate a concise, ATS-friendly professional summary (2-3 sentences, ~50-80 words) " +
		"based on the user's description.\n" +
		"Return ONLY the summary text."
}

func experienceSystemPrompt(role, company, language string) string {
	if strings.EqualFold(language, "fr") {
		return fmt.Sprintf("Tu es un rédacteur de CV professionnel. Génère 3-4 points d'expérience percutants, "+
			"commençant par des verbes d'action, optimisés pour les ATS. Role: %s Company: %s\n"+
			"Retourne UNIQUEMENT les points, un par ligne.", role, company)
	}
	return fmt.Sprintf("You are a professional resume writer. Generate 3-4 impactful, action-verb-led, "+
		"ATS-friendly experience bullet points. Role: %s Company: %s\n"+
		"Return ONLY the bullet points, one per line.", role, company)
}

func projectSystemPrompt(projectTitle, language string) string {
	if strings.EqualFold(language, "fr") {
		return fmt.Sprintf("Tu es un rédacteur de CV professionnel. Génère 2-3 points décrivant ce projet, "+
			"axés sur l'impact et les technologies. Project: %s\n"+
			"Retourne UNIQUEMENT les points, un par ligne.", projectTitle)
	}
	return fmt.Sprintf("You are a professional resume writer. Generate 2-3 bullet points describing this project, "+
		"focused on impact and technologies. Project: %s\n"+
		"Return ONLY the bullet points, one per line.", projectTitle)
}

func tailoringPrompt(resumeData map[string]any, jobDescription, language string) string {
	compact := map[string]any{
		"fullName":            resumeData["fullName"],
		"professionalSummary": resumeData["professionalSummary"],
		"experience":          resumeData["experience"],
		"skills":              resumeData["skills"],
		"education":           resumeData["education"],
	}
	resumeJSON, err := json.Marshal(compact)
	if err != nil {
		resumeJSON = []byte(fmt.Sprint(compact))
	}

	return fmt.Sprintf(`Tailor this resume for the job. CRITICAL RULES:
1. OUTPUT LANGUAGE: Write ALL content in %s
2. NO FABRICATION: Only use existing skills/experience from the resume
3. NEVER ADD: Don't add skills, technologies, or achievements not in the resume
4. HIGHLIGHT: Emphasize relevant existing content that matches the job
5. REORDER: Prioritize matching skills, but don't invent new ones
6. REWRITE: Improve bullet points to show relevance to job requirements

RESUME:
%s

JOB (key requirements):
%s

Return ONLY valid JSON with same structure (allowed keys: fullName, professionalSummary, experience, skills, education, projects, languages, certificates, title, location, website, github, linkedin).
No markdown, no explanations, no code blocks.`,
		languageName(language), resumeJSON, truncate(jobDescription, 500))
}

func coverLetterPrompt(resumeData map[string]any, jobDescription, language string) string {
	fullName := stringValue(resumeData, "fullName", "Candidate")
	summary := stringValue(resumeData, "professionalSummary", "")
	lang := languageName(language)

	return fmt.Sprintf(`Write a cover letter in %s (250 words max).

Candidate: %s
Summary: %s
Experience: %s
Skills: %s

Job:
%s

Format:
Dear Hiring Manager,
[3 paragraphs: intro + relevant experience + closing]
Sincerely,
%s

Keep it concise, professional, specific. Write ENTIRELY in %s.`,
		lang, fullName, summary, briefExperience(resumeData), topSkills(resumeData, 8),
		truncate(jobDescription, 400), fullName, lang)
}

// briefExperience projects the first two experience entries into a
// one-line summary for the prompt.
func briefExperience(resumeData map[string]any) string {
	exp, ok := resumeData["experience"].([]any)
	if !ok || len(exp) == 0 {
		return "See resume"
	}
	var parts []string
	for i, item := range exp {
		if i >= 2 {
			break
		}
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		parts = append(parts, stringValue(m, "position", "")+" at "+stringValue(m, "company", ""))
	}
	if len(parts) == 0 {
		return "See resume"
	}
	return strings.Join(parts, "; ")
}

// topSkills flattens up to limit skill names, tolerating both flat
// skill entries and {name, items: [...]} categories.
func topSkills(resumeData map[string]any, limit int) string {
	skills, ok := resumeData["skills"].([]any)
	if !ok || len(skills) == 0 {
		return "See resume"
	}
	var all []string
	for _, item := range skills {
		m, ok := item.(map[string]any)
		if !ok {
			all = append(all, fmt.Sprint(item))
		} else if items, ok := m["items"].([]any); ok {
			for _, it := range items {
				all = append(all, fmt.Sprint(it))
				if len(all) >= limit {
					break
				}
			}
		} else if m["name"] != nil {
			all = append(all, fmt.Sprint(m["name"]))
		}
		if len(all) >= limit {
			break
		}
	}
	if len(all) == 0 {
		return "See resume"
	}
	return strings.Join(all, ", ")
}

func stringValue(m map[string]any, key, def string) string {
	if v, ok := m[key]; ok && v != nil {
		return fmt.Sprint(v)
	}
	return def
}
