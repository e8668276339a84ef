package resume

import (
	"encoding/json"
	"strings"
	"time"

	"gorm.io/datatypes"
)

type Resume struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	UserID     uint           `json:"userId" gorm:"index;not null"`
	Title      string         `json:"title" gorm:"not null"`
	Data       datatypes.JSON `json:"data" gorm:"type:jsonb;not null;default:'{}'"`
	AIMetadata datatypes.JSON `json:"aiMetadata" gorm:"type:jsonb"`
	Version    int            `json:"version" gorm:"not null;default:1"`
	Language   string         `json:"language" gorm:"size:5;default:'en'"`
	CreatedAt  time.Time      `json:"createdAt"`
	UpdatedAt  time.Time      `json:"updatedAt"`
}

// Update carries a partial payload; nil fields are left untouched.
type Update struct {
	Title      *string
	Data       map[string]any
	AIMetadata map[string]any
}

// Apply merges the provided fields into the resume and bumps the version.
func (r *Resume) Apply(up Update) error {
	if up.Title != nil && strings.TrimSpace(*up.Title) != "" {
		r.Title = *up.Title
	}
	if up.Data != nil {
		if err := r.SetDocument(up.Data); err != nil {
			return err
		}
	}
	if up.AIMetadata != nil {
		raw, err := json.Marshal(up.AIMetadata)
		if err != nil {
			return err
		}
		r.AIMetadata = datatypes.JSON(raw)
	}
	r.Version++
	return nil
}

// Document decodes the stored resume document. An empty column decodes
// to an empty map.
func (r *Resume) Document() (map[string]any, error) {
	if len(r.Data) == 0 {
		return map[string]any{}, nil
	}
	var doc map[string]any
	if err := json.Unmarshal(r.Data, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func (r *Resume) SetDocument(doc map[string]any) error {
	raw, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	r.Data = datatypes.JSON(raw)
	return nil
}

// Lang returns the resume language, defaulting to "en".
func (r *Resume) Lang() string {
	lang := strings.TrimSpace(r.Language)
	if lang == "" {
		return "en"
	}
	return lang
}

// RecordTailoring stamps tailoring metadata without touching other
// metadata keys.
func (r *Resume) RecordTailoring(jobDescription, language string, now time.Time) error {
	meta := map[string]any{}
	if len(r.AIMetadata) > 0 {
		if err := json.Unmarshal(r.AIMetadata, &meta); err != nil {
			meta = map[string]any{}
		}
	}
	excerpt := jobDescription
	if runes := []rune(excerpt); len(runes) > 200 {
		excerpt = string(runes[:200])
	}
	meta["lastTailoredAt"] = now.Format(time.RFC3339)
	meta["tailoredFor"] = excerpt + "..."
	meta["tailoredLanguage"] = language

	raw, err := json.Marshal(meta)
	if err != nil {
		return err
	}
	r.AIMetadata = datatypes.JSON(raw)
	return nil
}
