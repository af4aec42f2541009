package services

import (
	"strings"

	"ccswitch/internal/apperr"
	"ccswitch/internal/store"
)

// PromptInput is the user-editable subset of a prompt record.
type PromptInput struct {
	Name    string
	Content string
}

func (in *PromptInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.Validation, "prompt name must not be empty")
	}
	return nil
}

// ListPrompts returns the app's prompts in document order.
func (s *Services) ListPrompts(app store.AppType) []store.Prompt {
	return s.Snapshot().App(app).Prompts
}

// AddPrompt creates a prompt for app and returns its id.
func (s *Services) AddPrompt(app store.AppType, in PromptInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := newID()
	err := s.mutateAndProject(func(cfg *store.Config) error {
		now := nowMillis()
		sec := cfg.App(app)
		sec.Prompts = append(sec.Prompts, store.Prompt{
			ID:        id,
			Name:      strings.TrimSpace(in.Name),
			Content:   in.Content,
			CreatedAt: now,
			UpdatedAt: now,
		})
		return nil
	}, app)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdatePrompt rewrites a prompt. When the prompt is the app's active
// one, the change lands in the app's prompt file via the reprojection.
func (s *Services) UpdatePrompt(app store.AppType, id string, in PromptInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.mutateAndProject(func(cfg *store.Config) error {
		p := cfg.App(app).FindPrompt(id)
		if p == nil {
			return apperr.New(apperr.Validation, "prompt %s not found", id)
		}
		p.Name = strings.TrimSpace(in.Name)
		p.Content = in.Content
		p.UpdatedAt = nowMillis()
		return nil
	}, app)
}

// DeletePrompt removes a prompt, clearing the active selector when it
// pointed at the deleted record.
func (s *Services) DeletePrompt(app store.AppType, id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		idx := -1
		for i := range sec.Prompts {
			if sec.Prompts[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.New(apperr.Validation, "prompt %s not found", id)
		}
		sec.Prompts = append(sec.Prompts[:idx], sec.Prompts[idx+1:]...)
		if sec.ActivePrompt == id {
			sec.ActivePrompt = ""
		}
		return nil
	}, app)
}

// ActivatePrompt makes the prompt the app's active one. An empty id
// deactivates without touching the prompt file.
func (s *Services) ActivatePrompt(app store.AppType, id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		if id != "" && sec.FindPrompt(id) == nil {
			return apperr.New(apperr.Validation, "prompt %s not found", id)
		}
		sec.ActivePrompt = id
		return nil
	}, app)
}
