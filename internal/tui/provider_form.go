package tui

import (
	"encoding/json"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"ccswitch/internal/apperr"
	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

// openProviderForm opens the add/edit form. existing is nil for add; the
// form tag carries the provider id for edit so DialogClosed can route it.
func openProviderForm(app store.AppType, existing *store.Provider) tea.Cmd {
	tag := "provider:"
	fields := []FormField{
		{Label: "Name", Placeholder: "My provider"},
		{Label: "Website URL", Placeholder: "https://..."},
		{Label: "Category", Placeholder: "official, relay, ..."},
		{Label: "Notes"},
		{Label: "Apply common config (y/n)", Value: "n"},
	}
	payload := defaultPayloadTemplate(app)

	if existing != nil {
		tag += existing.ID
		fields[0].Value = existing.Name
		fields[1].Value = existing.WebsiteURL
		fields[2].Value = existing.Category
		fields[3].Value = existing.Notes
		if existing.ApplyCommonConfig {
			fields[4].Value = "y"
		}
		if data, err := json.MarshalIndent(existing.SettingsConfig, "", "  "); err == nil {
			payload = string(data)
		}
	}

	title := "Add Provider"
	if existing != nil {
		title = "Edit Provider"
	}
	return func() tea.Msg {
		return ShowDialogMsg{Dialog: newFormDialog(tag, title, fields, "Settings payload (JSON)", payload)}
	}
}

// providerInputFromForm converts a submitted form back into a service
// input, parsing the JSON payload.
func providerInputFromForm(res formResult) (services.ProviderInput, error) {
	in := services.ProviderInput{
		Name:       res.Values[0],
		WebsiteURL: strings.TrimSpace(res.Values[1]),
		Category:   strings.TrimSpace(res.Values[2]),
		Notes:      res.Values[3],
	}
	in.ApplyCommonConfig = strings.EqualFold(strings.TrimSpace(res.Values[4]), "y")

	payload := strings.TrimSpace(res.Area)
	if payload == "" {
		payload = "{}"
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return in, apperr.Wrap(apperr.Validation, err, "settings payload must be a JSON object")
	}
	in.SettingsConfig = cfg
	return in, nil
}

// defaultPayloadTemplate seeds the payload editor with the shape the
// target app expects.
func defaultPayloadTemplate(app store.AppType) string {
	switch app {
	case store.AppClaude:
		return "{\n  \"env\": {\n    \"ANTHROPIC_AUTH_TOKEN\": \"\",\n    \"ANTHROPIC_BASE_URL\": \"\"\n  }\n}"
	case store.AppCodex:
		return "{\n  \"auth\": {\n    \"OPENAI_API_KEY\": \"\"\n  },\n  \"config\": \"\"\n}"
	case store.AppGemini:
		return "{\n  \"env\": {\n    \"GEMINI_API_KEY\": \"\"\n  }\n}"
	}
	return "{}"
}
