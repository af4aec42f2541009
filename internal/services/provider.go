package services

import (
	"net/url"
	"sort"
	"strings"

	"ccswitch/internal/apperr"
	"ccswitch/internal/store"
)

// ProviderInput is the user-editable subset of a provider record.
type ProviderInput struct {
	Name              string
	SettingsConfig    map[string]any
	WebsiteURL        string
	Category          string
	Notes             string
	InFailoverQueue   bool
	ApplyCommonConfig bool
}

func (in *ProviderInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.New(apperr.Validation, "provider name must not be empty")
	}
	if in.WebsiteURL != "" {
		u, err := url.Parse(in.WebsiteURL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			return apperr.New(apperr.Validation, "website URL %q must be http(s)", in.WebsiteURL)
		}
	}
	return nil
}

// ListProviders returns the app's providers sorted for display: explicit
// sort indexes first (ascending), then the rest by creation time.
func (s *Services) ListProviders(app store.AppType) []store.Provider {
	providers := s.Snapshot().App(app).Providers
	sort.SliceStable(providers, func(i, j int) bool {
		a, b := providers[i], providers[j]
		switch {
		case a.SortIndex != nil && b.SortIndex != nil:
			return *a.SortIndex < *b.SortIndex
		case a.SortIndex != nil:
			return true
		case b.SortIndex != nil:
			return false
		default:
			return a.CreatedAt < b.CreatedAt
		}
	})
	return providers
}

// AddProvider creates a provider for app and returns its id. The first
// provider of an app becomes active immediately.
func (s *Services) AddProvider(app store.AppType, in ProviderInput) (string, error) {
	if err := in.validate(); err != nil {
		return "", err
	}
	id := newID()
	err := s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		now := nowMillis()
		sec.Providers = append(sec.Providers, store.Provider{
			ID:                id,
			Name:              strings.TrimSpace(in.Name),
			SettingsConfig:    in.SettingsConfig,
			WebsiteURL:        in.WebsiteURL,
			Category:          in.Category,
			Notes:             in.Notes,
			InFailoverQueue:   in.InFailoverQueue,
			ApplyCommonConfig: in.ApplyCommonConfig,
			CreatedAt:         now,
			UpdatedAt:         now,
		})
		if sec.Current == "" {
			sec.Current = id
		}
		return nil
	}, app)
	if err != nil {
		return "", err
	}
	return id, nil
}

// UpdateProvider rewrites the editable fields of an existing provider.
func (s *Services) UpdateProvider(app store.AppType, id string, in ProviderInput) error {
	if err := in.validate(); err != nil {
		return err
	}
	return s.mutateAndProject(func(cfg *store.Config) error {
		p := cfg.App(app).FindProvider(id)
		if p == nil {
			return apperr.New(apperr.Validation, "provider %s not found", id)
		}
		p.Name = strings.TrimSpace(in.Name)
		p.SettingsConfig = in.SettingsConfig
		p.WebsiteURL = in.WebsiteURL
		p.Category = in.Category
		p.Notes = in.Notes
		p.InFailoverQueue = in.InFailoverQueue
		p.ApplyCommonConfig = in.ApplyCommonConfig
		p.UpdatedAt = nowMillis()
		return nil
	}, app)
}

// DeleteProvider removes a provider. Deleting the active provider clears
// the app's active selector and reprojects the live artifacts, so the
// deleted provider's credentials do not survive on disk.
func (s *Services) DeleteProvider(app store.AppType, id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		idx := -1
		for i := range sec.Providers {
			if sec.Providers[i].ID == id {
				idx = i
				break
			}
		}
		if idx < 0 {
			return apperr.New(apperr.Validation, "provider %s not found", id)
		}
		sec.Providers = append(sec.Providers[:idx], sec.Providers[idx+1:]...)
		if sec.Current == id {
			sec.Current = ""
		}
		return nil
	}, app)
}

// ActivateProvider makes the provider the app's active one and projects
// its payload into the app's live config.
func (s *Services) ActivateProvider(app store.AppType, id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		if sec.FindProvider(id) == nil {
			return apperr.New(apperr.Validation, "provider %s not found", id)
		}
		sec.Current = id
		return nil
	}, app)
}

// DuplicateProvider copies a provider under a derived name and returns
// the new id. The copy is never active and never in the failover queue.
func (s *Services) DuplicateProvider(app store.AppType, id string) (string, error) {
	newIDValue := newID()
	err := s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		src := sec.FindProvider(id)
		if src == nil {
			return apperr.New(apperr.Validation, "provider %s not found", id)
		}
		copied := *src
		copied.ID = newIDValue
		copied.Name = src.Name + " (copy)"
		copied.InFailoverQueue = false
		copied.SortIndex = nil
		now := nowMillis()
		copied.CreatedAt = now
		copied.UpdatedAt = now
		if src.SettingsConfig != nil {
			data := deepCopyMap(src.SettingsConfig)
			copied.SettingsConfig = data
		}
		sec.Providers = append(sec.Providers, copied)
		return nil
	}, app)
	if err != nil {
		return "", err
	}
	return newIDValue, nil
}

// MoveProvider shifts a provider up (delta -1) or down (delta +1) in the
// display order by rewriting every sort index in the app.
func (s *Services) MoveProvider(app store.AppType, id string, delta int) error {
	if delta != -1 && delta != 1 {
		return apperr.New(apperr.Validation, "move delta must be -1 or +1")
	}
	ordered := s.ListProviders(app)
	idx := -1
	for i := range ordered {
		if ordered[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return apperr.New(apperr.Validation, "provider %s not found", id)
	}
	target := idx + delta
	if target < 0 || target >= len(ordered) {
		return nil
	}
	ordered[idx], ordered[target] = ordered[target], ordered[idx]

	return s.mutateAndProject(func(cfg *store.Config) error {
		sec := cfg.App(app)
		for i := range ordered {
			p := sec.FindProvider(ordered[i].ID)
			if p == nil {
				return apperr.New(apperr.Validation, "provider %s vanished during reorder", ordered[i].ID)
			}
			index := i
			p.SortIndex = &index
		}
		return nil
	}, app)
}

// ToggleFailover flips a provider's membership in the failover queue.
func (s *Services) ToggleFailover(app store.AppType, id string) error {
	return s.mutateAndProject(func(cfg *store.Config) error {
		p := cfg.App(app).FindProvider(id)
		if p == nil {
			return apperr.New(apperr.Validation, "provider %s not found", id)
		}
		p.InFailoverQueue = !p.InFailoverQueue
		p.UpdatedAt = nowMillis()
		return nil
	}, app)
}

// FailoverQueue returns the providers flagged for failover, in display
// order.
func (s *Services) FailoverQueue(app store.AppType) []store.Provider {
	var out []store.Provider
	for _, p := range s.ListProviders(app) {
		if p.InFailoverQueue {
			out = append(out, p)
		}
	}
	return out
}

func deepCopyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		if nested, ok := v.(map[string]any); ok {
			out[k] = deepCopyMap(nested)
			continue
		}
		out[k] = v
	}
	return out
}
