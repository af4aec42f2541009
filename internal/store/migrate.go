package store

import (
	"encoding/json"
	"sort"

	"ccswitch/internal/apperr"
)

// decode parses raw document bytes, migrating legacy schemas. migrated
// reports whether the caller should persist the upgraded document.
func decode(data []byte) (cfg *Config, migrated bool, err error) {
	var probe struct {
		Version int `json:"version"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, false, apperr.Wrap(apperr.Migration, err, "config document is not valid JSON")
	}

	switch probe.Version {
	case SchemaVersion:
		cfg := &Config{}
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, false, apperr.Wrap(apperr.Migration, err, "decode config document")
		}
		for _, app := range AllApps() {
			cfg.App(app)
		}
		if err := cfg.Validate(); err != nil {
			return nil, false, apperr.Wrap(apperr.Migration, err, "config document fails validation")
		}
		return cfg, false, nil
	case 0, 1:
		cfg, err := migrateV1(data)
		if err != nil {
			return nil, false, err
		}
		return cfg, true, nil
	default:
		return nil, false, apperr.New(apperr.Migration,
			"config document has schema version %d, newer than the supported %d",
			probe.Version, SchemaVersion)
	}
}

// legacyV1 is the pre-multi-app document: a keyed provider map plus an
// active id, implicitly belonging to claude.
type legacyV1 struct {
	Version   int                 `json:"version"`
	Providers map[string]Provider `json:"providers"`
	Current   string              `json:"current"`
}

// migrateV1 lifts a v1 document into the multi-app schema. The provider
// map keys win over any embedded id field, matching how v1 consumers
// addressed records.
func migrateV1(data []byte) (*Config, error) {
	var old legacyV1
	if err := json.Unmarshal(data, &old); err != nil {
		return nil, apperr.Wrap(apperr.Migration, err, "decode v1 config document")
	}

	cfg := NewConfig()
	sec := cfg.App(AppClaude)
	for id, p := range old.Providers {
		p.ID = id
		sec.Providers = append(sec.Providers, p)
	}
	// Map iteration order is random; settle on creation time, then name,
	// so migration is deterministic.
	sort.Slice(sec.Providers, func(i, j int) bool {
		a, b := sec.Providers[i], sec.Providers[j]
		if a.CreatedAt != b.CreatedAt {
			return a.CreatedAt < b.CreatedAt
		}
		return a.Name < b.Name
	})

	if old.Current != "" && sec.FindProvider(old.Current) != nil {
		sec.Current = old.Current
	}
	if err := cfg.Validate(); err != nil {
		return nil, apperr.Wrap(apperr.Migration, err, "migrated config document fails validation")
	}
	return cfg, nil
}
