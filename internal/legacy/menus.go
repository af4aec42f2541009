package legacy

import (
	"encoding/json"
	"fmt"
	"strings"

	"ccswitch/internal/console"
	"ccswitch/internal/services"
	"ccswitch/internal/store"
)

func (l *loop) providersMenu() error {
	m := menu{
		title: "Providers",
		rows: func() []row { return l.currentProviderRows() },
		keys: "enter activate | a add | d delete | tab app | esc back",
		handle: func(l *loop, k console.Key, cursor int) (bool, error) {
			rows := l.currentProviderRows()
			switch {
			case k.Kind == console.KeyEnter:
				if cursor >= len(rows) {
					return false, nil
				}
				l.flash(report(l.svc.ActivateProvider(l.app, rows[cursor].id), "activated "+rows[cursor].text))

			case k.Kind == console.KeyRune && k.Rune == 'a':
				if err := l.addProvider(); err != nil {
					l.flash(err.Error())
				}

			case k.Kind == console.KeyRune && k.Rune == 'd':
				if cursor >= len(rows) {
					return false, nil
				}
				if l.confirm(fmt.Sprintf("Delete provider %q?", rows[cursor].text), false) {
					l.flash(report(l.svc.DeleteProvider(l.app, rows[cursor].id), "provider deleted"))
				}
			}
			return false, nil
		},
	}
	return l.run(m)
}

func (l *loop) currentProviderRows() []row {
	current := l.svc.Snapshot().App(l.app).Current
	providers := l.svc.ListProviders(l.app)
	rows := make([]row, 0, len(providers))
	for _, p := range providers {
		rows = append(rows, row{id: p.ID, text: p.Name, active: p.ID == current})
	}
	return rows
}

// addProvider collects a provider through cooked-mode prompts. The
// payload is entered as a single JSON line; richer editing belongs to
// the TUI.
func (l *loop) addProvider() error {
	name, err := l.prompt("Provider name", "")
	if err != nil {
		return err
	}
	payload, err := l.prompt("Settings payload (JSON object)", "{}")
	if err != nil {
		return err
	}
	var cfg map[string]any
	if err := json.Unmarshal([]byte(payload), &cfg); err != nil {
		return fmt.Errorf("payload must be a JSON object: %w", err)
	}
	_, err = l.svc.AddProvider(l.app, services.ProviderInput{Name: name, SettingsConfig: cfg})
	if err != nil {
		return err
	}
	l.flash("provider added")
	return nil
}

func (l *loop) mcpMenu() error {
	m := menu{
		title: "MCP Servers",
		rows: func() []row {
			servers := l.svc.ListServers()
			rows := make([]row, 0, len(servers))
			for _, srv := range servers {
				var marks []string
				for _, app := range store.AllApps() {
					if srv.EnabledFor(app) {
						marks = append(marks, string(app))
					}
				}
				rows = append(rows, row{
					id:     srv.ID,
					text:   fmt.Sprintf("%s [%s]", srv.Name, strings.Join(marks, ",")),
					active: srv.EnabledFor(l.app),
				})
			}
			return rows
		},
		keys: "enter toggle for app | d delete | tab app | esc back",
		handle: func(l *loop, k console.Key, cursor int) (bool, error) {
			servers := l.svc.ListServers()
			if cursor >= len(servers) {
				return false, nil
			}
			srv := servers[cursor]
			switch {
			case k.Kind == console.KeyEnter:
				l.flash(report(l.svc.ToggleServerApp(srv.ID, l.app),
					fmt.Sprintf("toggled %s for %s", srv.Name, l.app)))
			case k.Kind == console.KeyRune && k.Rune == 'd':
				if l.confirm(fmt.Sprintf("Delete server %q?", srv.Name), false) {
					l.flash(report(l.svc.DeleteServer(srv.ID), "server deleted"))
				}
			}
			return false, nil
		},
	}
	return l.run(m)
}

func (l *loop) promptsMenu() error {
	m := menu{
		title: "Prompts",
		rows: func() []row {
			active := l.svc.Snapshot().App(l.app).ActivePrompt
			prompts := l.svc.ListPrompts(l.app)
			rows := make([]row, 0, len(prompts))
			for _, p := range prompts {
				rows = append(rows, row{
					id:     p.ID,
					text:   fmt.Sprintf("%s (%s)", p.Name, truncate(p.Content, 40)),
					active: p.ID == active,
				})
			}
			return rows
		},
		keys: "enter activate | 0 deactivate | tab app | esc back",
		handle: func(l *loop, k console.Key, cursor int) (bool, error) {
			prompts := l.svc.ListPrompts(l.app)
			switch {
			case k.Kind == console.KeyEnter:
				if cursor >= len(prompts) {
					return false, nil
				}
				l.flash(report(l.svc.ActivatePrompt(l.app, prompts[cursor].ID), "prompt activated"))
			case k.Kind == console.KeyRune && k.Rune == '0':
				l.flash(report(l.svc.ActivatePrompt(l.app, ""), "prompt deactivated"))
			}
			return false, nil
		},
	}
	return l.run(m)
}

func (l *loop) backupsMenu() error {
	m := menu{
		title: "Backups",
		rows: func() []row {
			backups, err := l.svc.ListBackups()
			if err != nil {
				return nil
			}
			rows := make([]row, 0, len(backups))
			for _, b := range backups {
				rows = append(rows, row{
					id:   b.Name,
					text: fmt.Sprintf("%s  (%s)", b.Name, b.ModTime.Format("2006-01-02 15:04:05")),
				})
			}
			return rows
		},
		keys: "enter restore | esc back",
		handle: func(l *loop, k console.Key, cursor int) (bool, error) {
			if k.Kind != console.KeyEnter {
				return false, nil
			}
			backups, err := l.svc.ListBackups()
			if err != nil || cursor >= len(backups) {
				return false, err
			}
			name := backups[cursor].Name
			if l.confirm("Restore "+name+"?", false) {
				l.flash(report(l.svc.RestoreBackup(name), "restored "+name))
			}
			return false, nil
		},
	}
	return l.run(m)
}
