// Package legacy is the plain-terminal fallback front end: a raw-mode
// menu loop with no Bubble Tea dependency, covering the core operations
// (switch provider, manage records, restore backups). It is selected on
// request or when the TUI cannot start, and it fails fast when stdin is
// not a terminal at all.
package legacy

import (
	"context"
	"fmt"
	"os"

	"ccswitch/internal/console"
	"ccswitch/internal/logger"
	"ccswitch/internal/services"
	"ccswitch/internal/store"
	"ccswitch/internal/strutil"
)

// menu is one legacy screen: a title, a set of rows, and a key handler.
type menu struct {
	title string
	rows  func() []row
	keys  string
	// handle processes a key against the row under the cursor; it returns
	// done=true to leave the menu.
	handle func(l *loop, k console.Key, cursor int) (done bool, err error)
}

type row struct {
	id     string
	text   string
	active bool
}

type loop struct {
	svc     *services.Services
	session *console.Session
	app     store.AppType
}

// Run enters the legacy console flow and blocks until the user leaves it.
func Run(svc *services.Services) error {
	session, err := console.Enter()
	if err != nil {
		return err
	}
	defer session.Restore()
	defer console.RestoreOnPanic(session)

	logger.Info(context.Background(), "Legacy console mode started")

	l := &loop{svc: svc, session: session, app: store.AppClaude}
	return l.mainMenu()
}

func (l *loop) mainMenu() error {
	m := menu{
		title: "Main Menu",
		rows: func() []row {
			return []row{
				{id: "providers", text: "Providers"},
				{id: "mcp", text: "MCP Servers"},
				{id: "prompts", text: "Prompts"},
				{id: "backups", text: "Backups"},
				{id: "sync", text: "Sync live configs"},
				{id: "quit", text: "Quit"},
			}
		},
		keys: "enter select | tab app | q quit",
		handle: func(l *loop, k console.Key, cursor int) (bool, error) {
			if k.Kind != console.KeyEnter {
				return false, nil
			}
			switch cursor {
			case 0:
				return false, l.providersMenu()
			case 1:
				return false, l.mcpMenu()
			case 2:
				return false, l.promptsMenu()
			case 3:
				return false, l.backupsMenu()
			case 4:
				l.flash(report(l.svc.SyncAll(), "live configs synced"))
				return false, nil
			default:
				return true, nil
			}
		},
	}
	return l.run(m)
}

// run drives one menu: draw, read a key, dispatch. Common keys (cursor
// movement, app cycling, quit) are handled here; everything else goes to
// the menu's handler.
func (l *loop) run(m menu) error {
	cursor := 0
	for {
		rows := m.rows()
		if cursor >= len(rows) {
			cursor = len(rows) - 1
		}
		if cursor < 0 {
			cursor = 0
		}
		l.draw(m, rows, cursor)

		k, err := console.ReadKey(os.Stdin)
		if err != nil {
			return err
		}
		switch k.Kind {
		case console.KeyInterrupt:
			return nil
		case console.KeyUp:
			if cursor > 0 {
				cursor--
			}
			continue
		case console.KeyDown:
			if cursor < len(rows)-1 {
				cursor++
			}
			continue
		case console.KeyTab:
			l.app = store.NextApp(l.app, 1)
			continue
		case console.KeyEscape:
			return nil
		case console.KeyRune:
			if k.Rune == 'q' {
				return nil
			}
		}

		done, err := m.handle(l, k, cursor)
		if err != nil {
			l.flash(err.Error())
		}
		if done {
			return nil
		}
	}
}

func (l *loop) draw(m menu, rows []row, cursor int) {
	console.ClearScreen()
	fmt.Printf("%s  [app: %s]\r\n\r\n", m.title, l.app)
	for i, r := range rows {
		marker := "  "
		if i == cursor {
			marker = "> "
		}
		suffix := ""
		if r.active {
			suffix = "  (active)"
		}
		fmt.Printf("%s%s%s\r\n", marker, r.text, suffix)
	}
	fmt.Printf("\r\n%s\r\n", m.keys)
}

// flash shows a one-line message until the next key.
func (l *loop) flash(msg string) {
	if msg == "" {
		return
	}
	fmt.Printf("\r\n%s (press any key)\r\n", msg)
	_, _ = console.ReadKey(os.Stdin)
}

// prompt suspends raw mode for a cooked-mode line read.
func (l *loop) prompt(label, def string) (string, error) {
	if err := l.session.Suspend(); err != nil {
		return "", err
	}
	defer func() { _ = l.session.Resume() }()
	return console.PromptLine(label, def)
}

// confirm asks a yes/no question in place.
func (l *loop) confirm(question string, defaultYes bool) bool {
	fmt.Print("\r\n")
	return console.Confirm(question, defaultYes)
}

func report(err error, success string) string {
	if err != nil {
		return err.Error()
	}
	return success
}

func truncate(s string, max int) string {
	return strutil.Limit(strutil.OneLine(s), max)
}
