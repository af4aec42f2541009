package console

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// PromptLine reads one line of text from stdin in cooked mode, offering a
// default that is used when the user just presses Enter. The caller must
// have suspended any raw-mode session first.
func PromptLine(prompt, def string) (string, error) {
	if def != "" {
		fmt.Printf("%s [%s]: ", prompt, def)
	} else {
		fmt.Printf("%s: ", prompt)
	}
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", err
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return def, nil
	}
	return line, nil
}

// Confirm asks a Yes/No question by reading a single raw key. Enter picks
// the default; Ctrl+C and Esc answer No.
func Confirm(question string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Printf("%s %s ", question, hint)

	fd := int(os.Stdin.Fd())
	prev, err := termMakeRaw(fd)
	if err != nil {
		// Fall back to cooked-mode line input.
		line, err := bufio.NewReader(os.Stdin).ReadString('\n')
		if err != nil {
			return false
		}
		line = strings.ToLower(strings.TrimSpace(line))
		if line == "" {
			return defaultYes
		}
		return line == "y" || line == "yes"
	}
	defer func() { _ = termRestore(fd, prev) }()

	for {
		key, err := ReadKey(os.Stdin)
		if err != nil {
			return false
		}
		switch key.Kind {
		case KeyEnter:
			fmt.Print("\r\n")
			return defaultYes
		case KeyEscape, KeyInterrupt:
			fmt.Print("\r\n")
			return false
		case KeyRune:
			switch key.Rune {
			case 'y', 'Y':
				fmt.Print("y\r\n")
				return true
			case 'n', 'N':
				fmt.Print("n\r\n")
				return false
			}
		}
	}
}

// ClearScreen clears the terminal (cooked-mode flows).
func ClearScreen() {
	fmt.Print(seqClearScreen)
}
