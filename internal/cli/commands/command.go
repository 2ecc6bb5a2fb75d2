package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"GluviaAdmin/internal/cli/auth"
	"GluviaAdmin/internal/cli/bootstrap"
	"GluviaAdmin/internal/config"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// ErrFailed is returned when the failure was already reported to the user as toasts.
var ErrFailed = errors.New("failed")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <email> <password>".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, cfg *config.Config, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// Out — общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// In — источник ввода для интерактивного режима и `foods-batch -`.
var In io.Reader = os.Stdin

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name.
func Get(name string) (Command, bool) {
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"Gluvia Admin CLI",
		"",
		"Usage:",
		"  gluvia-admin [-api URL] [-token-file path] [-log-level debug] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-44s %s", c.Usage(), c.Description()))
	}
	return strings.Join(lines, "\n") + "\n"
}

// openApp собирает клиент и хранилища для одной команды.
func openApp(cfg *config.Config) (*bootstrap.App, func() error, error) {
	return bootstrap.Open(cfg, Out)
}

// outcome turns a store result into a command error. A 401 seen during the
// call wins over the generic failure.
func outcome(app *bootstrap.App, ok bool) error {
	if app.Session.NeedsLogin() {
		return auth.ErrSessionExpired
	}
	if !ok {
		return ErrFailed
	}
	return nil
}
