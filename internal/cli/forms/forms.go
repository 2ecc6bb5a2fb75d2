// Package forms turns command-line flags into create drafts and partial
// updates, checking them locally before any store mutation is called.
package forms

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"GluviaAdmin/internal/nutrition"

	"github.com/go-openapi/strfmt"
)

var (
	// ErrFlags wraps flag parsing failures; callers show usage.
	ErrFlags = errors.New("forms: invalid flags")
	// ErrNoChanges is returned by patch builders when no field flag was given.
	ErrNoChanges = errors.New("forms: nothing to update")
	// ErrMissingID is returned by patch builders without a record id.
	ErrMissingID = errors.New("forms: record id is required")
)

// MinPasswordLength matches the server rule.
const MinPasswordLength = 8

// Invalid is a list of client-side field errors.
type Invalid []nutrition.Violation

func (e Invalid) Error() string {
	parts := make([]string, 0, len(e))
	for _, v := range e {
		parts = append(parts, v.String())
	}
	return strings.Join(parts, "; ")
}

// Messages returns one "field: message" line per error.
func (e Invalid) Messages() []string {
	out := make([]string, 0, len(e))
	for _, v := range e {
		out = append(out, v.String())
	}
	return out
}

// checker accumulates violations.
type checker struct{ vs Invalid }

func (c *checker) add(field, msg string) {
	c.vs = append(c.vs, nutrition.Violation{Field: field, Message: msg})
}

func (c *checker) addAll(vs []nutrition.Violation) { c.vs = append(c.vs, vs...) }

func (c *checker) required(field, v string) {
	if strings.TrimSpace(v) == "" {
		c.add(field, "is required")
	}
}

func (c *checker) email(field, v string) {
	switch {
	case strings.TrimSpace(v) == "":
		c.add(field, "is required")
	case !strfmt.IsEmail(v):
		c.add(field, "must be a valid email")
	}
}

func (c *checker) password(field, v string) {
	if len(v) < MinPasswordLength {
		c.add(field, fmt.Sprintf("must be at least %d characters", MinPasswordLength))
	}
}

func (c *checker) oneOf(field, v string, allowed ...string) {
	for _, a := range allowed {
		if v == a {
			return
		}
	}
	c.add(field, "must be one of "+strings.Join(allowed, ", "))
}

func (c *checker) err() error {
	if len(c.vs) == 0 {
		return nil
	}
	return c.vs
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%w: %v", ErrFlags, err)
	}
	return nil
}

// visited returns the names of flags that were set explicitly.
func visited(fs *flag.FlagSet) map[string]bool {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })
	return set
}

// patchID parses flags and takes the single positional argument as the id.
func patchID(fs *flag.FlagSet, args []string) (string, error) {
	if err := parse(fs, args); err != nil {
		return "", err
	}
	if fs.NArg() != 1 || strings.TrimSpace(fs.Arg(0)) == "" {
		return "", ErrMissingID
	}
	return fs.Arg(0), nil
}
