package commands

import (
	"context"
	"errors"
	"fmt"

	"GluviaAdmin/internal/cli/auth"
	"GluviaAdmin/internal/cli/notify"
	"GluviaAdmin/internal/config"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Log in and store the bearer token" }
func (loginCmd) Usage() string       { return "login <email> <password>" }

func (loginCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	admin, err := app.Session.Login(ctx, args[0], args[1])
	if err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			app.Notifier.Error("Invalid email or password")
			return ErrFailed
		}
		notify.Failure(app.Notifier, err, "Login failed")
		return ErrFailed
	}
	app.Notifier.Success(fmt.Sprintf("Logged in as %s (%s)", admin.Email, admin.Role))
	return nil
}

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Log out and forget the stored token" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	if err := app.Session.Logout(ctx); err != nil {
		return err
	}
	app.Notifier.Success("Logged out")
	return nil
}

type whoamiCmd struct{}

func (whoamiCmd) Name() string        { return "whoami" }
func (whoamiCmd) Description() string { return "Show the logged-in admin" }
func (whoamiCmd) Usage() string       { return "whoami" }

func (whoamiCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()

	me, err := app.Session.CurrentUser(ctx)
	switch {
	case errors.Is(err, auth.ErrNotLoggedIn):
		if last := app.Session.LastLogin(); last != "" {
			fmt.Fprintf(Out, "Not logged in (last login: %s)\n", last)
		} else {
			fmt.Fprintln(Out, "Not logged in")
		}
		return ErrFailed
	case err != nil:
		if app.Session.NeedsLogin() || errors.Is(err, auth.ErrSessionExpired) {
			return auth.ErrSessionExpired
		}
		notify.Failure(app.Notifier, err, "Failed to load current user")
		return ErrFailed
	}
	fmt.Fprintf(Out, "id:    %s\n", me.ID)
	fmt.Fprintf(Out, "email: %s\n", me.Email)
	fmt.Fprintf(Out, "name:  %s %s\n", me.FirstName, me.LastName)
	fmt.Fprintf(Out, "role:  %s\n", me.Role)
	return nil
}

type resetRequestCmd struct{}

func (resetRequestCmd) Name() string        { return "password-reset-request" }
func (resetRequestCmd) Description() string { return "Ask the server to send a password reset token" }
func (resetRequestCmd) Usage() string       { return "password-reset-request <email>" }

func (resetRequestCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	msg, err := app.Session.RequestPasswordReset(ctx, args[0])
	if err != nil {
		notify.Failure(app.Notifier, err, "Failed to request password reset")
		return ErrFailed
	}
	app.Notifier.Success(orText(msg, "If the account exists, a reset link has been sent"))
	return nil
}

type resetCmd struct{}

func (resetCmd) Name() string        { return "password-reset" }
func (resetCmd) Description() string { return "Set a new password using a reset token" }
func (resetCmd) Usage() string       { return "password-reset <token> <new-password>" }

func (resetCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 2 {
		return ErrUsage
	}
	app, done, err := openApp(cfg)
	if err != nil {
		return err
	}
	defer done()
	msg, err := app.Session.ResetPassword(ctx, args[0], args[1])
	if err != nil {
		notify.Failure(app.Notifier, err, "Failed to reset password")
		return ErrFailed
	}
	app.Notifier.Success(orText(msg, "Password has been reset"))
	return nil
}

func orText(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

func init() {
	RegisterCmd(loginCmd{})
	RegisterCmd(logoutCmd{})
	RegisterCmd(whoamiCmd{})
	RegisterCmd(resetRequestCmd{})
	RegisterCmd(resetCmd{})
}
