package media

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/validation"
)

var ErrNoOpener = errors.New("no application found to open URL")

// Runner starts a detached process. Tests replace it.
type Runner func(name string, args ...string) error

// Launcher opens book links in an external application.
type Launcher struct {
	opener    string
	validator *validation.EndpointValidator
	run       Runner
}

func NewLauncher(cfg *config.Config) *Launcher {
	opener := cfg.Media.DefaultOpener
	if opener == "" {
		opener = defaultOpener(runtime.GOOS)
	}

	v := validation.NewEndpointValidator()
	// Info links are public pages, but a user may run against a local mirror.
	v.AllowLocal = cfg.Catalog.AllowLocal

	return &Launcher{
		opener:    opener,
		validator: v,
		run:       startDetached,
	}
}

// WithRunner swaps the process starter.
func (l *Launcher) WithRunner(run Runner) *Launcher {
	l.run = run
	return l
}

func (l *Launcher) Opener() string {
	return l.opener
}

// Open validates rawURL and hands it to the configured opener.
func (l *Launcher) Open(rawURL string) error {
	u, err := l.validator.Validate(rawURL)
	if err != nil {
		return fmt.Errorf("refusing to open %q: %w", rawURL, err)
	}
	if l.opener == "" {
		return ErrNoOpener
	}

	name, args := command(l.opener, u.String())
	debuglog.Debugf("media: opening %s with %s", u.String(), name)
	if err := l.run(name, args...); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

// command builds the invocation for opener. "start" is a cmd.exe builtin and
// takes a window title before the target.
func command(opener, target string) (string, []string) {
	if opener == "start" {
		return "cmd", []string{"/c", "start", "", target}
	}
	return opener, []string{target}
}

func defaultOpener(goos string) string {
	switch goos {
	case "darwin":
		return "open"
	case "linux":
		return "xdg-open"
	case "windows":
		return "start"
	default:
		return findCommand("xdg-open", "open")
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
