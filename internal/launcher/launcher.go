package launcher

import (
	"fmt"
	"os/exec"
	"runtime"

	"github.com/pders01/folio/internal/config"
	"github.com/pders01/folio/internal/debuglog"
	"github.com/pders01/folio/internal/validation"
)

const DefaultStorefront = "amazon"

// Launcher builds purchase links and opens them in the browser.
type Launcher struct {
	storefront string
	opener     string
	registry   *Registry
	links      *validation.URLValidator
	log        *debuglog.FieldLogger
	// start runs cmd without waiting for it; replaced in tests
	start func(cmd *exec.Cmd) error
}

func NewLauncher(cfg *config.Config) *Launcher {
	registry, err := NewRegistry(DefaultUserPaths()...)
	if err != nil {
		// Embedded definitions are broken; plain "opener url" still works
		registry = &Registry{
			storefronts: map[string]Storefront{
				DefaultStorefront: {Name: "Amazon", URL: "https://www.amazon.com/s?k={query}"},
			},
			openers: map[string]OpenerDefinition{},
		}
	}

	storefront := cfg.Launcher.Storefront
	if storefront == "" {
		storefront = DefaultStorefront
	}

	opener := cfg.Launcher.DefaultOpener
	if opener == "" || findCommand(commandFor(registry, opener)) == "" {
		for _, name := range registry.Openers(runtime.GOOS) {
			if findCommand(commandFor(registry, name)) != "" {
				opener = name
				break
			}
		}
	}

	return &Launcher{
		storefront: storefront,
		opener:     opener,
		registry:   registry,
		links:      validation.NewLinkValidator(),
		log:        debuglog.For("launcher"),
		start:      startDetached,
	}
}

// PurchaseURL returns the storefront search link for title.
func (l *Launcher) PurchaseURL(title string) (string, error) {
	if title == "" {
		return "", fmt.Errorf("book has no title")
	}
	return l.registry.SearchURL(l.storefront, title)
}

// StorefrontName returns the display name of the configured storefront.
func (l *Launcher) StorefrontName() string {
	if s, ok := l.registry.Storefront(l.storefront); ok && s.Name != "" {
		return s.Name
	}
	return l.storefront
}

// Open hands target to the platform opener and returns without waiting.
func (l *Launcher) Open(target string) error {
	link, err := l.links.Validate(target)
	if err != nil {
		return fmt.Errorf("refusing to open link: %w", err)
	}
	if l.opener == "" {
		return fmt.Errorf("no application found to open URL")
	}

	cmd, err := l.registry.Command(l.opener, link)
	if err != nil {
		cmd = exec.Command(l.opener, link)
	}

	l.log.With("opener", l.opener).Debugf("opening %s", link)
	if err := l.start(cmd); err != nil {
		return fmt.Errorf("failed to start %s: %w", l.opener, err)
	}
	return nil
}

// Buy opens the purchase link for title.
func (l *Launcher) Buy(title string) (string, error) {
	link, err := l.PurchaseURL(title)
	if err != nil {
		return "", err
	}
	return link, l.Open(link)
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

func commandFor(r *Registry, opener string) string {
	if def, ok := r.openers[opener]; ok && def.Command != "" {
		return def.Command
	}
	return opener
}

func findCommand(commands ...string) string {
	for _, cmd := range commands {
		if _, err := exec.LookPath(cmd); err == nil {
			return cmd
		}
	}
	return ""
}
