// Package translate formats user-visible messages for the handoff packages
// using the printer for the host locale.
package translate

import (
	"io"
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/message"
)

var (
	mu      sync.RWMutex
	printer *message.Printer
)

func init() {
	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("handoff: locale: %v", err)
	}

	SetLocales(locales...)
}

// SetLocales replaces the active printer with one matching the first
// supported language in locales. An empty list selects en-US.
func SetLocales(locales ...string) {
	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	p := message.NewPrinter(message.MatchLanguage(locales...))

	mu.Lock()
	printer = p
	mu.Unlock()
}

func current() *message.Printer {
	mu.RLock()
	defer mu.RUnlock()
	return printer
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return current().Sprintf(key, args...)
}

// Fprintf writes the translation of an en-US format to w.
func Fprintf(w io.Writer, key message.Reference, args ...any) (n int, err error) {
	return current().Fprintf(w, key, args...)
}
