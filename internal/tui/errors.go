package tui

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/pders01/folio/internal/browse"
	"github.com/pders01/folio/internal/catalog"
)

// wrapErr formats an error with a contextual prefix.
func wrapErr(context string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", context, err)
}

// fetchErrorText is the single line shown for a failed catalog fetch.
func fetchErrorText(st browse.State) string {
	var ne *catalog.NetworkError
	if errors.As(st.Err, &ne) && ne.StatusCode == http.StatusTooManyRequests {
		return "The catalog is rate limiting requests, try again shortly"
	}
	return st.ErrorMessage()
}
