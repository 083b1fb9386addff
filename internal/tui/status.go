package tui

import (
	"fmt"
	"strings"
)

// Canonical short status messages used across the app.
const (
	MsgLoadingBooks   = "Loading books…"
	MsgLoadingMore    = "Loading more…"
	MsgNoMoreBooks    = "No more books to load"
	MsgNoBooks        = "No books found"
	MsgLoadingSimilar = "Loading…"
	MsgNoSimilar      = "No similar books found."
	MsgNoResults      = "No results"
	MsgBuyNeedsWish   = "Add the book to your wishlist to buy it"
)

func MsgWishlistToggled(title string, added bool) string {
	title = strings.TrimSpace(title)
	if added {
		return fmt.Sprintf("Added '%s' to wishlist", title)
	}
	return fmt.Sprintf("Removed '%s' from wishlist", title)
}

func MsgEmptyWishlist(toggleKey string) string {
	return fmt.Sprintf("Your wishlist is empty. Browse books and press %s to add them here!", toggleKey)
}

func MsgResultsCount(n int) string {
	if n == 1 {
		return "1 result"
	}
	return fmt.Sprintf("%d results", n)
}

// MsgBrowseSummary describes the loaded slice of the catalog.
func MsgBrowseSummary(loaded, total int) string {
	if total <= 0 {
		return fmt.Sprintf("%d books", loaded)
	}
	return fmt.Sprintf("%d of %d books", loaded, total)
}

func MsgOpened(storefront, target string) string {
	return fmt.Sprintf("Opened %s: %s", storefront, target)
}
