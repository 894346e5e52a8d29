// Package entity defines the entities and errors used in the application.
// It includes the Link struct, which maps a short code to its original URL,
// along with the sentinel errors shared by every layer.
package entity

import (
	"errors"
	"time"
)

var (
	// ErrInvalidURL is returned when the URL to shorten is not an absolute http or https URL.
	ErrInvalidURL = errors.New("invalid url")
	// ErrDuplicateCode is returned when attempting to create a link with a code that already exists.
	ErrDuplicateCode = errors.New("duplicate code")
	// ErrRetriesExhausted is returned when every generated code collided with an existing one.
	ErrRetriesExhausted = errors.New("retries exhausted for generating unique code")
	// ErrLinkNotFound is returned when a link with the specified code cannot be found.
	ErrLinkNotFound = errors.New("link not found")
)

// Link represents a shortened URL.
type Link struct {
	Code        string    // Code is the generated identifier the original URL is resolved by.
	OriginalURL string    // OriginalURL is the full URL that the code resolves to.
	CreatedAt   time.Time // CreatedAt is the timestamp when the link was created.
	Hits        uint64    // Hits is the number of times the link has been resolved.
}
