package catalog

import (
	"errors"
	"fmt"

	"github.com/desertthunder/catalog/internal/shared"
)

// Error is a classified catalog failure carrying a message suitable for API clients.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the sentinel the error is classified as.
func (e *Error) Unwrap() error {
	return e.Kind
}

func validationError(msg string) error {
	return &Error{Kind: shared.ErrValidation, Message: msg}
}

func conflictError(msg string) error {
	return &Error{Kind: shared.ErrConflict, Message: msg}
}

func songNotFound(id int) error {
	return &Error{Kind: shared.ErrSongNotFound, Message: fmt.Sprintf("Song with id %d does not exist.", id)}
}

func playlistNotFound(id int) error {
	return &Error{Kind: shared.ErrPlaylistNotFound, Message: fmt.Sprintf("Playlist with id %d does not exist.", id)}
}

// classify turns a repository not-found or conflict into a catalog [Error] and wraps anything else.
func classify(err error, op string, songID, playlistID int) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, shared.ErrSongNotFound):
		return songNotFound(songID)
	case errors.Is(err, shared.ErrPlaylistNotFound):
		return playlistNotFound(playlistID)
	case errors.Is(err, shared.ErrConflict):
		return &Error{Kind: shared.ErrConflict, Message: err.Error()}
	default:
		return fmt.Errorf("failed to %s: %w", op, err)
	}
}
