package characters

import (
	"context"

	"github.com/kessel-run/starwars-api/internal/entities"
)

// SetField names an array-valued character field that supports atomic
// append/remove operations.
type SetField string

const (
	FieldFriends  SetField = "friends"
	FieldEpisodes SetField = "episodes"
)

// Repository defines the interface for character persistence. It is the
// document-store collaborator contract: implementations must assign ids at
// creation, enforce the unique constraint on name, and provide add-to-set /
// remove-all-matching array updates on a single document.
type Repository interface {
	// Create stores a new character, assigning its id. Fails with an
	// already-exists error when the name is taken.
	Create(ctx context.Context, character *entities.Character) (*entities.Character, error)

	// Get retrieves a character by ID
	Get(ctx context.Context, id string) (*entities.Character, error)

	// List returns characters in insertion order, skipping skip documents and
	// returning at most limit
	List(ctx context.Context, skip, limit int) ([]*entities.Character, error)

	// Count returns the total number of stored characters
	Count(ctx context.Context) (int64, error)

	// Update replaces an existing character document. A rename re-checks the
	// unique constraint on name.
	Update(ctx context.Context, character *entities.Character) (*entities.Character, error)

	// Delete removes a character
	Delete(ctx context.Context, id string) error

	// AppendToSet adds values to an array field with set semantics and returns
	// the updated document
	AppendToSet(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error)

	// RemoveAll removes every occurrence of the listed values from an array
	// field and returns the updated document
	RemoveAll(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error)
}
