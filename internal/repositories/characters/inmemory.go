package characters

import (
	"context"
	"sync"

	"github.com/kessel-run/starwars-api/internal/entities"
	apperr "github.com/kessel-run/starwars-api/internal/errors"
	"github.com/kessel-run/starwars-api/internal/identifier"
)

// InMemoryRepository is an in-memory implementation of the character repository
// Useful for testing and development
type InMemoryRepository struct {
	mu          sync.RWMutex
	characters  map[string]*entities.Character
	order       []string          // ids in insertion order
	names       map[string]string // name -> id, the unique constraint
	idGenerator identifier.Generator
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		characters:  make(map[string]*entities.Character),
		names:       make(map[string]string),
		idGenerator: identifier.NewHexGenerator(),
	}
}

// Create stores a new character, assigning its id
func (r *InMemoryRepository) Create(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	if character == nil {
		return nil, apperr.InvalidArgument("character cannot be nil")
	}
	if character.Name == "" {
		return nil, apperr.InvalidArgument("character name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.names[character.Name]; taken {
		return nil, apperr.AlreadyExistsf("Character with name '%s' already exists", character.Name).
			WithMeta("character_name", character.Name)
	}

	stored := character.Clone()
	stored.ID = r.idGenerator.New()

	r.characters[stored.ID] = stored
	r.order = append(r.order, stored.ID)
	r.names[stored.Name] = stored.ID

	return stored.Clone(), nil
}

// Get retrieves a character by ID
func (r *InMemoryRepository) Get(ctx context.Context, id string) (*entities.Character, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	character, exists := r.characters[id]
	if !exists {
		return nil, apperr.NotFoundf("Character with id '%s' does not exist", id).
			WithMeta("character_id", id)
	}

	return character.Clone(), nil
}

// List returns characters in insertion order
func (r *InMemoryRepository) List(ctx context.Context, skip, limit int) ([]*entities.Character, error) {
	if skip < 0 || limit < 0 {
		return nil, apperr.InvalidArgument("skip and limit must not be negative")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	result := []*entities.Character{}
	if skip >= len(r.order) || limit == 0 {
		return result, nil
	}

	end := skip + limit
	if end > len(r.order) {
		end = len(r.order)
	}

	for _, id := range r.order[skip:end] {
		result = append(result, r.characters[id].Clone())
	}

	return result, nil
}

// Count returns the total number of stored characters
func (r *InMemoryRepository) Count(ctx context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return int64(len(r.order)), nil
}

// Update replaces an existing character document
func (r *InMemoryRepository) Update(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	if character == nil {
		return nil, apperr.InvalidArgument("character cannot be nil")
	}
	if character.ID == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}
	if character.Name == "" {
		return nil, apperr.InvalidArgument("character name is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	existing, exists := r.characters[character.ID]
	if !exists {
		return nil, apperr.NotFoundf("Character with id '%s' does not exist", character.ID).
			WithMeta("character_id", character.ID)
	}

	if existing.Name != character.Name {
		if _, taken := r.names[character.Name]; taken {
			return nil, apperr.AlreadyExistsf("Character with name '%s' already exists", character.Name).
				WithMeta("character_name", character.Name)
		}
		delete(r.names, existing.Name)
		r.names[character.Name] = character.ID
	}

	stored := character.Clone()
	r.characters[character.ID] = stored

	return stored.Clone(), nil
}

// Delete removes a character
func (r *InMemoryRepository) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	character, exists := r.characters[id]
	if !exists {
		return apperr.NotFoundf("Character with id '%s' does not exist", id).
			WithMeta("character_id", id)
	}

	delete(r.characters, id)
	delete(r.names, character.Name)
	for i, stored := range r.order {
		if stored == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}

	return nil
}

// AppendToSet adds values to an array field with set semantics
func (r *InMemoryRepository) AppendToSet(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error) {
	return r.mutateArrayField(id, field, func(current []string) []string {
		return entities.UnionDistinct(current, values)
	})
}

// RemoveAll removes every occurrence of the listed values from an array field
func (r *InMemoryRepository) RemoveAll(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error) {
	return r.mutateArrayField(id, field, func(current []string) []string {
		return entities.PullAll(current, values)
	})
}

func (r *InMemoryRepository) mutateArrayField(id string, field SetField, apply func([]string) []string) (*entities.Character, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	character, exists := r.characters[id]
	if !exists {
		return nil, apperr.NotFoundf("Character with id '%s' does not exist", id).
			WithMeta("character_id", id)
	}

	switch field {
	case FieldFriends:
		character.Friends = apply(character.Friends)
	case FieldEpisodes:
		character.Episodes = apply(character.Episodes)
	default:
		return nil, apperr.InvalidArgumentf("unsupported set field '%s'", field)
	}

	return character.Clone(), nil
}
