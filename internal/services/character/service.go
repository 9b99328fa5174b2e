// Package character implements the character resource manager: it validates
// every mutating request, orchestrates the repository, and applies the
// set-mutation rules for array-valued fields.
package character

import (
	"context"

	"github.com/kessel-run/starwars-api/internal/entities"
	apperr "github.com/kessel-run/starwars-api/internal/errors"
	"github.com/kessel-run/starwars-api/internal/identifier"
	"github.com/kessel-run/starwars-api/internal/pagination"
	characterRepo "github.com/kessel-run/starwars-api/internal/repositories/characters"
	"github.com/kessel-run/starwars-api/internal/validation"
)

// Repository is an alias for the character repository interface
type Repository = characterRepo.Repository

const (
	// DefaultPage is the page returned when the query omits one
	DefaultPage = 1

	// DefaultPageSize is the page size used when the query omits one
	DefaultPageSize = 10
)

// Service defines the character resource manager interface
type Service interface {
	// List returns a page of characters plus pagination metadata. Query values
	// arrive raw (strings from the URL) and are validated and coerced here.
	List(ctx context.Context, query map[string]any) (*ListOutput, error)

	// Get retrieves a character by id
	Get(ctx context.Context, id string) (*entities.Character, error)

	// Create validates the payload and stores a new character
	Create(ctx context.Context, payload map[string]any) (*entities.Character, error)

	// Update applies a partial field replace to an existing character
	Update(ctx context.Context, id string, fields map[string]any) (*entities.Character, error)

	// Delete removes a character permanently
	Delete(ctx context.Context, id string) error

	// AppendFriends adds friends with set semantics
	AppendFriends(ctx context.Context, id string, friends []any) (*entities.Character, error)

	// RemoveFriends removes every occurrence of the listed friends
	RemoveFriends(ctx context.Context, id string, friends []any) (*entities.Character, error)

	// AppendEpisodes adds episodes with set semantics
	AppendEpisodes(ctx context.Context, id string, episodes []any) (*entities.Character, error)

	// RemoveEpisodes removes the listed episodes, refusing to leave the
	// character without any
	RemoveEpisodes(ctx context.Context, id string, episodes []any) (*entities.Character, error)
}

// ListOutput contains one page of characters and its metadata
type ListOutput struct {
	Page       int
	PageSize   int
	TotalItems int64
	TotalPages int
	Characters []*entities.Character
}

// service implements the Service interface
type service struct {
	repository Repository
}

// ServiceConfig holds configuration for the service
type ServiceConfig struct {
	Repository Repository // Required
}

// NewService creates a new character service
func NewService(cfg *ServiceConfig) Service {
	if cfg == nil || cfg.Repository == nil {
		panic("repository is required")
	}

	return &service{
		repository: cfg.Repository,
	}
}

// List returns a page of characters plus pagination metadata
func (s *service) List(ctx context.Context, query map[string]any) (*ListOutput, error) {
	normalized, err := validation.Validate(query, validation.ListQuery())
	if err != nil {
		return nil, err
	}

	page := intOrDefault(normalized, "page", DefaultPage)
	pageSize := intOrDefault(normalized, "pageSize", DefaultPageSize)

	totalItems, err := s.repository.Count(ctx)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to count characters")
	}

	window := pagination.Calculate(totalItems, page, pageSize)

	characters, err := s.repository.List(ctx, window.Skip, window.Limit)
	if err != nil {
		return nil, apperr.Wrap(err, "failed to list characters")
	}

	return &ListOutput{
		Page:       page,
		PageSize:   pageSize,
		TotalItems: totalItems,
		TotalPages: window.TotalPages,
		Characters: characters,
	}, nil
}

// Get retrieves a character by id
func (s *service) Get(ctx context.Context, id string) (*entities.Character, error) {
	if err := identifier.Validate(id); err != nil {
		return nil, err
	}

	return s.repository.Get(ctx, id)
}

// Create validates the payload and stores a new character
func (s *service) Create(ctx context.Context, payload map[string]any) (*entities.Character, error) {
	normalized, err := validation.Validate(payload, validation.CreateCharacter())
	if err != nil {
		return nil, err
	}

	character := &entities.Character{
		Name:     stringField(normalized, "name"),
		Planet:   stringField(normalized, "planet"),
		Episodes: stringsField(normalized, "episodes"),
		Friends:  stringsField(normalized, "friends"),
	}

	return s.repository.Create(ctx, character)
}

// Update applies a partial field replace to an existing character
func (s *service) Update(ctx context.Context, id string, fields map[string]any) (*entities.Character, error) {
	if err := identifier.Validate(id); err != nil {
		return nil, err
	}

	normalized, err := validation.Validate(fields, validation.UpdateCharacter())
	if err != nil {
		return nil, err
	}

	current, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if name, ok := normalized["name"]; ok {
		current.Name = name.(string)
	}
	if planet, ok := normalized["planet"]; ok {
		current.Planet = planet.(string)
	}
	if episodes, ok := normalized["episodes"]; ok {
		current.Episodes = episodes.([]string)
	}
	if friends, ok := normalized["friends"]; ok {
		current.Friends = friends.([]string)
	}

	return s.repository.Update(ctx, current)
}

// Delete removes a character permanently
func (s *service) Delete(ctx context.Context, id string) error {
	if err := identifier.Validate(id); err != nil {
		return err
	}

	return s.repository.Delete(ctx, id)
}

// AppendFriends adds friends with set semantics
func (s *service) AppendFriends(ctx context.Context, id string, friends []any) (*entities.Character, error) {
	values, err := s.validateSetPayload(id, "friends", friends, validation.FriendsPayload())
	if err != nil {
		return nil, err
	}

	return s.repository.AppendToSet(ctx, id, characterRepo.FieldFriends, values)
}

// RemoveFriends removes every occurrence of the listed friends
func (s *service) RemoveFriends(ctx context.Context, id string, friends []any) (*entities.Character, error) {
	values, err := s.validateSetPayload(id, "friends", friends, validation.FriendsPayload())
	if err != nil {
		return nil, err
	}

	return s.repository.RemoveAll(ctx, id, characterRepo.FieldFriends, values)
}

// AppendEpisodes adds episodes with set semantics
func (s *service) AppendEpisodes(ctx context.Context, id string, episodes []any) (*entities.Character, error) {
	values, err := s.validateSetPayload(id, "episodes", episodes, validation.EpisodesPayload())
	if err != nil {
		return nil, err
	}

	return s.repository.AppendToSet(ctx, id, characterRepo.FieldEpisodes, values)
}

// RemoveEpisodes removes the listed episodes. The character must retain at
// least one episode; the check reads current state before committing, so it is
// not atomic against a concurrent removal of the same document. That race is a
// documented limitation of the store contract, not something patched over here.
func (s *service) RemoveEpisodes(ctx context.Context, id string, episodes []any) (*entities.Character, error) {
	values, err := s.validateSetPayload(id, "episodes", episodes, validation.EpisodesPayload())
	if err != nil {
		return nil, err
	}

	current, err := s.repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	remaining := entities.PullAll(current.Episodes, values)
	if len(remaining) == 0 {
		return nil, apperr.Validation("cannot remove episode, character must retain at least one").
			WithMeta("character_id", id)
	}

	return s.repository.RemoveAll(ctx, id, characterRepo.FieldEpisodes, values)
}

// validateSetPayload validates the id and the bare-array body of an
// append/remove request, returning the normalized values.
func (s *service) validateSetPayload(id, field string, values []any, schema validation.Schema) ([]string, error) {
	if err := identifier.Validate(id); err != nil {
		return nil, err
	}

	normalized, err := validation.Validate(map[string]any{field: values}, schema)
	if err != nil {
		return nil, err
	}

	return normalized[field].([]string), nil
}

func intOrDefault(m map[string]any, key string, fallback int) int {
	if v, ok := m[key]; ok {
		return v.(int)
	}
	return fallback
}

func stringField(m map[string]any, key string) string {
	if v, ok := m[key]; ok {
		return v.(string)
	}
	return ""
}

func stringsField(m map[string]any, key string) []string {
	if v, ok := m[key]; ok {
		return v.([]string)
	}
	return []string{}
}
