package characters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/kessel-run/starwars-api/internal/entities"
	apperr "github.com/kessel-run/starwars-api/internal/errors"
	"github.com/kessel-run/starwars-api/internal/identifier"
)

// CharacterData represents the serialized form of a character in Redis
type CharacterData struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Planet    string    `json:"planet,omitempty"`
	Episodes  []string  `json:"episodes"`
	Friends   []string  `json:"friends"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// maxTxRetries bounds the optimistic retry loop for watched transactions.
const maxTxRetries = 5

// redisRepo implements the Repository interface using Redis
type redisRepo struct {
	client      redis.UniversalClient
	idGenerator identifier.Generator
}

// RedisRepoConfig holds configuration for the Redis repository
type RedisRepoConfig struct {
	Client      redis.UniversalClient
	IDGenerator identifier.Generator
}

// NewRedisRepository creates a new Redis-backed character repository
func NewRedisRepository(cfg *RedisRepoConfig) Repository {
	if cfg == nil {
		panic("RedisRepoConfig cannot be nil")
	}
	if cfg.Client == nil {
		panic("Redis client cannot be nil")
	}
	if cfg.IDGenerator == nil {
		cfg.IDGenerator = identifier.NewHexGenerator()
	}

	return &redisRepo{
		client:      cfg.Client,
		idGenerator: cfg.IDGenerator,
	}
}

// key generates the Redis key for a character document
func (r *redisRepo) key(id string) string {
	return fmt.Sprintf("character:%s", id)
}

// idsKey is the sorted set of character ids, scored by insertion sequence.
func (r *redisRepo) idsKey() string {
	return "characters:ids"
}

// namesKey is the name -> id hash backing the unique constraint on name.
func (r *redisRepo) namesKey() string {
	return "characters:names"
}

// seqKey is the insertion sequence counter.
func (r *redisRepo) seqKey() string {
	return "characters:seq"
}

// Create stores a new character, assigning its id
func (r *redisRepo) Create(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	if character == nil {
		return nil, apperr.InvalidArgument("character cannot be nil")
	}
	if character.Name == "" {
		return nil, apperr.InvalidArgument("character name is required")
	}

	id := r.idGenerator.New()

	// HSETNX is the unique index on name: the first writer wins.
	claimed, err := r.client.HSetNX(ctx, r.namesKey(), character.Name, id).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to claim character name: %w", err)
	}
	if !claimed {
		return nil, apperr.AlreadyExistsf("Character with name '%s' already exists", character.Name).
			WithMeta("character_name", character.Name)
	}

	seq, err := r.client.Incr(ctx, r.seqKey()).Result()
	if err != nil {
		// Release the claimed name so the create can be retried.
		_ = r.client.HDel(ctx, r.namesKey(), character.Name).Err()
		return nil, fmt.Errorf("failed to allocate character sequence: %w", err)
	}

	stored := character.Clone()
	stored.ID = id

	data := toCharacterData(stored)
	data.CreatedAt = time.Now().UTC()
	data.UpdatedAt = data.CreatedAt

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(id), string(jsonData), 0)
	pipe.ZAdd(ctx, r.idsKey(), redis.Z{Score: float64(seq), Member: id})

	if _, err := pipe.Exec(ctx); err != nil {
		// Release the claimed name so the create can be retried.
		_ = r.client.HDel(ctx, r.namesKey(), character.Name).Err()
		return nil, fmt.Errorf("failed to create character: %w", err)
	}

	return stored, nil
}

// Get retrieves a character by ID
func (r *redisRepo) Get(ctx context.Context, id string) (*entities.Character, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	jsonData, err := r.client.Get(ctx, r.key(id)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFoundf("Character with id '%s' does not exist", id).
			WithMeta("character_id", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get character: %w", err)
	}

	var data CharacterData
	if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal character: %w", unmarshalErr)
	}

	return fromCharacterData(&data), nil
}

// List returns characters in insertion order
func (r *redisRepo) List(ctx context.Context, skip, limit int) ([]*entities.Character, error) {
	if skip < 0 || limit < 0 {
		return nil, apperr.InvalidArgument("skip and limit must not be negative")
	}
	if limit == 0 {
		return []*entities.Character{}, nil
	}

	stop := int64(skip) + int64(limit) - 1
	ids, err := r.client.ZRange(ctx, r.idsKey(), int64(skip), stop).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list character ids: %w", err)
	}

	slots := make([]*entities.Character, len(ids))

	g, ctx := errgroup.WithContext(ctx)
	for i, id := range ids {
		g.Go(func() error {
			character, err := r.Get(ctx, id)
			if apperr.IsNotFound(err) {
				// Deleted between the range read and the fetch; skip it.
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to get character %s: %w", id, err)
			}
			slots[i] = character
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	result := make([]*entities.Character, 0, len(slots))
	for _, character := range slots {
		if character != nil {
			result = append(result, character)
		}
	}

	return result, nil
}

// Count returns the total number of stored characters
func (r *redisRepo) Count(ctx context.Context) (int64, error) {
	count, err := r.client.ZCard(ctx, r.idsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count characters: %w", err)
	}
	return count, nil
}

// Update replaces an existing character document
func (r *redisRepo) Update(ctx context.Context, character *entities.Character) (*entities.Character, error) {
	if character == nil {
		return nil, apperr.InvalidArgument("character cannot be nil")
	}
	if character.ID == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}
	if character.Name == "" {
		return nil, apperr.InvalidArgument("character name is required")
	}

	existingData, err := r.client.Get(ctx, r.key(character.ID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, apperr.NotFoundf("Character with id '%s' does not exist", character.ID).
			WithMeta("character_id", character.ID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get existing character: %w", err)
	}

	var existing CharacterData
	if unmarshalErr := json.Unmarshal([]byte(existingData), &existing); unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal existing character: %w", unmarshalErr)
	}

	renamed := existing.Name != character.Name
	if renamed {
		claimed, claimErr := r.client.HSetNX(ctx, r.namesKey(), character.Name, character.ID).Result()
		if claimErr != nil {
			return nil, fmt.Errorf("failed to claim character name: %w", claimErr)
		}
		if !claimed {
			return nil, apperr.AlreadyExistsf("Character with name '%s' already exists", character.Name).
				WithMeta("character_name", character.Name)
		}
	}

	stored := character.Clone()

	data := toCharacterData(stored)
	data.CreatedAt = existing.CreatedAt // Preserve creation time
	data.UpdatedAt = time.Now().UTC()

	jsonData, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal character: %w", err)
	}

	pipe := r.client.Pipeline()
	pipe.Set(ctx, r.key(character.ID), string(jsonData), 0)
	if renamed {
		pipe.HDel(ctx, r.namesKey(), existing.Name)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		if renamed {
			// Roll back the fresh claim; the document still carries the old name.
			_ = r.client.HDel(ctx, r.namesKey(), character.Name).Err()
		}
		return nil, fmt.Errorf("failed to update character: %w", err)
	}

	return stored, nil
}

// Delete removes a character
func (r *redisRepo) Delete(ctx context.Context, id string) error {
	if id == "" {
		return apperr.InvalidArgument("character ID is required")
	}

	// Get character to find its name for index cleanup
	character, err := r.Get(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.client.Pipeline()
	pipe.Del(ctx, r.key(id))
	pipe.ZRem(ctx, r.idsKey(), id)
	pipe.HDel(ctx, r.namesKey(), character.Name)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete character: %w", err)
	}

	return nil
}

// AppendToSet adds values to an array field with set semantics
func (r *redisRepo) AppendToSet(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error) {
	return r.mutateArrayField(ctx, id, field, func(current []string) []string {
		return entities.UnionDistinct(current, values)
	})
}

// RemoveAll removes every occurrence of the listed values from an array field
func (r *redisRepo) RemoveAll(ctx context.Context, id string, field SetField, values []string) (*entities.Character, error) {
	return r.mutateArrayField(ctx, id, field, func(current []string) []string {
		return entities.PullAll(current, values)
	})
}

// mutateArrayField applies an array transformation to a single document under
// an optimistic WATCH transaction, retrying when a concurrent writer touches
// the same key. This stands in for the document store's atomic array-union and
// array-removal operators.
func (r *redisRepo) mutateArrayField(ctx context.Context, id string, field SetField, apply func([]string) []string) (*entities.Character, error) {
	if id == "" {
		return nil, apperr.InvalidArgument("character ID is required")
	}

	var result *entities.Character

	txf := func(tx *redis.Tx) error {
		jsonData, err := tx.Get(ctx, r.key(id)).Result()
		if errors.Is(err, redis.Nil) {
			return apperr.NotFoundf("Character with id '%s' does not exist", id).
				WithMeta("character_id", id)
		}
		if err != nil {
			return fmt.Errorf("failed to get character: %w", err)
		}

		var data CharacterData
		if unmarshalErr := json.Unmarshal([]byte(jsonData), &data); unmarshalErr != nil {
			return fmt.Errorf("failed to unmarshal character: %w", unmarshalErr)
		}

		switch field {
		case FieldFriends:
			data.Friends = apply(data.Friends)
		case FieldEpisodes:
			data.Episodes = apply(data.Episodes)
		default:
			return apperr.InvalidArgumentf("unsupported set field '%s'", field)
		}
		data.UpdatedAt = time.Now().UTC()

		payload, err := json.Marshal(&data)
		if err != nil {
			return fmt.Errorf("failed to marshal character: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, r.key(id), string(payload), 0)
			return nil
		})
		if err != nil {
			return err
		}

		result = fromCharacterData(&data)
		return nil
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, r.key(id))
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return nil, err
	}

	return nil, apperr.Internalf("failed to update character '%s' after %d attempts", id, maxTxRetries)
}

// toCharacterData converts an entity to the data struct for storage
func toCharacterData(character *entities.Character) *CharacterData {
	return &CharacterData{
		ID:       character.ID,
		Name:     character.Name,
		Planet:   character.Planet,
		Episodes: character.Episodes,
		Friends:  character.Friends,
	}
}

// fromCharacterData converts a data struct to an entity
func fromCharacterData(data *CharacterData) *entities.Character {
	episodes := data.Episodes
	if episodes == nil {
		episodes = []string{}
	}
	friends := data.Friends
	if friends == nil {
		friends = []string{}
	}

	return &entities.Character{
		ID:       data.ID,
		Name:     data.Name,
		Planet:   data.Planet,
		Episodes: episodes,
		Friends:  friends,
	}
}
