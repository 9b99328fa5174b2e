package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/kessel-run/starwars-api/internal/entities"
	apperr "github.com/kessel-run/starwars-api/internal/errors"
)

type characterPage struct {
	Page       int                   `json:"page"`
	PageSize   int                   `json:"pageSize"`
	TotalItems int64                 `json:"totalItems"`
	TotalPages int                   `json:"totalPages"`
	Characters []*entities.Character `json:"characters"`
}

// listCharacters returns paginated characters.
//
//	GET /characters?page&pageSize
func (h *Handler) listCharacters(w http.ResponseWriter, r *http.Request) {
	query := make(map[string]any)
	for _, key := range []string{"page", "pageSize"} {
		if value := r.URL.Query().Get(key); value != "" {
			query[key] = value
		}
	}

	output, err := h.characters.List(r.Context(), query)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, characterPage{
		Page:       output.Page,
		PageSize:   output.PageSize,
		TotalItems: output.TotalItems,
		TotalPages: output.TotalPages,
		Characters: output.Characters,
	})
}

// createCharacter creates a new character.
//
//	POST /characters
func (h *Handler) createCharacter(w http.ResponseWriter, r *http.Request) {
	payload, err := decodeObject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.characters.Create(r.Context(), payload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

// getCharacter returns the character for the given id.
//
//	GET /characters/{characterId}
func (h *Handler) getCharacter(w http.ResponseWriter, r *http.Request) {
	character, err := h.characters.Get(r.Context(), r.PathValue("characterId"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, character)
}

// updateCharacter updates an existing character with the provided fields.
//
//	PATCH /characters/{characterId}
func (h *Handler) updateCharacter(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeObject(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.characters.Update(r.Context(), r.PathValue("characterId"), fields)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// deleteCharacter deletes a character by id.
//
//	DELETE /characters/{characterId}
func (h *Handler) deleteCharacter(w http.ResponseWriter, r *http.Request) {
	if err := h.characters.Delete(r.Context(), r.PathValue("characterId")); err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusNoContent, nil)
}

// appendFriends appends friends to a character.
//
//	POST /characters/{characterId}/friends
func (h *Handler) appendFriends(w http.ResponseWriter, r *http.Request) {
	h.setMutation(w, r, h.characters.AppendFriends)
}

// removeFriends removes the listed friends from a character.
//
//	DELETE /characters/{characterId}/friends
func (h *Handler) removeFriends(w http.ResponseWriter, r *http.Request) {
	h.setMutation(w, r, h.characters.RemoveFriends)
}

// appendEpisodes appends episodes to a character.
//
//	POST /characters/{characterId}/episodes
func (h *Handler) appendEpisodes(w http.ResponseWriter, r *http.Request) {
	h.setMutation(w, r, h.characters.AppendEpisodes)
}

// removeEpisodes removes the listed episodes from a character.
//
//	DELETE /characters/{characterId}/episodes
func (h *Handler) removeEpisodes(w http.ResponseWriter, r *http.Request) {
	h.setMutation(w, r, h.characters.RemoveEpisodes)
}

type setMutationFunc func(ctx context.Context, id string, values []any) (*entities.Character, error)

// setMutation handles the shared shape of the four append/remove routes: a
// bare JSON array body and a 200 response carrying the updated document.
func (h *Handler) setMutation(w http.ResponseWriter, r *http.Request, mutate setMutationFunc) {
	values, err := decodeArray(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := mutate(r.Context(), r.PathValue("characterId"), values)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, updated)
}

// decodeObject reads the request body as a JSON object
func decodeObject(r *http.Request) (map[string]any, error) {
	var payload map[string]any
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		return nil, apperr.Validation("request body must be a JSON object")
	}
	return payload, nil
}

// decodeArray reads the request body as a bare JSON array
func decodeArray(r *http.Request) ([]any, error) {
	var values []any
	if err := json.NewDecoder(r.Body).Decode(&values); err != nil {
		return nil, apperr.Validation("request body must be a JSON array")
	}
	return values, nil
}
