package api

import (
	"fmt"
	"net/http"
)

// Routes builds the HTTP mux for the character API
func (h *Handler) Routes() http.Handler {
	mux := http.NewServeMux()

	route := func(pattern string) string {
		return fmt.Sprintf(pattern, h.prefix)
	}

	mux.HandleFunc(route("GET %s/status"), h.getStatus)

	mux.HandleFunc(route("GET %s/characters"), h.listCharacters)
	mux.HandleFunc(route("POST %s/characters"), h.createCharacter)
	mux.HandleFunc(route("GET %s/characters/{characterId}"), h.getCharacter)
	mux.HandleFunc(route("PATCH %s/characters/{characterId}"), h.updateCharacter)
	mux.HandleFunc(route("DELETE %s/characters/{characterId}"), h.deleteCharacter)

	mux.HandleFunc(route("POST %s/characters/{characterId}/friends"), h.appendFriends)
	mux.HandleFunc(route("DELETE %s/characters/{characterId}/friends"), h.removeFriends)
	mux.HandleFunc(route("POST %s/characters/{characterId}/episodes"), h.appendEpisodes)
	mux.HandleFunc(route("DELETE %s/characters/{characterId}/episodes"), h.removeEpisodes)

	return mux
}
