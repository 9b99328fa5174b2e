package testutils

import "github.com/kessel-run/starwars-api/internal/entities"

// BatchCharacters returns the standard seed set used across tests.
func BatchCharacters() []*entities.Character {
	return []*entities.Character{
		{
			Name:     "Darth Vader",
			Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
			Friends:  []string{"Wilhuff Tarkin"},
		},
		{
			Name:     "Leia Organa",
			Planet:   "Alderaan",
			Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
			Friends:  []string{"Luke Skywalker", "Han Solo", "C-3PO", "R2-D2"},
		},
		{
			Name:     "Wilhuff Tarkin",
			Episodes: []string{"NEWHOPE"},
			Friends:  []string{"Darth Vader"},
		},
		{
			Name:     "C-3PO",
			Episodes: []string{"NEWHOPE", "EMPIRE", "JEDI"},
			Friends:  []string{"Luke Skywalker", "Han Solo", "Leia Organa", "R2-D2"},
		},
	}
}

// HanSoloPayload returns a valid creation payload as it would arrive from a
// decoded request body.
func HanSoloPayload() map[string]any {
	return map[string]any{
		"name":     "Han Solo",
		"episodes": []any{"NEWHOPE", "EMPIRE", "JEDI"},
		"friends":  []any{"Luke Skywalker", "Leia Organa"},
	}
}
