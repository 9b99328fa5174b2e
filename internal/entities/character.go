package entities

// Episode is one of the fixed story installments a character can appear in.
type Episode string

const (
	EpisodeNewHope Episode = "NEWHOPE"
	EpisodeEmpire  Episode = "EMPIRE"
	EpisodeJedi    Episode = "JEDI"
)

// EpisodeValues returns the allowed episode values in canonical order.
func EpisodeValues() []string {
	return []string{
		string(EpisodeNewHope),
		string(EpisodeEmpire),
		string(EpisodeJedi),
	}
}

// Character is the managed resource of the API. IDs are assigned by the
// repository at creation and never change; names are globally unique.
type Character struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Planet   string   `json:"planet,omitempty"`
	Episodes []string `json:"episodes"`
	Friends  []string `json:"friends"`
}

// Clone returns a deep copy of the character
func (c *Character) Clone() *Character {
	if c == nil {
		return nil
	}

	clone := *c
	clone.Episodes = append([]string(nil), c.Episodes...)
	clone.Friends = append([]string(nil), c.Friends...)
	return &clone
}
