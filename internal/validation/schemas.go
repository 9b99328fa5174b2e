package validation

import "github.com/kessel-run/starwars-api/internal/entities"

// CreateCharacter validates creation payloads: name is required and episodes
// must be a non-empty set of known values.
func CreateCharacter() Schema {
	return Schema{
		"name":    {Type: TypeString, Required: true},
		"planet":  {Type: TypeString},
		"friends": {Type: TypeStringArray},
		"episodes": {
			Type:     TypeStringArray,
			Required: true,
			Enum:     entities.EpisodeValues(),
			Unique:   true,
			MinItems: 1,
		},
	}
}

// UpdateCharacter validates partial updates: every field is optional, but
// episodes, when present, must still be a non-empty set of known values.
func UpdateCharacter() Schema {
	return Schema{
		"name":    {Type: TypeString},
		"planet":  {Type: TypeString},
		"friends": {Type: TypeStringArray},
		"episodes": {
			Type:     TypeStringArray,
			Enum:     entities.EpisodeValues(),
			Unique:   true,
			MinItems: 1,
		},
	}
}

// FriendsPayload validates the body of friend append/remove requests.
func FriendsPayload() Schema {
	return Schema{
		"friends": {Type: TypeStringArray, Required: true, MinItems: 1},
	}
}

// EpisodesPayload validates the body of episode append/remove requests.
func EpisodesPayload() Schema {
	return Schema{
		"episodes": {
			Type:     TypeStringArray,
			Required: true,
			Enum:     entities.EpisodeValues(),
			Unique:   true,
			MinItems: 1,
		},
	}
}

// ListQuery validates pagination query parameters, coercing the raw string
// values to integers.
func ListQuery() Schema {
	return Schema{
		"page":     {Type: TypeInt, Min: 1},
		"pageSize": {Type: TypeInt, Min: 1},
	}
}
