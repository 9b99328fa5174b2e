// Package api exposes the character resource manager over HTTP. Routing is
// plain net/http; every domain failure is translated to the wire error shape
// in one place (respond.go).
package api

import (
	characterService "github.com/kessel-run/starwars-api/internal/services/character"
)

// Handler serves the character API routes
type Handler struct {
	characters characterService.Service
	prefix     string
	appName    string
	appVersion string
}

// HandlerConfig holds configuration for the handler
type HandlerConfig struct {
	CharacterService characterService.Service // Required
	Prefix           string                   // Route prefix, e.g. "/api"
	AppName          string
	AppVersion       string
}

// NewHandler creates a new API handler
func NewHandler(cfg *HandlerConfig) *Handler {
	if cfg == nil || cfg.CharacterService == nil {
		panic("character service is required")
	}

	return &Handler{
		characters: cfg.CharacterService,
		prefix:     cfg.Prefix,
		appName:    cfg.AppName,
		appVersion: cfg.AppVersion,
	}
}
