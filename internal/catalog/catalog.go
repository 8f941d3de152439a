// Package catalog holds the bot catalog exposed to Genesys.
//
// The catalog is static after startup: a built-in default entry, optionally
// replaced by a JSON file named in the configuration. Each bot id doubles as
// the model name used when a turn does not carry an explicit model override.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
)

// Intent describes a declared intent of a catalog bot.
type Intent struct {
	Name     string `json:"name"`
	Entities []any  `json:"entities"`
}

// Version describes one published version of a catalog bot.
type Version struct {
	Version            string   `json:"version"`
	SupportedLanguages []string `json:"supportedLanguages"`
	Intents            []Intent `json:"intents"`
}

// Bot is one catalog entry.
type Bot struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Provider    string    `json:"provider"`
	Description string    `json:"description"`
	Versions    []Version `json:"versions"`
}

// Catalog is a read-only bot catalog.
type Catalog struct {
	bots []Bot
}

// defaultBots is the built-in catalog used when no bots file is configured.
func defaultBots() []Bot {
	return []Bot{
		{
			ID:          "gpt-4.1-mini",
			Name:        "OpenAI GPT-4.1 mini",
			Provider:    "OpenAI",
			Description: "A highly capable model from OpenAI.",
			Versions: []Version{
				{
					Version:            "latest",
					SupportedLanguages: []string{"en-us", "es", "fr"},
					Intents:            []Intent{{Name: "DefaultIntent", Entities: []any{}}},
				},
			},
		},
	}
}

// New builds the catalog. When path is non-empty it must name a readable
// JSON array of bots, which replaces the built-in defaults.
func New(path string) (*Catalog, error) {
	if path == "" {
		return &Catalog{bots: defaultBots()}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read bots config: %w", err)
	}

	var bots []Bot
	if err := json.Unmarshal(data, &bots); err != nil {
		return nil, fmt.Errorf("parse bots config %s: %w", path, err)
	}

	return &Catalog{bots: bots}, nil
}

// Bots returns all catalog entries.
func (c *Catalog) Bots() []Bot {
	return c.bots
}

// Resolve looks up a bot by exact id.
func (c *Catalog) Resolve(id string) (Bot, bool) {
	for _, b := range c.bots {
		if b.ID == id {
			return b, true
		}
	}
	return Bot{}, false
}
