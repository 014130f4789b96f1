package mcpserver

import (
	"encoding/json"
)

const manifestSchema = "https://static.modelcontextprotocol.io/schemas/2025-10-17/server.schema.json"

// DefaultImage is the OCI image the registry entry points at.
const DefaultImage = "ghcr.io/panbanda/linegauge"

// Manifest is the MCP registry server.json document.
type Manifest struct {
	Schema      string      `json:"$schema"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Version     string      `json:"version"`
	Repository  *Repository `json:"repository,omitempty"`
	Packages    []Package   `json:"packages,omitempty"`
}

// Repository locates the source code.
type Repository struct {
	URL    string `json:"url"`
	Source string `json:"source"`
}

// Package describes how a client launches the server.
type Package struct {
	RegistryType     string     `json:"registryType"`
	Identifier       string     `json:"identifier"`
	PackageArguments []Argument `json:"packageArguments,omitempty"`
	Transport        Transport  `json:"transport"`
}

// Argument is one command-line argument passed to the package.
type Argument struct {
	Type  string `json:"type"`
	Value string `json:"value,omitempty"`
}

// Transport names the wire the server speaks.
type Transport struct {
	Type string `json:"type"`
}

// GenerateManifest renders server.json for version, launching image
// (DefaultImage when empty) with the mcp subcommand over stdio.
func GenerateManifest(version, image string) ([]byte, error) {
	if version == "" {
		version = "0.0.0"
	}
	if image == "" {
		image = DefaultImage
	}

	m := Manifest{
		Schema:      manifestSchema,
		Name:        "io.github.panbanda/linegauge",
		Description: "Heuristic line metrics, maintainability and churn risk for source trees",
		Version:     version,
		Repository:  &Repository{URL: "https://github.com/panbanda/linegauge", Source: "github"},
		Packages: []Package{{
			RegistryType:     "oci",
			Identifier:       image + ":" + version,
			PackageArguments: []Argument{{Type: "positional", Value: "mcp"}},
			Transport:        Transport{Type: "stdio"},
		}},
	}
	return json.MarshalIndent(m, "", "  ")
}
