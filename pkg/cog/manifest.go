package cog

import (
	_ "embed"
	"fmt"

	"github.com/dukex/iterable-cog/pkg/models"
	"gopkg.in/yaml.v3"
)

//go:embed manifest.yaml
var manifestYAML []byte

// AuthFields are the credentials every request must carry.
var AuthFields = []models.FieldDefinition{
	{
		Key:         models.AuthFieldAPIKey,
		Type:        models.FieldTypeString,
		Optionality: models.Required,
		Description: "Api Key",
	},
}

// LoadManifest decodes the static cog metadata. Step definitions are filled in
// by the Cog from its registry.
func LoadManifest() (models.CogManifest, error) {
	var manifest models.CogManifest

	if err := yaml.Unmarshal(manifestYAML, &manifest); err != nil {
		return models.CogManifest{}, fmt.Errorf("failed to decode manifest: %w", err)
	}

	manifest.AuthFields = AuthFields

	return manifest, nil
}
