package repository

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/noah-isme/atp-planner-api/internal/models"
)

// ReferenceFileRepository reads reference data from a versioned YAML file so
// a school can ship its own calendar without a database.
type ReferenceFileRepository struct {
	path string
}

// NewReferenceFileRepository constructs the repository.
func NewReferenceFileRepository(path string) *ReferenceFileRepository {
	return &ReferenceFileRepository{path: path}
}

// Load reads and decodes the file.
func (r *ReferenceFileRepository) Load(ctx context.Context) (*models.ReferenceData, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("read reference file: %w", err)
	}
	return DecodeReferenceYAML(raw)
}

// DecodeReferenceYAML parses a reference document. Exception kinds are
// accepted in any letter case.
func DecodeReferenceYAML(raw []byte) (*models.ReferenceData, error) {
	var data models.ReferenceData
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode reference yaml: %w", err)
	}
	for i := range data.Exceptions {
		kind, err := models.ParseExceptionKind(string(data.Exceptions[i].Kind))
		if err != nil {
			return nil, fmt.Errorf("exception #%d: %w", i+1, err)
		}
		data.Exceptions[i].Kind = kind
	}
	return &data, nil
}

// EncodeReferenceYAML renders data as a reference document.
func EncodeReferenceYAML(data *models.ReferenceData) ([]byte, error) {
	out, err := yaml.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode reference yaml: %w", err)
	}
	return out, nil
}
