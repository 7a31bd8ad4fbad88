package localdump

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/toothbrush/opendata-dump/opendata"
)

// ReadMetadata loads a result previously stored with WriteMetadata, keeping record order.
func ReadMetadata(path string) (*opendata.IngestionResult, error) {
	source, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("localdump: couldn't read file %s: %w", path, err)
	}

	result := opendata.NewIngestionResult()
	if err := json.Unmarshal(source, result); err != nil {
		return nil, fmt.Errorf("localdump: couldn't parse %s: %w", path, err)
	}

	return result, nil
}
