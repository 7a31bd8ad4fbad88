package localdump

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/toothbrush/opendata-dump/opendata"
)

// writeResource streams body into StorePath/name.  Bytes land in a uniquely named part file that
// is renamed over the destination once complete; a failed part file stays behind for inspection.
// The part file name doesn't include name, so any name the filesystem accepts can be saved.
func (downloader *Downloader) writeResource(name string, body io.Reader) (int64, error) {
	abs := filepath.Join(downloader.StorePath, name)
	part := filepath.Join(downloader.StorePath, fmt.Sprintf(".%s.part", uuid.NewString()))

	f, err := os.Create(part)
	if err != nil {
		return 0, fmt.Errorf("localdump: couldn't create file %s: %w", part, err)
	}

	n, err := io.Copy(f, body)
	if err != nil {
		f.Close()
		return n, fmt.Errorf("localdump: couldn't write to file %s: %w", part, err)
	}

	if err := f.Close(); err != nil {
		return n, fmt.Errorf("localdump: couldn't close file %s: %w", part, err)
	}

	if err := os.Rename(part, abs); err != nil {
		return n, fmt.Errorf("localdump: couldn't move %s into place: %w", part, err)
	}

	return n, nil
}

// WriteMetadata stores the ingestion result as JSON at path, creating parent directories.
func WriteMetadata(path string, result *opendata.IngestionResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("localdump: couldn't create directory %s: %w", filepath.Dir(path), err)
	}

	contents, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("localdump: couldn't marshal ingestion result: %w", err)
	}
	contents = append(contents, '\n')

	if err := os.WriteFile(path, contents, 0644); err != nil {
		return fmt.Errorf("localdump: couldn't write file %s: %w", path, err)
	}

	return nil
}
