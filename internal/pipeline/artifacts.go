package pipeline

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/avdeev/ideaforge/internal/present"
)

// ArtifactWriter drops the machine-readable result files next to each
// other in a single directory. Filenames carry the session id so
// successive runs never clobber one another.
type ArtifactWriter struct {
	dir string
}

func NewArtifactWriter(dir string) *ArtifactWriter {
	return &ArtifactWriter{dir: dir}
}

// Write stores the JSON export and the CSV table for a session. The
// first error wins; a partial write leaves whatever was already
// written on disk.
func (w *ArtifactWriter) Write(sessionID string, p present.Presentation) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if sessionID == "" {
		sessionID = "session"
	}
	if err := w.writeJSON(sessionID, p); err != nil {
		return err
	}
	return w.writeCSV(sessionID, p)
}

func (w *ArtifactWriter) writeJSON(sessionID string, p present.Presentation) error {
	data, err := json.MarshalIndent(p.JSON, "", "  ")
	if err != nil {
		return fmt.Errorf("encode recommendations: %w", err)
	}
	path := filepath.Join(w.dir, sessionID+"_recommendations.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func (w *ArtifactWriter) writeCSV(sessionID string, p present.Presentation) error {
	path := filepath.Join(w.dir, sessionID+"_recommendations.csv")
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write(present.CSVHeader); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := cw.WriteAll(p.CSVRows); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
