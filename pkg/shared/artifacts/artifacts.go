package artifacts

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"

	"github.com/BaranTeyin1/Aegiscan-cli/pkg/shared/files"
)

// GetArtifactName returns the artifact base name.
// Example: scan_4f6c..._2025-09-15T08:28:46Z.aegiscan-artifact.
func GetArtifactName(command, runID string, t time.Time) string {
	ts := t.UTC().Format(time.RFC3339)
	return fmt.Sprintf("%s_%s_%s.aegiscan-artifact", command, runID, ts)
}

// SaveArtifactJSON writes result to <dir>/<artifact name>.json and returns the full path.
func SaveArtifactJSON(dir string, logger hclog.Logger, command, runID string, result interface{}) (string, error) {
	base := GetArtifactName(command, runID, time.Now())
	path := filepath.Join(dir, base+".json")

	resultData, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return path, fmt.Errorf("error marshaling the result data: %w", err)
	}

	if err := files.WriteFile(path, resultData); err != nil {
		return path, fmt.Errorf("error writing artifact: %w", err)
	}
	logger.Info("artifact saved to file", "path", path)

	return path, nil
}
