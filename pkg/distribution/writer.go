package distribution

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/inkdrop-labs/merkledrop-go/pkg/types"
)

// WriteArtifact persists the artifact as JSON. The full document is
// assembled in memory and written to a temp file that is renamed into
// place, so a half-written artifact is never observable at the target path.
func WriteArtifact(path string, artifact *types.DistributionArtifact) error {
	if artifact == nil {
		return errors.New("cannot write nil artifact")
	}

	data, err := json.MarshalIndent(artifact, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal artifact")
	}
	data = append(data, '\n')

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "create output directory %s", dir)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrapf(err, "create temp file in %s", dir)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.Wrapf(err, "write artifact %s", path)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "close temp artifact %s", tmpPath)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.Wrapf(err, "move artifact into place at %s", path)
	}

	return nil
}

// LoadArtifact reads an artifact back from disk, e.g. for re-verification
// of a distributed file.
func LoadArtifact(path string) (*types.DistributionArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "read artifact %s", path)
	}

	var artifact types.DistributionArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, errors.Wrapf(err, "parse artifact %s", path)
	}

	return &artifact, nil
}
