// Package settings holds the per-run measurement configuration and its
// on-disk persistence.
package settings

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// Bounds and step sizes for each field. Values loaded from disk are
// clamped into these before use.
const (
	MinPingCount  = 5
	MaxPingCount  = 100
	PingCountStep = 5

	MinTransferMB  = 25
	MaxDownloadMB  = 500
	MaxUploadMB    = 250
	TransferStepMB = 25

	bytesPerMB = 1000 * 1000
)

// Settings is the immutable per-run configuration. It is copied into a
// run at start; later mutation does not affect an in-flight run.
type Settings struct {
	PingCount      int   `yaml:"ping_count"`
	DownloadSizeMB int64 `yaml:"download_size_mb"`
	UploadSizeMB   int64 `yaml:"upload_size_mb"`
}

func Default() Settings {
	return Settings{
		PingCount:      30,
		DownloadSizeMB: 100,
		UploadSizeMB:   50,
	}
}

func (s Settings) DownloadSizeBytes() int64 {
	return s.DownloadSizeMB * bytesPerMB
}

func (s Settings) UploadSizeBytes() int64 {
	return s.UploadSizeMB * bytesPerMB
}

// Normalized snaps each field to its step and clamps it into bounds.
func (s Settings) Normalized() Settings {
	s.PingCount = snap(s.PingCount, PingCountStep, MinPingCount, MaxPingCount)
	s.DownloadSizeMB = int64(snap(int(s.DownloadSizeMB), TransferStepMB, MinTransferMB, MaxDownloadMB))
	s.UploadSizeMB = int64(snap(int(s.UploadSizeMB), TransferStepMB, MinTransferMB, MaxUploadMB))
	return s
}

func snap(v, step, min, max int) int {
	v = (v + step/2) / step * step
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// Load reads settings from path. A missing file yields the defaults;
// out-of-bounds values are normalized.
func Load(path string) (Settings, error) {
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return Settings{}, errors.Wrap(err, "reading settings file")
	}

	s := Default()
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return Settings{}, errors.Wrap(err, "parsing settings file")
	}

	return s.Normalized(), nil
}

// Save writes settings to path, creating parent directories as needed.
func Save(path string, s Settings) error {
	raw, err := yaml.Marshal(s)
	if err != nil {
		return errors.Wrap(err, "encoding settings")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating settings directory")
		}
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return errors.Wrap(err, "writing settings file")
	}
	return nil
}
