package pipeline

import (
	"io"

	"github.com/backmassage/wavprep/internal/config"
	"github.com/backmassage/wavprep/internal/processor"
)

// Stage is one ordered processing step. The stage reads from the previous
// stage's staging directory (the run's input for the first stage) and
// writes into DirName under the output directory.
type Stage struct {
	Name      string // Human-readable name used in status lines.
	DirName   string // Staging subdirectory under the output directory.
	Processor processor.Processor
}

// DefaultStages returns the fixed resample -> normalize -> trim sequence
// backed by external processor commands. tee, when non-nil, receives the
// processors' live output.
func DefaultStages(cfg *config.Config, tee io.Writer) []Stage {
	return []Stage{
		{
			Name:      "resample",
			DirName:   config.ResampleDirName,
			Processor: processor.NewCommand(cfg, processor.Resample, tee),
		},
		{
			Name:      "normalize",
			DirName:   config.NormalizeDirName,
			Processor: processor.NewCommand(cfg, processor.Normalize, tee),
		},
		{
			Name:      "trim",
			DirName:   config.TrimDirName,
			Processor: processor.NewCommand(cfg, processor.Trim, tee),
		},
	}
}
