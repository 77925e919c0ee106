package narrator

import (
	"errors"

	"github.com/loqalabs/narrated/internal/synth"
)

// ErrEmptyText marks an item whose text contained no sentences after
// segmentation. Scoped to that item.
var ErrEmptyText = errors.New("item text is empty after segmentation")

// Error kinds surfaced to the host in result payloads.
const (
	KindInvalidJob = "invalid_job"
	KindModelLoad  = "model_load_failure"
	KindEmptyText  = "empty_text"
	KindSynthesis  = "synthesis_failure"
	// KindEncoding is reserved: quantization and WAV encoding are total over
	// finite input, so nothing produces it today.
	KindEncoding = "encoding_failure"
)

func errorKind(err error) string {
	switch {
	case errors.Is(err, synth.ErrModelLoad):
		return KindModelLoad
	case errors.Is(err, ErrEmptyText):
		return KindEmptyText
	default:
		return KindSynthesis
	}
}
