package annotate

import (
	"bytes"
	"fmt"
	"image/png"
	"time"
)

// Flatten renders the base image with every annotation baked in, without
// selection chrome or in-progress state, and returns it PNG-encoded. An open
// text entry is committed first so typed-but-unconfirmed text is not lost.
func (s *Session) Flatten() ([]byte, error) {
	if s.editing {
		s.CommitText()
	}
	img := render(s.base, s.model, 0, 0, nil)
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode flattened image: %w", err)
	}
	return buf.Bytes(), nil
}

// ExportName returns the upload filename for a flattened image.
func ExportName(now time.Time) string {
	return fmt.Sprintf("edited_%d.png", now.UnixMilli())
}
