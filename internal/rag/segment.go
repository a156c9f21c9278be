package rag

import (
	"fmt"
	"strings"
)

const (
	DefaultSegmentSize   = 600
	DefaultOverlap       = 150
	DefaultMinSegmentLen = 50
)

// Segment is a contiguous, possibly overlapping slice of a document,
// the unit of retrieval. ID is the ordinal position in document order.
type Segment struct {
	ID     int
	Text   string
	Length int
}

// SegmenterConfig tunes segmentation. Overlap is a pointer so an explicit
// zero (no overlap) stays distinguishable from an absent field.
type SegmenterConfig struct {
	SegmentSize   int  `json:"segment_size"`
	Overlap       *int `json:"overlap"`
	MinSegmentLen int  `json:"min_segment_len"`
}

type Segmenter struct {
	segmentSize   int
	overlap       int
	minSegmentLen int
}

func NewSegmenter(cfg SegmenterConfig) (*Segmenter, error) {
	size := cfg.SegmentSize
	if size == 0 {
		size = DefaultSegmentSize
	}
	overlap := DefaultOverlap
	if cfg.Overlap != nil {
		overlap = *cfg.Overlap
	}
	minLen := cfg.MinSegmentLen
	if minLen == 0 {
		minLen = DefaultMinSegmentLen
	}
	if size <= 0 {
		return nil, fmt.Errorf("%w: segment_size must be positive, got %d", ErrSegmenterConfig, size)
	}
	if overlap < 0 {
		return nil, fmt.Errorf("%w: overlap must not be negative, got %d", ErrSegmenterConfig, overlap)
	}
	if overlap >= size {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than segment_size %d", ErrSegmenterConfig, overlap, size)
	}
	return &Segmenter{segmentSize: size, overlap: overlap, minSegmentLen: minLen}, nil
}

// Split turns extracted document text into ordered overlapping segments.
// Whitespace runs (including page-break newlines) are collapsed to single
// spaces first so extraction artifacts do not cut sentences apart. Segments
// whose trimmed length falls below MinSegmentLen are dropped. An empty input
// yields an empty result, not an error.
func (s *Segmenter) Split(text string) []Segment {
	normalized := strings.Join(strings.Fields(text), " ")
	if normalized == "" {
		return nil
	}

	runes := []rune(normalized)
	step := s.segmentSize - s.overlap

	var segments []Segment
	for offset := 0; offset < len(runes); offset += step {
		end := offset + s.segmentSize
		if end > len(runes) {
			end = len(runes)
		}
		piece := strings.TrimSpace(string(runes[offset:end]))
		if len([]rune(piece)) < s.minSegmentLen {
			continue
		}
		segments = append(segments, Segment{
			ID:     len(segments),
			Text:   piece,
			Length: len([]rune(piece)),
		})
	}
	return segments
}
