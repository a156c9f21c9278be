package rag

import "errors"

var (
	// ErrSegmenterConfig reports invalid segmentation parameters. It is
	// returned before any segmentation work starts.
	ErrSegmenterConfig = errors.New("invalid segmenter config")

	// ErrEmptyDocument means the extracted text contained nothing worth
	// indexing. It is a distinct outcome, not a system fault: the caller
	// should tell the user and keep any previously built index.
	ErrEmptyDocument = errors.New("document has no indexable content")

	// ErrNotReady means no document has been successfully indexed yet.
	ErrNotReady = errors.New("index not ready: no document has been processed")
)
