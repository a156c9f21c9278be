package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/kesona/askhub/internal/agent"
	"github.com/kesona/askhub/internal/extract"
	"github.com/kesona/askhub/internal/filestore"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/rag"
)

// DocumentService owns the upload-then-query flow: extract text from an
// uploaded file, rebuild the document index, and answer questions against it.
type DocumentService struct {
	store        *rag.Store
	docQA        *agent.DocQA
	files        filestore.Store
	keepOriginal bool
	maxSizeBytes int64
}

func NewDocumentService(store *rag.Store, docQA *agent.DocQA, files filestore.Store, keepOriginal bool, maxSizeBytes int64) *DocumentService {
	return &DocumentService{
		store:        store,
		docQA:        docQA,
		files:        files,
		keepOriginal: keepOriginal,
		maxSizeBytes: maxSizeBytes,
	}
}

// Process ingests one uploaded document: the extracted text replaces
// whatever was indexed before, atomically. A failed build keeps the
// previous index serving.
func (s *DocumentService) Process(ctx context.Context, filename string, r io.Reader, size int64) error {
	logger := logutil.GetLogger(ctx).With(zap.String("filename", filename), zap.Int64("size", size))
	if s.maxSizeBytes > 0 && size > s.maxSizeBytes {
		return appErr.ErrUploadTooBig
	}
	if !extract.Supported(filename) {
		return appErr.ErrUploadBadType
	}

	data, err := io.ReadAll(io.LimitReader(r, size))
	if err != nil {
		return fmt.Errorf("read upload: %w", err)
	}
	text, err := extract.Extract(filename, bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return fmt.Errorf("extract text: %w", err)
	}

	if err := s.store.Build(ctx, text); err != nil {
		return err
	}
	logger.Info("document processed")

	if s.keepOriginal && s.files != nil {
		key := uploadKey(filename)
		if err := s.files.Save(ctx, key, nopSeekCloser{bytes.NewReader(data)}, int64(len(data))); err != nil {
			// The index is already live; losing the original copy is
			// not worth failing the upload over.
			logger.Warn("failed to keep original upload", zap.Error(err))
		} else {
			logger.Info("original upload kept", zap.String("key", key))
		}
	}
	return nil
}

// Query answers a question against the current document.
func (s *DocumentService) Query(ctx context.Context, question string) (string, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return "", appErr.ErrInvalid
	}
	return s.docQA.Answer(ctx, question)
}

func uploadKey(filename string) string {
	base := filepath.Base(filename)
	base = strings.ReplaceAll(base, " ", "_")
	return fmt.Sprintf("%d_%s", time.Now().UnixMilli(), base)
}

type nopSeekCloser struct {
	*bytes.Reader
}

func (nopSeekCloser) Close() error {
	return nil
}
