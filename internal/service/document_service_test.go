package service

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kesona/askhub/internal/agent"
	"github.com/kesona/askhub/internal/ai"
	appErr "github.com/kesona/askhub/internal/pkg/errors"
	"github.com/kesona/askhub/internal/rag"
)

type wordHashEmbedder struct{}

func (wordHashEmbedder) Embed(_ context.Context, texts []string, _ string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		sum := sha256.Sum256([]byte(text))
		vec := make([]float32, 4)
		for i := range vec {
			vec[i] = float32(binary.LittleEndian.Uint16(sum[i*2:])) / 65535
		}
		out = append(out, vec)
	}
	return out, nil
}

type echoGenerator struct {
	lastPrompt string
}

func (g *echoGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return "answered", nil
}

func newDocumentService(t *testing.T, gen ai.IGenerator) (*DocumentService, *rag.Store) {
	t.Helper()
	overlap := 10
	seg, err := rag.NewSegmenter(rag.SegmenterConfig{SegmentSize: 40, Overlap: &overlap, MinSegmentLen: 5})
	require.NoError(t, err)
	store := rag.NewStore(seg, wordHashEmbedder{})
	svc := NewDocumentService(store, agent.NewDocQA(store, gen, 2), nil, false, 1<<20)
	return svc, store
}

func TestProcess_BuildsIndexFromUpload(t *testing.T) {
	svc, store := newDocumentService(t, &echoGenerator{})
	content := "The quick brown fox jumps over the lazy dog while the cat watches from the fence."

	err := svc.Process(context.Background(), "notes.txt", strings.NewReader(content), int64(len(content)))
	require.NoError(t, err)
	require.True(t, store.Ready())
}

func TestProcess_RejectsOversizedUpload(t *testing.T) {
	svc, _ := newDocumentService(t, &echoGenerator{})

	err := svc.Process(context.Background(), "big.txt", strings.NewReader("x"), 2<<20)
	require.ErrorIs(t, err, appErr.ErrUploadTooBig)
}

func TestProcess_RejectsUnsupportedType(t *testing.T) {
	svc, _ := newDocumentService(t, &echoGenerator{})

	err := svc.Process(context.Background(), "image.png", strings.NewReader("data"), 4)
	require.ErrorIs(t, err, appErr.ErrUploadBadType)
}

func TestProcess_EmptyDocumentKeepsStoreNotReady(t *testing.T) {
	svc, store := newDocumentService(t, &echoGenerator{})

	err := svc.Process(context.Background(), "blank.txt", strings.NewReader("   \n  "), 6)
	require.ErrorIs(t, err, rag.ErrEmptyDocument)
	require.False(t, store.Ready())
}

func TestQuery_AnswersAgainstUploadedDocument(t *testing.T) {
	gen := &echoGenerator{}
	svc, _ := newDocumentService(t, gen)
	content := "Solar panels convert sunlight into electricity through the photovoltaic effect in silicon cells."

	require.NoError(t, svc.Process(context.Background(), "energy.txt", strings.NewReader(content), int64(len(content))))

	answer, err := svc.Query(context.Background(), "how do solar panels work")
	require.NoError(t, err)
	require.Equal(t, "answered", answer)
	require.Contains(t, gen.lastPrompt, "photovoltaic")
}

func TestQuery_RejectsEmptyQuestion(t *testing.T) {
	svc, _ := newDocumentService(t, &echoGenerator{})

	_, err := svc.Query(context.Background(), "  ")
	require.ErrorIs(t, err, appErr.ErrInvalid)
}

func TestQuery_WithoutDocumentReturnsNotReady(t *testing.T) {
	svc, _ := newDocumentService(t, &echoGenerator{})

	_, err := svc.Query(context.Background(), "what does the second section say")
	require.ErrorIs(t, err, rag.ErrNotReady)
}
