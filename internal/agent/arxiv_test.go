package agent

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const arxivFeed = `<?xml version="1.0" encoding="UTF-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>ArXiv Query Results</title>
  <entry>
    <id>http://arxiv.org/abs/0001.00001</id>
    <title>Attention Is Not All You Need After All</title>
    <summary>We revisit attention mechanisms.</summary>
    <published>2026-08-01T00:00:00Z</published>
  </entry>
  <entry>
    <id>http://arxiv.org/abs/0001.00002</id>
    <title>Sleeping Gophers: Concurrency At Rest</title>
    <summary>A second abstract about scheduling.</summary>
    <published>2026-08-02T00:00:00Z</published>
  </entry>
</feed>`

func TestArxivAnswer_SummarizesAbstracts(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("search_query")
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(arxivFeed))
	}))
	defer srv.Close()

	gen := &stubGenerator{answer: "Recent work questions attention."}
	ax := NewArxiv(gen, srv.URL, 3)

	answer, err := ax.Answer(context.Background(), "attention mechanisms")
	require.NoError(t, err)
	require.Equal(t, "Recent work questions attention.", answer)
	require.Equal(t, "all:attention mechanisms", gotQuery)

	require.Contains(t, gen.prompt, "Attention Is Not All You Need After All")
	require.Contains(t, gen.prompt, "Sleeping Gophers")
	require.Contains(t, gen.prompt, "We revisit attention mechanisms.")
}

func TestArxivAnswer_NoEntries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/atom+xml")
		_, _ = w.Write([]byte(`<?xml version="1.0"?><feed xmlns="http://www.w3.org/2005/Atom"><title>empty</title></feed>`))
	}))
	defer srv.Close()

	gen := &stubGenerator{answer: "should not be called"}
	ax := NewArxiv(gen, srv.URL, 3)

	answer, err := ax.Answer(context.Background(), "nothing matches this")
	require.NoError(t, err)
	require.Equal(t, "No recent academic papers found on arXiv.", answer)
	require.Empty(t, gen.prompt)
}

func TestClip(t *testing.T) {
	require.Equal(t, "short", clip("  short  ", 300))
	long := strings.Repeat("a", 400)
	require.Len(t, clip(long, 300), 300)
}
