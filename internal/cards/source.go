package cards

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/robalobadob/cardgames/assets"
)

// Source produces the raw catalog document ({"cards": [...]}).
type Source interface {
	Name() string
	Read(ctx context.Context) ([]byte, error)
}

// maxDocumentBytes bounds remote catalog documents.
const maxDocumentBytes = 4 << 20

type embeddedSource struct{}

// EmbeddedSource reads the catalog compiled into the binary.
func EmbeddedSource() Source { return embeddedSource{} }

func (embeddedSource) Name() string { return "embedded" }

func (embeddedSource) Read(context.Context) ([]byte, error) { return assets.CardsJSON(), nil }

type fileSource struct{ path string }

// FileSource reads the catalog from a JSON file on disk.
func FileSource(path string) Source { return fileSource{path: path} }

func (f fileSource) Name() string { return "file:" + f.path }

func (f fileSource) Read(context.Context) ([]byte, error) { return os.ReadFile(f.path) }

type httpSource struct {
	url    string
	client *http.Client
}

// HTTPSource fetches the catalog over HTTP(S). A nil client gets a 10s timeout.
func HTTPSource(url string, client *http.Client) Source {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return httpSource{url: url, client: client}
}

func (h httpSource) Name() string { return h.url }

func (h httpSource) Read(ctx context.Context) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := h.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxDocumentBytes))
}

type bytesSource struct{ b []byte }

// BytesSource serves an in-memory document; mostly useful in tests.
func BytesSource(b []byte) Source { return bytesSource{b: b} }

func (bytesSource) Name() string { return "bytes" }

func (s bytesSource) Read(context.Context) ([]byte, error) { return s.b, nil }
