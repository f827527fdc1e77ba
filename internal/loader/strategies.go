package loader

import (
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"

	"github.com/weftkit/weft/pkg/template"
)

type fsReader interface {
	read(name string) (string, error)
}

type fsFS struct {
	fsys fs.FS
}

func (f fsFS) read(name string) (string, error) {
	data, err := fs.ReadFile(f.fsys, name)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func readFile(baseDir, name string) (string, error) {
	data, err := os.ReadFile(filepath.Join(baseDir, filepath.FromSlash(name)))
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func loadHTTP(client *http.Client, url string) (string, error) {
	resp, err := client.Get(url)
	if err != nil {
		return "", fmt.Errorf("loader: fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("loader: fetch %q: status %d: %w", url, resp.StatusCode, template.ErrNotFound)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("loader: fetch %q: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("loader: read %q: %w", url, err)
	}
	return string(data), nil
}
