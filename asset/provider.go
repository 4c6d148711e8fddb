// Package asset locates sound files across an ordered list of sources
package asset

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"strings"

	"github.com/lixenwraith/cubecue/core"
)

// ErrNotFound is returned when no source holds the requested asset
var ErrNotFound = errors.New("asset not found")

// DefaultExtensions is the lookup order for asset file extensions
var DefaultExtensions = []string{".mp3", ".ogg", ".flac", ".wav"}

// Asset is an opened resource ready for decoding
// Ownership passes to the decoder; it must be closed when no longer streamed
type Asset struct {
	io.ReadSeekCloser
	Ext    string // Lowercase extension including the dot
	Origin string // Source description for logs
}

// Source yields an asset for a sound, or an error wrapping fs.ErrNotExist when absent
type Source interface {
	Open(name string, category core.Category) (*Asset, error)
	String() string
}

// FSSource serves assets from an fs.FS, flat under root, trying extensions in order
type FSSource struct {
	fsys  fs.FS
	root  string
	label string
	exts  []string
}

// FS creates a source over fsys (embed.FS, os.DirFS, fstest.MapFS)
func FS(fsys fs.FS, root string) *FSSource {
	if root == "" {
		root = "."
	}
	return &FSSource{
		fsys:  fsys,
		root:  root,
		label: fmt.Sprintf("fs:%s", root),
		exts:  DefaultExtensions,
	}
}

// Dir creates a source reading from a directory on disk
func Dir(dir string) *FSSource {
	s := FS(os.DirFS(dir), ".")
	s.label = fmt.Sprintf("dir:%s", dir)
	return s
}

// WithExtensions overrides the extension lookup order
func (s *FSSource) WithExtensions(exts ...string) *FSSource {
	s.exts = exts
	return s
}

func (s *FSSource) String() string {
	return s.label
}

// Open implements Source
func (s *FSSource) Open(name string, _ core.Category) (*Asset, error) {
	for _, ext := range s.exts {
		p := path.Join(s.root, name+ext)
		f, err := s.fsys.Open(p)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", p, err)
		}

		rsc, err := seekable(f)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		return &Asset{
			ReadSeekCloser: rsc,
			Ext:            strings.ToLower(ext),
			Origin:         s.label + "/" + p,
		}, nil
	}
	return nil, fmt.Errorf("%s in %s: %w", name, s.label, fs.ErrNotExist)
}

// seekable returns f itself when it can seek, otherwise an in-memory copy
func seekable(f fs.File) (io.ReadSeekCloser, error) {
	if rsc, ok := f.(io.ReadSeekCloser); ok {
		return rsc, nil
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}
	return nopCloser{bytes.NewReader(data)}, nil
}

type nopCloser struct {
	io.ReadSeeker
}

func (nopCloser) Close() error { return nil }

// Provider resolves sounds against sources in order, first decodable match wins
type Provider struct {
	sources []Source
}

// NewProvider creates a provider; order of sources is lookup priority
func NewProvider(sources ...Source) *Provider {
	return &Provider{sources: sources}
}

// Sources returns the configured sources in lookup order
func (p *Provider) Sources() []Source {
	return p.sources
}

// Resolve scans sources for the sound and hands each found asset to decode
// The scan stops at the first asset decode accepts; absent sources are skipped
// decode owns the asset on success; on failure Resolve closes it and moves on
func (p *Provider) Resolve(s core.Sound, decode func(*Asset) error) error {
	var errs []error
	for _, src := range p.sources {
		a, err := src.Open(s.Name, s.Category)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			errs = append(errs, err)
			continue
		}

		if err := decode(a); err != nil {
			a.Close()
			errs = append(errs, fmt.Errorf("%s: %w", a.Origin, err))
			continue
		}
		return nil
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return fmt.Errorf("%w: %s", ErrNotFound, s)
}
