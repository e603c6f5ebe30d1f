package format

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"

	"github.com/cwbudde/algo-spectra"
)

// Format names accepted by WithDisabled and reported in capabilities.
const (
	JCAMP       = "jcamp"
	HDF5        = "hdf5"
	NetCDF      = "netcdf"
	Delimited   = "delimited"
	Spreadsheet = "spreadsheet"
)

// Loader reads one file into a spectrum.
type Loader interface {
	Load(path string) (*spectra.Spectrum, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(path string) (*spectra.Spectrum, error)

// Load calls f(path).
func (f LoaderFunc) Load(path string) (*spectra.Spectrum, error) {
	return f(path)
}

// Capability describes one registered format.
type Capability struct {
	Format     string   `json:"format"`
	Extensions []string `json:"extensions"`
	Available  bool     `json:"available"`
	Reason     string   `json:"reason,omitempty"`
}

type entry struct {
	name   string
	exts   []string
	loader Loader
	reason string
}

// Registry dispatches loads by file extension. It is safe for concurrent
// use once constructed.
type Registry struct {
	entries []*entry
	byExt   map[string]*entry
}

// RegistryOption configures a Registry.
type RegistryOption func(*Registry)

// WithDisabled marks the named formats unavailable. Loading a file of a
// disabled format fails with UnsupportedFormat and reason in the message.
// Unknown names are ignored.
func WithDisabled(reason string, names ...string) RegistryOption {
	if reason == "" {
		reason = "disabled"
	}
	return func(r *Registry) {
		for _, e := range r.entries {
			if slices.Contains(names, e.name) {
				e.reason = reason
			}
		}
	}
}

// WithLoader registers loader under name for the given extensions,
// replacing any earlier mapping of those extensions.
func WithLoader(name string, loader Loader, exts ...string) RegistryOption {
	return func(r *Registry) {
		r.register(name, loader, exts...)
	}
}

// NewRegistry returns a registry holding the built-in loaders, adjusted by
// opts.
func NewRegistry(opts ...RegistryOption) *Registry {
	r := &Registry{byExt: make(map[string]*entry)}
	r.register(JCAMP, LoaderFunc(loadJCAMP), ".jdx", ".jcamp", ".dx")
	r.register(HDF5, LoaderFunc(loadHDF5), ".h5", ".hdf5")
	r.register(NetCDF, LoaderFunc(loadNetCDF), ".nc")
	r.register(Delimited, LoaderFunc(loadDelimited), ".csv", ".tsv", ".txt")
	r.register(Spreadsheet, LoaderFunc(loadSpreadsheet), ".xlsx", ".xls")

	for _, opt := range opts {
		if opt != nil {
			opt(r)
		}
	}
	return r
}

func (r *Registry) register(name string, loader Loader, exts ...string) {
	e := &entry{name: name, loader: loader}
	for _, ext := range exts {
		ext = normalizeExt(ext)
		if old, ok := r.byExt[ext]; ok {
			old.exts = slices.DeleteFunc(old.exts, func(s string) bool { return s == ext })
		}
		e.exts = append(e.exts, ext)
		r.byExt[ext] = e
	}
	r.entries = append(r.entries, e)
}

// Capabilities lists every registered format in registration order.
// Formats whose extensions were all taken over by later loaders are
// omitted.
func (r *Registry) Capabilities() []Capability {
	out := make([]Capability, 0, len(r.entries))
	for _, e := range r.entries {
		if len(e.exts) == 0 {
			continue
		}
		out = append(out, e.capability())
	}
	return out
}

// Lookup returns the capability serving ext. The leading dot is optional
// and case is ignored.
func (r *Registry) Lookup(ext string) (Capability, bool) {
	e, ok := r.byExt[normalizeExt(ext)]
	if !ok {
		return Capability{}, false
	}
	return e.capability(), true
}

// Load reads path with the loader registered for its extension.
func (r *Registry) Load(path string) (*spectra.Spectrum, error) {
	ext := strings.ToLower(filepath.Ext(path))
	e, ok := r.byExt[ext]
	if !ok {
		err := &spectra.Error{Kind: spectra.UnsupportedFormat, Path: path}
		if ext == "" {
			err.Err = errors.New("file has no extension")
		} else {
			err.Err = fmt.Errorf("extension %q is not recognized", ext)
		}
		return nil, err
	}

	if e.reason != "" {
		return nil, &spectra.Error{
			Kind:   spectra.UnsupportedFormat,
			Format: e.name,
			Path:   path,
			Err:    fmt.Errorf("loader unavailable: %s", e.reason),
		}
	}

	s, err := e.loader.Load(path)
	if err != nil {
		return nil, withPath(spectra.Wrap(spectra.ParseFailure, e.name, err), path)
	}
	if s == nil || s.Len() == 0 {
		return nil, &spectra.Error{Kind: spectra.EmptyResult, Format: e.name, Path: path, Err: spectra.ErrNoPoints}
	}
	return s, nil
}

func (e *entry) capability() Capability {
	return Capability{
		Format:     e.name,
		Extensions: slices.Clone(e.exts),
		Available:  e.reason == "",
		Reason:     e.reason,
	}
}

func withPath(err error, path string) error {
	var e *spectra.Error
	if errors.As(err, &e) && e.Path == "" {
		e.Path = path
	}
	return err
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

var defaultRegistry = sync.OnceValue(func() *Registry { return NewRegistry() })

// Load reads path with the default registry.
func Load(path string) (*spectra.Spectrum, error) {
	return defaultRegistry().Load(path)
}

// Capabilities lists the formats of the default registry.
func Capabilities() []Capability {
	return defaultRegistry().Capabilities()
}

// Names returns the built-in format names.
func Names() []string {
	return []string{JCAMP, HDF5, NetCDF, Delimited, Spreadsheet}
}
