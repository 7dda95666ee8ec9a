package store

import (
	"github.com/metafates/gache"
	"github.com/samber/mo"
	"github.com/vidloop/vidloop/filesystem"
)

type entries = map[string]string

type cacher interface {
	Get() (entries, bool, error)
	Set(entries) error
}

// File keeps entries in a JSON file on the active filesystem backend.
type File struct {
	cacher cacher
}

// NewFile returns a File store backed by path.
func NewFile(path string) *File {
	return &File{
		cacher: gache.New[entries](&gache.Options{
			Path:       path,
			FileSystem: &filesystem.GacheFs{},
		}),
	}
}

func (f *File) load() (entries, error) {
	cached, expired, err := f.cacher.Get()
	if err != nil {
		return nil, err
	}
	if expired || cached == nil {
		return make(entries), nil
	}
	return cached, nil
}

func (f *File) Get(k string) (mo.Option[string], error) {
	saved, err := f.load()
	if err != nil {
		return mo.None[string](), err
	}

	if v, ok := saved[k]; ok {
		return mo.Some(v), nil
	}
	return mo.None[string](), nil
}

func (f *File) Set(k, value string) error {
	saved, err := f.load()
	if err != nil {
		// An unreadable file is replaced rather than left blocking writes.
		saved = make(entries)
	}

	saved[k] = value
	return f.cacher.Set(saved)
}

func (f *File) Remove(k string) error {
	saved, err := f.load()
	if err != nil {
		return f.cacher.Set(make(entries))
	}

	if _, ok := saved[k]; !ok {
		return nil
	}

	delete(saved, k)
	return f.cacher.Set(saved)
}
