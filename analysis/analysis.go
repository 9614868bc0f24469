// Package analysis loads the two registry documents (core API and
// companion video codec API), resolves which feature or extension first
// requires each type, and builds the merged origin-tagged item catalogue
// that code generation consumes.
package analysis

import (
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/ardanlabs/vk-converter/registry"
)

// TargetAPI is the API identifier the registries are filtered against.
const TargetAPI = "vulkan"

// LibraryID identifies one source library.
type LibraryID string

const (
	LibraryVK    LibraryID = "vk"
	LibraryVideo LibraryID = "video"
)

// Library is one ingested registry document.
type Library struct {
	ID       LibraryID
	Registry *registry.Registry
}

// Analysis is the full two-library model plus the merged item catalogue.
type Analysis struct {
	VK    *Library
	Video *Library
	Items *Items
}

// New ingests both documents and builds the catalogue. The two libraries
// are independent, so they are parsed concurrently; a fatal error in either
// aborts the whole analysis.
func New(vkXML, videoXML []byte) (*Analysis, error) {
	a := &Analysis{
		VK:    &Library{ID: LibraryVK},
		Video: &Library{ID: LibraryVideo},
	}

	var g errgroup.Group
	g.Go(func() error {
		reg, err := registry.Parse(vkXML, TargetAPI)
		if err != nil {
			return fmt.Errorf("%s: %w", LibraryVK, err)
		}
		a.VK.Registry = reg
		return nil
	})
	g.Go(func() error {
		reg, err := registry.Parse(videoXML, TargetAPI)
		if err != nil {
			return fmt.Errorf("%s: %w", LibraryVideo, err)
		}
		a.Video.Registry = reg
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	a.Items = newItems()
	for _, lib := range []*Library{a.VK, a.Video} {
		if err := a.Items.collect(lib, requireMap(lib.Registry)); err != nil {
			return nil, err
		}
	}

	return a, nil
}

// RequiredBy is the feature version or extension that first requires an
// entity.
type RequiredBy interface {
	isRequiredBy()
	String() string
}

// ByFeature marks an entity first required by a core version.
type ByFeature struct {
	Major uint32
	Minor uint32
}

// ByExtension marks an entity first required by an extension.
type ByExtension struct {
	Name string
}

func (ByFeature) isRequiredBy()   {}
func (ByExtension) isRequiredBy() {}

func (f ByFeature) String() string {
	return fmt.Sprintf("%d.%d", f.Major, f.Minor)
}

func (e ByExtension) String() string {
	return e.Name
}

// Origin ties an entity to its source library and first requirer.
type Origin struct {
	Library    LibraryID
	RequiredBy RequiredBy
}

func (o Origin) String() string {
	return fmt.Sprintf("%s %s", o.Library, o.RequiredBy)
}

// requireMap scans features then extensions in document order and records,
// for every required type name, the first requirer encountered. Later
// requirers of the same name are no-ops: first registered wins.
func requireMap(reg *registry.Registry) map[string]RequiredBy {
	m := make(map[string]RequiredBy)
	record := func(name string, by RequiredBy) {
		if _, ok := m[name]; !ok {
			m[name] = by
		}
	}

	for _, f := range reg.Features {
		for _, req := range f.Requires {
			for _, ty := range req.Types {
				record(ty.Name, ByFeature{Major: f.Version.Major, Minor: f.Version.Minor})
			}
		}
	}
	for _, ext := range reg.Extensions {
		for _, req := range ext.Requires {
			for _, ty := range req.Types {
				record(ty.Name, ByExtension{Name: ext.Name})
			}
		}
	}

	return m
}
