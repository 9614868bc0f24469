package analysis

import (
	"fmt"

	"github.com/emirpasic/gods/v2/maps/linkedhashmap"

	"github.com/ardanlabs/vk-converter/registry"
)

// Item is one catalogue entry: a structure together with its resolved
// origin. Only entities actually required by some feature or extension make
// it into the catalogue; unreferenced definitions stay in the raw
// registries only.
type Item struct {
	Origin    Origin
	Structure *registry.Structure
}

// Items is the merged catalogue across both libraries, keyed by entity name
// in insertion order.
type Items struct {
	structures *linkedhashmap.Map[string, Item]
}

func newItems() *Items {
	return &Items{structures: linkedhashmap.New[string, Item]()}
}

// Structure looks up one catalogue entry by name.
func (it *Items) Structure(name string) (Item, bool) {
	return it.structures.Get(name)
}

// Names returns the catalogue keys in insertion order.
func (it *Items) Names() []string {
	return it.structures.Keys()
}

// Each visits the catalogue in insertion order.
func (it *Items) Each(f func(name string, item Item)) {
	it.structures.Each(f)
}

// Len is the number of catalogue entries.
func (it *Items) Len() int {
	return it.structures.Size()
}

// collect tags the library's required structures with their origin and
// merges them into the catalogue. A name collision with a structure already
// collected from the other library is fatal: one key cannot hold two
// entries.
func (it *Items) collect(lib *Library, required map[string]RequiredBy) error {
	for i := range lib.Registry.Structs {
		st := &lib.Registry.Structs[i]
		by, ok := required[st.Name]
		if !ok {
			continue
		}
		if _, exists := it.structures.Get(st.Name); exists {
			return fmt.Errorf("item catalogue: %w: %q", registry.ErrDuplicateDefinition, st.Name)
		}
		it.structures.Put(st.Name, Item{
			Origin:    Origin{Library: lib.ID, RequiredBy: by},
			Structure: st,
		})
	}

	return nil
}
