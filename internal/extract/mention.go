package extract

import "strings"

// Protagonist is the synthetic identifier used when a clause describes an
// appearance without naming any registered character.
const Protagonist = "主角"

// Character is one registry entry: a canonical identifier plus the alias
// spellings that refer to it (e.g. a native-script name and its
// transliteration).
type Character struct {
	ID      string
	Aliases []string
}

// Registry holds the known characters in a fixed enumeration order. Mention
// resolution is literal substring containment against every alias; the
// registry is small and user-controlled, so the occasional false positive
// from a name embedded in an unrelated word is an accepted tradeoff over
// tokenizing.
type Registry struct {
	characters []Character
}

func NewRegistry(characters ...Character) *Registry {
	r := &Registry{}
	for _, c := range characters {
		r.Add(c.ID, c.Aliases...)
	}
	return r
}

// DefaultRegistry returns the stock character roster. Users extend it through
// configuration.
func DefaultRegistry() *Registry {
	return NewRegistry(
		Character{ID: "艾米莉", Aliases: []string{"艾蜜莉", "Emily"}},
		Character{ID: "傑克", Aliases: []string{"杰克", "Jack"}},
		Character{ID: "莉莉", Aliases: []string{"Lily"}},
		Character{ID: "小明", Aliases: []string{"Ming"}},
	)
}

// Add registers a character. The canonical identifier always counts as one of
// its own aliases.
func (r *Registry) Add(id string, aliases ...string) {
	if id == "" {
		return
	}
	for _, existing := range r.characters {
		if existing.ID == id {
			return
		}
	}
	r.characters = append(r.characters, Character{
		ID:      id,
		Aliases: append([]string{id}, aliases...),
	})
}

// Resolve returns the canonical identifiers mentioned in the clause, in
// registry order with duplicates removed. A clause naming nobody resolves to
// the protagonist.
func (r *Registry) Resolve(clause string) []string {
	var ids []string
	for _, c := range r.characters {
		for _, alias := range c.Aliases {
			if alias != "" && strings.Contains(clause, alias) {
				ids = append(ids, c.ID)
				break
			}
		}
	}
	if len(ids) == 0 {
		return []string{Protagonist}
	}
	return ids
}
