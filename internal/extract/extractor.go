package extract

import (
	"log"
	"strings"

	"github.com/olivia-0916/storybot/internal/domain"
)

// ExtractClause tests every attribute category against one clause and returns
// the fields it contributed. Categories are independent: a single clause can
// set a garment, its color, and a gender hint at once. A clause with no
// recognized trigger returns an empty update.
func ExtractClause(clause string) domain.CardUpdate {
	var update domain.CardUpdate

	if garment, ok := matchEntry(Garments, clause); ok {
		update.TopType = garment.Label
		if color, ok := matchEntry(Colors, clause); ok {
			update.TopColorLabel = color.Label
			update.TopColor = color.Token
		}
	}

	if containsAny(clause, hairMarkers) {
		if color, ok := matchEntry(Colors, clause); ok {
			update.HairColorLabel = color.Label
			update.HairColor = color.Token
		}
		if style, ok := matchEntry(HairStyles, clause); ok {
			update.HairStyle = style.Label
		}
	}

	if strings.Contains(clause, wearMarker) {
		if strings.Contains(clause, glassesMarker) {
			update.Glasses = true
		}
		if strings.Contains(clause, hatMarker) {
			update.Hat = true
		}
	}

	if containsAny(clause, beardMarkers) {
		update.Beard = true
	}

	if hint, ok := matchEntry(GenderHints, clause); ok {
		update.GenderHint = hint.Label
	}

	return update
}

// Engine runs the full observation cycle over one utterance: segment, resolve
// mentions per clause, extract, and apply onto the session's card map.
type Engine struct {
	registry *Registry
}

func NewEngine(registry *Registry) *Engine {
	if registry == nil {
		registry = DefaultRegistry()
	}
	return &Engine{registry: registry}
}

func (e *Engine) Registry() *Registry {
	return e.registry
}

// Observe updates the session's character cards from one utterance and
// reports whether any card changed. Clauses are processed in segmentation
// order; within a clause every resolved mention is updated before the next
// clause. Cards are created lazily, only when a clause actually contributes
// fields, so an utterance full of unrecognized text mutates nothing.
func (e *Engine) Observe(session *domain.Session, utterance string) bool {
	changed := false
	for _, clause := range Clauses(utterance) {
		update := ExtractClause(clause)
		if update.Empty() {
			continue
		}
		for _, id := range e.registry.Resolve(clause) {
			card := session.Card(id)
			if card.Apply(update) {
				changed = true
				log.Printf("card updated: %s %+v", id, *card)
			}
		}
	}
	return changed
}
