package domain

// CharacterCard accumulates the visible appearance of one character. Fields
// are optional until first observed and are never cleared while the owning
// story lives; a new observation of the same category overwrites the old one.
type CharacterCard struct {
	TopColorLabel string `json:"top_color_label,omitempty" toml:"top_color_label,omitempty"`
	TopColor      string `json:"top_color,omitempty" toml:"top_color,omitempty"`
	TopType       string `json:"top_type,omitempty" toml:"top_type,omitempty"`

	HairColorLabel string `json:"hair_color_label,omitempty" toml:"hair_color_label,omitempty"`
	HairColor      string `json:"hair_color,omitempty" toml:"hair_color,omitempty"`
	HairStyle      string `json:"hair_style,omitempty" toml:"hair_style,omitempty"`

	GenderHint string `json:"gender_hint,omitempty" toml:"gender_hint,omitempty"`

	HasGlasses bool `json:"has_glasses,omitempty" toml:"has_glasses,omitempty"`
	HasHat     bool `json:"has_hat,omitempty" toml:"has_hat,omitempty"`
	HasBeard   bool `json:"has_beard,omitempty" toml:"has_beard,omitempty"`
}

// CardUpdate carries the fields one clause contributed. Zero values mean "not
// observed"; booleans are only ever observed as true.
type CardUpdate struct {
	TopColorLabel string
	TopColor      string
	TopType       string

	HairColorLabel string
	HairColor      string
	HairStyle      string

	GenderHint string

	Glasses bool
	Hat     bool
	Beard   bool
}

func (u CardUpdate) Empty() bool {
	return u == CardUpdate{}
}

// Apply writes every observed field onto the card and reports whether the
// update carried anything at all. Presence is what counts, not value
// inequality: restating an already-known attribute still reports a change so
// the caller re-persists. Persistence is idempotent, so this is deliberate.
func (c *CharacterCard) Apply(u CardUpdate) bool {
	if u.Empty() {
		return false
	}
	if u.TopColorLabel != "" {
		c.TopColorLabel = u.TopColorLabel
	}
	if u.TopColor != "" {
		c.TopColor = u.TopColor
	}
	if u.TopType != "" {
		c.TopType = u.TopType
	}
	if u.HairColorLabel != "" {
		c.HairColorLabel = u.HairColorLabel
	}
	if u.HairColor != "" {
		c.HairColor = u.HairColor
	}
	if u.HairStyle != "" {
		c.HairStyle = u.HairStyle
	}
	if u.GenderHint != "" {
		c.GenderHint = u.GenderHint
	}
	if u.Glasses {
		c.HasGlasses = true
	}
	if u.Hat {
		c.HasHat = true
	}
	if u.Beard {
		c.HasBeard = true
	}
	return true
}

// Empty reports whether no attribute has been observed yet. An empty card
// contributes nothing to rendered output.
func (c CharacterCard) Empty() bool {
	return c == CharacterCard{}
}
