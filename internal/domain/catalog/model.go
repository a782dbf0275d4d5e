package catalog

// Platform is a gaming platform addressed publicly by its slug.
type Platform struct {
	ID   string `json:"-"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Game belongs to a platform through PlatformSlug, copied at creation time.
type Game struct {
	ID           string `json:"-"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	PlatformSlug string `json:"platform_slug"`
}

// PlatformFilter selects platforms by exact match on every non-empty field.
type PlatformFilter struct {
	Name string
	Slug string
}

// GameFilter selects games by exact match on every non-empty field.
type GameFilter struct {
	Name         string
	Slug         string
	PlatformSlug string
}

// PlatformInput carries the caller-supplied platform fields for create and update.
type PlatformInput struct {
	Name string
}

// GameInput carries the caller-supplied game fields for create and update.
type GameInput struct {
	Name         string
	PlatformSlug string
}

// Validate reports the required platform fields that are missing.
func (in PlatformInput) Validate() error {
	return RequireFields(
		Field{Name: "name", Value: in.Name},
	)
}

// Validate reports the required game fields that are missing.
func (in GameInput) Validate() error {
	return RequireFields(
		Field{Name: "name", Value: in.Name},
		Field{Name: "platform_slug", Value: in.PlatformSlug},
	)
}

// ApplyTo copies the updatable fields onto p. ID and Slug are never touched.
func (in PlatformInput) ApplyTo(p *Platform) {
	p.Name = in.Name
}

// ApplyTo copies the updatable fields onto g. ID and Slug are never touched.
func (in GameInput) ApplyTo(g *Game) {
	g.Name = in.Name
	g.PlatformSlug = in.PlatformSlug
}
