package models

// Tag is an owner-scoped label. Names are matched by exact string equality
// and unique per owner; two users may each own a tag with the same name.
type Tag struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
}

// Ingredient has the same shape and lifecycle as Tag but is an independent
// relation.
type Ingredient struct {
	ID     string `json:"id"`
	UserID string `json:"-"`
	Name   string `json:"name"`
}
