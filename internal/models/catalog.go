// Catalog model definitions and methods

package models

import "time"

type Kind string

const (
	KindMovie  Kind = "movie"
	KindPlanet Kind = "planet"
)

// CatalogItem is satisfied by every catalog record kind. The overlay engine
// and the generic repositories are written against this interface so movies
// and planets share one implementation.
type CatalogItem interface {
	GetID() int64
	GetName() string
	GetKind() Kind
}

type Movie struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	ReleaseDate time.Time `json:"release_date"`
	Created     time.Time `json:"created"`
	Updated     time.Time `json:"updated"`
	URL         string    `json:"url"`
}

func (m Movie) GetID() int64    { return m.ID }
func (m Movie) GetName() string { return m.Title }
func (m Movie) GetKind() Kind   { return KindMovie }

type Planet struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Created time.Time `json:"created"`
	Updated time.Time `json:"updated"`
	URL     string    `json:"url"`
}

func (p Planet) GetID() int64    { return p.ID }
func (p Planet) GetName() string { return p.Name }
func (p Planet) GetKind() Kind   { return KindPlanet }

// Favourite marks a single catalog item as a favourite of a single user.
// Alias is the user-chosen replacement display name; nil means the item is
// favourited with its canonical name unchanged.
type Favourite struct {
	ID     int64
	UserID int64
	ItemID int64
	Alias  *string
	Kind   Kind
}
