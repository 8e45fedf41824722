package lifestyle

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// DefaultLocale is used when a text has no entry for the requested locale.
const DefaultLocale = "ko"

var (
	ErrUnknownCategory = errors.New("unknown lifestyle category")
	ErrUnknownEntity   = errors.New("unknown destination entity")
)

//go:embed catalog.yaml
var embeddedCatalog []byte

type CategoryKey string

type EntityCode string

// Text is a string localized by locale code.
type Text map[string]string

// In returns the text for locale, falling back to the default locale.
func (t Text) In(locale string) string {
	if s, ok := t[locale]; ok && s != "" {
		return s
	}
	return t[DefaultLocale]
}

type LifestyleCategory struct {
	Key         CategoryKey
	Title       Text
	Description Text
	Features    [4]Text
}

type EntityFeature struct {
	Key   string
	Title Text
}

type DestinationEntity struct {
	Code           EntityCode
	Names          Text
	Image          string
	Color          string
	Lat, Lon       float64
	CameraPosition [3]float64
	CameraTarget   [3]float64
	Features       []EntityFeature
}

// CuratedPick is one of the hand-picked recommendations for a category.
type CuratedPick struct {
	Entity EntityCode
	Reason Text
	Image  string
}

// Catalog is the immutable set of categories, destinations and scores.
// Build it with LoadCatalog or DefaultCatalog and share it freely.
type Catalog struct {
	categories     []LifestyleCategory
	categoryIndex  map[CategoryKey]int
	entities       []DestinationEntity
	entityIndex    map[EntityCode]int
	scores         map[CategoryKey]map[EntityCode]int
	curated        map[CategoryKey][]CuratedPick
	fallbackReason Text
}

// Wire format of catalog.yaml.

type catalogFile struct {
	FallbackReason Text                      `yaml:"fallbackReason" validate:"required"`
	Categories     []categoryFile            `yaml:"categories" validate:"required,min=1,dive"`
	Entities       []entityFile              `yaml:"entities" validate:"required,min=1,dive"`
	Scores         map[string]map[string]int `yaml:"scores" validate:"required,dive,dive,min=0,max=100"`
	Curated        map[string][]curatedFile  `yaml:"curated" validate:"dive,dive"`
}

type categoryFile struct {
	Key         string `yaml:"key" validate:"required"`
	Title       Text   `yaml:"title" validate:"required"`
	Description Text   `yaml:"description" validate:"required"`
	Features    []Text `yaml:"features" validate:"len=4"`
}

type entityFile struct {
	Code     string  `yaml:"code" validate:"required"`
	Names    Text    `yaml:"names" validate:"required"`
	Image    string  `yaml:"image"`
	Color    string  `yaml:"color"`
	Lat      float64 `yaml:"lat" validate:"min=-90,max=90"`
	Lon      float64 `yaml:"lon" validate:"min=-180,max=180"`
	Camera   struct {
		Position []float64 `yaml:"position" validate:"len=3"`
		Target   []float64 `yaml:"target" validate:"len=3"`
	} `yaml:"camera"`
	Features []struct {
		Key   string `yaml:"key" validate:"required"`
		Title Text   `yaml:"title"`
	} `yaml:"features" validate:"dive"`
}

type curatedFile struct {
	Entity string `yaml:"entity" validate:"required"`
	Image  string `yaml:"image"`
	Reason Text   `yaml:"reason" validate:"required"`
}

// DefaultCatalog returns the catalog bundled with the binary.
func DefaultCatalog() (*Catalog, error) {
	return LoadCatalog(bytes.NewReader(embeddedCatalog))
}

// LoadCatalog decodes and validates a YAML catalog.
func LoadCatalog(r io.Reader) (*Catalog, error) {
	var f catalogFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}
	if err := validator.New().Struct(f); err != nil {
		return nil, fmt.Errorf("validating catalog: %w", err)
	}

	c := &Catalog{
		categoryIndex:  make(map[CategoryKey]int, len(f.Categories)),
		entityIndex:    make(map[EntityCode]int, len(f.Entities)),
		scores:         make(map[CategoryKey]map[EntityCode]int, len(f.Categories)),
		curated:        make(map[CategoryKey][]CuratedPick, len(f.Curated)),
		fallbackReason: f.FallbackReason,
	}

	for _, cf := range f.Categories {
		key := CategoryKey(cf.Key)
		if _, dup := c.categoryIndex[key]; dup {
			return nil, fmt.Errorf("duplicate category %q", key)
		}
		cat := LifestyleCategory{Key: key, Title: cf.Title, Description: cf.Description}
		copy(cat.Features[:], cf.Features)
		c.categoryIndex[key] = len(c.categories)
		c.categories = append(c.categories, cat)
	}

	for _, ef := range f.Entities {
		code := EntityCode(ef.Code)
		if _, dup := c.entityIndex[code]; dup {
			return nil, fmt.Errorf("duplicate entity %q", code)
		}
		e := DestinationEntity{
			Code:  code,
			Names: ef.Names,
			Image: ef.Image,
			Color: ef.Color,
			Lat:   ef.Lat,
			Lon:   ef.Lon,
		}
		copy(e.CameraPosition[:], ef.Camera.Position)
		copy(e.CameraTarget[:], ef.Camera.Target)
		for _, ft := range ef.Features {
			e.Features = append(e.Features, EntityFeature{Key: ft.Key, Title: ft.Title})
		}
		c.entityIndex[code] = len(c.entities)
		c.entities = append(c.entities, e)
	}

	// The score table must be dense.
	for key, row := range f.Scores {
		if _, ok := c.categoryIndex[CategoryKey(key)]; !ok {
			return nil, fmt.Errorf("scores: %w: %q", ErrUnknownCategory, key)
		}
		for code := range row {
			if _, ok := c.entityIndex[EntityCode(code)]; !ok {
				return nil, fmt.Errorf("scores for %q: %w: %q", key, ErrUnknownEntity, code)
			}
		}
	}
	for _, cat := range c.categories {
		row, ok := f.Scores[string(cat.Key)]
		if !ok {
			return nil, fmt.Errorf("scores: missing category %q", cat.Key)
		}
		scores := make(map[EntityCode]int, len(c.entities))
		for _, e := range c.entities {
			v, ok := row[string(e.Code)]
			if !ok {
				return nil, fmt.Errorf("scores for %q: missing entity %q", cat.Key, e.Code)
			}
			scores[e.Code] = v
		}
		c.scores[cat.Key] = scores
	}

	for key, picks := range f.Curated {
		if _, ok := c.categoryIndex[CategoryKey(key)]; !ok {
			return nil, fmt.Errorf("curated: %w: %q", ErrUnknownCategory, key)
		}
		for _, p := range picks {
			if _, ok := c.entityIndex[EntityCode(p.Entity)]; !ok {
				return nil, fmt.Errorf("curated for %q: %w: %q", key, ErrUnknownEntity, p.Entity)
			}
			c.curated[CategoryKey(key)] = append(c.curated[CategoryKey(key)], CuratedPick{
				Entity: EntityCode(p.Entity),
				Reason: p.Reason,
				Image:  p.Image,
			})
		}
	}

	return c, nil
}

// Categories returns the categories in bracket order.
func (c *Catalog) Categories() []LifestyleCategory {
	out := make([]LifestyleCategory, len(c.categories))
	copy(out, c.categories)
	return out
}

// CategoryKeys returns the category keys in bracket order.
func (c *Catalog) CategoryKeys() []CategoryKey {
	keys := make([]CategoryKey, len(c.categories))
	for i, cat := range c.categories {
		keys[i] = cat.Key
	}
	return keys
}

func (c *Catalog) Category(key CategoryKey) (LifestyleCategory, bool) {
	i, ok := c.categoryIndex[key]
	if !ok {
		return LifestyleCategory{}, false
	}
	return c.categories[i], true
}

// Entities returns the destinations in section order.
func (c *Catalog) Entities() []DestinationEntity {
	out := make([]DestinationEntity, len(c.entities))
	copy(out, c.entities)
	return out
}

func (c *Catalog) Entity(code EntityCode) (DestinationEntity, bool) {
	i, ok := c.entityIndex[code]
	if !ok {
		return DestinationEntity{}, false
	}
	return c.entities[i], true
}

// EntityAt returns the destination shown at section-order position i.
func (c *Catalog) EntityAt(i int) (DestinationEntity, bool) {
	if i < 0 || i >= len(c.entities) {
		return DestinationEntity{}, false
	}
	return c.entities[i], true
}

func (c *Catalog) EntityCount() int { return len(c.entities) }

// BaseScore looks up the static score of an entity for a category.
func (c *Catalog) BaseScore(key CategoryKey, code EntityCode) (int, error) {
	row, ok := c.scores[key]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, key)
	}
	v, ok := row[code]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEntity, code)
	}
	return v, nil
}

// Curated returns the hand-picked recommendations of a category.
func (c *Catalog) Curated(key CategoryKey) []CuratedPick {
	return c.curated[key]
}

func (c *Catalog) hasScores(key CategoryKey) bool {
	_, ok := c.scores[key]
	return ok
}
