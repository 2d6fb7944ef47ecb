// Package seed loads a flan catalog from YAML into the database.
package seed

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"

	"flanes/internal/model"
	"flanes/internal/repository"
	"flanes/internal/service"
	"flanes/internal/slug"
)

// maxNameLength matches the size of the flans.name column.
const maxNameLength = 64

//go:embed catalog.yaml
var defaultCatalog []byte

// Entry is one flan in a catalog file.
type Entry struct {
	Name        string `yaml:"name"`
	Slug        string `yaml:"slug"`
	Description string `yaml:"description"`
	ImageURL    string `yaml:"image_url"`
	Price       string `yaml:"price"`
	Private     bool   `yaml:"private"`
}

// Catalog is the content of a catalog file.
type Catalog struct {
	Flans []Entry `yaml:"flans"`
}

// Result counts what Apply changed.
type Result struct {
	Created   int
	Updated   int
	Unchanged int
}

// Parse decodes and checks a catalog file. Missing slugs are derived from
// the name.
func Parse(data []byte) (*Catalog, error) {
	var cat Catalog
	if err := yaml.Unmarshal(data, &cat); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}

	seen := make(map[string]bool, len(cat.Flans))
	for i := range cat.Flans {
		e := &cat.Flans[i]
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("flan %d: name is required", i+1)
		}
		if utf8.RuneCountInString(e.Name) > maxNameLength {
			return nil, fmt.Errorf("flan %d: name longer than %d characters", i+1, maxNameLength)
		}
		if e.Slug == "" {
			e.Slug = slug.Make(e.Name)
		}
		if !slug.Valid(e.Slug) {
			return nil, fmt.Errorf("flan %q: invalid slug %q", e.Name, e.Slug)
		}
		if seen[e.Slug] {
			return nil, fmt.Errorf("flan %q: duplicate slug %q", e.Name, e.Slug)
		}
		seen[e.Slug] = true
		if _, err := service.ParsePrice(e.Price); err != nil {
			return nil, fmt.Errorf("flan %q: invalid price %q", e.Name, e.Price)
		}
	}
	return &cat, nil
}

// Default returns the built-in catalog.
func Default() *Catalog {
	cat, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return cat
}

// Seeder creates or updates flans by slug.
type Seeder struct {
	flans repository.FlanRepository
	log   *logrus.Logger
}

// NewSeeder creates a new seeder.
func NewSeeder(flans repository.FlanRepository, log *logrus.Logger) *Seeder {
	return &Seeder{flans: flans, log: log}
}

// Apply creates the catalog's missing flans and brings existing ones (same
// slug) in line with the file. Running it twice changes nothing.
func (s *Seeder) Apply(ctx context.Context, cat *Catalog) (Result, error) {
	var res Result
	for _, e := range cat.Flans {
		price, err := service.ParsePrice(e.Price)
		if err != nil {
			return res, fmt.Errorf("flan %q: %w", e.Name, err)
		}

		existing, err := s.flans.FindBySlug(ctx, e.Slug)
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			flan := &model.Flan{
				Name:        e.Name,
				Slug:        e.Slug,
				Description: e.Description,
				ImageURL:    e.ImageURL,
				IsPrivate:   e.Private,
				Price:       price,
			}
			if err := s.flans.Create(ctx, flan); err != nil {
				return res, fmt.Errorf("create flan %q: %w", e.Slug, err)
			}
			res.Created++
			s.log.WithFields(logrus.Fields{"slug": e.Slug, "id": flan.ID}).Info("flan created")
		case err != nil:
			return res, fmt.Errorf("find flan %q: %w", e.Slug, err)
		default:
			if !merge(existing, e, price) {
				res.Unchanged++
				continue
			}
			if err := s.flans.Update(ctx, existing); err != nil {
				return res, fmt.Errorf("update flan %q: %w", e.Slug, err)
			}
			res.Updated++
			s.log.WithFields(logrus.Fields{"slug": e.Slug, "id": existing.ID}).Info("flan updated")
		}
	}
	return res, nil
}

// merge copies e onto flan and reports whether anything changed. An empty
// image in the file keeps the stored image.
func merge(flan *model.Flan, e Entry, price decimal.Decimal) bool {
	changed := false
	if flan.Name != e.Name {
		flan.Name = e.Name
		changed = true
	}
	if flan.Description != e.Description {
		flan.Description = e.Description
		changed = true
	}
	if e.ImageURL != "" && flan.ImageURL != e.ImageURL {
		flan.ImageURL = e.ImageURL
		changed = true
	}
	if flan.IsPrivate != e.Private {
		flan.IsPrivate = e.Private
		changed = true
	}
	if !flan.Price.Equal(price) {
		flan.Price = price
		changed = true
	}
	return changed
}
