// Package content holds the author-supplied page payload: profile,
// about text, skills and projects. A Catalog is built once at startup
// and never changes afterwards; every accessor hands out copies.
package content

import (
	_ "embed"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"unicode"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a content document is missing required
// fields or carries malformed links.
var ErrInvalid = errors.New("invalid content")

//go:embed seed.yaml
var seed []byte

// Link is an external profile link (social site, mail address).
type Link struct {
	Label string `yaml:"label" json:"label"`
	URL   string `yaml:"url" json:"url"`
}

// External reports whether the link leads to a web page, as opposed to
// a mailto: address handled by the mail client.
func (l Link) External() bool {
	u, err := url.Parse(l.URL)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Profile is the hero header content.
type Profile struct {
	Name    string `yaml:"name" json:"name"`
	Title   string `yaml:"title" json:"title"`
	Tagline string `yaml:"tagline" json:"tagline"`
	Links   []Link `yaml:"links" json:"links"`
}

// Skill is a single badge. Icon is an opaque handle the renderer maps to
// a glyph or image.
type Skill struct {
	ID   string `yaml:"-" json:"id"`
	Name string `yaml:"name" json:"name"`
	Icon string `yaml:"icon" json:"icon"`
}

// SkillCategory groups badges under a heading.
type SkillCategory struct {
	Name   string  `yaml:"name" json:"name"`
	Skills []Skill `yaml:"skills" json:"skills"`
}

// Project is a card with an external link.
type Project struct {
	Slug        string `yaml:"-" json:"slug"`
	Title       string `yaml:"title" json:"title"`
	Description string `yaml:"description" json:"description"`
	Link        string `yaml:"link" json:"link"`
}

type document struct {
	Profile  Profile         `yaml:"profile"`
	About    string          `yaml:"about"`
	Skills   []SkillCategory `yaml:"skills"`
	Projects []Project       `yaml:"projects"`
}

// Catalog is the immutable content store.
type Catalog struct {
	profile   Profile
	about     string
	aboutHTML string
	skills    []SkillCategory
	projects  []Project

	badges map[string]Skill
	slugs  map[string]int
}

// Default returns the catalog compiled into the binary.
func Default() *Catalog {
	catalog, err := Parse(seed)
	if err != nil {
		panic(fmt.Sprintf("content: embedded seed: %v", err))
	}
	return catalog
}

// Load reads a YAML content document. An empty path yields Default().
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading content %s: %w", path, err)
	}
	catalog, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing content %s: %w", path, err)
	}
	return catalog, nil
}

// Parse builds a Catalog from a YAML document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	doc.Profile.Name = strings.TrimSpace(doc.Profile.Name)
	if doc.Profile.Name == "" {
		return nil, fmt.Errorf("%w: profile.name is required", ErrInvalid)
	}
	for _, link := range doc.Profile.Links {
		if err := checkURL(link.URL); err != nil {
			return nil, fmt.Errorf("%w: profile link %q: %v", ErrInvalid, link.Label, err)
		}
	}

	catalog := &Catalog{
		profile:  doc.Profile,
		about:    strings.TrimSpace(doc.About),
		skills:   doc.Skills,
		projects: doc.Projects,
		badges:   make(map[string]Skill),
		slugs:    make(map[string]int),
	}

	for ci := range catalog.skills {
		category := &catalog.skills[ci]
		if category.Name == "" {
			return nil, fmt.Errorf("%w: skill category %d has no name", ErrInvalid, ci)
		}
		for si := range category.Skills {
			skill := &category.Skills[si]
			if skill.Name == "" {
				return nil, fmt.Errorf("%w: skill %d in %q has no name", ErrInvalid, si, category.Name)
			}
			skill.ID = Slugify(category.Name) + "/" + Slugify(skill.Name)
			if _, dup := catalog.badges[skill.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate skill %q", ErrInvalid, skill.ID)
			}
			catalog.badges[skill.ID] = *skill
		}
	}

	for i := range catalog.projects {
		project := &catalog.projects[i]
		if project.Title == "" {
			return nil, fmt.Errorf("%w: project %d has no title", ErrInvalid, i)
		}
		if err := checkURL(project.Link); err != nil {
			return nil, fmt.Errorf("%w: project %q: %v", ErrInvalid, project.Title, err)
		}
		project.Description = strings.TrimSpace(project.Description)
		project.Slug = Slugify(project.Title)
		if _, dup := catalog.slugs[project.Slug]; dup {
			return nil, fmt.Errorf("%w: duplicate project %q", ErrInvalid, project.Slug)
		}
		catalog.slugs[project.Slug] = i
	}

	html, err := renderMarkdown(catalog.about)
	if err != nil {
		return nil, fmt.Errorf("rendering about: %w", err)
	}
	catalog.aboutHTML = html

	return catalog, nil
}

func checkURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return err
	}
	switch u.Scheme {
	case "http", "https":
		if u.Host == "" {
			return errors.New("missing host")
		}
	case "mailto":
		if u.Opaque == "" {
			return errors.New("missing address")
		}
	default:
		return fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	return nil
}

// Profile returns the hero header content.
func (c *Catalog) Profile() Profile {
	p := c.profile
	p.Links = append([]Link(nil), c.profile.Links...)
	return p
}

// About returns the about paragraph as authored (markdown).
func (c *Catalog) About() string { return c.about }

// AboutHTML returns the about paragraph rendered to HTML.
func (c *Catalog) AboutHTML() string { return c.aboutHTML }

// Skills returns the skill categories in authored order.
func (c *Catalog) Skills() []SkillCategory {
	out := make([]SkillCategory, len(c.skills))
	for i, category := range c.skills {
		out[i] = SkillCategory{
			Name:   category.Name,
			Skills: append([]Skill(nil), category.Skills...),
		}
	}
	return out
}

// Projects returns the project cards in authored order.
func (c *Catalog) Projects() []Project {
	return append([]Project(nil), c.projects...)
}

// Skill looks up a badge by its identifier.
func (c *Catalog) Skill(id string) (Skill, bool) {
	skill, ok := c.badges[id]
	return skill, ok
}

// Project looks up a project by slug.
func (c *Catalog) Project(slug string) (Project, bool) {
	i, ok := c.slugs[slug]
	if !ok {
		return Project{}, false
	}
	return c.projects[i], true
}

// BadgeIDs lists every skill badge identifier in display order.
func (c *Catalog) BadgeIDs() []string {
	var ids []string
	for _, category := range c.skills {
		for _, skill := range category.Skills {
			ids = append(ids, skill.ID)
		}
	}
	return ids
}

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if dash && b.Len() > 0 {
				b.WriteByte('-')
			}
			dash = false
			b.WriteRune(r)
		case r == '\'':
		default:
			dash = true
		}
	}
	return b.String()
}
