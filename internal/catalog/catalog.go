// Package catalog holds the taxonomy of technical skills recognized in job
// descriptions and resumes.
package catalog

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Category groups related skills under a name such as "databases".
type Category struct {
	Name   string   `toml:"name"`
	Skills []string `toml:"skills"`
}

// Catalog is an ordered, read-only set of skill categories. It is safe for
// concurrent use once built.
type Catalog struct {
	categories []Category
	skills     []string
}

var defaultCategories = []Category{
	{Name: "programming", Skills: []string{
		"python", "java", "javascript", "typescript", "c++", "c#", "go", "rust", "php", "ruby",
		"swift", "kotlin", "scala", "r", "matlab", "sql", "html", "css", "react", "angular",
		"vue", "node.js", "django", "flask", "spring", "express", "laravel", "rails",
	}},
	{Name: "databases", Skills: []string{
		"mysql", "postgresql", "mongodb", "redis", "elasticsearch", "cassandra", "dynamodb",
		"sqlite", "oracle", "sql server", "neo4j", "influxdb",
	}},
	{Name: "cloud", Skills: []string{
		"aws", "azure", "gcp", "docker", "kubernetes", "terraform", "ansible", "jenkins",
		"gitlab ci", "github actions", "cloudformation", "serverless", "lambda",
	}},
	{Name: "data_science", Skills: []string{
		"machine learning", "deep learning", "nlp", "computer vision", "pandas", "numpy",
		"scikit-learn", "tensorflow", "pytorch", "keras", "spark", "hadoop", "kafka",
		"airflow", "jupyter", "matplotlib", "seaborn", "plotly",
	}},
	{Name: "tools", Skills: []string{
		"git", "github", "gitlab", "jira", "confluence", "slack", "teams", "figma", "sketch",
		"postman", "swagger", "docker", "kubernetes", "vagrant", "virtualbox",
	}},
	{Name: "methodologies", Skills: []string{
		"agile", "scrum", "kanban", "devops", "ci/cd", "tdd", "bdd", "microservices",
		"rest api", "graphql", "soa", "mvc", "mvp", "mvvm",
	}},
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(defaultCategories...)
}

// New builds a catalog from the given categories. Skill names are stored
// lower-cased; categories keep their order.
func New(categories ...Category) *Catalog {
	c := &Catalog{}
	for _, category := range categories {
		c.add(category)
	}
	return c
}

func (c *Catalog) add(category Category) {
	name := strings.TrimSpace(category.Name)
	if name == "" {
		return
	}

	idx := -1
	for i := range c.categories {
		if c.categories[i].Name == name {
			idx = i
			break
		}
	}
	if idx == -1 {
		c.categories = append(c.categories, Category{Name: name})
		idx = len(c.categories) - 1
	}

	for _, skill := range category.Skills {
		skill = strings.ToLower(strings.TrimSpace(skill))
		if skill == "" || contains(c.categories[idx].Skills, skill) {
			continue
		}
		c.categories[idx].Skills = append(c.categories[idx].Skills, skill)
		if !contains(c.skills, skill) {
			c.skills = append(c.skills, skill)
		}
	}
}

// Merge returns a new catalog with extra categories layered over c. Skills of
// an existing category are appended; unknown categories are added at the end.
func (c *Catalog) Merge(extra ...Category) *Catalog {
	merged := New(c.categories...)
	for _, category := range extra {
		merged.add(category)
	}
	return merged
}

// Categories returns a copy of the catalog categories.
func (c *Catalog) Categories() []Category {
	out := make([]Category, len(c.categories))
	for i, category := range c.categories {
		out[i] = Category{Name: category.Name, Skills: append([]string(nil), category.Skills...)}
	}
	return out
}

// Category looks a category up by name.
func (c *Catalog) Category(name string) (Category, bool) {
	for _, category := range c.categories {
		if category.Name == name {
			return Category{Name: category.Name, Skills: append([]string(nil), category.Skills...)}, true
		}
	}
	return Category{}, false
}

// Skills returns every distinct skill in catalog order, lower-cased.
func (c *Catalog) Skills() []string {
	return append([]string(nil), c.skills...)
}

// Match returns the title-cased catalog skills that occur in text as a
// case-insensitive substring, in catalog order and without duplicates.
func (c *Catalog) Match(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	lower := strings.ToLower(text)
	var found []string
	for _, skill := range c.skills {
		if strings.Contains(lower, skill) {
			found = append(found, TitleCase(skill))
		}
	}
	return found
}

// TitleCase upper-cases the first letter of every word and lower-cases the rest.
func TitleCase(s string) string {
	// A Caser keeps state and must not be shared between goroutines.
	return cases.Title(language.English).String(s)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}
