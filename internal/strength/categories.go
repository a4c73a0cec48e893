package strength

import "regexp"

// Subcategory scores one narrow aspect of a category. Term subcategories give
// 10 points per contained term; counted ones give 5 points per pattern match.
type Subcategory struct {
	Name     string
	Terms    []string
	Patterns []*regexp.Regexp
}

// Category is one strength dimension.
type Category struct {
	Name          string
	Label         string
	Weight        float64
	Keywords      []string
	Subcategories []Subcategory
}

func terms(name string, list ...string) Subcategory {
	return Subcategory{Name: name, Terms: list}
}

func counted(name string, patterns ...string) Subcategory {
	sub := Subcategory{Name: name}
	for _, p := range patterns {
		sub.Patterns = append(sub.Patterns, regexp.MustCompile(`(?i)`+p))
	}
	return sub
}

// Categories returns the fixed strength dimensions in report order.
func Categories() []Category {
	return categories
}

var categories = []Category{
	{
		Name:     "technical_skills",
		Label:    "Technical Skills",
		Weight:   0.25,
		Keywords: []string{"python", "java", "javascript", "sql", "machine learning", "data science", "aws", "docker"},
		Subcategories: []Subcategory{
			terms("programming", "python", "java", "javascript", "c++", "sql", "html", "css"),
			terms("databases", "sql", "mysql", "postgresql", "mongodb", "database"),
			terms("cloud", "aws", "azure", "gcp", "cloud", "docker", "kubernetes"),
			terms("ai_ml", "machine learning", "artificial intelligence", "deep learning", "neural networks"),
			terms("devops", "docker", "kubernetes", "jenkins", "ci/cd", "deployment"),
		},
	},
	{
		Name:     "soft_skills",
		Label:    "Soft Skills",
		Weight:   0.20,
		Keywords: []string{"leadership", "communication", "teamwork", "problem solving", "project management"},
		Subcategories: []Subcategory{
			terms("leadership", "led", "managed", "directed", "supervised", "team lead"),
			terms("communication", "presented", "communicated", "collaborated", "negotiated"),
			terms("collaboration", "team", "collaborated", "worked with", "cross-functional"),
			terms("management", "managed", "directed", "supervised", "coordinated"),
		},
	},
	{
		Name:     "experience",
		Label:    "Experience",
		Weight:   0.25,
		Keywords: []string{"experience", "years", "senior", "lead", "manager", "director"},
		Subcategories: []Subcategory{
			counted("years_experience", `\d+\+?\s*years?`, `\d+\+?\s*yrs?`),
			terms("leadership_roles", "manager", "director", "lead", "head of", "vp", "ceo"),
			terms("industry_experience", "experience in", "worked in", "industry"),
		},
	},
	{
		Name:     "education",
		Label:    "Education",
		Weight:   0.15,
		Keywords: []string{"bachelor", "master", "phd", "degree", "university", "college"},
		Subcategories: []Subcategory{
			terms("degree_level", "bachelor", "master", "phd", "doctorate"),
			terms("relevance", "computer science", "engineering", "business", "finance"),
			terms("prestige", "university", "college", "institute", "school"),
		},
	},
	{
		Name:     "achievements",
		Label:    "Achievements",
		Weight:   0.15,
		Keywords: []string{"achieved", "increased", "improved", "award", "certification", "published"},
		Subcategories: []Subcategory{
			counted("quantified_results", `\d+%`, `\$\d+`, `\d+x`, `increased`, `decreased`),
			terms("awards", "award", "recognition", "honor", "achievement"),
			terms("certifications", "certified", "certification", "license", "credential"),
			terms("publications", "published", "paper", "article", "research"),
		},
	},
}
