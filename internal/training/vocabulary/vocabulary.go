// Package vocabulary builds the frozen categorical vocabularies that fix
// feature-vector index assignment for the lifetime of a persisted model.
package vocabulary

import (
	"job-recommender/internal/training/dataset"
)

// Vocabulary holds six ordered, deduplicated lists of lower-cased
// categorical values in first-seen order. Index position is the feature
// offset; the ordering must never change once a model is persisted.
type Vocabulary struct {
	Skills     []string `json:"skills"`
	Titles     []string `json:"titles"`
	Industries []string `json:"industries"`
	Degrees    []string `json:"degrees"`
	Fields     []string `json:"fields"`
	Locations  []string `json:"locations"`

	skillIndex    map[string]int
	titleIndex    map[string]int
	industryIndex map[string]int
	locationIndex map[string]int
}

// Build scans the full example set once. Call it exactly once per training
// run, before encoding; a persisted model must always be paired with the
// vocabulary it was built with.
func Build(examples []dataset.TrainingExample) *Vocabulary {
	v := &Vocabulary{}
	seen := map[string]map[string]struct{}{
		"skill":    {},
		"title":    {},
		"industry": {},
		"degree":   {},
		"field":    {},
		"location": {},
	}

	add := func(kind string, list *[]string, value string) {
		if value == "" {
			return
		}
		if _, ok := seen[kind][value]; ok {
			return
		}
		seen[kind][value] = struct{}{}
		*list = append(*list, value)
	}

	for _, ex := range examples {
		for _, s := range ex.Candidate.Skills {
			add("skill", &v.Skills, s)
		}
		for _, exp := range ex.Candidate.Experience {
			add("title", &v.Titles, exp.Title)
			for _, s := range exp.Skills {
				add("skill", &v.Skills, s)
			}
		}
		for _, edu := range ex.Candidate.Education {
			add("degree", &v.Degrees, edu.Degree)
			add("field", &v.Fields, edu.Field)
		}
		add("location", &v.Locations, ex.Candidate.Location.Key())

		add("title", &v.Titles, ex.Job.Title)
		add("industry", &v.Industries, ex.Job.Industry)
		add("location", &v.Locations, ex.Job.Location.Key())
		for _, s := range ex.Job.Skills {
			add("skill", &v.Skills, s)
		}
	}

	return v
}

// SkillIndex returns the feature offset of a skill, or -1.
func (v *Vocabulary) SkillIndex(skill string) int {
	if v.skillIndex == nil {
		v.skillIndex = indexOf(v.Skills)
	}
	return lookup(v.skillIndex, skill)
}

// TitleIndex returns the feature offset of an experience/job title, or -1.
func (v *Vocabulary) TitleIndex(title string) int {
	if v.titleIndex == nil {
		v.titleIndex = indexOf(v.Titles)
	}
	return lookup(v.titleIndex, title)
}

// IndustryIndex returns the feature offset of an industry, or -1.
func (v *Vocabulary) IndustryIndex(industry string) int {
	if v.industryIndex == nil {
		v.industryIndex = indexOf(v.Industries)
	}
	return lookup(v.industryIndex, industry)
}

// LocationIndex returns the feature offset of a location key, or -1.
func (v *Vocabulary) LocationIndex(location string) int {
	if v.locationIndex == nil {
		v.locationIndex = indexOf(v.Locations)
	}
	return lookup(v.locationIndex, location)
}

// Sizes returns the list lengths keyed by vocabulary name, persisted in
// metadata next to the lists themselves.
func (v *Vocabulary) Sizes() map[string]int {
	return map[string]int{
		"skills":     len(v.Skills),
		"titles":     len(v.Titles),
		"industries": len(v.Industries),
		"degrees":    len(v.Degrees),
		"fields":     len(v.Fields),
		"locations":  len(v.Locations),
	}
}

func indexOf(list []string) map[string]int {
	m := make(map[string]int, len(list))
	for i, s := range list {
		m[s] = i
	}
	return m
}

func lookup(m map[string]int, key string) int {
	if i, ok := m[key]; ok {
		return i
	}
	return -1
}
