package vocabulary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"job-recommender/internal/training/dataset"
	"job-recommender/internal/training/profile"
)

func example(candidateSkills []string, titles []string, industry, location string) dataset.TrainingExample {
	var exp []profile.ExperienceEntry
	for _, title := range titles {
		exp = append(exp, profile.ExperienceEntry{Title: title, Months: 12})
	}
	return dataset.TrainingExample{
		Candidate: profile.CandidateProfile{
			CandidateID: "cand",
			Skills:      candidateSkills,
			Experience:  exp,
		},
		Job: profile.JobProfile{
			JobID:    "job",
			Industry: industry,
			Location: profile.Location{City: location},
		},
	}
}

func TestBuild_FirstSeenOrder(t *testing.T) {
	examples := []dataset.TrainingExample{
		example([]string{"react", "node"}, []string{"engineer"}, "software", "austin"),
		example([]string{"python", "react"}, []string{"analyst"}, "finance", "denver"),
		example([]string{"node"}, []string{"engineer"}, "software", "austin"),
	}

	v := Build(examples)

	assert.Equal(t, []string{"react", "node", "python"}, v.Skills)
	assert.Equal(t, []string{"engineer", "analyst"}, v.Titles)
	assert.Equal(t, []string{"software", "finance"}, v.Industries)
	assert.Equal(t, []string{"austin", "denver"}, v.Locations)
}

func TestBuild_Deterministic(t *testing.T) {
	examples := []dataset.TrainingExample{
		example([]string{"go", "rust"}, []string{"backend engineer"}, "software", "berlin"),
		example([]string{"sql"}, []string{"data engineer"}, "analytics", "munich"),
	}

	first := Build(examples)
	second := Build(examples)

	assert.Equal(t, first.Skills, second.Skills)
	assert.Equal(t, first.Titles, second.Titles)
	assert.Equal(t, first.Industries, second.Industries)
	assert.Equal(t, first.Locations, second.Locations)
}

func TestBuild_CollectsDegreesAndFields(t *testing.T) {
	ex := example(nil, nil, "software", "austin")
	ex.Candidate.Education = []profile.EducationEntry{
		{Degree: "bachelor of science", Field: "computer science", Level: 3},
		{Degree: "master of science", Field: "computer science", Level: 4},
	}

	v := Build([]dataset.TrainingExample{ex})

	assert.Equal(t, []string{"bachelor of science", "master of science"}, v.Degrees)
	assert.Equal(t, []string{"computer science"}, v.Fields)
}

func TestBuild_JobTitlesShareTitleVocabulary(t *testing.T) {
	ex := example(nil, []string{"engineer"}, "software", "austin")
	ex.Job.Title = "staff engineer"

	v := Build([]dataset.TrainingExample{ex})

	assert.Equal(t, []string{"engineer", "staff engineer"}, v.Titles)
}

func TestIndexLookups(t *testing.T) {
	v := &Vocabulary{
		Skills:     []string{"react", "node", "python"},
		Titles:     []string{"engineer"},
		Industries: []string{"software"},
		Locations:  []string{"austin"},
	}

	assert.Equal(t, 0, v.SkillIndex("react"))
	assert.Equal(t, 2, v.SkillIndex("python"))
	assert.Equal(t, -1, v.SkillIndex("cobol"))
	assert.Equal(t, 0, v.TitleIndex("engineer"))
	assert.Equal(t, -1, v.IndustryIndex("finance"))
	assert.Equal(t, 0, v.LocationIndex("austin"))
}

func TestSizes(t *testing.T) {
	v := &Vocabulary{
		Skills:    []string{"a", "b"},
		Titles:    []string{"t"},
		Locations: []string{"l1", "l2", "l3"},
	}

	sizes := v.Sizes()
	assert.Equal(t, 2, sizes["skills"])
	assert.Equal(t, 1, sizes["titles"])
	assert.Equal(t, 0, sizes["industries"])
	assert.Equal(t, 3, sizes["locations"])
}
