package simload

import (
	"context"
	"crypto/rand"
	"math/big"
	"strconv"

	"github.com/okian/talentrank/pkg/logger"
)

// Skill vocabulary for synthetic profiles. Jobs draw required skills from
// the same pool so overlap varies per pair.
var skillPool = []string{
	"go", "python", "java", "typescript", "rust",
	"sql", "postgresql", "redis", "kafka", "grpc",
	"docker", "kubernetes", "terraform", "aws", "gcp",
	"react", "graphql", "linux", "prometheus", "git",
}

// Demographic groups for fairness audit coverage.
var groupPool = []string{"alpha", "beta", "gamma"}

// Experience distribution bounds.
const (
	maxExperienceYears = 20
	minSkillsPerPerson = 2
	maxSkillsPerPerson = 8
	minSkillsPerJob    = 3
	maxSkillsPerJob    = 6
)

// randomInt returns a random int in [0, n) using crypto/rand.
func randomInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

// randomSkills picks between min and max distinct skills from the pool.
func randomSkills(min, max int) []string {
	count := min + randomInt(max-min+1)
	picked := make(map[int]struct{}, count)
	skills := make([]string, 0, count)
	for len(skills) < count {
		idx := randomInt(len(skillPool))
		if _, seen := picked[idx]; seen {
			continue
		}
		picked[idx] = struct{}{}
		skills = append(skills, skillPool[idx])
	}
	return skills
}

// generateApplicants creates synthetic applicant payloads.
func generateApplicants(ctx context.Context, config *Config) []Applicant {
	logger.Get().Info(ctx, "generating applicants", logger.Int("count", config.NumApplicants))

	applicants := make([]Applicant, config.NumApplicants)
	for i := range applicants {
		skills := randomSkills(minSkillsPerPerson, maxSkillsPerPerson)
		resume := "Worked with"
		for _, s := range skills {
			resume += " " + s
		}
		applicants[i] = Applicant{
			Name:            "Applicant " + strconv.Itoa(i),
			Skills:          skills,
			ExperienceYears: randomInt(maxExperienceYears + 1),
			ResumeText:      resume,
			Group:           groupPool[randomInt(len(groupPool))],
		}
	}
	return applicants
}

// generateJobs creates synthetic job payloads. Each job gets a recruiter id
// so weight scopes vary across the run.
func generateJobs(ctx context.Context, config *Config) []Job {
	logger.Get().Info(ctx, "generating jobs", logger.Int("count", config.NumJobs))

	jobs := make([]Job, config.NumJobs)
	for i := range jobs {
		skills := randomSkills(minSkillsPerJob, maxSkillsPerJob)
		jobs[i] = Job{
			RecruiterID:    "recruiter-" + strconv.Itoa(i%5),
			Title:          "Engineer " + strconv.Itoa(i),
			Description:    "Role requiring " + skills[0] + " and related tooling.",
			RequiredSkills: skills,
			MinYears:       randomInt(8),
		}
	}
	return jobs
}
