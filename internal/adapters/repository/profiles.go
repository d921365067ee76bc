// Package repository provides the in-memory stores behind the engine.
package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/okian/talentrank/internal/domain/model"
	"github.com/okian/talentrank/pkg/metrics"
)

// ProfileStore holds applicant and job profiles plus the applications that
// link them. Profiles are produced by external intake; the engine only reads
// them.
type ProfileStore struct {
	mu           sync.RWMutex
	applicants   map[string]model.ApplicantProfile
	jobs         map[string]model.JobProfile
	applications map[string]model.Application
}

// NewProfileStore creates an empty profile store.
func NewProfileStore() *ProfileStore {
	return &ProfileStore{
		applicants:   make(map[string]model.ApplicantProfile),
		jobs:         make(map[string]model.JobProfile),
		applications: make(map[string]model.Application),
	}
}

// PutApplicant stores an applicant profile, assigning an id when absent.
func (s *ProfileStore) PutApplicant(ctx context.Context, p model.ApplicantProfile) (model.ApplicantProfile, error) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.applicants[p.ID] = p
	n := len(s.applicants)
	s.mu.Unlock()

	metrics.UpdateProfileCount("applicant", n)
	return p, nil
}

// Applicant returns the applicant with the given id.
func (s *ProfileStore) Applicant(ctx context.Context, id string) (model.ApplicantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.applicants[id]
	if !ok {
		return model.ApplicantProfile{}, fmt.Errorf("applicant %s: %w", id, ErrNotFound)
	}
	return p, nil
}

// Applicants returns all applicant profiles.
func (s *ProfileStore) Applicants(ctx context.Context) ([]model.ApplicantProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.ApplicantProfile, 0, len(s.applicants))
	for _, p := range s.applicants {
		out = append(out, p)
	}
	return out, nil
}

// PutJob stores a job profile, assigning an id when absent.
func (s *ProfileStore) PutJob(ctx context.Context, j model.JobProfile) (model.JobProfile, error) {
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	s.mu.Lock()
	s.jobs[j.ID] = j
	n := len(s.jobs)
	s.mu.Unlock()

	metrics.UpdateProfileCount("job", n)
	return j, nil
}

// Job returns the job with the given id.
func (s *ProfileStore) Job(ctx context.Context, id string) (model.JobProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	j, ok := s.jobs[id]
	if !ok {
		return model.JobProfile{}, fmt.Errorf("job %s: %w", id, ErrNotFound)
	}
	return j, nil
}

// Jobs returns all job profiles.
func (s *ProfileStore) Jobs(ctx context.Context) ([]model.JobProfile, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]model.JobProfile, 0, len(s.jobs))
	for _, j := range s.jobs {
		out = append(out, j)
	}
	return out, nil
}

// PutApplication links an applicant to a job. The referenced applicant and
// job must exist.
func (s *ProfileStore) PutApplication(ctx context.Context, a model.Application) (model.Application, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.applicants[a.ApplicantID]; !ok {
		return model.Application{}, fmt.Errorf("applicant %s: %w", a.ApplicantID, ErrNotFound)
	}
	if _, ok := s.jobs[a.JobID]; !ok {
		return model.Application{}, fmt.Errorf("job %s: %w", a.JobID, ErrNotFound)
	}
	s.applications[a.ID] = a
	return a, nil
}

// Application returns the application with the given id.
func (s *ProfileStore) Application(ctx context.Context, id string) (model.Application, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.applications[id]
	if !ok {
		return model.Application{}, fmt.Errorf("application %s: %w", id, ErrNotFound)
	}
	return a, nil
}

// Counts reports how many applicants, jobs, and applications are stored.
func (s *ProfileStore) Counts(ctx context.Context) (applicants, jobs, applications int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.applicants), len(s.jobs), len(s.applications)
}
