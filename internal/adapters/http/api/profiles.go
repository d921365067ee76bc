package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/okian/talentrank/internal/domain/model"
)

// ProfilesHandler handles applicant, job, and application intake.
type ProfilesHandler struct {
	deps Dependencies
}

// NewProfilesHandler creates a profiles handler.
func NewProfilesHandler(deps Dependencies) *ProfilesHandler {
	return &ProfilesHandler{deps: deps}
}

// educationEntry mirrors one education row of the intake schema.
type educationEntry struct {
	Degree      string `json:"degree"`
	Institution string `json:"institution"`
	Year        int    `json:"year"`
}

// workEntry mirrors one work history row of the intake schema.
type workEntry struct {
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	Description string  `json:"description"`
	Years       float64 `json:"years"`
}

// applicantRequest mirrors the intake schema for POST /applicants.
type applicantRequest struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Skills          []string         `json:"skills"`
	ExperienceYears int              `json:"experience_years"`
	Education       []educationEntry `json:"education"`
	WorkExperience  []workEntry      `json:"work_experience"`
	ResumeText      string           `json:"resume_text"`
	Group           string           `json:"group"`
}

func (a applicantRequest) validate() error {
	if strings.TrimSpace(a.Name) == "" {
		return errors.New("missing name")
	}
	if a.ExperienceYears < 0 {
		return errors.New("experience_years must be non-negative")
	}
	return nil
}

func (a applicantRequest) toModel() model.ApplicantProfile {
	p := model.ApplicantProfile{
		ID:              a.ID,
		Name:            a.Name,
		Skills:          model.NewSkillSet(a.Skills...),
		ExperienceYears: a.ExperienceYears,
		ResumeText:      a.ResumeText,
		Group:           a.Group,
	}
	for _, e := range a.Education {
		p.Education = append(p.Education, model.Education{Degree: e.Degree, Institution: e.Institution, Year: e.Year})
	}
	for _, w := range a.WorkExperience {
		p.WorkExperience = append(p.WorkExperience, model.WorkExperience{Title: w.Title, Company: w.Company, Description: w.Description, Years: w.Years})
	}
	return p
}

// applicantResponse is the read shape of an applicant profile.
type applicantResponse struct {
	ID              string           `json:"id"`
	Name            string           `json:"name"`
	Skills          []string         `json:"skills"`
	ExperienceYears int              `json:"experience_years"`
	Education       []educationEntry `json:"education"`
	WorkExperience  []workEntry      `json:"work_experience"`
	ResumeText      string           `json:"resume_text,omitempty"`
	Group           string           `json:"group,omitempty"`
}

func toApplicantResponse(p model.ApplicantProfile) applicantResponse {
	resp := applicantResponse{
		ID:              p.ID,
		Name:            p.Name,
		Skills:          p.Skills.Slice(),
		ExperienceYears: p.ExperienceYears,
		ResumeText:      p.ResumeText,
		Group:           p.Group,
	}
	for _, e := range p.Education {
		resp.Education = append(resp.Education, educationEntry{Degree: e.Degree, Institution: e.Institution, Year: e.Year})
	}
	for _, w := range p.WorkExperience {
		resp.WorkExperience = append(resp.WorkExperience, workEntry{Title: w.Title, Company: w.Company, Description: w.Description, Years: w.Years})
	}
	return resp
}

// jobRequest mirrors the intake schema for POST /jobs.
type jobRequest struct {
	ID             string   `json:"id"`
	RecruiterID    string   `json:"recruiter_id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Requirements   string   `json:"requirements"`
	RequiredSkills []string `json:"required_skills"`
	MinYears       int      `json:"min_years"`
	MaxYears       int      `json:"max_years"`
}

func (j jobRequest) validate() error {
	if strings.TrimSpace(j.Title) == "" {
		return errors.New("missing title")
	}
	if j.MinYears < 0 || j.MaxYears < 0 {
		return errors.New("experience range must be non-negative")
	}
	return nil
}

func (j jobRequest) toModel() model.JobProfile {
	return model.JobProfile{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Description:    j.Description,
		Requirements:   j.Requirements,
		RequiredSkills: model.NewSkillSet(j.RequiredSkills...),
		MinYears:       j.MinYears,
		MaxYears:       j.MaxYears,
	}
}

// jobResponse is the read shape of a job profile.
type jobResponse struct {
	ID             string   `json:"id"`
	RecruiterID    string   `json:"recruiter_id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	Requirements   string   `json:"requirements,omitempty"`
	RequiredSkills []string `json:"required_skills"`
	MinYears       int      `json:"min_years,omitempty"`
	MaxYears       int      `json:"max_years,omitempty"`
}

func toJobResponse(j model.JobProfile) jobResponse {
	return jobResponse{
		ID:             j.ID,
		RecruiterID:    j.RecruiterID,
		Title:          j.Title,
		Description:    j.Description,
		Requirements:   j.Requirements,
		RequiredSkills: j.RequiredSkills.Slice(),
		MinYears:       j.MinYears,
		MaxYears:       j.MaxYears,
	}
}

// applicationRequest mirrors the intake schema for POST /applications.
type applicationRequest struct {
	ID          string `json:"id"`
	ApplicantID string `json:"applicant_id"`
	JobID       string `json:"job_id"`
	RecruiterID string `json:"recruiter_id"`
}

func (a applicationRequest) validate() error {
	if strings.TrimSpace(a.ApplicantID) == "" {
		return errors.New("missing applicant_id")
	}
	if strings.TrimSpace(a.JobID) == "" {
		return errors.New("missing job_id")
	}
	return nil
}

// HandleApplicants handles POST /applicants.
func (h *ProfilesHandler) HandleApplicants(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req applicantRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	p, err := h.deps.CreateApplicant(r.Context(), req.toModel())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toApplicantResponse(p))
}

// HandleApplicantByID handles GET /applicants/{id}.
func (h *ProfilesHandler) HandleApplicantByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/applicants/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing applicant id"))
		return
	}

	p, err := h.deps.GetApplicant(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toApplicantResponse(p))
}

// HandleJobs handles POST /jobs.
func (h *ProfilesHandler) HandleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req jobRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	j, err := h.deps.CreateJob(r.Context(), req.toModel())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toJobResponse(j))
}

// HandleJobByID handles GET /jobs/{id}.
func (h *ProfilesHandler) HandleJobByID(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/jobs/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_input", errors.New("missing job id"))
		return
	}

	j, err := h.deps.GetJob(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toJobResponse(j))
}

// HandleApplications handles POST /applications.
func (h *ProfilesHandler) HandleApplications(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
		return
	}
	var req applicationRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", err)
		return
	}

	a, err := h.deps.CreateApplication(r.Context(), model.Application{
		ID:          req.ID,
		ApplicantID: req.ApplicantID,
		JobID:       req.JobID,
		RecruiterID: req.RecruiterID,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":           a.ID,
		"applicant_id": a.ApplicantID,
		"job_id":       a.JobID,
	})
}
