package memory

import (
	"encoding/json"
	"fmt"
	"os"

	"recruit-api/internal/domain"
)

// Seed lists the profiles and jobs a memory store starts with. Ids are the
// ones callers carry in their tokens (recruiter_id, applicant_id).
type Seed struct {
	Recruiters []SeedRecruiter `json:"recruiters"`
	Applicants []SeedApplicant `json:"applicants"`
	Jobs       []SeedJob       `json:"jobs"`
}

type SeedRecruiter struct {
	ID          int64  `json:"id"`
	CompanyName string `json:"company_name"`
}

type SeedApplicant struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type SeedJob struct {
	ID          int64  `json:"id"`
	RecruiterID int64  `json:"recruiter_id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Location    string `json:"location"`
}

// LoadSeedFile reads a JSON seed from path.
func LoadSeedFile(path string) (Seed, error) {
	var seed Seed
	data, err := os.ReadFile(path)
	if err != nil {
		return seed, fmt.Errorf("read seed: %w", err)
	}
	if err := json.Unmarshal(data, &seed); err != nil {
		return seed, fmt.Errorf("decode seed %s: %w", path, err)
	}
	return seed, nil
}

// Load adds the seed's records under their own ids. Nothing is added when
// the seed is inconsistent.
func (s *Store) Load(seed Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	recruiters := make(map[int64]bool)
	for _, r := range seed.Recruiters {
		if r.ID <= 0 || recruiters[r.ID] {
			return fmt.Errorf("seed: invalid or duplicate recruiter id %d", r.ID)
		}
		if _, exists := s.recruiters[r.ID]; exists {
			return fmt.Errorf("seed: recruiter %d already exists", r.ID)
		}
		recruiters[r.ID] = true
	}
	applicants := make(map[int64]bool)
	for _, a := range seed.Applicants {
		if a.ID <= 0 || applicants[a.ID] || a.Email == "" {
			return fmt.Errorf("seed: invalid applicant %d", a.ID)
		}
		if _, exists := s.applicants[a.ID]; exists {
			return fmt.Errorf("seed: applicant %d already exists", a.ID)
		}
		applicants[a.ID] = true
	}
	jobs := make(map[int64]bool)
	for _, j := range seed.Jobs {
		if j.ID <= 0 || jobs[j.ID] || j.Title == "" {
			return fmt.Errorf("seed: invalid job %d", j.ID)
		}
		if _, exists := s.jobs[j.ID]; exists {
			return fmt.Errorf("seed: job %d already exists", j.ID)
		}
		_, known := s.recruiters[j.RecruiterID]
		if !recruiters[j.RecruiterID] && !known {
			return fmt.Errorf("seed: job %d references unknown recruiter %d", j.ID, j.RecruiterID)
		}
		jobs[j.ID] = true
	}

	for _, r := range seed.Recruiters {
		s.recruiters[r.ID] = person{id: r.ID, name: r.CompanyName}
		s.bump(r.ID)
	}
	for _, a := range seed.Applicants {
		s.applicants[a.ID] = person{id: a.ID, email: a.Email}
		s.bump(a.ID)
	}
	now := s.now().UTC()
	for _, j := range seed.Jobs {
		s.jobs[j.ID] = domain.Job{
			ID:          j.ID,
			RecruiterID: j.RecruiterID,
			Title:       j.Title,
			Description: j.Description,
			Location:    j.Location,
			CreatedAt:   now,
		}
		s.bump(j.ID)
	}
	return nil
}

// bump keeps generated ids above every seeded one.
func (s *Store) bump(id int64) {
	if id > s.nextID {
		s.nextID = id
	}
}
