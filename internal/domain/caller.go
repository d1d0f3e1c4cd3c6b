package domain

type UserType string

const (
	UserRecruiter UserType = "recruiter"
	UserApplicant UserType = "applicant"
)

// Caller is a resolved request identity. RecruiterID is set for recruiters,
// ApplicantID for applicants.
type Caller struct {
	UserID      int64
	Type        UserType
	RecruiterID int64
	ApplicantID int64
}

func (c Caller) IsRecruiter() bool {
	return c.Type == UserRecruiter && c.RecruiterID != 0
}

func (c Caller) IsApplicant() bool {
	return c.Type == UserApplicant && c.ApplicantID != 0
}
