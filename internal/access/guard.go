// Package access holds the authorization predicates shared by the HTTP layer
// and the lifecycle manager. They never touch storage.
package access

import "recruit-api/internal/domain"

// OwnsJob reports whether caller is the recruiter who posted the job app was
// submitted to.
func OwnsJob(caller domain.Caller, app *domain.Application) bool {
	if app == nil || !caller.IsRecruiter() {
		return false
	}
	return app.RecruiterID == caller.RecruiterID
}

// OwnsApplication reports whether caller submitted app or owns its job.
func OwnsApplication(caller domain.Caller, app *domain.Application) bool {
	if app == nil {
		return false
	}
	if caller.IsApplicant() && app.ApplicantID == caller.ApplicantID {
		return true
	}
	return OwnsJob(caller, app)
}
