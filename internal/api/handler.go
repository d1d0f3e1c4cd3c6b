package api

import (
	"time"

	"recruit-api/internal/domain"
	"recruit-api/internal/lifecycle"
	"recruit-api/internal/scheduling"
)

type API struct {
	store      domain.Store
	lifecycle  *lifecycle.Manager
	scheduler  *scheduling.Engine
	auth       *Authenticator
	limiter    Limiter
	rateLimit  int
	rateWindow time.Duration
}

type Options struct {
	Store      domain.Store
	Lifecycle  *lifecycle.Manager
	Scheduler  *scheduling.Engine
	Auth       *Authenticator
	Limiter    Limiter
	RateLimit  int
	RateWindow time.Duration
}

func NewAPI(opts Options) *API {
	window := opts.RateWindow
	if window <= 0 {
		window = time.Minute
	}
	return &API{
		store:      opts.Store,
		lifecycle:  opts.Lifecycle,
		scheduler:  opts.Scheduler,
		auth:       opts.Auth,
		limiter:    opts.Limiter,
		rateLimit:  opts.RateLimit,
		rateWindow: window,
	}
}
