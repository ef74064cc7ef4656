package domain

import "errors"

// ErrNotFound is returned by repo and service functions when the requested
// resource does not exist in the database.
// Handlers should map this to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrValidation is returned by service functions when input fails business
// rule validation (e.g. malformed QR payload, out of check-in range).
// Handlers should map this to HTTP 422 Unprocessable Entity.
var ErrValidation = errors.New("validation error")

// ErrNotAuthenticated is returned when an operation requires a signed-in
// user and no valid actor identity was supplied.
// Handlers should map this to HTTP 401.
var ErrNotAuthenticated = errors.New("not authenticated")

// ErrAlreadyCollected is returned when a user tries to collect a passport
// stamp for a site they have already checked in to. The authoritative
// source of this error is the UNIQUE(user_id, site_id) constraint on
// passport_stamps; the service-level pre-check is only a fast path.
// Handlers should map this to HTTP 409 Conflict.
var ErrAlreadyCollected = errors.New("stamp already collected")

// ErrAlreadyEarned is the achievement counterpart of ErrAlreadyCollected,
// backed by UNIQUE(user_id, achievement_id) on user_achievements.
var ErrAlreadyEarned = errors.New("achievement already earned")

// ErrRateLimited is returned when the upstream text-generation service
// responds with HTTP 429. It is surfaced distinctly so callers can advise
// "try again shortly" instead of treating it as a hard failure. The guide
// never retries automatically.
var ErrRateLimited = errors.New("rate limited")
