// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// MatcherService owns the embed-index-rank pipeline, ResponderService
// turns matches into agent-ready drafts, and SettingsService resolves
// provider configuration. All of it is pure Go with no CGO.
package services
