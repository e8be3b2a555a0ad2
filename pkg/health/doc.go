// Package health serves the liveness and readiness probes of a plexis
// server. Readiness runs the named checks concurrently under a shared
// timeout; a single failure makes the service unavailable.
//
//	r.Get("/health/live", health.LivenessHandler())
//	r.Get("/health/ready", health.ReadinessHandler(health.Checks{
//	    "postgres": db.Healthcheck(pool),
//	    "modules":  registryCheck,
//	}))
//
// Plain text is returned unless the client sends Accept: application/json
// or ?format=json.
package health
