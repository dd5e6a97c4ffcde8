// Package metrics exposes Prometheus collectors for consultations, rule
// reloads, rate limiting and HTTP traffic.
//
// Metrics implements portability.Recorder and is handed to the service with
// portability.WithRecorder. Collectors live on a private registry served by
// Handler:
//
//	m := metrics.New()
//	svc, _ := portability.NewService(rules, portability.WithRecorder(m))
//	r.Use(m.Middleware)
//	r.Handle("/metrics", m.Handler())
package metrics
