// Package health provides liveness, readiness and version endpoints for
// processes that run the Agent365 exporter.
//
// Liveness (/health) only reports that the process is up. Readiness
// (/ready) runs every registered check concurrently, each bounded by the
// checker timeout, and answers 503 when any check fails:
//
//	checker := health.New(5 * time.Second)
//	checker.Register("exporter", exp.Ready)
//
//	mux := http.NewServeMux()
//	health.Register(mux, checker, version, commit, buildDate)
package health
