// Package metrics provides the run metrics hooks for the download pipeline.
//
// The pipeline receives a Recorder through dependency injection and defaults to
// NoopRecorder, so no nil checks are needed at call sites:
//
//	o := pipeline.New(deps).WithRecorder(metrics.NewPrometheusRecorder(reg))
//
// The CLI is short-lived and does not serve an HTTP endpoint. When a metrics
// file is configured, the registry is written once at exit in the
// node_exporter textfile format (see WriteTextfile).
package metrics
