// Package services implements the core use cases: ingestion, retrieval,
// generation, and chat orchestration, plus the process-wide index cache.
package services
