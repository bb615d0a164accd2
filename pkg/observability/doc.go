/*
Package observability provides Prometheus instrumentation for Redline.

It exposes counters for session outcomes and transport-level rejections.
Metrics use a dedicated registry per coordinator so tests and embedded
instances never collide on the global default.
*/
package observability
