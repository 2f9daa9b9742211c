// Package telemetry provides OpenTelemetry initialization and helpers
// for tracing, logs and metrics across the recipe generation service.
//
// The package configures OTLP HTTP export for all three signals, with
// support for hosted collectors that expect a base path such as /otlp.
package telemetry
