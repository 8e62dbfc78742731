// Package json provides a universal value-to-JSON serialization engine:
// a recursive encoder that converts an open-ended set of Go values into a
// JSON-compatible tree while detecting and safely handling reference cycles.
//
// Beyond the shapes encoding/json already understands, the serializer
// converts time values, durations, arbitrary-precision numbers, UUIDs,
// defined scalar types (enum-style constants), filesystem paths, gonum
// matrices and vectors, gota dataframes and series, and arbitrary objects
// exposing a ToDict capability or plain exported struct fields.
//
// # Basic Usage
//
// Simple operations over the default serializer:
//
//	out, err := json.Encode(map[string]any{"when": time.Now()})
//	data, err := json.Marshal(value)
//	err = json.Unmarshal(data, &target)
//
// Never-fail encoding for logging and diagnostics:
//
//	text, _ := json.SafeEncode(value, &json.SafeOptions{IgnoreErrors: true})
//
// A dedicated serializer with its own policy:
//
//	cfg := json.DefaultConfig()
//	cfg.Strict = true
//	s := json.New(cfg)
//	tree, err := s.Normalize(value)
//
// # Configuration
//
// Config controls the policy at every fork of the walk: Strict raises on
// unknown types, IgnoreUnknown substitutes null per offending field,
// FailOnCircular turns cycle markers into errors, and Fallback supplies a
// custom last-chance conversion hook. Config and the rule table are frozen
// when a Serializer is constructed, so one Serializer is safe for
// concurrent use; all walk state lives in the call.
//
// # Key Features
//
//   - Ordered, extensible conversion rule table with documented precedence
//   - Identity-based cycle detection on the active recursion path only,
//     so shared (but acyclic) sub-objects expand fully at each occurrence
//   - Pluggable text backends: encoding/json, goccy/go-json, bytedance/sonic
//   - Fail-fast error surface with typed errors and sentinel matching
//
// # Core Types Organization
//
// Core types are organized in the following files:
//
//   - serializer.go: Serializer and the recursive walk
//   - registry.go: conversion rule table and built-in rules
//   - cycle.go: identity-based cycle guard
//   - converter.go: rule application and the fallback ladder
//   - config.go: Config, SafeOptions, EncodeConfig
//   - backend.go: text backend selection
//   - errors.go: error types and sentinels
//   - api.go: package-level API over the default serializer
//   - file.go: file load/save helpers
package json
