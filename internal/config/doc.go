// Package config loads and validates the stackctl.yaml deployment
// configuration and environment-tunable timeouts. All paths, endpoint
// lists, and timing knobs live here and are passed explicitly to
// components; nothing reads ambient global state.
package config
