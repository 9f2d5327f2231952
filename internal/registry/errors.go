// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package registry

import "errors"

// Sentinel errors for registry responses. Callers match with errors.Is.
var (
	// ErrNotFound means the accession does not exist in the registry.
	ErrNotFound = errors.New("study not found")

	// ErrForbidden means the study exists but is not public.
	ErrForbidden = errors.New("study is private")

	// ErrUpstreamUnavailable means the registry answered with a server
	// error after retries were exhausted.
	ErrUpstreamUnavailable = errors.New("registry unavailable")

	// ErrEmptyResponse means the registry answered 200 with no usable body.
	ErrEmptyResponse = errors.New("empty registry response")
)
