//go:build tools

// Package tools pins code generators invoked by go generate, e.g. mockgen
// for internal/core/port/mocks.
package tools

import (
	_ "go.uber.org/mock/mockgen"
)
