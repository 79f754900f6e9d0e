// Package testutil provides testing utilities for droid.
//
// This package contains mock errors, fake toolchain trees and a recording
// process runner shared across test files. It should only be imported by
// test files (*_test.go).
package testutil

import "errors"

// Mock errors for testing purposes.
var (
	// ErrMockToolFailed simulates an external tool failure (used in tests).
	ErrMockToolFailed = errors.New("tool failed")

	// ErrMockResolver simulates a dependency resolver failure (used in tests).
	ErrMockResolver = errors.New("resolver failed")

	// ErrMockEvaluator simulates an evaluator crash (used in tests).
	ErrMockEvaluator = errors.New("evaluator failed")
)
