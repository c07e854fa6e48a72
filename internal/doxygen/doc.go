// SPDX-License-Identifier: MPL-2.0

// Package doxygen builds the per-invocation generator configuration and runs
// the generator against a staging root.
//
// A Doxyfile is an immutable value: it is constructed fresh for every check
// from the staging layout and the user's overrides, then written once. Only
// the KEY = value subset of the generator's configuration grammar is
// produced; doxycheck never parses Doxyfiles.
package doxygen
