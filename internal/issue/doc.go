// SPDX-License-Identifier: MPL-2.0

// Package issue turns failures into guidance.
//
// ActionableError is the short form: the failed operation, the resource and
// a few suggestions. The catalog (Get, Values) holds the long form, one
// Markdown page per failure class, rendered with glamour below the error.
package issue
