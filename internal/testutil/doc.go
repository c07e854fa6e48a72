// SPDX-License-Identifier: MPL-2.0

// Package testutil holds helpers shared by doxycheck tests. Every helper
// fails the test on error; the env and chdir helpers return a restore func
// meant for t.Cleanup.
package testutil
