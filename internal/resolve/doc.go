// SPDX-License-Identifier: MPL-2.0

// Package resolve turns the raw paths given on the command line into a
// Mapping: the set of staging Roots and the files attached to them.
//
// Resolution runs in three steps:
//
//  1. An explicit pass classifies each input. Loose files are attached to the
//     pseudo-root "." and every directory becomes its own Root.
//  2. A recursive pass walks each directory Root, registering one Root per
//     subdirectory and attaching every file with a recognized extension.
//  3. A merge combines both passes. Explicit metadata wins on name collisions,
//     recursively discovered files and child Roots are kept.
//
// Resolution never touches the staging tree; it only computes where each file
// will be mirrored.
package resolve
