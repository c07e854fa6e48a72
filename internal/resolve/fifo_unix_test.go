// SPDX-License-Identifier: MPL-2.0

//go:build !windows

package resolve

import "syscall"

func mkfifo(path string) error {
	return syscall.Mkfifo(path, 0o644)
}
