// SPDX-License-Identifier: MPL-2.0

//go:build windows

package resolve

import "errors"

func mkfifo(string) error {
	return errors.New("mkfifo is not supported on windows")
}
