//go:build darwin || windows

package platform

import "testing"

func stubFileManager(t *testing.T, err error) {}
