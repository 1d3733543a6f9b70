//go:build !darwin && !windows

package platform

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	fileManagerName = "org.freedesktop.FileManager1"
	fileManagerPath = "/org/freedesktop/FileManager1"
)

// showFolders asks the session's file manager over D-Bus. Tests replace it.
var showFolders = func(ctx context.Context, uri string) error {
	conn, err := dbus.ConnectSessionBus(dbus.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("connect session bus: %w", err)
	}
	defer conn.Close()

	obj := conn.Object(fileManagerName, dbus.ObjectPath(fileManagerPath))
	call := obj.CallWithContext(ctx, fileManagerName+".ShowFolders", 0, []string{uri}, "")
	if call.Err != nil {
		return fmt.Errorf("ShowFolders: %w", call.Err)
	}
	return nil
}

func openDirectory(ctx context.Context, dir string) error {
	if err := showFolders(ctx, folderURI(dir)); err == nil {
		return nil
	}
	return run(ctx, "xdg-open", dir)
}
