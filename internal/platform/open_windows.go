package platform

import "context"

func openDirectory(ctx context.Context, dir string) error {
	return run(ctx, "explorer", dir)
}
