package build

import (
	"context"

	"github.com/cruciblehq/dockerpack/internal/pipeline"
)

// Container operations the builder depends on.
//
// Implemented by *runtime.Runtime. Operations on containers the driver does
// not know (Stop, Remove) are expected to be no-ops.
type Driver interface {
	Containers(ctx context.Context) (map[string]string, error)
	HasContainer(ctx context.Context, name string) (bool, error)
	Run(ctx context.Context, unit pipeline.Unit) error
	Exec(ctx context.Context, unit pipeline.Unit, step pipeline.Step) error
	Copy(ctx context.Context, unit pipeline.Unit, spec string) error
	Stop(ctx context.Context, name string) error
	Remove(ctx context.Context, name string) error
	Commit(ctx context.Context, build pipeline.ImageBuild) error
	HasImage(ctx context.Context, ref string) (bool, error)
}
