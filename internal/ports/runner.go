package ports

import (
	"context"
	"time"

	"github.com/renato0307/idevman/internal/domain"
)

// CommandRunner executes external tools and never returns an error:
// every failure is folded into the result kind
type CommandRunner interface {
	Run(ctx context.Context, name string, args []string, timeout time.Duration) domain.CommandResult
}
