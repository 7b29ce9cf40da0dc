package ports

import "github.com/renato0307/idevman/internal/domain"

// ToolResolver maps logical tool names to executables on disk
type ToolResolver interface {
	// Resolve returns the tool location, or false when it is not installed right now
	Resolve(name string) (domain.ToolDescriptor, bool)
}
