package history

import (
	"fmt"

	"ai-docchat-be/internal/pkg/logger"
	"ai-docchat-be/internal/repository/unitofwork"
)

// NewStore selects the history backend. "file" needs only a data
// directory; "database" needs a repository factory.
func NewStore(backend, dataDir string, factory unitofwork.RepositoryFactory, log logger.ILogger) (Store, error) {
	switch backend {
	case "file":
		return NewFileStore(dataDir, log), nil
	case "database":
		if factory == nil {
			return nil, fmt.Errorf("database history backend requires a database connection")
		}
		return NewGormStore(factory), nil
	default:
		return nil, fmt.Errorf("unknown history backend: %s", backend)
	}
}
