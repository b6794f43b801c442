// Package notify delivers generation messages to the user through the application logger.
package notify

import (
	"go.uber.org/zap"
)

const pathFieldName = "path"

// Service implements barrel.Notifier on top of a zap logger.
type Service struct {
	logger *zap.Logger
}

// NewService constructs a Service. A nil logger discards every message.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger}
}

// Info reports progress such as the index fallback or a completed root.
func (service *Service) Info(path string, message string) {
	service.logger.Info(message, zap.String(pathFieldName, path))
}

// Warning reports a skipped folder.
func (service *Service) Warning(path string, message string) {
	service.logger.Warn(message, zap.String(pathFieldName, path))
}

// Error reports a failed write. The traversal keeps going, so this never exits.
func (service *Service) Error(path string, message string) {
	service.logger.Error(message, zap.String(pathFieldName, path))
}
