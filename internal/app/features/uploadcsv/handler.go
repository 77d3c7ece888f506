// internal/app/features/uploadcsv/handler.go
package uploadcsv

import (
	errorsfeature "github.com/dalemusser/schoolfinder/internal/app/features/errors"
	"github.com/dalemusser/schoolfinder/internal/app/system/imports"
	"go.uber.org/zap"
)

// Handler serves the admin CSV import endpoints.
type Handler struct {
	Importer *imports.Importer
	ErrLog   *errorsfeature.ErrorLogger
	Log      *zap.Logger
}

// NewHandler constructs an upload Handler around an Importer.
func NewHandler(im *imports.Importer, errLog *errorsfeature.ErrorLogger, logger *zap.Logger) *Handler {
	return &Handler{
		Importer: im,
		ErrLog:   errLog,
		Log:      logger,
	}
}
