package cards

import "pwcards/internal/model"

// History records client operations that changed remote state.
type History interface {
	// RecordOperation stores a finished operation and returns its ID.
	RecordOperation(op *model.Operation) (int64, error)

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*model.Operation, error)

	// Close releases the underlying storage.
	Close() error
}

// Operation names recorded in History.
const (
	OperationCreate = "Create"
	OperationUpdate = "Update"
	OperationDelete = "Delete"
	OperationExport = "Export"
	OperationImport = "Import"
)

// recorder writes operations to an optional History. Failing to record is
// logged and never fails the operation itself.
type recorder struct {
	history History
	clock   Clock
	logger  Logger
}

func (r recorder) record(operation, entryID string, started model.Operation, err error) {
	if r.history == nil {
		return
	}

	finished := r.clock.Now()
	op := started
	op.Operation = operation
	op.EntryID = entryID
	op.FinishedAt = &finished
	op.Status = "success"
	if err != nil {
		op.Status = "error"
		op.Message = err.Error()
	}

	if _, rerr := r.history.RecordOperation(&op); rerr != nil {
		r.logger.Warn("recording operation failed", "operation", operation, "error", rerr)
	}
}

func (r recorder) start() model.Operation {
	return model.Operation{StartedAt: r.clock.Now()}
}
