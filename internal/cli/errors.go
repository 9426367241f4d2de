package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Schema errors
	ErrSchemaNotFound     = "SCHEMA_NOT_FOUND"
	ErrSchemaInvalid      = "SCHEMA_INVALID"
	ErrTypeNotFound       = "TYPE_NOT_FOUND"
	ErrOwnershipConflict  = "OWNERSHIP_CONFLICT"

	// Note errors
	ErrNoteNotFound = "NOTE_NOT_FOUND"
	ErrNoteExists   = "NOTE_EXISTS"

	// Reference errors
	ErrRefNotFound  = "REF_NOT_FOUND"
	ErrRefAmbiguous = "REF_AMBIGUOUS"

	// Graph errors
	ErrCycleDetected = "CYCLE_DETECTED"

	// Batch errors
	ErrBatchConflict = "BATCH_CONFLICT"
	ErrNeedsConfirm  = "NEEDS_CONFIRM"

	// File errors
	ErrFileNotFound   = "FILE_NOT_FOUND"
	ErrFileExists     = "FILE_EXISTS"
	ErrFileReadError  = "FILE_READ_ERROR"
	ErrFileWriteError = "FILE_WRITE_ERROR"

	// Input errors
	ErrInvalidInput = "INVALID_INPUT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)
