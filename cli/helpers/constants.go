package helpers

// OutputFormat represents the values accepted by --format
type OutputFormat string

const (
	OutputFormatAuto OutputFormat = "auto"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatTUI  OutputFormat = "tui"
)

// Error codes reported in CliError.Code
const (
	CodeNetwork      = "NETWORK_ERROR"
	CodeNotFound     = "NOT_FOUND"
	CodeHTTP         = "HTTP_ERROR"
	CodeParse        = "PARSE_ERROR"
	CodeValidation   = "VALIDATION_ERROR"
	CodeCanceled     = "OPERATION_CANCELED"
	CodeTimeout      = "OPERATION_TIMEOUT"
	CodeConfirmation = "CONFIRMATION_REQUIRED"
	CodeMissingFlag  = "MISSING_FLAG"
	CodeEmptyFlag    = "EMPTY_FLAG"
	CodeInvalidPath  = "INVALID_PATH"
	CodeFileWrite    = "FILE_WRITE_ERROR"
	CodeCommand      = "COMMAND_FAILED"
	CodeTUIRequired  = "TUI_REQUIRED"
)
