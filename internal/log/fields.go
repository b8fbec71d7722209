package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRequestID   = "request_id"
	FieldClientIP    = "client_ip"
	FieldMethod      = "method"
	FieldPath        = "path"
	FieldQuery       = "query"
	FieldStatusCode  = "status_code"
	FieldDuration    = "duration_ms"
	FieldUserAgent   = "user_agent"
	FieldSuccess     = "success"
	FieldError       = "error"
	FieldOperation   = "operation"
	FieldLoadID      = "load_id"
	FieldSource      = "source"
	FieldSourceRows  = "source_rows"
	FieldDroppedRows = "dropped_rows"
	FieldRecordCount = "record_count"
	FieldSynthetic   = "synthetic_records"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentHTTP     = "http"
	ComponentLoader   = "loader"
	ComponentFetch    = "fetch"
	ComponentWorkbook = "workbook"
	ComponentCache    = "cache"
	ComponentSecurity = "security"
	ComponentTrace    = "trace"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpDecode    = "decode"
	OpReconcile = "reconcile"
	OpNormalize = "normalize"
	OpResolve   = "resolve"
	OpSynthesis = "synthesis"
	OpRefresh   = "refresh"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
