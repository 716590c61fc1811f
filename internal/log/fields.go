package log

// Common field names for structured logging
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldQuery      = "query"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"
	FieldBackend    = "backend"
	FieldSource     = "source"
	FieldChart      = "chart"
	FieldRows       = "rows"
	FieldSkipped    = "skipped_rows"
	FieldCriteria   = "criteria"
	FieldPreset     = "preset"
	FieldCacheHit   = "cache_hit"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentDataset = "dataset"
	ComponentStorage = "storage"
	ComponentCache   = "cache"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentExport  = "export"
	ComponentBackend = "backend"
)

// Operations defines standard operation names
const (
	OpLoad      = "load"
	OpParse     = "parse"
	OpFilter    = "filter"
	OpAggregate = "aggregate"
	OpIngest    = "ingest"
	OpExport    = "export"
	OpRefresh   = "refresh"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)
