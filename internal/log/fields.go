package log

// Common field names for structured logging
const (
	FieldComponent   = "component"
	FieldRunID       = "run_id"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldBatchGroup  = "group"
	FieldBatchGroups = "groups"
	FieldLocation    = "location"
	FieldCategory    = "category"
	FieldAccount     = "account"
	FieldSymbol      = "symbol"
	FieldAmount      = "amount"
	FieldTxID        = "transaction_id"
	FieldChartFile   = "file"
	FieldBackend     = "backend"
)

// Components defines standard component names
const (
	ComponentApp      = "app"
	ComponentImporter = "importer"
	ComponentClassify = "classify"
	ComponentBatch    = "batch"
	ComponentSheets   = "sheets"
	ComponentStorage  = "storage"
	ComponentCharts   = "charts"
	ComponentWorker   = "worker"
	ComponentAMQP     = "amqp"
)

// Operations defines standard operation names
const (
	OpImport   = "import"
	OpAppend   = "append"
	OpRead     = "read"
	OpClassify = "classify"
	OpFlush    = "flush"
	OpRender   = "render"
	OpRefresh  = "refresh"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
