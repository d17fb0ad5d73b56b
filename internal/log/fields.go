package log

// Common field names for structured logging.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldClientIP   = "client_ip"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatusCode = "status_code"
	FieldDuration   = "duration_ms"
	FieldError      = "error"
	FieldOperation  = "operation"

	FieldTransactionID = "transaction_id"
	FieldAmount        = "amount"
	FieldCategory      = "category"
	FieldCategoryID    = "category_id"
	FieldReportID      = "report_id"
	FieldWeekStart     = "week_start"
	FieldTotalSpent    = "total_spent"
)

// Components defines standard component names.
const (
	ComponentApp       = "app"
	ComponentHTTP      = "http"
	ComponentStorage   = "storage"
	ComponentAMQP      = "amqp"
	ComponentWorker    = "worker"
	ComponentExport    = "export"
	ComponentReports   = "reports"
	ComponentDashboard = "dashboard"
)

// Operations defines standard operation names.
const (
	OpRecord   = "record"
	OpUpdate   = "update"
	OpDelete   = "delete"
	OpGenerate = "generate"
	OpExport   = "export"
	OpStartup  = "startup"
	OpShutdown = "shutdown"
)
