package log

// Common field names for structured logging
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
	FieldTaskID     = "task_id"
	FieldPillarID   = "pillar_id"
	FieldCategoryID = "category_id"
	FieldEntryDate  = "entry_date"
	FieldMinutes    = "minutes"
	FieldPeriodKey  = "period_key"
	FieldScope      = "scope"
	FieldStartDate  = "start_date"
	FieldEndDate    = "end_date"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentHTTP    = "http"
	ComponentEngine  = "engine"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentStreaks = "streaks"
	ComponentReport  = "report"
	ComponentCache   = "cache"
)
