package log

import "homefinance/internal/core"

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldDuration     = "duration_ms"
	FieldTable        = "table"
	FieldStatus       = "status"
	FieldRows         = "rows"
	FieldCoerced      = "coerced"
	FieldAbsentTables = "absent_tables"
	FieldBackend      = "backend"
	FieldFormat       = "format"
	FieldLocale       = "locale"
	FieldReportID     = "report_id"
)

// Components defines standard component names
const (
	ComponentApp     = "app"
	ComponentReport  = "report"
	ComponentSheets  = "sheets"
	ComponentStorage = "storage"
	ComponentAMQP    = "amqp"
	ComponentWorker  = "worker"
	ComponentBackend = "backend"
	ComponentRender  = "render"
)

// Operations defines standard operation names
const (
	OpFetch     = "fetch"
	OpNormalize = "normalize"
	OpReconcile = "reconcile"
	OpImport    = "import"
	OpPublish   = "publish"
	OpRender    = "render"
	OpStartup   = "startup"
	OpShutdown  = "shutdown"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

func NewFields() LogFields {
	return make(LogFields)
}

func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithTable adds the name, status and row count of a fetched table.
func (f LogFields) WithTable(t core.TableResult) LogFields {
	f[FieldTable] = string(t.Name)
	f[FieldStatus] = t.Status().String()
	f[FieldRows] = t.Table.Len()
	if t.Err != nil {
		f[FieldError] = t.Err.Error()
	}
	return f
}

// WithNormalize adds the counters of an amount normalization.
func (f LogFields) WithNormalize(name core.TableName, stats core.NormalizeStats) LogFields {
	f[FieldTable] = string(name)
	f[FieldRows] = stats.Rows
	f[FieldCoerced] = stats.Coerced
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}
