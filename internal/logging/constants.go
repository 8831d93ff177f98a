package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldFile       = "file_path"
	FieldParser     = "parser"
	FieldBank       = "bank"
	FieldAccount    = "account"
	FieldCompany    = "company_id"
	FieldReportType = "report_type"
	FieldCategory   = "category"
	FieldReason     = "reason"
	FieldOperation  = "operation"
	FieldStatus     = "status"
	FieldError      = "error"
	FieldCount      = "count"
	FieldRows       = "rows"
	FieldSheet      = "sheet"
	FieldInputFile  = "input_file"
	FieldOutputFile = "output_file"
)
