package logging

// Field names shared across log output so entries can be filtered consistently.
const (
	FieldFile        = "file_path"
	FieldComponent   = "component"
	FieldCategory    = "category"
	FieldRule        = "rule"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldDuration    = "duration_ms"
	FieldCount       = "count"
	FieldTotal       = "total"
	FieldFailures    = "failures"
	FieldWorkers     = "workers"
	FieldRunID       = "run_id"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldDiscrepancy = "discrepancy"
)
