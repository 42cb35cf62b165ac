package logging

// Standardized field names for structured logging.
// Keep these stable: summary lines are grepped by downstream tooling.
const (
	FieldFile        = "file_path"
	FieldFormat      = "format"
	FieldParser      = "parser"
	FieldRow         = "row"
	FieldColumn      = "column"
	FieldDescription = "description"
	FieldCategory    = "category"
	FieldStrategy    = "strategy"
	FieldProvider    = "provider"
	FieldReason      = "reason"
	FieldOperation   = "operation"
	FieldError       = "error"
	FieldCount       = "count"
	FieldDeclared    = "declared"
	FieldDelimiter   = "delimiter"
	FieldInputFile   = "input_file"
	FieldOutputFile  = "output_file"
	FieldUploadID    = "upload_id"
	FieldDuration    = "duration_ms"
)
