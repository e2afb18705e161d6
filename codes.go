package transitgate

// Rule codes (exported consts for IDE completion and type safety by convention).
// A field check's rule id is "<table>.<field>.<code>"; domain and relational
// rules use catalog-chosen dotted ids ending in one of these codes, so the
// severity table can target either a whole code family or one concrete rule.
const (
	// Field checks
	CodeRequired     = "required"
	CodeInvalidType  = "invalid_type"
	CodePattern      = "pattern"
	CodeTooSmall     = "too_small"
	CodeTooBig       = "too_big"
	CodeInvalidEnum  = "invalid_enum"
	CodeUnknownField = "unknown_field"

	// Domain checks (single-record or grouped business semantics)
	CodeOutOfOrder      = "out_of_order"
	CodeOutOfRange      = "out_of_range"
	CodeEndsBeforeStart = "ends_before_start"
	CodeBeforeRelated   = "before_related"
	CodeFutureDate      = "future_date"
	CodeTooOld          = "too_old"
	CodeNotPositive     = "not_positive"
	CodeNegative        = "negative"
	CodeUnauthorized    = "unauthorized"

	// Relational checks
	CodeDuplicate    = "duplicate"
	CodeUnknownRef   = "unknown_ref"
	CodeMissingChild = "missing_child"
)
