package log

// Standard attribute keys for step lifecycle events. Using these keys
// consistently keeps fit/bake logs filterable by step, column, and
// phase across a whole recipe.
const (
	// StepIDKey identifies a specific step instance, e.g. "lencode_glm_a1b2c3d4".
	StepIDKey = "step.id"

	// StepTypeKey identifies the step kind, e.g. "lencode_glm".
	StepTypeKey = "step.type"

	// OperationKey is the lifecycle operation: "fit", "bake", "tidy".
	OperationKey = "step.operation"

	// ColumnKey names the predictor column being encoded.
	ColumnKey = "data.column"

	// OutcomeKey names the outcome column a fit conditions on.
	OutcomeKey = "data.outcome"

	// RowsKey is the number of usable rows that entered a fit.
	RowsKey = "data.rows"

	// LevelsKey is the number of distinct levels observed for a column.
	LevelsKey = "data.levels"

	// FamilyKey is the fitting family: "gaussian" or "binomial".
	FamilyKey = "fit.family"

	// IterationsKey is the number of iterations an iterative fit ran.
	IterationsKey = "fit.iterations"
)

// ErrAttrKey is the field key under which errors are logged.
const ErrAttrKey = "error"
