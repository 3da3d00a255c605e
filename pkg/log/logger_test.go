package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTestLoggerCaptures(t *testing.T) {
	tl := NewTestLogger()
	tl.Info("fit complete", StepIDKey, "lencode_glm_deadbeef", LevelsKey, 3)

	recs := tl.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "info", recs[0].Level)
	assert.Equal(t, "fit complete", recs[0].Msg)
	assert.Equal(t, "lencode_glm_deadbeef", recs[0].Fields[StepIDKey])
	assert.Equal(t, 3, recs[0].Fields[LevelsKey])
}

func TestWithPropagatesFields(t *testing.T) {
	tl := NewTestLogger()
	child := tl.With(StepTypeKey, "lencode_bayes")
	child.Debug("resolving selectors")

	recs := tl.Records()
	require.Len(t, recs, 1)
	assert.Equal(t, "lencode_bayes", recs[0].Fields[StepTypeKey])
}

func TestPairsHandlesOddFields(t *testing.T) {
	fields := pairs([]any{"a", 1, "dangling"})
	assert.Equal(t, 1, fields["a"])
	assert.Equal(t, "dangling", fields["!BADKEY"])
}

func TestSetLevelRejectsUnknown(t *testing.T) {
	assert.Error(t, SetLevel("loud"))
	assert.NoError(t, SetLevel("debug"))
	assert.NoError(t, SetLevel("info"))
}
