package metrics

import (
	"bytes"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/cinelens/pkg/errors"
)

func TestObserveStage(t *testing.T) {
	c := NewCollector("cinelens_test")

	c.ObserveStage("load", 20*time.Millisecond, 10866)
	c.ObserveStage("dedupe", time.Millisecond, 10865)
	c.ObserveStage("load", 10*time.Millisecond, 10866)

	assert.Equal(t, []string{"load", "dedupe"}, c.Stages())
	assert.Equal(t, 10865.0, testutil.ToFloat64(c.stageRows.WithLabelValues("dedupe")))
	assert.Equal(t, 2, testutil.CollectAndCount(c.stageDuration), "one histogram per stage")
}

func TestRecordError(t *testing.T) {
	c := NewCollector("cinelens_test")

	c.RecordError("load", errors.New(errors.ErrorTypeParse, "bad row"))
	c.RecordError("load", errors.New(errors.ErrorTypeParse, "bad row"))
	c.RecordError("load", nil)

	assert.Equal(t, 2.0, testutil.ToFloat64(c.errorsTotal.WithLabelValues("load", "parse")))
}

func TestCollectorsAreIsolated(t *testing.T) {
	a := NewCollector("cinelens_test")
	b := NewCollector("cinelens_test")

	a.ObserveStage("load", time.Millisecond, 5)

	assert.Empty(t, b.Stages())
	assert.Equal(t, 0, testutil.CollectAndCount(b.stageRows))
}

func TestWriteText(t *testing.T) {
	c := NewCollector("cinelens_test")
	c.ObserveStage("load", 5*time.Millisecond, 3)

	var buf bytes.Buffer
	require.NoError(t, c.WriteText(&buf))

	out := buf.String()
	assert.Contains(t, out, "# TYPE cinelens_test_stage_rows gauge")
	assert.Contains(t, out, `cinelens_test_stage_rows{stage="load"} 3`)
	assert.Contains(t, out, "cinelens_test_stage_duration_seconds_count")
}

func TestTimer(t *testing.T) {
	timer := NewTimer("impute")
	time.Sleep(time.Millisecond)
	first := timer.Stop()
	assert.GreaterOrEqual(t, first, time.Millisecond)
	assert.GreaterOrEqual(t, timer.Stop(), first)
	assert.Equal(t, "impute", timer.Name())
}
