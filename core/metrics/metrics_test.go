package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestRecordWrite(t *testing.T) {
	before := testutil.ToFloat64(WritesTotal.WithLabelValues("published"))
	RecordWrite("published")
	assert.Equal(t, before+1, testutil.ToFloat64(WritesTotal.WithLabelValues("published")))
}

func TestRecordEnrichment(t *testing.T) {
	before := testutil.ToFloat64(EnrichmentsTotal.WithLabelValues(EnrichmentDegraded))
	RecordEnrichment(EnrichmentDegraded)
	RecordEnrichment(EnrichmentDegraded)
	assert.Equal(t, before+2, testutil.ToFloat64(EnrichmentsTotal.WithLabelValues(EnrichmentDegraded)))
}

func TestRecordRunAndConflict(t *testing.T) {
	runs := testutil.ToFloat64(RunsTotal.WithLabelValues("completed"))
	conflicts := testutil.ToFloat64(ConflictsTotal)

	RecordRun("completed", 2*time.Second)
	RecordConflict()

	assert.Equal(t, runs+1, testutil.ToFloat64(RunsTotal.WithLabelValues("completed")))
	assert.Equal(t, conflicts+1, testutil.ToFloat64(ConflictsTotal))
}
