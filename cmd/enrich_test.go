package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sells-group/venue-scout/internal/model"
)

func TestSplitIDs(t *testing.T) {
	assert.Nil(t, splitIDs(""))
	assert.Equal(t, []string{"L1"}, splitIDs("L1"))
	assert.Equal(t, []string{"L1", "L2"}, splitIDs("L1,L2"))
	assert.Equal(t, []string{"L1", "L2"}, splitIDs(" L1 , L2 ,"))
}

func TestFormatReport(t *testing.T) {
	out := formatReport("run-1", &model.Report{
		Processed:  4,
		Successful: 2,
		Failed:     1,
		Skipped:    1,
		Errors:     []string{"lead L3: connection refused"},
	})

	assert.Contains(t, out, "run run-1")
	assert.Contains(t, out, "processed:  4")
	assert.Contains(t, out, "successful: 2")
	assert.Contains(t, out, "failed:     1")
	assert.Contains(t, out, "skipped:    1")
	assert.Contains(t, out, "error: lead L3: connection refused")
}
