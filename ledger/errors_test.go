package ledger

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapping(t *testing.T) {
	missing := &MissingSourceError{Source: "primary feed", Path: "/data/feed.xlsx"}
	schema := &SchemaError{Source: "ledger", Missing: []string{ColOrderID, ColSLAStatus}}

	assert.True(t, IsFatal(missing))
	assert.True(t, IsFatal(schema))
	assert.True(t, IsFatal(fmt.Errorf("wrapped: %w", missing)))
	assert.False(t, IsFatal(fmt.Errorf("plain failure")))
	assert.False(t, IsFatal(nil))

	assert.Equal(t, "primary feed not found: /data/feed.xlsx", missing.Error())
	assert.Equal(t, "ledger: missing required columns: ORDER_ID, SLA_STATUS", schema.Error())
}
