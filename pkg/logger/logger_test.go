package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestAuditAttachesActor(t *testing.T) {
	var buf bytes.Buffer
	Logger = zerolog.New(&buf)

	Audit(context.Background(), 42).Uint("work_order_id", 7).Msg("Work order cancelled")

	out := buf.String()
	assert.Contains(t, out, `"actor_id":42`)
	assert.Contains(t, out, `"work_order_id":7`)
	assert.Contains(t, out, "Work order cancelled")
}
