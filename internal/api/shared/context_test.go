package shared

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/phrazzld/microcase-api/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestCallerContext(t *testing.T) {
	assert.False(t, CallerFrom(context.Background()).IsAuthenticated())

	user := uuid.New()
	ctx := WithCaller(context.Background(), domain.NewCaller(user))
	assert.True(t, CallerFrom(ctx).Is(user))
}

func TestTraceID(t *testing.T) {
	assert.Empty(t, GetTraceID(context.Background()))

	first := GetTraceID(SetTraceID(context.Background()))
	second := GetTraceID(SetTraceID(context.Background()))

	assert.Len(t, first, 32)
	assert.NotEqual(t, first, second)
}
