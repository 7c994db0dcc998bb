package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLogUseCaseObserver_WritesFields(t *testing.T) {
	var buf bytes.Buffer
	obs := NewLogUseCaseObserver(&buf)

	obs.ObserveUseCase(context.Background(), UseCaseEvent{
		Name:     "select",
		Duration: 3 * time.Millisecond,
		Success:  true,
		Fields:   map[string]any{"uid": "A@Y1"},
	})
	out := buf.String()
	assert.Contains(t, out, "use_case=select")
	assert.Contains(t, out, "uid=A@Y1")
	assert.Contains(t, out, "level=INFO")

	buf.Reset()
	obs.ObserveUseCase(context.Background(), UseCaseEvent{Name: "rebuild", Err: errors.New("boom")})
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "error=boom")
}

func TestUseCaseObserverOrNoop(t *testing.T) {
	assert.IsType(t, NoopUseCaseObserver{}, useCaseObserverOrNoop(nil))
	assert.IsType(t, NoopUseCaseObserver{}, NewLogUseCaseObserver(nil))

	a, b := &recordingObserver{}, &recordingObserver{}
	assert.Same(t, a, useCaseObserverOrNoop([]UseCaseObserver{nil, a}))

	multi := useCaseObserverOrNoop([]UseCaseObserver{a, nil, b})
	multi.ObserveUseCase(context.Background(), UseCaseEvent{Name: "deselect"})
	assert.Equal(t, []string{"deselect"}, a.names())
	assert.Equal(t, []string{"deselect"}, b.names())
}
