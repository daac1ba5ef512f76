package scheduling

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"agenda-backend/models"
)

func TestClassify(t *testing.T) {
	assert.Nil(t, Classify("op", nil))

	ve := &ValidationError{Fields: []string{"horaCita"}}
	assert.Same(t, ve, Classify("op", ve))

	wrapped := fmt.Errorf("tx: %w", &ConflictError{Reason: ReasonClosedAgenda})
	assert.Equal(t, wrapped, Classify("op", wrapped))

	ce, ok := Classify("op", fmt.Errorf("insert: %w", models.ErrDuplicate)).(*ConflictError)
	assert.True(t, ok)
	assert.Equal(t, ReasonSlotUnavailable, ce.Reason)

	se, ok := Classify("commit", errBoom).(*StorageError)
	assert.True(t, ok)
	assert.Equal(t, "commit: connection reset", se.Error())
	assert.ErrorIs(t, se, errBoom)
}

func TestErrorMessages(t *testing.T) {
	assert.Equal(t, "missing required fields: a, b", (&ValidationError{Fields: []string{"a", "b"}}).Error())
	assert.Equal(t, "bad: a", (&ValidationError{Fields: []string{"a"}, Msg: "bad"}).Error())
	assert.Equal(t, "service 3 not found", (&NotFoundError{Entity: "service", ID: uint(3)}).Error())
	assert.Equal(t, "slot unavailable", (&ConflictError{Reason: ReasonSlotUnavailable}).Error())
}
