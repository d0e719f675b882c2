package events

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode(t *testing.T) {
	id := uuid.New()

	evt, err := Decode(`{"kind":"account_created","email":"a@x.com","account_id":"` + id.String() + `"}`)
	require.NoError(t, err)
	assert.Equal(t, KindAccountCreated, evt.Kind)
	assert.Equal(t, "a@x.com", evt.Email)
	assert.Equal(t, id, evt.AccountID)

	evt, err = Decode(`{"kind":"candidate_status_created","email":"a@x.com","exam_code":"Z9","first_name":null,"last_name":null}`)
	require.NoError(t, err)
	assert.Equal(t, "Z9", evt.ExamCode)
	assert.Empty(t, evt.FirstName)

	evt, err = Decode(`{"kind":"exam_updated","email":"a@x.com","old_exam_done":false,"new_exam_done":true}`)
	require.NoError(t, err)
	require.NotNil(t, evt.OldExamDone)
	assert.False(t, *evt.OldExamDone)
	assert.True(t, evt.NewExamDone)

	evt, err = Decode(`{"kind":"exam_updated","email":"a@x.com","old_exam_done":null,"new_exam_done":true}`)
	require.NoError(t, err)
	assert.Nil(t, evt.OldExamDone)
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode(`not json`)
	assert.Error(t, err)

	_, err = Decode(`{"email":"a@x.com"}`)
	assert.Error(t, err)
}
