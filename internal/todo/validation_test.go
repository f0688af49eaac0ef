package todo

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fieldErrors(t *testing.T, err error) map[string][]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestValidateTitle_BlankValues(t *testing.T) {
	for _, in := range []string{"", " ", "   ", "\t\n", " \r\n\t "} {
		_, err := Payload{Title: Str(in), Status: Str("open")}.Validate(false)
		fields := fieldErrors(t, err)
		assert.Equal(t, []string{MsgTitleBlank}, fields["title"], "input %q", in)
	}
}

func TestValidateTitle_TrimsAndBounds(t *testing.T) {
	cases := []struct {
		in   string
		want string
		msg  string
	}{
		{in: "Buy milk", want: "Buy milk"},
		{in: "   Buy milk  ", want: "Buy milk"},
		{in: "abc", want: "abc"},
		{in: "  ab  ", msg: MsgTitleTooShort},
		{in: "ab", msg: MsgTitleTooShort},
		{in: strings.Repeat("a", 200), want: strings.Repeat("a", 200)},
		{in: strings.Repeat("a", 201), msg: MsgTitleTooLong},
		// raw length counts, so surrounding spaces can push a title over
		{in: " " + strings.Repeat("a", 200), msg: MsgTitleTooLong},
		{in: strings.Repeat("é", 200), want: strings.Repeat("é", 200)},
	}
	for _, tc := range cases {
		got, msg := ValidateTitle(tc.in)
		assert.Equal(t, tc.msg, msg, "input len %d", len(tc.in))
		assert.Equal(t, tc.want, got)
	}
}

func TestValidateDescription_Bounds(t *testing.T) {
	assert.Empty(t, ValidateDescription(""))
	assert.Empty(t, ValidateDescription(strings.Repeat("d", 1000)))
	assert.Equal(t, MsgDescriptionLong, ValidateDescription(strings.Repeat("d", 1001)))

	ch, err := Payload{Title: Str("Task"), Description: Str("  padded  ")}.Validate(false)
	require.NoError(t, err)
	require.NotNil(t, ch.Description)
	assert.Equal(t, "  padded  ", *ch.Description)
}

func TestValidateStatus(t *testing.T) {
	for _, s := range []string{"open", "in_progress", "done"} {
		assert.Empty(t, ValidateStatus(s), s)
	}
	for _, s := range []string{"", "OPEN", "closed", "in progress", "done "} {
		assert.Equal(t, MsgStatusInvalid, ValidateStatus(s), s)
	}
}

func TestValidate_CollectsAllFieldErrors(t *testing.T) {
	p := Payload{
		Title:       Str(" "),
		Description: Str(strings.Repeat("x", 1001)),
		Status:      Str("archived"),
	}
	_, err := p.Validate(false)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{MsgTitleBlank}, fields["title"])
	assert.Equal(t, []string{MsgDescriptionLong}, fields["description"])
	assert.Equal(t, []string{MsgStatusInvalid}, fields["status"])
}

func TestValidate_RequiredTitleOnlyWhenNotPartial(t *testing.T) {
	_, err := Payload{Status: Str("done")}.Validate(false)
	assert.Equal(t, []string{MsgRequired}, fieldErrors(t, err)["title"])

	ch, err := Payload{Status: Str("done")}.Validate(true)
	require.NoError(t, err)
	assert.Nil(t, ch.Title)
	assert.Nil(t, ch.Description)
	require.NotNil(t, ch.Status)
	assert.Equal(t, StatusDone, *ch.Status)
}

func TestPayload_DecodeNullAndWrongTypes(t *testing.T) {
	var p Payload
	require.NoError(t, json.Unmarshal([]byte(`{"title":null,"description":12,"id":99,"created_at":"x"}`), &p))
	assert.True(t, p.Title.Set)
	assert.True(t, p.Title.Null)
	assert.True(t, p.Description.Set)
	assert.False(t, p.Description.Valid)
	assert.False(t, p.Status.Set)

	_, err := p.Validate(true)
	fields := fieldErrors(t, err)
	assert.Equal(t, []string{MsgNull}, fields["title"])
	assert.Equal(t, []string{MsgNotString}, fields["description"])
	assert.NotContains(t, fields, "status")
}

func TestTodoApply(t *testing.T) {
	td := &Todo{ID: 1, Title: "Old title", Description: "keep", Status: StatusOpen}
	done := StatusDone
	td.Apply(Changes{Status: &done})
	assert.Equal(t, "Old title", td.Title)
	assert.Equal(t, "keep", td.Description)
	assert.Equal(t, StatusDone, td.Status)
}

func TestWrapStore(t *testing.T) {
	assert.NoError(t, WrapStore("get", nil))
	assert.ErrorIs(t, WrapStore("get", ErrNotFound), ErrNotFound)

	cause := errors.New("disk I/O error")
	err := WrapStore("insert", cause)
	var se *StoreError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "insert", se.Op)
	assert.ErrorIs(t, err, cause)
	assert.Same(t, err, WrapStore("again", err))
}
