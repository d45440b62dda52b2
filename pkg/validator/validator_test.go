package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPhone(t *testing.T) {
	accepted := map[string]string{
		"9876543210":       "9876543210",
		"+91-9876543210":   "9876543210",
		"919876543210":     "9876543210",
		"+91 98765 43210":  "9876543210",
		"98765-43210":      "9876543210",
		"9198765432":       "9198765432",
		" +91 9876543210 ": "9876543210",
	}
	for raw, want := range accepted {
		got, err := Phone(raw, "")
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "12345", "98765432101", "+929876543210", "98765abcde", "+1-9876543210"} {
		_, err := Phone(raw, "Phone")
		require.Error(t, err, raw)
		assert.Contains(t, err.Error(), "Phone must be 10 digits")
	}
}

func TestEmail(t *testing.T) {
	for _, raw := range []string{"user@example.com", "first.last+tag@mail.example.co.in", "a_b%c@x-y.org"} {
		got, err := Email(raw, "")
		require.NoError(t, err, raw)
		assert.Equal(t, raw, got)
	}
	for _, raw := range []string{"", "user", "user@", "user@example", "user@example.c", "us er@example.com"} {
		_, err := Email(raw, "")
		assert.Error(t, err, raw)
	}
}

func TestDate(t *testing.T) {
	got, err := Date("2024-12-31", "")
	require.NoError(t, err)
	assert.Equal(t, "2024-12-31", got)

	_, err = Date("2024-02-29", "")
	assert.NoError(t, err)

	for _, raw := range []string{"2024-02-30", "31-12-2024", "2024-13-01", "2024-1-5", "2023-02-29", ""} {
		_, err := Date(raw, "Date of Birth")
		require.Error(t, err, raw)
		assert.Equal(t, "Date of Birth must be in YYYY-MM-DD format (e.g., 2024-12-31)", err.Error())
	}
}

func TestTime(t *testing.T) {
	for _, raw := range []string{"00:00", "14:30", "23:59"} {
		_, err := Time(raw, "")
		assert.NoError(t, err, raw)
	}
	for _, raw := range []string{"24:00", "9:30", "14:60", "14:30:00", "2pm", ""} {
		_, err := Time(raw, "")
		assert.Error(t, err, raw)
	}
}

func TestID(t *testing.T) {
	got, err := ID("7", "X")
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	got, err = ID(" 007 ", "X")
	require.NoError(t, err)
	assert.Equal(t, "7", got)

	_, err = ID("0", "X")
	require.Error(t, err)
	assert.Equal(t, "X must be a positive number", err.Error())

	_, err = ID("-5", "X")
	require.Error(t, err)
	assert.Equal(t, "X must be a positive number", err.Error())

	_, err = ID("seven", "Patient ID")
	require.Error(t, err)
	assert.Equal(t, "Patient ID must be a valid number", err.Error())

	var fieldErr *FieldError
	require.True(t, errors.As(err, &fieldErr))
	assert.Equal(t, "Patient ID", fieldErr.Field)
}

func TestName(t *testing.T) {
	got, err := Name("John Smith", "")
	require.NoError(t, err)
	assert.Equal(t, "John Smith", got)

	got, err = Name("  Asha  ", "")
	require.NoError(t, err)
	assert.Equal(t, "Asha", got)

	for _, raw := range []string{"John3", "", "   ", "O'Brien", "Anne-Marie"} {
		_, err := Name(raw, "First Name")
		assert.Error(t, err, raw)
	}
}

func TestNotEmpty(t *testing.T) {
	got, err := NotEmpty("  Cardiology ", "Specialization")
	require.NoError(t, err)
	assert.Equal(t, "Cardiology", got)

	_, err = NotEmpty(" \t ", "Specialization")
	require.Error(t, err)
	assert.Equal(t, "Specialization cannot be empty", err.Error())

	_, err = NotEmpty("", "")
	assert.EqualError(t, err, "Value cannot be empty")
}
