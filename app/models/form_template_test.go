package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetFieldsRoundTrip(t *testing.T) {
	template := &FormTemplate{}
	fields := []FormField{
		{ID: "mood", Type: FieldTypeScale, Label: "Mood", Min: 1, Max: 10, Required: true},
		{ID: "notes", Type: FieldTypeTextarea, Label: "Notes", Placeholder: "Anything else?"},
		{ID: "session", Type: FieldTypeDropdown, Label: "Session type", Options: []string{"Endurance", "Intervals", "Rest"}},
	}

	require.NoError(t, template.SetFields(fields))

	decoded, err := template.Fields()
	require.NoError(t, err)
	assert.Equal(t, fields, decoded)
}

func TestSetFieldsValidation(t *testing.T) {
	cases := []struct {
		name  string
		field FormField
	}{
		{"unknown type", FormField{ID: "x", Type: "slider", Label: "X"}},
		{"missing label", FormField{ID: "x", Type: FieldTypeText}},
		{"scale min not below max", FormField{ID: "x", Type: FieldTypeScale, Label: "X", Min: 5, Max: 5}},
		{"choice without options", FormField{ID: "x", Type: FieldTypeRadio, Label: "X"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			template := &FormTemplate{}
			assert.Error(t, template.SetFields([]FormField{tc.field}))
		})
	}
}

func TestFieldsEmpty(t *testing.T) {
	template := &FormTemplate{}
	fields, err := template.Fields()
	require.NoError(t, err)
	assert.Nil(t, fields)
}

func TestFieldsMalformedJSON(t *testing.T) {
	template := &FormTemplate{FieldsJSON: "{not json"}
	_, err := template.Fields()
	assert.Error(t, err)
}
