package repository

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"

	appErrors "github.com/certtrack/certtrack-api/pkg/errors"
)

func TestQuoteSheetTitle(t *testing.T) {
	cases := []struct {
		title string
		want  string
	}{
		{"Sheet1", "'Sheet1'"},
		{"Certification List", "'Certification List'"},
		{"Bob's Sheet", "'Bob''s Sheet'"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, quoteSheetTitle(tc.title))
	}
}

func TestParseSheetID(t *testing.T) {
	id, ok := parseSheetID("123456")
	require.True(t, ok)
	assert.Equal(t, int64(123456), id)

	_, ok = parseSheetID("Certifications")
	assert.False(t, ok)
}

func TestTranslateSheetsError(t *testing.T) {
	var appErr *appErrors.Error

	err := translateSheetsError(&googleapi.Error{Code: 403})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrAuthRequired.Code, appErr.Code)

	err = translateSheetsError(&googleapi.Error{Code: 404})
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)

	err = translateSheetsError(errors.New("i/o timeout"))
	assert.False(t, errors.As(err, &appErr))
}
