package allergen

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractCodes(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []Code
	}{
		{"described", "01a-Obiloviny - pšenice,03 -Vejce,09 -Celer", []Code{"01a", "03", "09"}},
		{"bare list", "01,02,03", []Code{"01", "02", "03"}},
		{"empty", "", []Code{}},
		{"whitespace", "  \t ", []Code{}},
		{"no codes", "No allergens here", []Code{}},
		{"single lettered", "01a", []Code{"01a"}},
		{"single described", "07 -Mléko", []Code{"07"}},
		{"mixed case letter", "08B-ořechy", []Code{"08B"}},
		{"spaced", "01a, 07, 09", []Code{"01a", "07", "09"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractCodes(tt.text)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractCodes_RequiresLeadingBoundary(t *testing.T) {
	// Digits glued to a preceding word character are not codes, in any
	// script.
	assert.Equal(t, []Code{}, ExtractCodes("x07"))
	assert.Equal(t, []Code{}, ExtractCodes("č07"))
	assert.Equal(t, []Code{}, ExtractCodes("_07"))
	assert.Equal(t, []Code{"09"}, ExtractCodes("Ž07,09"))
	// Adjacent pairs are one code followed by digits, not two codes.
	assert.Equal(t, []Code{"01"}, ExtractCodes("0102"))
	// A longer number yields only its first pair.
	assert.Equal(t, []Code{"20"}, ExtractCodes("2025"))
}

func TestDefault_Lookup(t *testing.T) {
	d := Default()

	tests := []struct {
		code string
		want string
	}{
		{"01a", "pšenice"},
		{"03", "vejce"},
		{"07", "mléko"},
		{"09", "celer"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			name, err := d.Lookup(tt.code)
			require.NoError(t, err)
			assert.Contains(t, name, tt.want)
		})
	}
}

func TestDefault_LookupUnknown(t *testing.T) {
	for _, code := range []string{"99", "", "1"} {
		t.Run(code, func(t *testing.T) {
			_, err := Default().Lookup(code)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrUnknownCode))
			assert.Equal(t, "unknown allergen code: "+code, err.Error())
		})
	}
}

func TestDefault_CoversEURegulatedList(t *testing.T) {
	d := Default()

	for _, code := range []Code{
		"01", "02", "03", "04", "05", "06", "07",
		"08", "09", "10", "11", "12", "13", "14",
	} {
		_, err := d.Lookup(code)
		assert.NoError(t, err, "code %s", code)
	}

	codes := d.Codes()
	assert.Equal(t, d.Len(), len(codes))
	assert.IsIncreasing(t, codes)
}

func TestDictionary_Names(t *testing.T) {
	d := New(map[Code]string{"01": "lepek", "07": "mléko"})

	names, err := d.Names([]Code{"07", "01"})
	require.NoError(t, err)
	assert.Equal(t, []string{"mléko", "lepek"}, names)

	_, err = d.Names([]Code{"07", "99", "01"})
	assert.ErrorIs(t, err, ErrUnknownCode)

	names, err = d.Decode("07 -Mléko,01 -Lepek")
	require.NoError(t, err)
	assert.Equal(t, []string{"mléko", "lepek"}, names)

	names, err = d.Decode("")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestDictionary_NewCopiesInput(t *testing.T) {
	src := map[Code]string{"01": "lepek"}
	d := New(src)
	src["01"] = "changed"

	name, err := d.Lookup("01")
	require.NoError(t, err)
	assert.Equal(t, "lepek", name)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr bool
		wantLen int
	}{
		{"json", `{"01": "lepek", "07a": "mléko"}`, false, 2},
		{"yaml", "\"01\": lepek\n\"07\": mléko\n", false, 2},
		{"empty object", `{}`, true, 0},
		{"malformed", `{"01": `, true, 0},
		{"bad key", `{"1": "lepek"}`, true, 0},
		{"empty name", `{"01": ""}`, true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(strings.NewReader(tt.doc))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrLoad)
				assert.Nil(t, d)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantLen, d.Len())
		})
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "allergens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("\"01\": gluten\n"), 0o600))

	d, err := Load(path)
	require.NoError(t, err)

	name, err := d.Lookup("01")
	require.NoError(t, err)
	assert.Equal(t, "gluten", name)

	_, err = Load(filepath.Join(dir, "missing.json"))
	assert.ErrorIs(t, err, ErrLoad)
}

func TestDictionary_Entries(t *testing.T) {
	d := New(map[Code]string{"07": "mléko", "01a": "pšenice", "01": "lepek"})

	assert.Equal(t, []Entry{
		{Code: "01", Name: "lepek"},
		{Code: "01a", Name: "pšenice"},
		{Code: "07", Name: "mléko"},
	}, d.Entries())

	var none *Dictionary
	assert.Empty(t, none.Entries())
}
