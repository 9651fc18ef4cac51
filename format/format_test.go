package format

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/fxamacker/cbor/v2"
	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/menu"
)

func sample() menu.Menu {
	return menu.Menu{
		CafeteriaID: 12345,
		Days: []menu.Day{
			{
				Date: "23-06-2025",
				Meals: []menu.Meal{
					{Name: "celerová s krutony", Type: "polévka", Allergens: []string{"01a", "07", "09"}},
					{Name: "čaj, mléko, voda", Type: "doplněk", Allergens: []string{}},
				},
			},
			{Date: "24-06-2025", Meals: []menu.Meal{}},
		},
	}
}

// dense has no empty collections, so decoders cannot disagree about nil.
func dense() menu.Menu {
	return menu.Menu{
		CafeteriaID: 7,
		Days: []menu.Day{{
			Date:  "25-06-2025",
			Meals: []menu.Meal{{Name: "bramboračka", Type: "polévka", Allergens: []string{"01a", "09"}}},
		}},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
	}{
		{"json", FormatJSON},
		{"JSON", FormatJSON},
		{" yaml ", FormatYAML},
		{"yml", FormatYAML},
		{"cbor", FormatCBOR},
		{"text", FormatText},
		{"txt", FormatText},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseFormat("xml")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}

func TestFormatText(t *testing.T) {
	var f Format
	require.NoError(t, f.UnmarshalText([]byte("yaml")))
	assert.Equal(t, FormatYAML, f)

	b, err := f.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "yaml", string(b))

	assert.Error(t, f.UnmarshalText([]byte("toml")))
	assert.Equal(t, FormatYAML, f)

	var names []string
	for name := range Formats() {
		names = append(names, name)
	}

	assert.Equal(t, []string{"text", "json", "yaml", "cbor"}, names)
}

func TestWriteJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, sample(), FormatJSON, 2))

	var got menu.Menu
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, sample(), got)
	assert.Contains(t, buf.String(), `"cafeteria_id": 12345`)
	assert.Contains(t, buf.String(), `"allergens": []`)

	buf.Reset()
	require.NoError(t, Write(context.Background(), &buf, sample().Days[0], FormatJSON, 0))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("\n")))
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, dense(), FormatYAML, 2))

	var got menu.Menu
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, dense(), got)
	assert.Contains(t, buf.String(), "cafeteria_id: 7")

	buf.Reset()
	require.NoError(t, Write(context.Background(), &buf, sample(), FormatYAML, 2))
	assert.Contains(t, buf.String(), "allergens: []")
}

func TestWriteCBOR(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, dense(), FormatCBOR, 0))

	var got menu.Menu
	require.NoError(t, cbor.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, dense(), got)
}

func TestWriteNothing(t *testing.T) {
	ctx := context.Background()
	none := Nothing{Reason: "no menu for 20-06-2025"}

	var buf bytes.Buffer
	require.NoError(t, Write(ctx, &buf, none, FormatJSON, 2))
	assert.Equal(t, "{}\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(ctx, &buf, none, FormatYAML, 2))
	assert.Equal(t, "{}\n", buf.String())

	buf.Reset()
	require.NoError(t, Write(ctx, &buf, none, FormatCBOR, 0))
	assert.Equal(t, []byte{0xa0}, buf.Bytes())

	buf.Reset()
	require.NoError(t, Write(ctx, &buf, none, FormatText, 0))
	assert.Contains(t, buf.String(), "no menu for 20-06-2025")
}

func TestWriteText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, sample(), FormatText, 0))

	out := buf.String()
	assert.Contains(t, out, "cafeteria 12345")
	assert.Contains(t, out, "23-06-2025")
	assert.Contains(t, out, "celerová s krutony")
	assert.Contains(t, out, "[01a, 07, 09]")
	assert.Contains(t, out, "no meals")
	assert.NotContains(t, out, "[]")
}

func TestWriteTextEntries(t *testing.T) {
	entries := []allergen.Entry{{Code: "01", Name: "lepek"}, {Code: "01a", Name: "pšenice"}}

	var buf bytes.Buffer
	require.NoError(t, Write(context.Background(), &buf, entries, FormatText, 0))
	assert.Contains(t, buf.String(), "01 ")
	assert.Contains(t, buf.String(), "pšenice")
}

func TestWriteUnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := Write(context.Background(), &buf, sample(), Format(42), 0)
	assert.ErrorIs(t, err, ErrUnknownFormat)
	assert.Empty(t, buf.String())
}

func TestHighlight(t *testing.T) {
	plain := lipgloss.NewStyle()
	assert.Equal(t, "čočka", Highlight("čočka", nil, plain))
	assert.Equal(t, "čočka", Highlight("čočka", []int{0, 2}, plain))
}
