package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ardnew/jidelnicek/allergen"
	"github.com/ardnew/jidelnicek/filter"
	"github.com/ardnew/jidelnicek/format"
	"github.com/ardnew/jidelnicek/menu"
	"github.com/ardnew/jidelnicek/pkg"
)

const samplePath = "../../menu/testdata/sample_menu.xml"

// testContext returns a context running commands against feed and output,
// with stdout captured in the returned buffer.
func testContext(t *testing.T, feed Feed, out Output) (context.Context, *bytes.Buffer) {
	t.Helper()

	if feed.FeedURL == "" {
		feed.FeedURL = menu.DefaultURLTemplate
	}

	var buf bytes.Buffer

	ctx := WithFeed(context.Background(), &feed)
	ctx = WithOutput(ctx, &out)
	ctx = WithStdio(ctx, strings.NewReader(""), &buf)

	return ctx, &buf
}

func jsonOutput() Output {
	return Output{Format: format.FormatJSON}
}

func TestMenuRun(t *testing.T) {
	ctx, buf := testContext(t, Feed{Cafeteria: 9, Source: samplePath}, jsonOutput())

	if err := (&Menu{}).Run(ctx); err != nil {
		t.Fatalf("Menu.Run() error = %v", err)
	}

	var m menu.Menu
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf)
	}

	if m.CafeteriaID != 9 || len(m.Days) != 5 {
		t.Errorf("got cafeteria %d with %d days, want 9 with 5", m.CafeteriaID, len(m.Days))
	}
}

func TestMenuRunFetch(t *testing.T) {
	sample, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatal(err)
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("zarizeni") != "42" {
			w.WriteHeader(http.StatusNotFound)

			return
		}

		_, _ = w.Write(sample)
	}))
	defer srv.Close()

	feed := Feed{Cafeteria: 42, FeedURL: srv.URL + "/XML?zarizeni={id}"}

	ctx, buf := testContext(t, feed, jsonOutput())
	if err := (&Closest{}).Run(ctx); err != nil {
		t.Fatalf("Closest.Run() error = %v", err)
	}

	var day menu.Day
	if err := json.Unmarshal(buf.Bytes(), &day); err != nil {
		t.Fatal(err)
	}

	if day.Date != "23-06-2025" {
		t.Errorf("closest day = %s, want 23-06-2025", day.Date)
	}

	feed.Cafeteria = 43

	ctx, _ = testContext(t, feed, jsonOutput())
	if err := (&Closest{}).Run(ctx); !errors.Is(err, menu.ErrFetch) {
		t.Errorf("Closest.Run() for missing feed error = %v, want ErrFetch", err)
	}
}

func TestMenuRunStdin(t *testing.T) {
	sample, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatal(err)
	}

	ctx, buf := testContext(t, Feed{Source: "-"}, Output{Format: format.FormatText})
	ctx = WithStdio(ctx, bytes.NewReader(sample), buf)

	if err := (&Menu{}).Run(ctx); err != nil {
		t.Fatalf("Menu.Run() error = %v", err)
	}

	if !strings.Contains(buf.String(), "celerová s krutony") {
		t.Errorf("text output missing first meal:\n%s", buf)
	}
}

func TestNoCafeteria(t *testing.T) {
	ctx, _ := testContext(t, Feed{}, jsonOutput())

	for name, c := range map[string]interface{ Run(context.Context) error }{
		"menu":    &Menu{},
		"closest": &Closest{},
		"date":    &Date{Date: "23-06-2025"},
		"search":  &Search{Pattern: "čaj"},
	} {
		if err := c.Run(ctx); !errors.Is(err, ErrNoCafeteria) {
			t.Errorf("%s: error = %v, want ErrNoCafeteria", name, err)
		}
	}
}

func TestDateRun(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    string
		wantErr *pkg.Error
	}{
		{name: "listed", date: "24-06-2025", want: `"date": "24-06-2025"`},
		{name: "not listed", date: "20-06-2025", want: "{}"},
		{name: "bad format", date: "2025-06-20", wantErr: menu.ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// A missing source file would fail the load; date validation
			// must fail first.
			source := samplePath
			if tt.wantErr != nil {
				source = filepath.Join(t.TempDir(), "missing.xml")
			}

			out := jsonOutput()
			out.Indent = 2

			ctx, buf := testContext(t, Feed{Source: source}, out)

			err := (&Date{Date: tt.date}).Run(ctx)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Date.Run() error = %v, want %v", err, tt.wantErr)
				}

				return
			}

			if err != nil {
				t.Fatalf("Date.Run() error = %v", err)
			}

			if !strings.Contains(buf.String(), tt.want) {
				t.Errorf("output %q does not contain %q", buf, tt.want)
			}
		})
	}
}

func TestWhere(t *testing.T) {
	out := jsonOutput()
	out.Where = `course == "polévka"`

	ctx, buf := testContext(t, Feed{Source: samplePath}, out)
	if err := (&Menu{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var m menu.Menu
	if err := json.Unmarshal(buf.Bytes(), &m); err != nil {
		t.Fatal(err)
	}

	for _, d := range m.Days {
		if len(d.Meals) != 1 || d.Meals[0].Type != "polévka" {
			t.Errorf("%s: meals = %+v", d.Date, d.Meals)
		}
	}

	out.Where = "course =="
	ctx, _ = testContext(t, Feed{Source: samplePath}, out)

	if err := (&Menu{}).Run(ctx); !errors.Is(err, filter.ErrCompile) {
		t.Errorf("bad filter error = %v, want ErrCompile", err)
	}
}

func TestSearchRun(t *testing.T) {
	tests := []struct {
		pattern string
		want    int
	}{
		{"čočka", 2},
		{"sushi", 0},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			ctx, buf := testContext(t, Feed{Source: samplePath}, jsonOutput())
			if err := (&Search{Pattern: tt.pattern}).Run(ctx); err != nil {
				t.Fatal(err)
			}

			var found []menu.Match
			if err := json.Unmarshal(buf.Bytes(), &found); err != nil {
				t.Fatalf("%v: %s", err, buf)
			}

			if found == nil || len(found) != tt.want {
				t.Errorf("found %d matches, want %d", len(found), tt.want)
			}
		})
	}
}

func TestAllergensRun(t *testing.T) {
	ctx, buf := testContext(t, Feed{}, jsonOutput())
	if err := (&Allergens{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var all []allergen.Entry
	if err := json.Unmarshal(buf.Bytes(), &all); err != nil {
		t.Fatal(err)
	}

	if len(all) != allergen.Default().Len() {
		t.Errorf("listed %d entries, want %d", len(all), allergen.Default().Len())
	}

	ctx, buf = testContext(t, Feed{}, jsonOutput())
	if err := (&Allergens{Text: []string{"01a-Obiloviny,", "07 -Mléko"}}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	var decoded []allergen.Entry
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatal(err)
	}

	if len(decoded) != 2 || decoded[0].Code != "01a" || decoded[1].Code != "07" {
		t.Errorf("decoded = %+v", decoded)
	}

	ctx, _ = testContext(t, Feed{}, jsonOutput())
	if err := (&Allergens{Text: []string{"99"}}).Run(ctx); !errors.Is(err, allergen.ErrUnknownCode) {
		t.Errorf("unknown code error = %v", err)
	}
}

func TestAllergensOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "allergens.yaml")
	if err := os.WriteFile(path, []byte("\"01\": gluten\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	ctx, buf := testContext(t, Feed{Allergens: path}, Output{Format: format.FormatText})
	if err := (&Allergens{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	if !strings.Contains(buf.String(), "gluten") {
		t.Errorf("output = %q", buf)
	}
}

func TestVersionRun(t *testing.T) {
	ctx, buf := testContext(t, Feed{}, Output{})
	if err := (&Version{}).Run(ctx); err != nil {
		t.Fatal(err)
	}

	want := pkg.Name + " " + pkg.Version() + "\n"
	if buf.String() != want {
		t.Errorf("got %q, want %q", buf, want)
	}
}

func TestDateToday(t *testing.T) {
	date := menu.FormatDate(time.Now())
	doc := `<jidelnicky><den datum="` + date + `"><jidlo nazev="Dnešní polévka" druh="Polévka" alergeny="09"/></den></jidelnicky>`

	path := filepath.Join(t.TempDir(), "today.xml")
	if err := os.WriteFile(path, []byte(doc), 0o600); err != nil {
		t.Fatal(err)
	}

	for _, arg := range []string{"today", " Today "} {
		ctx, buf := testContext(t, Feed{Source: path}, jsonOutput())
		if err := (&Date{Date: arg}).Run(ctx); err != nil {
			t.Fatalf("Date.Run(%q) error = %v", arg, err)
		}

		var day menu.Day
		if err := json.Unmarshal(buf.Bytes(), &day); err != nil {
			t.Fatal(err)
		}

		if day.Date != date || len(day.Meals) != 1 {
			t.Errorf("Date.Run(%q) = %+v, want the day dated %s", arg, day, date)
		}
	}
}

func TestFeedOptions(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(time.Second):
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()

	feed := Feed{FeedURL: srv.URL + "/XML?zarizeni={id}", Timeout: 20 * time.Millisecond}

	p := menu.New(5, nil, feed.options()...)
	if want := srv.URL + "/XML?zarizeni=5"; p.URL() != want {
		t.Errorf("URL() = %s, want %s", p.URL(), want)
	}

	if _, err := p.Fetch(context.Background()); !errors.Is(err, menu.ErrFetch) {
		t.Errorf("Fetch() past --timeout error = %v, want ErrFetch", err)
	}
}
