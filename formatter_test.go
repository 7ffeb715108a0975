package log

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"golang.org/x/sync/errgroup"
)

var testTime = time.Date(2019, 11, 19, 18, 24, 25, 105_000_000, time.UTC)

func TestLayoutFormat(t *testing.T) {
	tests := []struct {
		layout string
		want   string
	}{
		{
			layout: DefaultLayout,
			want:   "[HOLBERTON] my_logger INFO 2019-11-19 18:24:25,105: user=bob;",
		},
		{
			layout: "{level}|{name}|{message}",
			want:   "INFO|my_logger|user=bob;",
		},
		{
			layout: "{{{level}}} {message}",
			want:   "{INFO} user=bob;",
		},
		{
			layout: "static",
			want:   "static",
		},
	}

	r := Record{Time: testTime, Level: LevelInfo, Name: "my_logger", Message: "user=bob;"}
	for i, tt := range tests {
		l, err := NewLayout(tt.layout, "")
		if err != nil {
			t.Errorf("#%d NewLayout(%q) error: %v", i, tt.layout, err)
			continue
		}
		got, err := l.Format(r)
		if err != nil {
			t.Errorf("#%d Format() error: %v", i, err)
			continue
		}
		if got != tt.want {
			t.Errorf("#%d Format() = %q, want %q", i, got, tt.want)
		}
		if l.String() != tt.layout {
			t.Errorf("#%d String() = %q, want %q", i, l.String(), tt.layout)
		}
	}
}

func TestLayoutTimeLayout(t *testing.T) {
	l, err := NewLayout("{time}", time.RFC3339)
	if err != nil {
		t.Fatal(err)
	}
	got, _ := l.Format(Record{Time: testTime})
	if want := "2019-11-19T18:24:25Z"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestNewLayoutErrors(t *testing.T) {
	for i, layout := range []string{"{asctime}", "{message", "oops}", "{}"} {
		if _, err := NewLayout(layout, ""); !errors.Is(err, ErrBadLayout) {
			t.Errorf("#%d NewLayout(%q) = %v, want ErrBadLayout", i, layout, err)
		}
	}
}

func TestRedactingFormatterRoundTrip(t *testing.T) {
	f, err := NewRedactingFormatter([]string{"password"}, nil)
	if err != nil {
		t.Fatal(err)
	}
	base, err := NewLayout(DefaultLayout, "")
	if err != nil {
		t.Fatal(err)
	}

	r := Record{Time: testTime, Level: LevelInfo, Name: "user_data", Message: "user=bob;password=secret;"}
	plain, _ := base.Format(r)
	got, err := f.Format(r)
	if err != nil {
		t.Fatal(err)
	}

	want := strings.Replace(plain, "user=bob;password=secret;", "user=bob;password=***;", 1)
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if r.Message != "user=bob;password=secret;" {
		t.Error("Format modified the record")
	}
}

func TestRedactingFormatterDefaults(t *testing.T) {
	f, err := NewRedactingFormatter(PIIFields(), nil)
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Format(Record{
		Time:    testTime,
		Level:   LevelInfo,
		Name:    "user_data",
		Message: "name=Bob;email=bob@dylan.com;phone=000 123;ssn=000-123;password=bobby2019;ip=::1;",
	})
	if err != nil {
		t.Fatal(err)
	}
	want := "[HOLBERTON] user_data INFO 2019-11-19 18:24:25,105: " +
		"name=***;email=***;phone=***;ssn=***;password=***;ip=::1;"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestRedactingFormatterOptions(t *testing.T) {
	f, err := NewRedactingFormatter([]string{"card"}, &FormatterOptions{
		Layout:     "{level} {message}",
		TimeLayout: time.Kitchen,
		Redaction:  "[REDACTED]",
		Separator:  "&",
	})
	if err != nil {
		t.Fatal(err)
	}
	got, _ := f.Format(Record{Level: LevelWarn, Message: "card=4111&amount=3&"})
	if want := "WARN card=[REDACTED]&amount=3&"; got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
	if f.Redactor().Separator() != "&" {
		t.Errorf("Redactor().Separator() = %q", f.Redactor().Separator())
	}
}

func TestNewRedactingFormatterErrors(t *testing.T) {
	if _, err := NewRedactingFormatter([]string{""}, nil); !errors.Is(err, ErrEmptyField) {
		t.Errorf("empty field: got %v", err)
	}
	if _, err := NewRedactingFormatter(PIIFields(), &FormatterOptions{Layout: "{bogus}"}); !errors.Is(err, ErrBadLayout) {
		t.Errorf("bad layout: got %v", err)
	}
}

type failingFormatter struct {
	err    error
	called *int
}

func (f failingFormatter) Format(r Record) (string, error) {
	*f.called++
	return "name=partial;", f.err
}

func TestRedactingFormatterPropagatesBaseError(t *testing.T) {
	errBase := errors.New("malformed record")
	called := 0
	f, err := NewRedactingFormatter(PIIFields(), &FormatterOptions{
		Base: failingFormatter{err: errBase, called: &called},
	})
	if err != nil {
		t.Fatal(err)
	}
	got, err := f.Format(Record{})
	if err != errBase {
		t.Errorf("Format() error = %v, want %v", err, errBase)
	}
	if got != "" {
		t.Errorf("Format() = %q, want empty output on error", got)
	}
	if called != 1 {
		t.Errorf("base formatter called %d times", called)
	}
}

func TestRedactingFormatterConcurrent(t *testing.T) {
	f, err := NewRedactingFormatter(PIIFields(), &FormatterOptions{Layout: "{name} {message}"})
	if err != nil {
		t.Fatal(err)
	}

	const n = 64
	var g errgroup.Group
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error {
			for j := 0; j < 100; j++ {
				r := Record{
					Name:    fmt.Sprintf("worker%d", i),
					Message: fmt.Sprintf("id=%d;email=user%d@example.com;seq=%d;", i, i, j),
				}
				got, err := f.Format(r)
				if err != nil {
					return err
				}
				want := fmt.Sprintf("worker%d id=%d;email=***;seq=%d;", i, i, j)
				if got != want {
					return fmt.Errorf("got %q, want %q", got, want)
				}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
}

func TestPIIFieldsIsACopy(t *testing.T) {
	fields := PIIFields()
	if len(fields) != 5 {
		t.Fatalf("PIIFields() = %v", fields)
	}
	fields[0] = "changed"
	if PIIFields()[0] != "name" {
		t.Error("PIIFields() returned shared storage")
	}
}
