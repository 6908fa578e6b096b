package cli

import (
	"bufio"
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestGetSimpleText(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("coach@example.com\n"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Email", &out)
	if err != nil || got != "coach@example.com" {
		t.Fatalf("got %q, err=%v", got, err)
	}
	if !strings.Contains(out.String(), "Email") {
		t.Fatalf("prompt not written: %q", out.String())
	}
}

func TestGetSimpleTextEOF(t *testing.T) {
	in := bufio.NewReader(strings.NewReader("lastline"))
	var out bytes.Buffer
	got, err := GetSimpleText(in, "Email", &out)
	if err != nil || got != "lastline" {
		t.Fatalf("got %q, err=%v", got, err)
	}
}

func TestGetPassword_Stubbed(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return []byte("s3cret"), nil
	}
	var out bytes.Buffer
	pw, err := GetPassword(&out)
	if err != nil || pw != "s3cret" {
		t.Fatalf("got %q, err=%v", pw, err)
	}
}

func TestGetPassword_Error(t *testing.T) {
	old := readPassword
	defer func() { readPassword = old }()
	readPassword = func(int) ([]byte, error) {
		return nil, errors.New("boom")
	}
	var out bytes.Buffer
	if _, err := GetPassword(&out); err == nil {
		t.Fatal("expected error")
	}
}

func TestEntityFromArg(t *testing.T) {
	tests := []struct {
		arg  string
		ok   bool
		want string
	}{
		{arg: "team", ok: true, want: "team"},
		{arg: "Teams", ok: true, want: "team"},
		{arg: "matches", ok: true, want: "match"},
		{arg: "award", ok: false},
	}
	for _, tc := range tests {
		entity, ok := entityFromArg(tc.arg)
		if ok != tc.ok {
			t.Fatalf("%s: ok=%v, want %v", tc.arg, ok, tc.ok)
		}
		if ok && string(entity) != tc.want {
			t.Fatalf("%s: got %s, want %s", tc.arg, entity, tc.want)
		}
	}
}
