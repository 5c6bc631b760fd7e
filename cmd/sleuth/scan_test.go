package main

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"

	"github.com/codeGROOVE-dev/sleuth/pkg/result"
)

func newScanFlags(t *testing.T, args ...string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{Use: "scan"}
	addFilterFlags(cmd.Flags())
	f := cmd.Flags()
	if err := f.Parse(args); err != nil {
		t.Fatalf("parse %v: %v", args, err)
	}
	return cmd
}

func TestFilterFromFlags(t *testing.T) {
	day := func(s string) *time.Time {
		d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
		if err != nil {
			t.Fatal(err)
		}
		return &d
	}
	endOf := func(s string) *time.Time {
		d := day(s).Add(24*time.Hour - time.Nanosecond)
		return &d
	}

	tests := []struct {
		name string
		args []string
		want *result.Filter
	}{
		{"none", nil, nil},
		{"categories", []string{"--category", "Social,forum"}, &result.Filter{Categories: []result.Category{result.CategorySocial, result.CategoryForum}}},
		{"flags", []string{"--hide-adult", "--min-confidence", "0.6", "--exclude-domain", "example.com"},
			&result.Filter{HideAdult: true, MinConfidence: 0.6, ExcludeDomains: []string{"example.com"}}},
		{"dates", []string{"--from", "2024-01-01", "--to", "2024-01-31"}, &result.Filter{From: day("2024-01-01"), To: endOf("2024-01-31")}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := filterFromFlags(newScanFlags(t, tt.args...))
			if err != nil {
				t.Fatalf("filterFromFlags() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("filterFromFlags() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestFilterFromFlagsBadDate(t *testing.T) {
	if _, err := filterFromFlags(newScanFlags(t, "--from", "yesterday")); err == nil {
		t.Error("filterFromFlags() accepted a malformed date")
	}
}
