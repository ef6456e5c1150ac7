package config

import (
	"path/filepath"
	"testing"
)

func TestLoadReadsEnv(t *testing.T) {
	t.Setenv("LEVELER_OUTPUT_DIR", "/tmp/leveler-out")
	t.Setenv("LEVELER_INTAKE_PDF_PAGES", "7")
	t.Setenv("LEVELER_INTAKE_KEEP_HTML", "yes")
	t.Setenv("LEVELER_INTAKE_MAX_BYTES", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.OutputDir != "/tmp/leveler-out" {
		t.Fatalf("OutputDir=%q", cfg.OutputDir)
	}
	if cfg.IntakePDFPages != 7 {
		t.Fatalf("IntakePDFPages=%d", cfg.IntakePDFPages)
	}
	if !cfg.IntakeKeepHTML {
		t.Fatal("IntakeKeepHTML should be true")
	}
	if cfg.IntakeMaxBytes != 20<<20 {
		t.Fatalf("bad int should fall back, got %d", cfg.IntakeMaxBytes)
	}
}

func TestOutputPath(t *testing.T) {
	cfg := Config{OutputDir: "/srv/out"}
	cases := []struct {
		name string
		in   string
		want string
	}{
		{name: "bare name", in: "report.xlsx", want: filepath.Join("/srv/out", "report.xlsx")},
		{name: "absolute", in: "/tmp/r.xlsx", want: "/tmp/r.xlsx"},
		{name: "relative path", in: filepath.Join("a", "r.xlsx"), want: filepath.Join("a", "r.xlsx")},
		{name: "empty", in: "", want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := cfg.OutputPath(tc.in); got != tc.want {
				t.Fatalf("got %q want %q", got, tc.want)
			}
		})
	}
}

func TestRequire(t *testing.T) {
	if err := (Config{}).Require("LEVELER_SCOPE_FILE", "  "); err == nil {
		t.Fatal("expected error for blank value")
	}
	if err := (Config{}).Require("LEVELER_SCOPE_FILE", "scope.csv"); err != nil {
		t.Fatal(err)
	}
}
