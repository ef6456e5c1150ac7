package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	OutputDir string
	ScopePath string
	BidsPath  string

	ReportCurrency string
	ReportXLSXName string
	ReportJSONName string

	IntakeMaxBytes int
	IntakePDFPages int
	IntakeKeepHTML bool
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		OutputDir: getEnv("LEVELER_OUTPUT_DIR", filepath.Join(cwd, "out")),
		ScopePath: getEnv("LEVELER_SCOPE_FILE", ""),
		BidsPath:  getEnv("LEVELER_BIDS_FILE", ""),

		ReportCurrency: getEnv("LEVELER_CURRENCY", "$"),
		ReportXLSXName: getEnv("LEVELER_XLSX_NAME", "leveling.xlsx"),
		ReportJSONName: getEnv("LEVELER_JSON_NAME", "leveling.json"),

		IntakeMaxBytes: getEnvInt("LEVELER_INTAKE_MAX_BYTES", 20<<20),
		IntakePDFPages: getEnvInt("LEVELER_INTAKE_PDF_PAGES", 50),
		IntakeKeepHTML: getEnvBool("LEVELER_INTAKE_KEEP_HTML", false),
	}

	return cfg, nil
}

func (c Config) Require(name, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("missing required setting: %s", name)
	}
	return nil
}

// OutputPath resolves a report file name against OutputDir unless it is already a path.
func (c Config) OutputPath(name string) string {
	if name == "" || filepath.IsAbs(name) || strings.ContainsRune(name, filepath.Separator) {
		return name
	}
	return filepath.Join(c.OutputDir, name)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := strings.ToLower(strings.TrimSpace(getEnv(key, "")))
	if value == "" {
		return fallback
	}
	if value == "1" || value == "true" || value == "yes" || value == "on" {
		return true
	}
	if value == "0" || value == "false" || value == "no" || value == "off" {
		return false
	}
	return fallback
}
