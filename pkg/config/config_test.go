package config

import (
	"strings"
	"testing"
)

func TestEnsureDSNPrefersExplicitDSN(t *testing.T) {
	cfg := DBConfig{DSN: "postgres://svc:secret@db:5432/medstock"}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	if cfg.DSN != "postgres://svc:secret@db:5432/medstock" {
		t.Fatalf("DSN rewritten: %s", cfg.DSN)
	}
}

func TestEnsureDSNAssemblesFromLegacyVars(t *testing.T) {
	cfg := DBConfig{
		LegacyHost:     "db.internal",
		LegacyPort:     5433,
		LegacyUser:     "medstock",
		LegacyPassword: "s3cret",
		LegacyName:     "medstock",
		LegacySSLMode:  "require",
	}
	if err := cfg.ensureDSN(); err != nil {
		t.Fatalf("ensureDSN: %v", err)
	}
	for _, want := range []string{"postgres://", "db.internal:5433", "sslmode=require", "medstock"} {
		if !strings.Contains(cfg.DSN, want) {
			t.Fatalf("DSN %q missing %q", cfg.DSN, want)
		}
	}
}

func TestEnsureDSNReportsMissingLegacyVars(t *testing.T) {
	cfg := DBConfig{LegacyHost: "db.internal"}
	err := cfg.ensureDSN()
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), EnvDBUser) || !strings.Contains(err.Error(), EnvDBName) {
		t.Fatalf("error should list missing vars: %v", err)
	}
}

func TestAppEnvHelpers(t *testing.T) {
	if !(AppConfig{Env: "DEV"}).IsDev() {
		t.Fatal("IsDev should be case-insensitive")
	}
	if (AppConfig{Env: "dev"}).IsProd() {
		t.Fatal("dev is not prod")
	}
	if !(AppConfig{Env: "prod"}).IsProd() {
		t.Fatal("prod should report IsProd")
	}
}

func TestSMTPEnabled(t *testing.T) {
	if (SMTPConfig{}).Enabled() {
		t.Fatal("empty SMTP config must be disabled")
	}
	if !(SMTPConfig{Host: "smtp.internal"}).Enabled() {
		t.Fatal("host configured means enabled")
	}
}
