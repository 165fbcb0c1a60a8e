package config

import "testing"

func TestResolveDefaults_AutoPicksSQLiteWithoutDSN(t *testing.T) {
	cfg := Config{DBDriver: "auto", SQLitePath: "insights.db", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 2}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "sqlite" {
		t.Fatalf("expected sqlite, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaults_AutoPrefersPostgresWhenDSNSet(t *testing.T) {
	cfg := Config{DBDriver: "", PostgresDSN: "postgres://localhost/insights", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 2}
	if err := cfg.ResolveDefaults(); err != nil {
		t.Fatalf("ResolveDefaults: %v", err)
	}
	if cfg.DBDriver != "postgres" {
		t.Fatalf("expected postgres, got %s", cfg.DBDriver)
	}
}

func TestResolveDefaults_Errors(t *testing.T) {
	cases := []struct {
		name string
		cfg  Config
	}{
		{"unknown driver", Config{DBDriver: "mysql", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 2}},
		{"postgres without dsn", Config{DBDriver: "postgres", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 2}},
		{"sqlite without path", Config{DBDriver: "sqlite", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 2}},
		{"bad interval", Config{DBDriver: "sqlite", SQLitePath: "x.db", HealthIntervalSeconds: 0, HealthProbeTimeoutSeconds: 2}},
		{"bad probe timeout", Config{DBDriver: "sqlite", SQLitePath: "x.db", HealthIntervalSeconds: 10, HealthProbeTimeoutSeconds: 0}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := tc.cfg
			if err := cfg.ResolveDefaults(); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
