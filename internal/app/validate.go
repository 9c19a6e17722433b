package app

import (
	"fmt"
	"os"

	"parley/pkg/config"
)

// validateConfig rejects configurations the server cannot run with. The
// token secret check can be waived for local development only.
func validateConfig(eff config.EffectiveConfigResult) error {
	if eff.Config == nil {
		return fmt.Errorf("no effective configuration")
	}
	if eff.Addr == "" {
		return fmt.Errorf("no listen address configured")
	}
	if eff.DBPath == "" {
		return fmt.Errorf("no database path configured (use -db or PARLEY_DB_PATH)")
	}
	if eff.Config.Security.TokenSecret == "" && os.Getenv("PARLEY_DEV_SECRET") != "1" {
		return fmt.Errorf("security.token_secret is required (set PARLEY_DEV_SECRET=1 to run with an ephemeral secret)")
	}
	if eff.Config.Security.RateLimit.RPS < 0 || eff.Config.Security.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limit values must not be negative")
	}
	cert, key := eff.Config.Server.TLS.CertFile, eff.Config.Server.TLS.KeyFile
	if (cert == "") != (key == "") {
		return fmt.Errorf("tls requires both cert_file and key_file")
	}
	return nil
}
