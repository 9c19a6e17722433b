package banner

import (
	"fmt"

	"parley/pkg/config"
)

const banner = `
██████╗  █████╗ ██████╗ ██╗     ███████╗██╗   ██╗
██╔══██╗██╔══██╗██╔══██╗██║     ██╔════╝╚██╗ ██╔╝
██████╔╝███████║██████╔╝██║     █████╗   ╚████╔╝
██╔═══╝ ██╔══██║██╔══██╗██║     ██╔══╝    ╚██╔╝
██║     ██║  ██║██║  ██║███████╗███████╗   ██║
╚═╝     ╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝╚══════╝   ╚═╝
`

// Print writes the startup banner with the effective configuration and a
// few production-readiness checks.
func Print(eff config.EffectiveConfigResult, version string) {
	addr := eff.Addr
	if addr == "" && eff.Config != nil {
		addr = eff.Config.Addr()
	}
	src := eff.Source
	if src == "" {
		src = "flags"
	}

	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:   %s\n", addr)
	fmt.Printf("DB Path:  %s\n", eff.DBPath)
	if version != "" {
		fmt.Printf("Version:  %s\n", version)
	}
	fmt.Printf("Config:   %s\n", src)

	fmt.Println("\n== Examples ===================================================")
	fmt.Println("curl -X POST 'http://<host>:<port>/auth/register/v3' -d '{\"email\":...}'")
	fmt.Println("curl -H 'Token: <token>' 'http://<host>:<port>/channel/messages/v3?channelId=0&start=0'")

	fmt.Println("\n== Production? ================================================")
	if eff.Config != nil && eff.Config.Security.TokenSecret != "" {
		fmt.Println("- Token secret: configured")
	} else {
		fmt.Println("- Token secret: MISSING (ephemeral secret in use; sessions die on restart)")
	}
	if eff.Config != nil && eff.Config.Server.TLS.CertFile != "" && eff.Config.Server.TLS.KeyFile != "" {
		fmt.Println("- TLS: configured")
	} else {
		fmt.Println("- TLS: unconfigured")
	}
	if eff.Config != nil && eff.Config.Janitor.Enabled {
		cron := eff.Config.Janitor.Cron
		if cron == "" {
			cron = "default"
		}
		fmt.Printf("- Janitor: enabled (cron=%s)\n", cron)
	} else {
		fmt.Println("- Janitor: disabled (standups flush lazily on reads only)")
	}
	if eff.Config != nil && len(eff.Config.Security.CORS.AllowedOrigins) > 0 {
		fmt.Printf("- CORS origins: %d configured\n", len(eff.Config.Security.CORS.AllowedOrigins))
	} else {
		fmt.Println("- CORS origins: none (cross-origin requests disabled)")
	}

	fmt.Println("\n== Logs: ======================================================")
}
