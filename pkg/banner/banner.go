package banner

import (
	"fmt"

	"postview/pkg/config"
)

const banner = `
██████╗  ██████╗ ███████╗████████╗██╗   ██╗██╗███████╗██╗    ██╗
██╔══██╗██╔═══██╗██╔════╝╚══██╔══╝██║   ██║██║██╔════╝██║    ██║
██████╔╝██║   ██║███████╗   ██║   ██║   ██║██║█████╗  ██║ █╗ ██║
██╔═══╝ ██║   ██║╚════██║   ██║   ╚██╗ ██╔╝██║██╔══╝  ██║███╗██║
██║     ╚██████╔╝███████║   ██║    ╚████╔╝ ██║███████╗╚███╔███╔╝
╚═╝      ╚═════╝ ╚══════╝   ╚═╝     ╚═══╝  ╚═╝╚══════╝ ╚══╝╚══╝
`

// PrintWithEff prints the startup banner using the effective config.
func PrintWithEff(eff config.EffectiveConfigResult, version string) {
	fmt.Print(banner)
	fmt.Println("== Config =====================================================")
	fmt.Printf("Listen:    %s\n", eff.Addr)
	fmt.Printf("Upstream:  %s\n", eff.Config.Upstream.BaseURL)
	if version != "" {
		fmt.Printf("Version:   %s\n", version)
	}
	if eff.Source != "" {
		fmt.Printf("Config sources: %s\n", eff.Source)
	}
	fmt.Println("\n== Endpoints ==================================================")
	fmt.Println("POST /v1/posts/{id}/comments/load - (Re)load a post's thread (JSON: sort, community)")
	fmt.Println("GET  /v1/posts/{id}/comments - Current thread snapshot")
	fmt.Println("POST /v1/comments/{id}/vote - Toggle-aware vote (JSON: post_id, direction)")
	fmt.Println("PUT  /v1/comments/{id} - Edit own comment (JSON: post_id, content)")
	fmt.Println("POST /v1/comments/{id}/delete - Delete/restore own comment (JSON: post_id)")
	fmt.Println("\n== Examples ===================================================")
	fmt.Printf("curl -X POST 'http://localhost%s/v1/posts/42/comments/load' -d '{\"sort\":\"Hot\"}'\n", eff.Addr)
	fmt.Printf("curl 'http://localhost%s/v1/posts/42/comments'\n", eff.Addr)
}
