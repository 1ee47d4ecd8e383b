package helloasso

// Provider hosts and published webhook source addresses. These are
// documented constants, not runtime-discovered.
const (
	LiveBaseURL    = "https://api.helloasso.com/"
	SandboxBaseURL = "https://api.helloasso-sandbox.com/"

	// Source addresses of webhook deliveries, one per mode. The
	// provider does not sign payloads; comparing the source address is
	// the only authenticity check available. It is weak (spoofable at
	// the network layer).
	LiveWebhookIP    = "51.138.206.200"
	SandboxWebhookIP = "4.233.135.234"

	tokenPath = "oauth2/token"
)

// BaseURL returns the API host for the given mode.
func BaseURL(sandbox bool) string {
	if sandbox {
		return SandboxBaseURL
	}
	return LiveBaseURL
}

// WebhookSourceIP returns the allow-listed notification source for the
// given mode.
func WebhookSourceIP(sandbox bool) string {
	if sandbox {
		return SandboxWebhookIP
	}
	return LiveWebhookIP
}
