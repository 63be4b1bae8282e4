package app

import "github.com/spf13/pflag"

// RegisterServeFlags registers serve-related CLI flags on the given FlagSet
func RegisterServeFlags(flags *pflag.FlagSet) {
	flags.StringP("transport", "t", "", "Transport type: stdio or sse")
	flags.StringP("host", "H", "", "Host for SSE transport")
	flags.IntP("port", "p", 0, "Port for SSE transport")
	flags.StringP("auth-type", "a", "", "Authentication type: none, basic, or apikey")
	flags.StringP("auth-basic-username", "u", "", "Basic auth username")
	flags.StringP("auth-basic-password", "P", "", "Basic auth password")
	flags.StringSliceP("auth-api-keys", "k", nil, "API keys (comma-separated)")
}

// RegisterIngestFlags registers ingestion and storage flags on the given FlagSet
func RegisterIngestFlags(flags *pflag.FlagSet) {
	flags.StringP("data-dir", "d", "", "Directory for stores and the search index")
	flags.String("site", "", "Stack Exchange site to query")
	flags.IntP("limit", "l", 0, "Maximum number of new questions per run")
	flags.StringP("sort", "s", "", "Upstream sort mode: votes, creation or activity")
	flags.Duration("fetch-delay", 0, "Delay between per-question fetches")
	flags.Duration("lock-timeout", 0, "Timeout for acquiring the store lock")
	flags.Int("max-results", 0, "Maximum number of search results")
}
