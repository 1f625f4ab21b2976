package config

// GetAuthSkipperPaths returns a list of paths to skip authentication for
func GetAuthSkipperPaths() []string {
	// Public paths (GraphQL stock queries are read-only, no auth)
	return []string{"/graphql", "/playground", "/metrics"}
}
