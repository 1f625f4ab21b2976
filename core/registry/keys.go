package registry

// Extension registry keys stored in GlobalRegistry.
const (
	KeyRegistryCmd     = "registry:cmd"
	KeyRegistryCron    = "registry:cron"
	KeyRegistryAPI     = "registry:api"
	KeyRegistryRoutes  = "registry:routes"
	KeyRegistryGraphQL = "registry:graphql"
)
