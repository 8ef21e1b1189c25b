package constants

const (
	// Version is the application version reported by `flexideploy version` and `flexideploy --version`
	Version = "1.3.0"
	// TokenEnvVar is the name of the environment variable that holds the github personal access token
	TokenEnvVar = "PERSONAL_ACCESS_TOKEN"
	// DockerContainerEnvVar marks that the tool itself runs inside a container
	DockerContainerEnvVar = "DOCKER_CONTAINER"
	// DockerEnabledEnvVar toggles docker build/push when running inside a container
	DockerEnabledEnvVar = "DOCKER_ENABLED"
	// CustomDrivesEnvVar holds a comma separated list of roots for the folder browser
	CustomDrivesEnvVar = "CUSTOM_DRIVES"

	// DefaultAPIURL is the public github API root
	DefaultAPIURL = "https://api.github.com"
	// RegistryHost is the container registry images are pushed to
	RegistryHost = "ghcr.io"
	// DefaultBranch is the branch every deployment is published on
	DefaultBranch = "main"
	// DefaultPort is the port the dashboard listens on
	DefaultPort = 9998
)
