package config

// Name colors of the component loggers. Level colors belong to the logger itself.
const (
	AppLogColor     = "\033[32m"
	SessionLogColor = "\033[36m"
	StorageLogColor = "\033[34m"
)
