package utils

// ConfigFileName is the name of the strct configuration file.
const ConfigFileName = ".strct.yaml"

// GlobalConfigDirectoryName is the directory under the user home that holds
// the global configuration file.
const GlobalConfigDirectoryName = ".strct"

// LoggerInitializationFailedMessageFormat reports a logger construction failure.
const LoggerInitializationFailedMessageFormat = "logger initialization failed: %w"

// ApplicationExecutionFailedMessage prefixes fatal application errors.
const ApplicationExecutionFailedMessage = "application execution failed"
