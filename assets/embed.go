package assets

import _ "embed"

// DefaultGradients is the built-in gradient list used when no config file
// defines any. It has the same layout as the "gradients" key of config.yaml.
//
//go:embed gradients.yaml
var DefaultGradients []byte
