package config

// DefaultCoverURL is the path of the bundled fallback cover served by the HTTP layer.
const DefaultCoverURL = "/covers/default"
