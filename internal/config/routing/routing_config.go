package routing

// PrivilegedGroup guards Servers behind Keywords: a model proposal for one
// of them only stands when the utterance mentions a keyword.
type PrivilegedGroup struct {
	Name     string   `json:"name"`
	Servers  []string `json:"servers"`
	Keywords []string `json:"keywords"`
}

// RoutingConfig tunes tool selection. Empty fields keep the built-in tables.
type RoutingConfig struct {
	Privileged []PrivilegedGroup `json:"privileged,omitempty"`
	// Domains maps a server name to one of automotive, trainer,
	// strategy-game, utility, filesystem, version-control.
	Domains map[string]string `json:"domains,omitempty"`
}

func DefaultRoutingConfig() RoutingConfig {
	return RoutingConfig{Domains: map[string]string{}}
}
