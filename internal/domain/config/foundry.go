package config

// FoundryConfig is the part of foundry.toml the migrator cares about
type FoundryConfig struct {
	RpcEndpoints map[string]string
	Profiles     map[string]ProfileConfig
}

// ProfileConfig holds the build settings of a foundry profile
type ProfileConfig struct {
	Src  string
	Out  string
	Libs []string
}

// OutDir returns the artifacts directory of a profile, falling back to
// the default profile and then to forge's own default
func (c *FoundryConfig) OutDir(profile string) string {
	if p, ok := c.Profiles[profile]; ok && p.Out != "" {
		return p.Out
	}
	if p, ok := c.Profiles["default"]; ok && p.Out != "" {
		return p.Out
	}
	return "out"
}
