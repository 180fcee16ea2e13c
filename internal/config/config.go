// Package config resolves the engine's one piece of external configuration:
// which mapping profile to use (spec.md §6). The choice is read once, at
// first access, and memoised — later calls see the same value regardless of
// the backing config file changing underneath.
package config

import (
	"strings"
	"sync"

	"github.com/spf13/viper"

	"github.com/xidi-go/xidi/internal/core"
)

const profileKey = "profile"

var (
	once           sync.Once
	resolved       *core.Profile
	resolvedName   string
	v              *viper.Viper
)

func newViper() *viper.Viper {
	vp := viper.New()
	vp.SetConfigName("xidi")
	vp.SetConfigType("yaml")
	vp.AddConfigPath(".")
	vp.AddConfigPath("$HOME/.config/xidi")
	vp.SetEnvPrefix("XIDI")
	vp.AutomaticEnv()
	vp.SetDefault(profileKey, core.ProfileXInputNative)
	_ = vp.ReadInConfig() // absent config file is not an error; defaults stand
	return vp
}

// Profile returns the configured mapping profile, resolving it from viper
// on the first call and memoising the result for every subsequent call —
// matching the "read once... memoised cache" wording of §6 exactly.
func Profile() *core.Profile {
	once.Do(func() {
		v = newViper()
		resolvedName = strings.TrimSpace(v.GetString(profileKey))
		resolved = core.LookupProfile(resolvedName)
	})
	return resolved
}

// ProfileName returns the raw configuration value Profile() resolved from,
// for diagnostics — not necessarily a recognised profile name.
func ProfileName() string {
	Profile()
	return resolvedName
}

// SetForTest overrides the memoised profile directly, bypassing viper. It
// exists only to let tests exercise config.Profile()'s consumers without
// touching the filesystem or environment.
func SetForTest(p *core.Profile, name string) {
	once.Do(func() {})
	resolved = p
	resolvedName = name
}
