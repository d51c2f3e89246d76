package fs

import (
	"context"
	"strings"
)

// Global
var (
	// globalConfig for devserve
	globalConfig = NewConfig()

	// LogReload is called when the log level changes so the logging
	// backend can follow it.
	//
	// This is a function pointer to decouple the logger
	// implementation from the fs
	LogReload = func(*ConfigInfo) error { return nil }
)

// ConfigInfo is the global config options
type ConfigInfo struct {
	LogLevel   LogLevel
	UseJSONLog bool
}

// NewConfig creates a new config with everything set to the default
// value.  These are the ultimate defaults and are overridden by the
// config module.
func NewConfig() *ConfigInfo {
	c := new(ConfigInfo)

	// Set any values which aren't the zero for the type
	c.LogLevel = LogLevelNotice

	return c
}

type configContextKeyType struct{}

// Context key for config
var configContextKey = configContextKeyType{}

// GetConfig returns the global or context sensitive context
func GetConfig(ctx context.Context) *ConfigInfo {
	if ctx == nil {
		return globalConfig
	}
	c := ctx.Value(configContextKey)
	if c == nil {
		return globalConfig
	}
	return c.(*ConfigInfo)
}

// CopyConfig copies the global config (if any) from srcCtx into
// dstCtx returning the new context.
func CopyConfig(dstCtx, srcCtx context.Context) context.Context {
	if srcCtx == nil {
		return dstCtx
	}
	c := srcCtx.Value(configContextKey)
	if c == nil {
		return dstCtx
	}
	return context.WithValue(dstCtx, configContextKey, c)
}

// AddConfig returns a mutable config structure based on a shallow
// copy of that found in ctx and returns a new context with that added
// to it.
func AddConfig(ctx context.Context) (context.Context, *ConfigInfo) {
	c := GetConfig(ctx)
	cCopy := new(ConfigInfo)
	*cCopy = *c
	newCtx := context.WithValue(ctx, configContextKey, cCopy)
	return newCtx, cCopy
}

// Reload the global config, telling the logger about any changes
func Reload(ctx context.Context) error {
	return LogReload(GetConfig(ctx))
}

// OptionToEnv converts an option name, e.g. "max-header-bytes" into
// an environment name "DEVSERVE_MAX_HEADER_BYTES"
func OptionToEnv(name string) string {
	return "DEVSERVE_" + strings.ToUpper(strings.Replace(name, "-", "_", -1))
}
