package logger

import (
	"sync"
)

// Component names used by streamkit packages.
const (
	ComponentStream = "stream"
	ComponentPlan   = "plan"
)

var registry = &loggerRegistry{
	loggers: make(map[string]*Logger),
}

type loggerRegistry struct {
	mu      sync.RWMutex
	loggers map[string]*Logger
}

// Register stores a named logger in the registry, replacing any previous one.
func Register(name string, l *Logger) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	registry.loggers[name] = l
}

// Unregister removes a named logger. Later Get calls fall back to the global logger.
func Unregister(name string) {
	registry.mu.Lock()
	defer registry.mu.Unlock()
	delete(registry.loggers, name)
}

// Get retrieves a named logger. If the name is not registered it returns the
// global logger tagged with the requested component name.
func Get(name string) *Logger {
	registry.mu.RLock()
	l, ok := registry.loggers[name]
	registry.mu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers the streamkit component loggers from the global logger.
// Call this after Init.
func RegisterDefaults() {
	for _, name := range []string{ComponentStream, ComponentPlan} {
		Register(name, GetGlobalLogger().WithComponent(name))
	}
}
