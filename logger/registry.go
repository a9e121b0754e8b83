package logger

import "sync"

// Components are the names pipekit packages look their loggers up by.
var Components = []string{"pipe", "step", "config", "server"}

var (
	registryMu sync.RWMutex
	registry   = map[string]*Logger{}
)

// Register stores l under name, replacing any earlier logger.
func Register(name string, l *Logger) {
	registryMu.Lock()
	registry[name] = l
	registryMu.Unlock()
}

// Get returns the logger registered under name. Unregistered names get the
// global logger tagged with the name as its component.
func Get(name string) *Logger {
	registryMu.RLock()
	l, ok := registry[name]
	registryMu.RUnlock()
	if ok {
		return l
	}
	return GetGlobalLogger().WithComponent(name)
}

// RegisterDefaults registers a component logger derived from the global
// logger for every name, or for Components when no names are given. Call it
// after Init.
func RegisterDefaults(names ...string) {
	if len(names) == 0 {
		names = Components
	}
	global := GetGlobalLogger()
	for _, name := range names {
		Register(name, global.WithComponent(name))
	}
}
