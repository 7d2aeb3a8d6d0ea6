package logger

import "sync"

// components holds loggers registered for a component name.
var components sync.Map

// Register makes Get(component) return l instead of a logger derived from
// the global one.
func Register(component string, l *Logger) {
	components.Store(component, l)
}

// Get returns the logger registered for component, or the global logger
// tagged with component.
func Get(component string) *Logger {
	if l, ok := components.Load(component); ok {
		return l.(*Logger)
	}
	return GetGlobalLogger().WithComponent(component)
}
