package bus

import "log/slog"

// ErrorHandler is called with every listener failure, after it is logged.
type ErrorHandler func(err *ListenerError)

// Option configures a Bus.
type Option func(*config)

// config contains configuration for the bus.
type config struct {
	// logger receives subscription, dispatch and failure logs.
	logger *slog.Logger

	// errorHandler is called when a listener fails.
	errorHandler ErrorHandler

	// failureReports publishes listener failures on topic.ErrorSystem.
	failureReports bool

	// dispatchLogging logs every publish at debug level.
	dispatchLogging bool
}

// defaultConfig returns the default bus configuration.
func defaultConfig() config {
	return config{
		logger:         slog.Default(),
		failureReports: true,
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithErrorHandler sets a callback for listener failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *config) {
		c.errorHandler = h
	}
}

// WithFailureReports enables or disables publishing an ErrorSystemMessage
// for each listener failure.
func WithFailureReports(enabled bool) Option {
	return func(c *config) {
		c.failureReports = enabled
	}
}

// WithDispatchLogging enables debug logging of every publish.
func WithDispatchLogging(enabled bool) Option {
	return func(c *config) {
		c.dispatchLogging = enabled
	}
}
