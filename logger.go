package cryptofolio

// Logger is the structured logger used across the packages.
//
// The logrus package provides the implementation used by the cfo command.
type Logger interface {
	Debugf(format string, args ...interface{})

	Infof(format string, args ...interface{})

	Warningf(format string, args ...interface{})

	Errorf(format string, args ...interface{})

	WithField(key string, value interface{}) Logger

	WithFields(fields map[string]interface{}) Logger
}

// Discard is a Logger that drops everything.
var Discard Logger = discard{}

type discard struct{}

func (discard) Debugf(string, ...interface{})              {}
func (discard) Infof(string, ...interface{})               {}
func (discard) Warningf(string, ...interface{})            {}
func (discard) Errorf(string, ...interface{})              {}
func (d discard) WithField(string, interface{}) Logger     { return d }
func (d discard) WithFields(map[string]interface{}) Logger { return d }
