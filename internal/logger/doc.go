// Package logger builds the zap loggers used by the docgrab commands.
//
//	log, err := logger.New("debug", "console")
//	if err != nil {
//	    return err
//	}
//	defer log.Sync()
//
// Console output is human readable with ISO8601 timestamps; "json" selects
// zap's production encoder.
package logger
