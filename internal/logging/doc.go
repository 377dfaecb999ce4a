// Package logging provides structured logging for ringtail.
//
// # Basic Usage
//
//	logger, err := logging.NewLogger("/var/tmp/ringtail/ringtail.log", "INFO")
//	if err != nil {
//	    return err
//	}
//	defer logger.Close()
//
//	logger.WithCommand("tail").Info("retained lines", "kept", 50, "dropped", 1200)
//
// Output:
//
//	{"time":"...","level":"INFO","msg":"retained lines","command":"tail","kept":50,"dropped":1200}
//
// An empty path logs to stderr. Use [NopLogger] in tests.
//
// # Reading Logs
//
// [ParseEntry] turns a slog JSON line back into an [Entry]; [Entry.AtLeast]
// compares its level against a minimum. ringtail's tail command uses these
// to apply --level while retaining the last N matching lines.
package logging
