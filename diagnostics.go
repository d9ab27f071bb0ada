package mappedfile

import zlog "github.com/semihalev/log"

// logCloseError reports a failure encountered while releasing a resource
// during Close/Drop. Such failures have no caller to propagate to, so the
// library documents that a caller wanting a durability guarantee must call
// Sync explicitly beforehand; this is the "diagnostic to a system log"
// fallback for everything else.
func logCloseError(op string, err error) {
	zlog.Warn("mappedfile: error while closing", "op", op, "error", err)
}
