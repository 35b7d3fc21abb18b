package sealnote

import "log/slog"

// errAttr returns a log attribute for err, or an empty attribute for nil.
func errAttr(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.String("error", err.Error())
}
