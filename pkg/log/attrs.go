package log

import (
	"log/slog"
	"time"
)

func Upstream[T ~string](name T) slog.Attr {
	return slog.String("upstream", string(name))
}

func RequestID[T ~string](id T) slog.Attr {
	return slog.String("request_id", string(id))
}

func Status[T ~string](status T) slog.Attr {
	return slog.String("status", string(status))
}

func OrderID[T ~string](id T) slog.Attr {
	return slog.String("order_id", string(id))
}

func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

func Error(err error) slog.Attr {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	return slog.String("error", msg)
}

func ErrorString(msg string) slog.Attr {
	return slog.String("error", msg)
}
