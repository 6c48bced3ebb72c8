// File: internal/telegram/reporter.go
package telegram

import (
	"fmt"
	"os"
	"time"

	"telegram-mini-bot/internal/infra/metrics"

	"github.com/rs/zerolog"
)

const logSeparator = "----------"

// CallInfo is the context a call site attaches to a failure report. Only
// fields that are safe to ship to the admin channel belong here: never chat
// ids, message text, keyboard payloads or request URLs.
type CallInfo struct {
	Method string
}

// Reporter delivers failure diagnostics to the configured admin chat and/or
// appends them to a plain-text log file. Both sinks are optional and fire
// independently for the same failure.
type Reporter struct {
	adminChatID int64
	logFilePath string
	notify      func(chatID int64, text string) error
	logger      *zerolog.Logger
	now         func() time.Time
}

func NewReporter(adminChatID int64, logFilePath string, logger *zerolog.Logger) *Reporter {
	return &Reporter{
		adminChatID: adminChatID,
		logFilePath: logFilePath,
		logger:      logger,
		now:         time.Now,
	}
}

// BindNotifier wires the raw admin send. Set once during bot construction.
// The notifier must not route its own failure back into the reporter.
func (r *Reporter) BindNotifier(notify func(chatID int64, text string) error) {
	r.notify = notify
}

// ReportEnvelope handles an ok:false response envelope.
func (r *Reporter) ReportEnvelope(info CallInfo, resp *APIResponse) {
	r.deliver(info, fmt.Sprintf("%s: telegram error %d: %s", info.Method, resp.ErrorCode, resp.Description))
}

// ReportHTTPStatus handles a non-2xx response carrying a readable body.
func (r *Reporter) ReportHTTPStatus(info CallInfo, path, body string) {
	r.deliver(info, path+"\n"+body)
}

// ReportError handles transport-level failures: connectivity, encoding,
// malformed responses.
func (r *Reporter) ReportError(info CallInfo, err error) {
	r.deliver(info, fmt.Sprintf("%s: %v", info.Method, err))
}

func (r *Reporter) deliver(info CallInfo, msg string) {
	r.logger.Error().Str("method", info.Method).Msg(msg)

	if r.adminChatID != 0 && r.notify != nil {
		if err := r.notify(r.adminChatID, msg); err != nil {
			// Swallowed: reporting a report failure would loop.
			r.logger.Debug().Err(err).Msg("admin notification failed")
		} else {
			metrics.IncErrorReport("admin")
		}
	}
	if r.logFilePath != "" {
		if err := r.writeLog(msg); err != nil {
			r.logger.Debug().Err(err).Msg("error log write failed")
		} else {
			metrics.IncErrorReport("file")
		}
	}
}

// writeLog appends one block per report: a separator line, a timestamp and
// the diagnostic text. The file is opened and closed per call, never
// truncated.
func (r *Reporter) writeLog(msg string) error {
	f, err := os.OpenFile(r.logFilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = fmt.Fprintf(f, "%s\n%s\n%s\n", logSeparator, r.now().Format(time.ANSIC), msg)
	return err
}
