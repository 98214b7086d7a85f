package plugin

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/samber/lo"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/oshokin/check-xups-alarms/internal/catalog"
	"github.com/oshokin/check-xups-alarms/internal/domain/alarm"
)

// Format selects how results are written.
type Format string

const (
	// FormatText prints the status keyword line followed by the message.
	FormatText Format = "text"
	// FormatJSON prints one JSON object.
	FormatJSON Format = "json"
)

// ErrUnknownFormat is returned by ParseFormat for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// ParseFormat validates a format name. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatText:
		return FormatText, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// Render writes result to w.
func Render(w io.Writer, result *alarm.Result, format Format) error {
	if result == nil {
		result = &alarm.Result{Status: alarm.StatusUnknown}
	}

	if format == FormatJSON {
		return renderJSON(w, result)
	}

	body := result.Message
	if body != "" && !strings.HasSuffix(body, "\n") {
		body += "\n"
	}

	if _, err := fmt.Fprintf(w, "%s\n%s", result.Status, body); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// RenderError writes a failed invocation as UNKNOWN with a one-line diagnostic.
func RenderError(w io.Writer, err error, format Format) error {
	return Render(w, &alarm.Result{
		Status:  alarm.StatusUnknown,
		Message: oneLine(err.Error()),
	}, format)
}

// ExitCode maps the outcome of an invocation to the process exit code.
func ExitCode(result *alarm.Result, err error) int {
	if err != nil || result == nil {
		return alarm.StatusUnknown.ExitCode()
	}

	return result.Status.ExitCode()
}

// renderJSON writes result as a protobuf Struct encoded with protojson.
func renderJSON(w io.Writer, result *alarm.Result) error {
	findings := lo.Map(result.Findings, func(f alarm.Finding, _ int) any {
		return map[string]any{
			"status":      f.Status.String(),
			"alarm_id":    f.Alarm.AlarmID,
			"alarm_name":  catalog.Name(f.Alarm.AlarmID),
			"description": f.Description,
			"oid":         f.Alarm.SourceKey,
		}
	})

	payload, err := structpb.NewStruct(map[string]any{
		"status":    result.Status.String(),
		"exit_code": result.Status.ExitCode(),
		"message":   result.Message,
		"present":   result.Present,
		"findings":  findings,
	})
	if err != nil {
		return fmt.Errorf("build result payload: %w", err)
	}

	data, err := protojson.MarshalOptions{UseProtoNames: true}.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}

	if _, err = fmt.Fprintf(w, "%s\n", data); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

// oneLine collapses a multi-line diagnostic.
func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
