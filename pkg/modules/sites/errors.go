package sites

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
)

// ErrUnknownTool is returned when a call names a tool the module does not provide
var ErrUnknownTool = errors.New("unknown tool")

// ErrorKind classifies a failed tool call
type ErrorKind string

const (
	KindConfiguration       ErrorKind = "configuration"
	KindLocalValidation     ErrorKind = "local_validation"
	KindUpstreamValidation  ErrorKind = "upstream_validation"
	KindNotFound            ErrorKind = "not_found"
	KindAmbiguousIdentifier ErrorKind = "ambiguous_identifier"
	KindServer              ErrorKind = "server_error"
	KindTimeout             ErrorKind = "timeout"
	KindTransport           ErrorKind = "transport"
	KindUnexpectedStatus    ErrorKind = "unexpected_status"
)

func success(text string) Result {
	return Result{Text: text}
}

func failure(kind ErrorKind, text string) Result {
	return Result{Text: text, Kind: kind}
}

func configurationError() Result {
	return failure(KindConfiguration, "Error: MAVERICK_API_TOKEN environment variable not set")
}

func localValidationError(format string, args ...any) Result {
	return failure(KindLocalValidation, "❌ "+fmt.Sprintf(format, args...))
}

func upstreamValidationError(errs []string) Result {
	var b strings.Builder
	b.WriteString("❌ Validation errors:")
	for _, e := range errs {
		b.WriteString("\n• ")
		b.WriteString(e)
	}
	return failure(KindUpstreamValidation, b.String())
}

func notFoundError(identifier string) Result {
	return failure(KindNotFound, "❌ Site not found: "+identifier)
}

func ambiguousIdentifierError() Result {
	return failure(KindAmbiguousIdentifier, "❌ Multiple sites found with the same name. Please use site ID instead.")
}

func serverError() Result {
	return failure(KindServer, "❌ Internal server error occurred")
}

func unexpectedStatusError(resp *ResponseSpec) Result {
	return failure(KindUnexpectedStatus, fmt.Sprintf("❌ Unexpected response: %d - %s", resp.StatusCode, string(resp.Body)))
}

// transportError converts a failed round trip into a result, separating
// timeouts from every other failure.
func transportError(op Operation, err error) Result {
	if isTimeout(err) {
		return failure(KindTimeout, "❌ Request timed out")
	}
	return failure(KindTransport, fmt.Sprintf("❌ Error %s: %v", op.failureVerb(), err))
}

func decodeError(op Operation, err error) Result {
	return failure(KindTransport, fmt.Sprintf("❌ Error %s: failed to decode response: %v", op.failureVerb(), err))
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
