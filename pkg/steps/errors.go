package steps

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dukex/iterable-cog/pkg/models"
)

const MsgInvalidCredentials = "Credentials are invalid. Please check them and try again."

type statusCoder interface {
	StatusCode() int
}

// IsUnauthorized reports whether err carries an HTTP 401 status.
func IsUnauthorized(err error) bool {
	var sc statusCoder

	return errors.As(err, &sc) && sc.StatusCode() == http.StatusUnauthorized
}

// UpstreamError classifies an error returned by the upstream client. A 401 is
// reported as a credentials failure, anything else as an error whose message
// is interpolated into format.
func UpstreamError(err error, format string) *models.RunStepResponse {
	if IsUnauthorized(err) {
		return Fail(MsgInvalidCredentials, nil)
	}

	return Error(format, []any{err.Error()})
}

// Diagnostics renders the details of a rejected upstream write.
func Diagnostics(resp *models.APIResponse) string {
	if resp == nil {
		return "empty response"
	}

	if len(resp.Params) > 0 {
		params, err := json.Marshal(resp.Params)
		if err == nil {
			return string(params)
		}
	}

	if resp.Msg != "" {
		return resp.Msg
	}

	return resp.Code
}
