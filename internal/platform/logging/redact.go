package logging

import (
	"log/slog"
	"regexp"

	"github.com/m-mizutani/masq"
)

// sensitiveFields are attribute and struct field names whose values are never logged.
// Matching is exact, so ids such as session_id stay visible.
var sensitiveFields = []string{
	"password",
	"secret",
	"token",
	"apiKey",
	"api_key",
	"accessToken",
	"access_token",
	"authorization",
	"cookie",
	"credentials",
	"privateKey",
	"private_key",
}

// credentialPattern matches JWTs and bearer/basic authorization values.
var credentialPattern = regexp.MustCompile(`(?i)^(eyJ[\w-]*\.eyJ[\w-]*\.[\w-]*|(bearer|basic)\s+.+)$`)

// RedactOptions returns the masq options applied to every handler.
func RedactOptions() []masq.Option {
	opts := make([]masq.Option, 0, len(sensitiveFields)+2)
	for _, name := range sensitiveFields {
		opts = append(opts, masq.WithFieldName(name))
	}

	return append(opts,
		masq.WithFieldPrefix("secret"),
		masq.WithRegex(credentialPattern),
	)
}

// NewReplaceAttr returns a slog ReplaceAttr hook that redacts secrets.
// extra options are applied on top of RedactOptions.
func NewReplaceAttr(extra ...masq.Option) func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(append(RedactOptions(), extra...)...)
}
