package environment

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/template"

	"gopkg.in/yaml.v3"
)

// Format selects how Render writes a record.
type Format string

const (
	FormatJSON       Format = "json"
	FormatYAML       Format = "yaml"
	FormatTypeScript Format = "ts"
)

// Formats lists the supported output formats.
func Formats() []string {
	return []string{string(FormatJSON), string(FormatYAML), string(FormatTypeScript)}
}

var typeScriptTemplate = template.Must(template.New("environment.ts").Funcs(template.FuncMap{
	"quote": quoteTS,
}).Parse(`export const environment = {
  production: {{ .Production }},
  apiServerUrl: {{ quote .APIServerURL }},
  auth0: {
    url: {{ quote .Auth0.URL }},
    audience: {{ quote .Auth0.Audience }},
    clientId: {{ quote .Auth0.ClientID }},
    callbackURL: {{ quote .Auth0.CallbackURL }},
  }
};
`))

// Render writes the record to w. FormatTypeScript produces a module that
// can replace the front-end's environment.ts.
func Render(w io.Writer, r Record, format Format) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(r); err != nil {
			return err
		}
		return enc.Close()
	case FormatTypeScript:
		return typeScriptTemplate.Execute(w, r)
	default:
		return fmt.Errorf("unsupported format %q", string(format))
	}
}

// quoteTS renders a single-quoted TypeScript string literal.
func quoteTS(s string) string {
	q := strconv.Quote(s)
	body := q[1 : len(q)-1]
	out := make([]byte, 0, len(body)+2)
	out = append(out, '\'')
	for i := 0; i < len(body); i++ {
		c := body[i]
		switch {
		case c == '\\' && i+1 < len(body):
			i++
			if body[i] != '"' {
				out = append(out, '\\')
			}
			out = append(out, body[i])
		case c == '\'':
			out = append(out, '\\', '\'')
		default:
			out = append(out, c)
		}
	}
	out = append(out, '\'')
	return string(out)
}
