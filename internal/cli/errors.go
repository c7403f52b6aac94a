package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/sierrasoftworks/humane-errors-go"
)

// RenderError formats err for the terminal. Humane errors are shown with the
// advice collected from the whole chain and their root causes.
func RenderError(err error) string {
	if err == nil {
		return ""
	}

	var he humane.Error
	if !errors.As(err, &he) {
		return text.FgRed.Sprintf("✖ %s", err.Error())
	}

	var causes []string
	var advice []string
	seen := map[string]bool{}
	for cur := error(he); cur != nil; cur = unwrap(cur) {
		causes = append(causes, cur.Error())

		if adv, ok := cur.(interface{ Advice() []string }); ok {
			for _, tip := range adv.Advice() {
				if !seen[tip] {
					seen[tip] = true
					advice = append(advice, tip)
				}
			}
		}
	}

	var b strings.Builder
	b.WriteString(text.Colors{text.Bold, text.FgRed}.Sprint("✖ " + he.Error()))
	b.WriteString("\n")

	if len(advice) > 0 {
		b.WriteString("\n" + text.Bold.Sprint("What you can do:") + "\n")
		for _, tip := range advice {
			fmt.Fprintf(&b, "  %s %s\n", text.FgBlue.Sprint("•"), tip)
		}
	}

	if len(causes) > 1 {
		b.WriteString("\n" + text.Bold.Sprint("Root causes:") + "\n")
		for _, cause := range causes[1:] {
			fmt.Fprintf(&b, "  %s %s\n", text.FgBlue.Sprint("•"), text.Italic.Sprint(cause))
		}
	}

	return b.String()
}

// ConnectError explains a failure to reach a running server.
func ConnectError(endpoint string, err error) error {
	return humane.Wrap(err,
		fmt.Sprintf("Failed to connect to the pega-mcp server at %s", endpoint),
		"start the server with 'pega-mcp serve'",
		"pass --endpoint if the server listens elsewhere",
		"or run the checks in-process with 'pega-mcp check --local'",
	)
}

// unwrap steps to the next error in the chain through Unwrap or a humane Cause.
func unwrap(err error) error {
	if inner := errors.Unwrap(err); inner != nil {
		return inner
	}
	if c, ok := err.(interface{ Cause() error }); ok {
		return c.Cause()
	}
	return nil
}
