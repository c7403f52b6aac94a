// Package api defines the result types shared by the Pega access layer and the
// MCP surface.
//
// Every core operation returns an Outcome: either Success with the text to show
// or a Failure classified by ErrorKind. Failures carry a humane error whose
// advice lines tell the operator what to check:
//
//	f := api.NewFailure(api.KindAuthenticationFailed, "Authentication failed: HTTP 401",
//	    "verify PEGA_CLIENT_ID and PEGA_CLIENT_SECRET")
//	fmt.Println(f.Text())
//
// The MCP surface decides how a Failure is presented: tools return it as an
// error result, resources render it inline.
package api
